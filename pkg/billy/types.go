package billy

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Resource holds the fields common to every Billy entity, plus the full
// decoded JSON object the server returned. Typed fields cover the documented
// schema; Field and HasField read anything else the server included.
type Resource struct {
	GUID      string    `json:"guid"                 yaml:"guid"`
	CreatedAt Timestamp `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt Timestamp `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`

	raw map[string]interface{}
}

// Field returns the raw JSON value for name as the server sent it.
// Unknown names fail with an error wrapping ErrFieldNotFound, so callers can
// distinguish a missing field from a present-but-empty one.
func (r *Resource) Field(name string) (interface{}, error) {
	value, ok := r.raw[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}

	return value, nil
}

// HasField reports whether the server response contained the named field.
func (r *Resource) HasField(name string) bool {
	_, ok := r.raw[name]

	return ok
}

// RawFields returns a copy of the full field mapping from the server.
func (r *Resource) RawFields() map[string]interface{} {
	fields := make(map[string]interface{}, len(r.raw))
	for key, value := range r.raw {
		fields[key] = value
	}

	return fields
}

// describe renders "<Kind {k1: v1, k2: v2}>" with keys sorted, so the output
// is deterministic regardless of map iteration order.
func (r *Resource) describe(kind string) string {
	keys := make([]string, 0, len(r.raw))
	for key := range r.raw {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	var builder strings.Builder

	builder.WriteString("<")
	builder.WriteString(kind)
	builder.WriteString(" {")

	for i, key := range keys {
		if i > 0 {
			builder.WriteString(", ")
		}

		fmt.Fprintf(&builder, "%s: %v", key, r.raw[key])
	}

	builder.WriteString("}>")

	return builder.String()
}

// setRaw installs the full decoded object. Used by entity UnmarshalJSON.
func (r *Resource) setRaw(raw map[string]interface{}) {
	r.raw = raw
}

// Timestamp is a time.Time that accepts the timestamp formats the Billy
// server emits: RFC3339 or a bare ISO-8601 value without a zone offset.
type Timestamp struct {
	time.Time
}

const isoNoZone = "2006-01-02T15:04:05.999999"

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string

	err := json.Unmarshal(data, &s)
	if err != nil {
		return fmt.Errorf("parsing timestamp: %w", err)
	}

	if s == "" {
		t.Time = time.Time{}

		return nil
	}

	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.Parse(isoNoZone, s)
		if err != nil {
			return fmt.Errorf("parsing timestamp %q: %w", s, err)
		}
	}

	t.Time = parsed

	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}

	data, err := json.Marshal(t.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("formatting timestamp: %w", err)
	}

	return data, nil
}

// Company is a billing company, the account-level entity that owns customers
// and plans.
type Company struct {
	Resource

	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// UnmarshalJSON decodes the typed fields and retains the raw object.
func (c *Company) UnmarshalJSON(data []byte) error {
	type alias Company

	var decoded alias

	err := json.Unmarshal(data, &decoded)
	if err != nil {
		return fmt.Errorf("parsing company: %w", err)
	}

	*c = Company(decoded)

	return unmarshalRaw(data, &c.Resource)
}

func (c *Company) String() string {
	return c.describe("Company")
}

// Customer is a billing customer belonging to a company.
type Customer struct {
	Resource

	ExternalID  string `json:"external_id,omitempty"  yaml:"external_id,omitempty"`
	CompanyGUID string `json:"company_guid,omitempty" yaml:"company_guid,omitempty"`
	Deleted     bool   `json:"deleted,omitempty"      yaml:"deleted,omitempty"`
}

// UnmarshalJSON decodes the typed fields and retains the raw object.
func (c *Customer) UnmarshalJSON(data []byte) error {
	type alias Customer

	var decoded alias

	err := json.Unmarshal(data, &decoded)
	if err != nil {
		return fmt.Errorf("parsing customer: %w", err)
	}

	*c = Customer(decoded)

	return unmarshalRaw(data, &c.Resource)
}

func (c *Customer) String() string {
	return c.describe("Customer")
}

// PlanType is the charging direction of a plan.
type PlanType string

// Plan types.
const (
	// PlanTypeCharge debits the customer each period.
	PlanTypeCharge PlanType = "charge"
	// PlanTypePayout credits the customer each period.
	PlanTypePayout PlanType = "payout"
)

// AllPlanTypes lists every valid plan type.
var AllPlanTypes = []PlanType{PlanTypeCharge, PlanTypePayout}

// Frequency is the recurrence interval of a plan.
type Frequency string

// Plan frequencies.
const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// AllFrequencies lists every valid frequency.
var AllFrequencies = []Frequency{
	FrequencyDaily,
	FrequencyWeekly,
	FrequencyMonthly,
	FrequencyYearly,
}

// Plan is a recurring charge or payout schedule.
type Plan struct {
	Resource

	PlanType    PlanType  `json:"plan_type,omitempty"    yaml:"plan_type,omitempty"`
	Frequency   Frequency `json:"frequency,omitempty"    yaml:"frequency,omitempty"`
	Amount      int       `json:"amount,omitempty"       yaml:"amount,omitempty"`
	Interval    int       `json:"interval,omitempty"     yaml:"interval,omitempty"`
	CompanyGUID string    `json:"company_guid,omitempty" yaml:"company_guid,omitempty"`
	Deleted     bool      `json:"deleted,omitempty"      yaml:"deleted,omitempty"`
}

// UnmarshalJSON decodes the typed fields and retains the raw object.
func (p *Plan) UnmarshalJSON(data []byte) error {
	type alias Plan

	var decoded alias

	err := json.Unmarshal(data, &decoded)
	if err != nil {
		return fmt.Errorf("parsing plan: %w", err)
	}

	*p = Plan(decoded)

	return unmarshalRaw(data, &p.Resource)
}

func (p *Plan) String() string {
	return p.describe("Plan")
}

// Subscription binds a customer to a plan. The data is a snapshot from
// fetch or creation time; cancellation returns a fresh snapshot.
type Subscription struct {
	Resource

	PlanGUID          string    `json:"plan_guid,omitempty"           yaml:"plan_guid,omitempty"`
	CustomerGUID      string    `json:"customer_guid,omitempty"       yaml:"customer_guid,omitempty"`
	PaymentURI        string    `json:"payment_uri,omitempty"         yaml:"payment_uri,omitempty"`
	Amount            int       `json:"amount,omitempty"              yaml:"amount,omitempty"`
	Period            int       `json:"period,omitempty"              yaml:"period,omitempty"`
	Canceled          bool      `json:"canceled,omitempty"            yaml:"canceled,omitempty"`
	CanceledAt        Timestamp `json:"canceled_at,omitempty"         yaml:"canceled_at,omitempty"`
	StartedAt         Timestamp `json:"started_at,omitempty"          yaml:"started_at,omitempty"`
	NextTransactionAt Timestamp `json:"next_transaction_at,omitempty" yaml:"next_transaction_at,omitempty"`
}

// UnmarshalJSON decodes the typed fields and retains the raw object.
func (s *Subscription) UnmarshalJSON(data []byte) error {
	type alias Subscription

	var decoded alias

	err := json.Unmarshal(data, &decoded)
	if err != nil {
		return fmt.Errorf("parsing subscription: %w", err)
	}

	*s = Subscription(decoded)

	return unmarshalRaw(data, &s.Resource)
}

func (s *Subscription) String() string {
	return s.describe("Subscription")
}

func unmarshalRaw(data []byte, resource *Resource) error {
	var raw map[string]interface{}

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("parsing raw fields: %w", err)
	}

	resource.setRaw(raw)

	return nil
}

// Page is one page of a paginated list response. Offset and Limit echo the
// window the server actually applied, which may differ from what the client
// asked for.
type Page[T any] struct {
	Offset int `json:"offset" yaml:"offset"`
	Limit  int `json:"limit"  yaml:"limit"`
	Items  []T `json:"items"  yaml:"items"`
}

// CustomerCreateRequest holds the fields for creating a customer. A nil
// ExternalID omits the field from the request entirely.
type CustomerCreateRequest struct {
	ExternalID *string
}

// PlanCreateRequest holds the fields for creating a plan. All four fields
// are always submitted; a zero Interval is submitted as 1.
type PlanCreateRequest struct {
	PlanType  PlanType
	Frequency Frequency
	Amount    int
	Interval  int
}

// SubscribeRequest holds the optional fields for subscribing a customer to a
// plan. Nil pointers are omitted from the request body, never sent empty.
// The server distinguishes "not provided" from "provided as empty".
type SubscribeRequest struct {
	CustomerGUID string
	PaymentURI   *string
	Amount       *int
	StartedAt    *time.Time
}

// CancelRequest holds the optional refund fields for canceling a
// subscription. ProratedRefund is submitted as "1" only when true;
// RefundAmount only when set and non-zero.
type CancelRequest struct {
	ProratedRefund bool
	RefundAmount   *int
}
