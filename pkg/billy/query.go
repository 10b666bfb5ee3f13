package billy

import (
	"net/url"
	"strconv"
)

// ListParams is the offset/limit window for a list request. Nil fields are
// omitted from the query string, letting the server apply its defaults.
type ListParams struct {
	Offset *int
	Limit  *int
}

// NewListParams creates empty list parameters.
func NewListParams() *ListParams {
	return &ListParams{}
}

// WithWindow sets both offset and limit.
func (p *ListParams) WithWindow(offset, limit int) *ListParams {
	p.Offset = &offset
	p.Limit = &limit

	return p
}

// ToValues converts the parameters to URL query values.
func (p *ListParams) ToValues() url.Values {
	values := url.Values{}

	if p.Offset != nil {
		values.Set("offset", strconv.Itoa(*p.Offset))
	}

	if p.Limit != nil {
		values.Set("limit", strconv.Itoa(*p.Limit))
	}

	return values
}
