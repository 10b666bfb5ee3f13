package billy

import (
	"context"
)

// PageFetcher fetches one page of a collection. A nil params means the first
// request, which carries no offset/limit so the server's defaults apply.
type PageFetcher[T any] func(ctx context.Context, params *ListParams) (*Page[T], error)

// PageIterator walks a paginated collection page by page. The next window is
// always derived from the previous response's own offset and limit rather
// than a client-side counter, so the walk terminates correctly even if the
// server changes its effective page size mid-stream. Iteration stops at the
// first page with no items.
type PageIterator[T any] struct {
	ctx    context.Context
	fetch  PageFetcher[T]
	buffer []T
	next   *ListParams
	done   bool
	err    error
}

// NewPageIterator creates an iterator over the collection served by fetch.
func NewPageIterator[T any](ctx context.Context, fetch PageFetcher[T]) *PageIterator[T] {
	return &PageIterator[T]{
		ctx:   ctx,
		fetch: fetch,
	}
}

// HasNext reports whether another item is available. It may perform a page
// request; a request failure also makes HasNext return true so the error
// surfaces from the following Next call.
func (it *PageIterator[T]) HasNext() bool {
	it.fill()

	return len(it.buffer) > 0 || it.err != nil
}

// Next returns the next item in server order.
func (it *PageIterator[T]) Next() (T, error) {
	var zero T

	it.fill()

	if it.err != nil {
		err := it.err
		it.err = nil

		return zero, err
	}

	if len(it.buffer) == 0 {
		return zero, ErrNoMoreItems
	}

	item := it.buffer[0]
	it.buffer = it.buffer[1:]

	return item, nil
}

// All fetches every remaining page eagerly and returns the concatenated
// items. Any page failure aborts the whole listing.
func (it *PageIterator[T]) All() ([]T, error) {
	var items []T

	for {
		it.fill()

		if it.err != nil {
			err := it.err
			it.err = nil

			return nil, err
		}

		if len(it.buffer) == 0 {
			return items, nil
		}

		items = append(items, it.buffer...)
		it.buffer = nil
	}
}

// fill fetches pages until the buffer has items, the collection is
// exhausted, or a request fails.
func (it *PageIterator[T]) fill() {
	for len(it.buffer) == 0 && !it.done && it.err == nil {
		page, err := it.fetch(it.ctx, it.next)
		if err != nil {
			it.err = err
			it.done = true

			return
		}

		if len(page.Items) == 0 {
			it.done = true

			return
		}

		it.buffer = append(it.buffer, page.Items...)
		it.next = NewListParams().WithWindow(page.Offset+page.Limit, page.Limit)
	}
}
