package pagination

import (
	"context"
	"fmt"

	"stravamcp/internal/apperrors"
	"stravamcp/internal/filter"
)

const (
	// Upstream call caps per logical request. Filtering can only discard
	// records, so a filtered walk gets the tighter bound.
	maxUpstreamCallsUnfiltered = 10
	maxUpstreamCallsFiltered   = 5

	// Deepest page index a filtered query may request. Every page is
	// re-derived from upstream page 1, so deep filtered pages multiply
	// upstream traffic for results that mostly get skipped.
	maxFilteredPageIndex = 10
)

// FetchFunc returns one upstream page. Pages are 1-indexed, as the upstream
// API counts them.
type FetchFunc[T any] func(ctx context.Context, page int, perPage int) ([]T, error)

// Request describes the page the caller wants
type Request struct {
	PageIndex int
	PageSize  int
	Filters   filter.Spec

	// Filtered applies the filtered walk caps even when Filters is empty.
	// Set when the match func narrows the walk beyond the cursor filters.
	Filtered bool
}

// Page is one trimmed result page. NextCursor is set only when the lookahead
// record was obtained.
type Page[T any] struct {
	Items      []T
	HasMore    bool
	NextCursor string
}

// Collect walks upstream pages from the beginning, applies match to every
// record and accumulates accepted ones until the requested page plus one
// lookahead record is covered, or the upstream is exhausted, or the call cap
// is hit.
//
// The walk always restarts from upstream page 1 regardless of the requested
// page index: how many accepted records an upstream page yields is unknowable
// in advance, so there is no upstream position that "page N" could resume
// from. This keeps page contents reproducible across calls against an
// unchanged upstream.
func Collect[T any](ctx context.Context, req Request, fetch FetchFunc[T], match func(T) bool) (Page[T], error) {
	if req.PageIndex < 0 {
		return Page[T]{}, apperrors.New(apperrors.ErrInvalidCursor, fmt.Sprintf("page index is negative: %d", req.PageIndex))
	}
	if req.PageSize < 1 {
		return Page[T]{}, fmt.Errorf("page size must be positive, got %d", req.PageSize)
	}

	filtered := req.Filtered || !req.Filters.IsZero()

	maxCalls := maxUpstreamCallsUnfiltered
	if filtered {
		maxCalls = maxUpstreamCallsFiltered

		if req.PageIndex > maxFilteredPageIndex {
			return Page[T]{}, &apperrors.Error{
				Kind:    apperrors.ErrDeepPagination,
				Message: fmt.Sprintf("filtered queries support at most page index %d, got %d", maxFilteredPageIndex, req.PageIndex),
				Hint:    "narrow the filters instead of paging deeper",
			}
		}
	}

	skip := req.PageIndex * req.PageSize
	// One record beyond the page is the lookahead: fetched to decide
	// has_more, never returned.
	need := skip + req.PageSize + 1

	accepted := make([]T, 0, req.PageSize+1)

	for call := 0; call < maxCalls && len(accepted) < need; call++ {
		batch, err := fetch(ctx, call+1, req.PageSize)
		if err != nil {
			return Page[T]{}, err
		}

		for _, record := range batch {
			if match != nil && !match(record) {
				continue
			}
			accepted = append(accepted, record)
			if len(accepted) == need {
				break
			}
		}

		if len(batch) < req.PageSize {
			break // upstream exhausted
		}
	}

	var items []T
	if skip < len(accepted) {
		items = accepted[skip:min(skip+req.PageSize, len(accepted))]
	} else {
		items = []T{}
	}

	hasMore := len(accepted) >= need

	page := Page[T]{Items: items, HasMore: hasMore}
	if hasMore {
		page.NextCursor = EncodeCursor(req.PageIndex+1, req.Filters)
	}

	return page, nil
}
