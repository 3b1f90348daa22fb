package pagination

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stravamcp/internal/apperrors"
	"stravamcp/internal/filter"
)

// upstream simulates a paged API over a fixed record set and counts calls.
type upstream struct {
	records []string
	calls   int
}

func (u *upstream) fetch(_ context.Context, page int, perPage int) ([]string, error) {
	u.calls++

	start := (page - 1) * perPage
	if start >= len(u.records) {
		return []string{}, nil
	}
	end := min(start+perPage, len(u.records))
	return u.records[start:end], nil
}

func makeRecords(n int) []string {
	records := make([]string, n)
	for i := range records {
		records[i] = "rec-" + strconv.Itoa(i)
	}
	return records
}

func mustSpec(t *testing.T, distance, title string, isRace *bool) filter.Spec {
	t.Helper()
	spec, err := filter.New(distance, title, isRace)
	require.NoError(t, err)
	return spec
}

func TestCollectUnfilteredWalk(t *testing.T) {
	ctx := context.Background()
	records := makeRecords(25)

	t.Run("first page has more", func(t *testing.T) {
		u := &upstream{records: records}

		page, err := Collect(ctx, Request{PageIndex: 0, PageSize: 10}, u.fetch, nil)

		require.NoError(t, err)
		assert.Equal(t, records[0:10], page.Items)
		assert.True(t, page.HasMore)
		assert.NotEmpty(t, page.NextCursor)
	})

	t.Run("middle page resumes via cursor", func(t *testing.T) {
		u := &upstream{records: records}
		first, err := Collect(ctx, Request{PageIndex: 0, PageSize: 10}, u.fetch, nil)
		require.NoError(t, err)

		pageIndex, filters, err := DecodeCursor(first.NextCursor)
		require.NoError(t, err)
		require.Equal(t, 1, pageIndex)

		page, err := Collect(ctx, Request{PageIndex: pageIndex, PageSize: 10, Filters: filters}, u.fetch, nil)

		require.NoError(t, err)
		assert.Equal(t, records[10:20], page.Items)
		assert.True(t, page.HasMore)
	})

	t.Run("final short page", func(t *testing.T) {
		u := &upstream{records: records}

		page, err := Collect(ctx, Request{PageIndex: 2, PageSize: 10}, u.fetch, nil)

		require.NoError(t, err)
		assert.Equal(t, records[20:25], page.Items)
		assert.False(t, page.HasMore)
		assert.Empty(t, page.NextCursor)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		u := &upstream{records: records}

		page, err := Collect(ctx, Request{PageIndex: 5, PageSize: 10}, u.fetch, nil)

		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.False(t, page.HasMore)
	})
}

func TestCollectFilteredWalk(t *testing.T) {
	ctx := context.Background()
	// 40 records, every fourth one matches: 10 matches total.
	records := makeRecords(40)
	match := func(r string) bool {
		n, _ := strconv.Atoi(r[len("rec-"):])
		return n%4 == 0
	}
	filters := mustSpec(t, "5k", "", nil)

	t.Run("matches gathered across upstream pages", func(t *testing.T) {
		u := &upstream{records: records}

		page, err := Collect(ctx, Request{PageIndex: 0, PageSize: 3, Filters: filters}, u.fetch, match)

		require.NoError(t, err)
		assert.Equal(t, []string{"rec-0", "rec-4", "rec-8"}, page.Items)
		assert.True(t, page.HasMore)
		// Filtered walks are capped at 5 upstream calls even though the
		// record set spans more pages of size 3.
		assert.LessOrEqual(t, u.calls, 5)
	})

	t.Run("call cap truncates the walk", func(t *testing.T) {
		u := &upstream{records: records}

		// 5 calls of size 3 scan records 0..14, which hold matches
		// rec-0, rec-4, rec-8, rec-12. Page 1 of size 3 needs 7
		// accepted records and cannot get them.
		page, err := Collect(ctx, Request{PageIndex: 1, PageSize: 3, Filters: filters}, u.fetch, match)

		require.NoError(t, err)
		assert.Equal(t, []string{"rec-12"}, page.Items)
		assert.False(t, page.HasMore)
		assert.Equal(t, 5, u.calls)
	})

	t.Run("filtered flag caps the walk without cursor filters", func(t *testing.T) {
		u := &upstream{records: records}

		// A match func narrowing the walk outside the filter spec still
		// gets the filtered call cap.
		page, err := Collect(ctx, Request{PageIndex: 1, PageSize: 3, Filtered: true}, u.fetch, match)

		require.NoError(t, err)
		assert.Equal(t, []string{"rec-12"}, page.Items)
		assert.Equal(t, 5, u.calls)
	})

	t.Run("deterministic against unchanged upstream", func(t *testing.T) {
		first, err := Collect(ctx, Request{PageIndex: 0, PageSize: 3, Filters: filters}, (&upstream{records: records}).fetch, match)
		require.NoError(t, err)
		second, err := Collect(ctx, Request{PageIndex: 0, PageSize: 3, Filters: filters}, (&upstream{records: records}).fetch, match)
		require.NoError(t, err)

		assert.Equal(t, first.Items, second.Items)
		assert.Equal(t, first.NextCursor, second.NextCursor)
	})
}

func TestCollectDeepFilteredPageRejected(t *testing.T) {
	filters := mustSpec(t, "10km", "", nil)
	u := &upstream{records: makeRecords(10)}

	_, err := Collect(context.Background(), Request{PageIndex: 11, PageSize: 5, Filters: filters}, u.fetch, func(string) bool { return true })

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDeepPagination)
	assert.Zero(t, u.calls)
}

func TestCollectUnfilteredCallCap(t *testing.T) {
	u := &upstream{records: makeRecords(200)}

	// Page 15 of size 1 needs 17 records but 10 calls of size 1 only
	// yield 10.
	page, err := Collect(context.Background(), Request{PageIndex: 15, PageSize: 1}, u.fetch, nil)

	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
	assert.Equal(t, 10, u.calls)
}

func TestCollectPropagatesFetchError(t *testing.T) {
	fetchErr := apperrors.New(apperrors.ErrTransport, "upstream unreachable")
	fetch := func(context.Context, int, int) ([]string, error) {
		return nil, fetchErr
	}

	_, err := Collect(context.Background(), Request{PageIndex: 0, PageSize: 10}, fetch, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTransport)
}

func TestCollectRejectsBadRequest(t *testing.T) {
	u := &upstream{records: makeRecords(5)}

	t.Run("negative page index", func(t *testing.T) {
		_, err := Collect(context.Background(), Request{PageIndex: -1, PageSize: 10}, u.fetch, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCursor)
	})

	t.Run("zero page size", func(t *testing.T) {
		_, err := Collect(context.Background(), Request{PageIndex: 0, PageSize: 0}, u.fetch, nil)

		require.Error(t, err)
	})
}
