// Package pagination re-derives deterministic result pages on top of an
// upstream source that only paginates unfiltered, and encodes the position
// into opaque cursors handed back to the caller.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"stravamcp/internal/apperrors"
	"stravamcp/internal/filter"
)

// cursorPayload is the wire form of a cursor. Filters are embedded so a
// cursor alone is enough to resume the query.
type cursorPayload struct {
	Page    int         `json:"page"`
	Filters filter.Spec `json:"filters"`
}

// EncodeCursor packs a page index and the active filters into an opaque
// urlsafe string. Identical inputs always encode identically.
func EncodeCursor(pageIndex int, filters filter.Spec) string {
	data, err := json.Marshal(cursorPayload{Page: pageIndex, Filters: filters})
	if err != nil {
		// cursorPayload marshals unconditionally; keep the signature clean
		panic(fmt.Sprintf("cursor encoding: %v", err))
	}
	return base64.URLEncoding.EncodeToString(data)
}

// DecodeCursor is the inverse of EncodeCursor. Anything that is not a valid
// cursor fails with apperrors.ErrInvalidCursor.
func DecodeCursor(cursor string) (int, filter.Spec, error) {
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, filter.Spec{}, apperrors.Wrap(apperrors.ErrInvalidCursor, "cursor is not valid base64", err)
	}

	var payload cursorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return 0, filter.Spec{}, apperrors.Wrap(apperrors.ErrInvalidCursor, "cursor payload is not valid JSON", err)
	}
	if payload.Page < 0 {
		return 0, filter.Spec{}, apperrors.New(apperrors.ErrInvalidCursor, fmt.Sprintf("cursor page index is negative: %d", payload.Page))
	}

	return payload.Page, payload.Filters, nil
}

// ResolvePage turns an optional incoming cursor into the page index for this
// call. An empty cursor means page 0. A cursor whose embedded filters differ
// from the filters supplied now is rejected: pagination must not silently
// continue under changed filter semantics.
func ResolvePage(cursor string, filters filter.Spec) (int, error) {
	if cursor == "" {
		return 0, nil
	}

	pageIndex, embedded, err := DecodeCursor(cursor)
	if err != nil {
		return 0, err
	}

	if !embedded.Equal(filters) {
		return 0, &apperrors.Error{
			Kind:    apperrors.ErrCursorFilterMismatch,
			Message: "cursor was issued for a different filter set",
			Hint:    "restart the query without a cursor",
		}
	}

	return pageIndex, nil
}
