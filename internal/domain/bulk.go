package domain

import "errors"

// BulkResult is the outcome of one item in a batch admin action.
// Batches are never all-or-nothing; each item succeeds or fails on its own.
type BulkResult struct {
	ID    int64  `json:"id"`
	OK    bool   `json:"ok"`
	Kind  Kind   `json:"kind,omitempty"`
	Error string `json:"error,omitempty"`
}

func BulkOK(id int64) BulkResult {
	return BulkResult{ID: id, OK: true}
}

func BulkFailed(id int64, err error) BulkResult {
	r := BulkResult{ID: id, Kind: KindOf(err), Error: "internal error"}
	if r.Kind != KindInternal {
		r.Error = err.Error()
		var de *Error
		if errors.As(err, &de) {
			r.Error = de.Message
		}
	}
	return r
}
