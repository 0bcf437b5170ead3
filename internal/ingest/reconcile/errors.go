package reconcile

import (
	"fmt"

	"github.com/yungbote/lims-backend/internal/ingest/decode"
)

// PersistenceError aborts a run. Chunks before Chunk stay committed; Committed counts their rows.
type PersistenceError struct {
	Kind      decode.Kind
	Chunk     int
	Committed int
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s import failed in chunk %d after %d committed rows: %v", e.Kind, e.Chunk, e.Committed, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// rowFailure tags a statement error with the 1-based input row that caused it.
type rowFailure struct {
	row int
	err error
}

func (f *rowFailure) Error() string { return fmt.Sprintf("row %d: %v", f.row, f.err) }

func (f *rowFailure) Unwrap() error { return f.err }
