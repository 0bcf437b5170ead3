package realtime

import (
	"time"

	"github.com/google/uuid"
)

const EventImportProgress = "import.progress"

// ProgressMessage reports one committed import chunk.
type ProgressMessage struct {
	Event     string    `json:"event"`
	RunID     uuid.UUID `json:"run_id"`
	Kind      string    `json:"kind"`
	Chunk     int       `json:"chunk"`
	Rows      int       `json:"rows"`
	Processed int       `json:"processed"`
	Committed int       `json:"committed"`
	Total     int       `json:"total"`
	CallerID  uuid.UUID `json:"caller_id"`
	At        time.Time `json:"at"`
}
