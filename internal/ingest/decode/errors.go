package decode

import "fmt"

// RowError is a per-row structural problem. The row is dropped and the batch continues.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Message)
}

// EmptyBatchError is returned when not a single row survived decoding.
type EmptyBatchError struct {
	First string
}

func (e *EmptyBatchError) Error() string {
	detail := e.First
	if detail == "" {
		detail = "check column headers"
	}
	return "no valid rows: " + detail
}

// ValidationError rejects the whole request (unreadable workbook, body that is not an array).
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }
