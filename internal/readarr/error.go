package readarr

import "fmt"

// Error is the unified error type for all backend failures. Status carries
// the remote HTTP status when the backend answered; it is zero for
// transport-level failures (DNS, connection refused, timeout), so callers
// can tell the two apart without distinguishing them structurally.
type Error struct {
	Message string
	Status  int
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("readarr: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("readarr: %s", e.Message)
}
