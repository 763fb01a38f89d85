package compose

import "fmt"

// ComposeError reports a composition that had to be aborted. A required
// field that resolved to empty is fatal: emitting a structurally incomplete
// message would poison every downstream validation.
type ComposeError struct {
	FieldPath string
	Reason    string
}

func (e *ComposeError) Error() string {
	if e.FieldPath == "" {
		return "compose: " + e.Reason
	}
	return fmt.Sprintf("compose: field %s: %s", e.FieldPath, e.Reason)
}
