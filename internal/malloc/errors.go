package malloc

import "fmt"

// AllocError reports a failure to satisfy an Alloc or Realloc request.
// Invalid-input cases (zero size, freeing a nil pointer) are never
// surfaced as an AllocError — those are handled locally by returning
// 0/no-op, not by producing an error value.
type AllocError struct {
	Op      string
	Size    uint32
	Message string
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("malloc error [%s]: %s (size=%d)", e.Op, e.Message, e.Size)
}

func outOfMemory(op string, size uint32) error {
	return &AllocError{Op: op, Size: size, Message: "no suitable block and arena extension failed"}
}
