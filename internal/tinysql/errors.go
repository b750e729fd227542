package tinysql

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrCorruptFile      = errors.New("db file size is not divisible by page size")
	ErrCorruptPage      = errors.New("corrupt page")
	ErrPageOutOfBounds  = errors.New("page index out of bounds")
	ErrPageNotCached    = errors.New("page not cached")
	ErrTableFull        = errors.New("table full")
	ErrInternalNodeFull = errors.New("internal node full, splitting internal nodes is not supported")
	ErrChildOutOfRange  = errors.New("child index out of range")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrTableClosed      = errors.New("table closed")
)

// IOError is returned when the backing file fails a read, write, seek or close.
type IOError struct {
	Op   string
	Page PageIndex
	Err  error
}

func (e *IOError) Error() string {
	if e.Page == NoPage {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s page %d: %v", e.Op, e.Page, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
