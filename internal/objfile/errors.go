package objfile

import (
	"errors"
	"fmt"
)

var (
	ErrBadMagic         = errors.New("bad magic number")
	ErrTruncated        = errors.New("truncated file")
	ErrBadReferenceType = errors.New("unknown reference type")
)

// Stage names the part of the object file being read when loading failed.
type Stage string

const (
	StageHeader      Stage = "header"
	StageText        Stage = "text"
	StageData        Stage = "data"
	StageRelocations Stage = "relocation"
	StageSymbols     Stage = "symbols"
)

// FormatError reports an object file that cannot be loaded. Expected and
// Actual are byte counts for truncation errors and raw values otherwise.
type FormatError struct {
	Stage    Stage
	Offset   int64
	Expected int64
	Actual   int64
	Err      error
}

func (e *FormatError) Error() string {
	switch {
	case errors.Is(e.Err, ErrTruncated):
		return fmt.Sprintf("%s at offset %d: %v: expected %d bytes, got %d",
			e.Stage, e.Offset, e.Err, e.Expected, e.Actual)
	case errors.Is(e.Err, ErrBadMagic):
		return fmt.Sprintf("%s: %v: expected 0x%04X, got 0x%X", e.Stage, e.Err, e.Expected, e.Actual)
	default:
		return fmt.Sprintf("%s at offset %d: %v: %d", e.Stage, e.Offset, e.Err, e.Actual)
	}
}

func (e *FormatError) Unwrap() error { return e.Err }
