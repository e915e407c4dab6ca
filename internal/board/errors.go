package board

import (
	"errors"
	"fmt"
	"image"
	"slices"
	"strings"
)

// ErrInvalidBoard wraps board file problems that are not covered by the
// more specific error types below.
var ErrInvalidBoard = errors.New("invalid board")

// WrongTileCountError reports a tile list that does not fill the grid.
type WrongTileCountError struct {
	Expected int
	Actual   int
}

func (e *WrongTileCountError) Error() string {
	return fmt.Sprintf("wrong number of tiles: expected %d, actual %d", e.Expected, e.Actual)
}

// NumberingError reports tiles that are not numbered 1..n exactly once.
// Unexpected holds duplicates and out-of-range numbers, Missing the gaps
// they leave.
type NumberingError struct {
	Unexpected []int
	Missing    []int
}

func (e *NumberingError) Error() string {
	return fmt.Sprintf("tiles must be consecutively numbered from 1: unexpected %s, missing %s",
		joinNumbers(e.Unexpected), joinNumbers(e.Missing))
}

// InvalidDimensionsError reports a content rectangle the background or grid cannot support.
type InvalidDimensionsError struct {
	Width       int
	Height      int
	ContentRect image.Rectangle
	Reason      string
}

func (e *InvalidDimensionsError) Error() string {
	return fmt.Sprintf("invalid dimensions: %dpx x %dpx image cannot support content rectangle %v: %s",
		e.Width, e.Height, e.ContentRect, e.Reason)
}

func joinNumbers(n []int) string {
	n = slices.Clone(n)
	slices.Sort(n)
	parts := make([]string, len(n))
	for i, v := range n {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
