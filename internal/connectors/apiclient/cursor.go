package apiclient

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidCursor indicates a page cursor that is not a positive page number.
var ErrInvalidCursor = errors.New("invalid cursor format")

// ParsePageCursor decodes a page-number cursor. An empty cursor is page 1.
func ParsePageCursor(cursor string) (int, error) {
	if cursor == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(cursor)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	return page, nil
}

// PageCursor encodes a page number as a cursor.
func PageCursor(page int) string {
	return strconv.Itoa(page)
}
