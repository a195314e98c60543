package numbering

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidNumber = errors.New("invalid shot number")

// FormatCode renders the display code of a child, e.g. scene 3 shot 12 -> "3-12".
func FormatCode(parent, child int) string {
	return strconv.Itoa(parent) + "-" + strconv.Itoa(child)
}

// ParsePinnedNumber reads a user-entered pin. Blank input means "unpin" and
// yields nil.
func ParsePinnedNumber(input string) (*int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, ErrInvalidNumber
	}
	return &n, nil
}
