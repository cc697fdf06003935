package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ParseBool parses "true" or "false" case-insensitively.
// Blank input yields ok == false and no error; anything else is an error.
func ParseBool(s string) (value bool, ok bool, err error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return false, false, nil
	case strings.EqualFold(s, "true"):
		return true, true, nil
	case strings.EqualFold(s, "false"):
		return false, true, nil
	default:
		return false, false, fmt.Errorf("invalid boolean %q (expected true or false)", s)
	}
}

// ParseInt parses a base-10 int64. Blank input yields ok == false and no error.
func ParseInt(s string) (value int64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	value, err = strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid integer %q", s)
	}
	return value, true, nil
}
