package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const base36Digits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DateCode encodes a date as 4 characters: year-2000 and month as single base-36 digits,
// then the two-digit day of month. 2025-01-13 encodes as "P113".
func DateCode(t time.Time) (string, error) {
	y := t.Year() - 2000
	if y < 0 || y >= len(base36Digits) {
		return "", fmt.Errorf("date code: year %d out of range", t.Year())
	}
	return fmt.Sprintf("%c%c%02d", base36Digits[y], base36Digits[int(t.Month())], t.Day()), nil
}

// ParseDateCode is the inverse of DateCode.
func ParseDateCode(code string) (time.Time, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 4 {
		return time.Time{}, fmt.Errorf("date code %q: want 4 characters", code)
	}
	y := strings.IndexByte(base36Digits, code[0])
	m := strings.IndexByte(base36Digits, code[1])
	d, err := strconv.Atoi(code[2:])
	if y < 0 || m < 1 || m > 12 || err != nil || d < 1 || d > 31 {
		return time.Time{}, fmt.Errorf("date code %q: invalid", code)
	}
	t := time.Date(2000+y, time.Month(m), d, 0, 0, 0, 0, time.Local)
	if t.Day() != d {
		return time.Time{}, fmt.Errorf("date code %q: invalid day", code)
	}
	return t, nil
}
