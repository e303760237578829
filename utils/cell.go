package utils

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var dateLayouts = []string{
	DateLayout, "2006/01/02", "2006.01.02",
	"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006",
	"02.01.2006", "2.1.2006",
	"01-02-06", "1-2-06", "1/2/06",
	"Jan 2, 2006", "2 Jan 2006", "2-Jan-06", "02-Jan-2006",
	"20060102",
}

// excelEpoch is day zero of spreadsheet serial dates.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var ErrNotNumeric = errors.New("must be a number")

// CleanCell trims a cell and strips formula and quote artifacts.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.TrimSpace(strings.Trim(s, `"'`))
}

// Cell returns column i of row, or "" when the row is shorter.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return CleanCell(row[i])
}

// OptionalText returns nil for empty cells.
func OptionalText(s string) *string {
	s = CleanCell(s)
	if s == "" {
		return nil
	}
	return &s
}

// ParseNumber reads a money or quantity cell. Empty cells are 0. Thousands
// separators and currency signs are ignored.
func ParseNumber(s string) (float64, error) {
	s = CleanCell(s)
	if s == "" {
		return 0, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	for _, sym := range []string{"$", "€", "£", "Rs.", "Rs", ","} {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSpace(s)

	if !numericRegex.MatchString(s) {
		return 0, ErrNotNumeric
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrNotNumeric
	}
	if negative {
		v = -v
	}
	return v, nil
}

// ParseInteger is ParseNumber for whole quantities.
func ParseInteger(s string) (int, error) {
	v, err := ParseNumber(s)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, errors.New("must be an integer")
	}
	return int(v), nil
}

// ParseDate normalizes a date cell to 2006-01-02. Spreadsheet serial numbers
// are accepted too. Empty cells return "".
func ParseDate(s string) (string, error) {
	s = CleanCell(s)
	if s == "" {
		return "", nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 2958466 {
		t := excelEpoch.AddDate(0, 0, int(serial))
		return t.Format(DateLayout), nil
	}

	return "", fmt.Errorf("%q is not a valid date", s)
}

// IsEmptyRow reports whether every cell of row is blank.
func IsEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
