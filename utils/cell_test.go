package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanCell(t *testing.T) {
	assert.Equal(t, "ABC-1", CleanCell(`  ="ABC-1" `))
	assert.Equal(t, "42", CleanCell("=42"))
	assert.Equal(t, "quoted", CleanCell(`'quoted'`))
	assert.Equal(t, "", CleanCell("   "))
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"":          0,
		"12":        12,
		"1,250.50":  1250.5,
		"$3.99":     3.99,
		"Rs. 100":   100,
		"(15.25)":   -15.25,
		" 0.5 ":     0.5,
		"1e3":       1000,
	}
	for in, want := range cases {
		got, err := ParseNumber(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseNumber("twelve")
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestParseInteger(t *testing.T) {
	v, err := ParseInteger("25")
	require.NoError(t, err)
	assert.Equal(t, 25, v)

	v, err = ParseInteger("")
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	_, err = ParseInteger("2.5")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	cases := map[string]string{
		"":           "",
		"2025-02-07": "2025-02-07",
		"2025/02/07": "2025-02-07",
		"2/7/2025":   "2025-02-07",
		"02-07-25":   "2025-02-07",
		"45695":      "2025-02-07",
	}
	for in, want := range cases {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDate("next tuesday")
	assert.Error(t, err)
}

func TestCellAndEmptyRow(t *testing.T) {
	row := []string{" a ", "", "c"}
	assert.Equal(t, "a", Cell(row, 0))
	assert.Equal(t, "", Cell(row, 7))
	assert.Nil(t, OptionalText(Cell(row, 1)))
	assert.Equal(t, "c", *OptionalText(Cell(row, 2)))

	assert.True(t, IsEmptyRow([]string{"", "  "}))
	assert.False(t, IsEmptyRow(row))
}
