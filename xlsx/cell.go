package xlsx

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCellRef parses a cell reference like "A1" or "AA100" into column and row indices (0-indexed).
func ParseCellRef(ref string) (col, row int, err error) {
	if ref == "" {
		return 0, 0, fmt.Errorf("empty cell reference")
	}

	i := 0
	for i < len(ref) && isLetter(ref[i]) {
		i++
	}
	if i == 0 {
		return 0, 0, fmt.Errorf("invalid cell reference: no column letters")
	}
	if i == len(ref) {
		return 0, 0, fmt.Errorf("invalid cell reference: no row number")
	}

	col = ColumnToIndex(ref[:i])
	if col < 0 {
		return 0, 0, fmt.Errorf("invalid column: %s", ref[:i])
	}

	rowNum, err := strconv.Atoi(ref[i:])
	if err != nil || rowNum < 1 {
		return 0, 0, fmt.Errorf("invalid row: %s", ref[i:])
	}
	return col, rowNum - 1, nil
}

// ColumnToIndex converts column letters to a 0-indexed column number.
// A=0, B=1, ..., Z=25, AA=26.
func ColumnToIndex(col string) int {
	col = strings.ToUpper(col)
	result := 0
	for _, c := range col {
		if c < 'A' || c > 'Z' {
			return -1
		}
		result = result*26 + int(c-'A') + 1
	}
	return result - 1
}

// IndexToColumn converts a 0-indexed column number to column letters.
func IndexToColumn(index int) string {
	if index < 0 {
		return ""
	}
	var b []byte
	for index++; index > 0; index /= 26 {
		index--
		b = append([]byte{byte('A' + index%26)}, b...)
	}
	return string(b)
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
