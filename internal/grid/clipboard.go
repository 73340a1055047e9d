package grid

import "strings"

// The clipboard wire format is the tab/newline convention spreadsheet
// tools use on copy: cells joined by tabs, rows joined by newlines.
// Values containing tabs or newlines are neutralized to a space so the
// grid shape survives a round-trip; full quoting compatible with every
// external tool is a documented non-goal.

var cellNeutralizer = strings.NewReplacer("\t", " ", "\n", " ", "\r", "")

// EncodeMatrix serializes a rectangular matrix of cell display values.
func EncodeMatrix(matrix [][]string) string {
	rows := make([]string, len(matrix))
	for i, row := range matrix {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cellNeutralizer.Replace(cell)
		}
		rows[i] = strings.Join(cells, "\t")
	}
	return strings.Join(rows, "\n")
}

// DecodeMatrix parses pasted clipboard text into a matrix of string
// cells. A trailing empty line from a final newline is dropped. Ragged
// rows are kept as-is; paste application leaves missing columns
// untouched rather than erroring.
func DecodeMatrix(text string) [][]string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	matrix := make([][]string, len(lines))
	for i, line := range lines {
		matrix[i] = strings.Split(line, "\t")
	}
	return matrix
}

// RowsNeeded returns how many rows short the grid is for pasting the
// matrix below the target row: zero when it fits, otherwise the
// shortfall that the paste dialog reports.
func RowsNeeded(matrix [][]string, availableRowsBelow int) int {
	need := len(matrix) - availableRowsBelow
	if need < 0 {
		return 0
	}
	return need
}
