package protocol

import (
	"database/sql"
	"strconv"
	"strings"
)

// renderRows flattens a result set into the bracket-list text the host's
// script side parses: one inner list per row, cells comma-separated. With
// quoted set, non-numeric cells are wrapped in double quotes; NULL renders
// as an empty cell either way.
func renderRows(rows *sql.Rows, quoted bool) (string, error) {
	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteByte('[')
	first := true
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", err
		}

		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteByte('[')
		for i, cell := range cells {
			if i > 0 {
				b.WriteByte(',')
			}
			if !cell.Valid {
				continue
			}
			if quoted && !looksNumeric(cell.String) {
				b.WriteByte('"')
				b.WriteString(cell.String)
				b.WriteByte('"')
				continue
			}
			b.WriteString(cell.String)
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')

	if err := rows.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
