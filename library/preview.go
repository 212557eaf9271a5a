package library

import (
	"fmt"
	"strings"
)

// FormatSQLForDisplay renders a parameterized statement with its parameters
// substituted in, for showing to the operator before they authorize raw SQL.
// The returned string is display-only: execution always goes through the
// parameterized path, never through this output.
func FormatSQLForDisplay(query string, params []any) string {
	if len(params) == 0 {
		return query
	}

	parts := strings.Split(query, "?")
	if len(parts)-1 != len(params) {
		return fmt.Sprintf("ERROR: parameter count mismatch for SQL %q with params %v", query, params)
	}

	var sb strings.Builder
	sb.WriteString(parts[0])
	for i, p := range params {
		sb.WriteString(displayParam(p))
		sb.WriteString(parts[i+1])
	}
	return sb.String()
}

func displayParam(p any) string {
	switch v := p.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case []byte:
		return fmt.Sprintf("X'%x'", v)
	case float64:
		// JSON numbers arrive as float64; show integral values without the
		// trailing ".0" noise.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
