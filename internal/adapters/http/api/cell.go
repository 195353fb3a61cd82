package api

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// cell renders a JSON value the way a spreadsheet cell would hold it.
func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "y"
		}
		return "n"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
