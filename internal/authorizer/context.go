package authorizer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/edgegate/edgegate/internal/core"
)

// ContextFromClaims flattens verified claims into the string-only context
// map forwarded to downstream handlers. The stringification is a boundary
// contract with the gateway: it silently drops requests whose authorizer
// context contains non-string values, so numbers and booleans must be
// serialized here.
func ContextFromClaims(claims *core.Claims) map[string]string {
	out := make(map[string]string, len(claims.Raw))
	for key, value := range claims.Raw {
		out[key] = stringify(value)
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		// JSON numbers decode as float64; epoch seconds etc. should not
		// come out as "1.7154e+09"
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
