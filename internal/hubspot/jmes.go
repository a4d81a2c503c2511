package hubspot

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/jmespath/go-jmespath"
)

// Selectors applied to decoded HubSpot responses.
const (
	exprResults  = "results"
	exprName     = "name"
	exprID       = "id"
	exprNextLink = "paging.next.link"
	exprPortalID = "portalId"
)

// decodeBody decodes a JSON document keeping numbers as json.Number so ids survive
// without float rounding.
func decodeBody(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// EvalAny returns the raw value selected by the JMESPath expression.
// It is safe to pass any decoded JSON (map[string]any, []any, etc.)
// It will return nil and no error if the expression does not match anything.
func EvalAny(expression string, payload any) (any, error) {
	v, err := jmespath.Search(expression, payload)
	if err != nil {
		return nil, fmt.Errorf("jmespath: %w", err)
	}
	return v, nil
}

// EvalString coerces the selection to string. Numbers keep their literal form,
// other non-string values are JSON-encoded. A missing or null selection yields nil.
func EvalString(expression string, payload any) (*string, error) {
	v, err := EvalAny(expression, payload)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return nil, err
		}
		s = string(b)
	}
	return &s, nil
}
