package scorpion

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// FillForm returns a copy of form where every entry whose kpi is a key in
// values carries that value. Keys of values that match no entry are
// returned sorted in unmatched. A nil value leaves the placeholder empty.
func FillForm(form []IndicatorValue, values map[string]any) (filled []IndicatorValue, unmatched []string, err error) {
	converted := make(map[string]*int, len(values))
	for kpi, v := range values {
		n, err := toInt(v)
		if err != nil {
			return nil, nil, &DecodeError{Field: kpi, Err: err}
		}
		converted[kpi] = n
	}

	used := make(map[string]bool, len(values))
	filled = make([]IndicatorValue, len(form))
	for i, entry := range form {
		filled[i] = entry
		n, ok := converted[entry.Kpi]
		if !ok {
			continue
		}
		filled[i].Value = n
		used[entry.Kpi] = true
	}

	for kpi := range values {
		if !used[kpi] {
			unmatched = append(unmatched, kpi)
		}
	}
	sort.Strings(unmatched)

	return filled, unmatched, nil
}

// toInt accepts the numeric types that come out of json decoding and
// data source transforms. Fractions are rounded half to even.
func toInt(v any) (*int, error) {
	var n int
	switch v := v.(type) {
	case nil:
		return nil, nil
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%v is not a finite number", v)
		}
		n = int(math.RoundToEven(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return toInt(f)
	default:
		return nil, fmt.Errorf("expected a number, got %T", v)
	}
	return &n, nil
}
