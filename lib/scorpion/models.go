package scorpion

import "encoding/json"

const (
	NecessityOptional = "optional"
	NecessityRequired = "required"
)

type UserDetails struct {
	UserName  string   `json:"user_name"`
	Email     string   `json:"email"`
	IsAdmin   bool     `json:"is_admin"`
	Providers []string `json:"providers"`
}

// Service is an analytics service the caller (or its providers) subscribes to.
type Service struct {
	Abbreviation string   `json:"abbreviation"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Provider     string   `json:"provider"`
	License      *string  `json:"license"`
	Consortia    []string `json:"consortia"`
}

// Indicator is a KPI that can be measured for a service or a category.
type Indicator struct {
	Name        string `json:"name"`
	Necessity   string `json:"necessity"`
	Description string `json:"description"`
}

// IndicatorValue is a single measurement of a KPI on a date. A nil Value is
// a placeholder that has yet to be filled in.
type IndicatorValue struct {
	Kpi   string `json:"kpi"`
	Date  string `json:"date"`
	Value *int   `json:"value"`
}

type resultEnvelope[T any] struct {
	Result []T `json:"result"`
}

type indicatorCategory struct {
	Name      string  `json:"name"`
	Necessity *string `json:"necessity"`
}

type indicatorPayload struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Selected    bool                `json:"selected"`
	Categories  []indicatorCategory `json:"categories"`
}

type selection struct {
	Selected bool `json:"selected"`
}

// decodeSelected decodes only the indicators flagged as selected, the
// rest of the result list is never inspected beyond that flag.
func decodeSelected(data []byte) ([]indicatorPayload, error) {
	var envelope resultEnvelope[json.RawMessage]
	err := decode(data, &envelope)
	if err != nil {
		return nil, err
	}

	var out []indicatorPayload
	for _, raw := range envelope.Result {
		var sel selection
		err = decode(raw, &sel)
		if err != nil {
			return nil, err
		}
		if !sel.Selected {
			continue
		}
		var indicator indicatorPayload
		err = decode(raw, &indicator)
		if err != nil {
			return nil, err
		}
		out = append(out, indicator)
	}
	return out, nil
}
