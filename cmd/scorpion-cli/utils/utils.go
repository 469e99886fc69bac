package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/antzucaro/matchr"
	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func PrintJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

type suggestion struct {
	value       string
	correlation float64
}

// Suggest returns at most limit candidates that look like target, most
// similar first. Candidates below threshold are left out.
func Suggest(target string, candidates []string, threshold float64, limit int) []string {
	var suggestions []suggestion
	for _, c := range candidates {
		correlation := matchr.JaroWinkler(target, c, false)
		if correlation < threshold {
			continue
		}
		suggestions = append(suggestions, suggestion{value: c, correlation: correlation})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		// sort descending
		return suggestions[i].correlation > suggestions[j].correlation
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.value
	}
	return out
}

// OrEmpty renders nil pointers as an empty cell.
func OrEmpty[T any](v *T) any {
	if v == nil {
		return ""
	}
	return *v
}
