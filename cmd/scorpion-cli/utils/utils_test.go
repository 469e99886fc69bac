package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	candidates := []string{"b2share", "b2drop", "b2access", "eosc-portal"}

	require.Equal(t, []string{"b2share"}, Suggest("b2shar", candidates, 0.9, 3))
	require.Len(t, Suggest("b2", candidates, 0, 2), 2)
	require.Empty(t, Suggest("zzzz", candidates, 0.75, 3))
}

func TestOrEmpty(t *testing.T) {
	n := 3
	require.Equal(t, 3, OrEmpty(&n))
	require.Equal(t, "", OrEmpty[int](nil))
}
