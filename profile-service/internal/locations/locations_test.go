package locations

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountries_SortedAndComplete(t *testing.T) {
	got := Countries()
	require.Len(t, got, 8)
	require.True(t, sort.StringsAreSorted(got))
	require.Contains(t, got, "Nigeria")
	require.Contains(t, got, "United States")
}

func TestStates_KnownCountry(t *testing.T) {
	states, ok := States("Ghana")
	require.True(t, ok)
	require.ElementsMatch(t, []string{"Greater Accra", "Ashanti", "Central", "Western"}, states)
	require.True(t, sort.StringsAreSorted(states))
}

func TestStates_UnknownCountry(t *testing.T) {
	_, ok := States("Atlantis")
	require.False(t, ok)
}

func TestCities_KnownPair(t *testing.T) {
	cities, ok := Cities("Nigeria", "Lagos")
	require.True(t, ok)
	require.Equal(t, []string{"Ikeja", "Lekki", "Victoria Island", "Yaba", "Surulere"}, cities)
}

func TestCities_UnknownState(t *testing.T) {
	_, ok := Cities("Nigeria", "Atlantis")
	require.False(t, ok)

	_, ok = Cities("Atlantis", "Lagos")
	require.False(t, ok)
}

func TestCities_ResultIsACopy(t *testing.T) {
	a, ok := Cities("Germany", "Bavaria")
	require.True(t, ok)
	a[0] = "mutated"

	b, ok := Cities("Germany", "Bavaria")
	require.True(t, ok)
	require.Equal(t, "Munich", b[0])
}
