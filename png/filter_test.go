package png

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnfilterSub(t *testing.T) {
	previous := []byte{0, 0, 0}
	current := []byte{10, 5, 5} // second and third bytes are deltas from the left neighbor
	require.NoError(t, unfilter(filterSub, 1, previous, current))
	require.Equal(t, []byte{10, 15, 20}, current)
}

func TestUnfilterUp(t *testing.T) {
	previous := []byte{10, 20, 30}
	current := []byte{1, 1, 1}
	require.NoError(t, unfilter(filterUp, 1, previous, current))
	require.Equal(t, []byte{11, 21, 31}, current)
}

func TestUnfilterNoneIsIdentity(t *testing.T) {
	previous := []byte{9, 9, 9}
	current := []byte{1, 2, 3}
	require.NoError(t, unfilter(filterNone, 1, previous, current))
	require.Equal(t, []byte{1, 2, 3}, current)
}

func TestUnfilterPaethMatchesReferenceOnFirstRow(t *testing.T) {
	// On the first row, "previous" is all zeros, so Paeth degrades to
	// predicting from the left neighbor only (paeth(a, 0, 0) == a for a>=0).
	previous := []byte{0, 0, 0, 0}
	current := []byte{5, 3, 0, 0}
	require.NoError(t, unfilter(filterPaeth, 1, previous, current))
	require.Equal(t, byte(5), current[0])
	require.Equal(t, byte(8), current[1])
}
