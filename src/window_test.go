package spectrice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWindowUnityGain(t *testing.T) {
	kinds := []WindowKind{WindowSine, WindowHann, WindowHamming, WindowBlackman, WindowNuttall}

	for _, kind := range kinds {
		h := kind.minHops()
		n := 64

		w, err := BuildWindow(kind, n, h)
		require.NoError(t, err, kind.String())
		require.Len(t, w, n)

		var sumSq float64
		for _, v := range w {
			sumSq += v * v
		}
		assert.InDelta(t, 1.0, sumSq*float64(h), 1e-5, "%s window", kind)
	}
}

func TestBuildWindowEvenExtension(t *testing.T) {
	w, err := BuildWindow(WindowHann, 64, 4)
	require.NoError(t, err)

	for i := 0; i < 32; i++ {
		assert.InDelta(t, w[i], w[63-i], 1e-12, "index %d", i)
	}
}

func TestBuildWindowRejectsTooFewHops(t *testing.T) {
	_, err := BuildWindow(WindowNuttall, 64, 4)
	require.Error(t, err)
	assert.Equal(t, ErrInvalidConfig, err.(*Error).Kind)
}

func TestBuildWindowRejectsNonPowerOfTwo(t *testing.T) {
	_, err := BuildWindow(WindowHann, 100, 3)
	require.Error(t, err)
}

func TestWindowKindString(t *testing.T) {
	assert.Equal(t, "hann", WindowHann.String())
	assert.Equal(t, "nuttall", WindowNuttall.String())
}

func TestWindowMinHops(t *testing.T) {
	assert.Equal(t, 2, WindowSine.minHops())
	assert.Equal(t, 3, WindowHann.minHops())
	assert.Equal(t, 3, WindowHamming.minHops())
	assert.Equal(t, 5, WindowBlackman.minHops())
	assert.Equal(t, 7, WindowNuttall.minHops())
}
