package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-fir-decimator/internal/testutil"
)

const (
	testWindowLength16 = 16
	testWindowLength64 = 64

	// Hamming endpoint value before the 1/length scale: 0.54 - 0.46.
	hammingEdgeValue = 0.08
)

func TestHammingWindow_Length(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   int
	}{
		{"zero_length", 0, 0},
		{"negative_length", -1, 0},
		{"length_one", 1, 1},
		{"length_16", testWindowLength16, testWindowLength16},
		{"length_64", testWindowLength64, testWindowLength64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, HammingWindow(tt.length), tt.want)
		})
	}
}

func TestHammingWindow_Values(t *testing.T) {
	n := testWindowLength64
	window := HammingWindow(n)
	require.Len(t, window, n)

	testutil.AssertNoNaNOrInf(t, window)

	// Endpoints are the Hamming floor scaled by 1/n.
	edge := hammingEdgeValue / float64(n)
	assert.InDelta(t, edge, window[0], testutil.DefaultTolerance)
	assert.InDelta(t, edge, window[n-1], testutil.DefaultTolerance)

	// Every value matches the closed form.
	for k, w := range window {
		expected := (0.54 - 0.46*math.Cos(2*math.Pi*float64(k)/float64(n-1))) / float64(n)
		assert.InDelta(t, expected, w, testutil.DefaultTolerance, "window[%d]", k)
	}

	// The taper peaks mid-window at (0.54+0.46)/n and never exceeds it.
	testutil.AssertAllInRange(t, window, 0, 1.0/float64(n))
}

func TestHammingWindow_IndependentOfPassband(t *testing.T) {
	// The window is a function of length alone; two designers at different
	// rates share identical window values.
	d1, err := NewDesigner(testWindowLength64, 48000)
	require.NoError(t, err)
	d2, err := NewDesigner(testWindowLength64, 96000)
	require.NoError(t, err)

	assert.Equal(t, d1.Window(), d2.Window())
}
