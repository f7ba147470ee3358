package drill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatFrame(w, h int, value uint8) Frame {
	luma := make([]uint8, w*h)
	for i := range luma {
		luma[i] = value
	}
	return Frame{Width: w, Height: h, Luma: luma}
}

func TestMeanAbsDiffIdenticalFrames(t *testing.T) {
	f := flatFrame(4, 4, 120)
	diff, err := MeanAbsDiff(f, f)
	require.NoError(t, err)
	assert.Zero(t, diff)
}

func TestMeanAbsDiffUniformShift(t *testing.T) {
	ref := flatFrame(8, 8, 100)
	cur := flatFrame(8, 8, 140)

	diff, err := MeanAbsDiff(ref, cur)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, diff, 1e-9)

	// Symmetric: direction of the change does not matter.
	rev, err := MeanAbsDiff(cur, ref)
	require.NoError(t, err)
	assert.Equal(t, diff, rev)
}

func TestMeanAbsDiffPartialChange(t *testing.T) {
	ref := flatFrame(2, 2, 0)
	cur := flatFrame(2, 2, 0)
	cur.Luma[0] = 200

	diff, err := MeanAbsDiff(ref, cur)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, diff, 1e-9)
}

func TestMeanAbsDiffDimensionMismatch(t *testing.T) {
	_, err := MeanAbsDiff(flatFrame(4, 4, 0), flatFrame(4, 2, 0))
	assert.ErrorIs(t, err, ErrFrameMismatch)
}

func TestMeanAbsDiffEmptyFrames(t *testing.T) {
	diff, err := MeanAbsDiff(Frame{}, Frame{})
	require.NoError(t, err)
	assert.Zero(t, diff)
}
