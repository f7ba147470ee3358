package drill

import (
	"context"
	"errors"
)

// Frame is a grayscale luma frame captured from the camera collaborator.
type Frame struct {
	Width  int
	Height int
	Luma   []uint8
}

// FrameSource abstracts the camera. Implementations block until a frame
// is available or the context is done.
type FrameSource interface {
	Frame(ctx context.Context) (Frame, error)
	Close() error
}

// CuePlayer abstracts the audio side of the drill: numbered countdown
// beeps, the two "set" cues, and the go signal.
type CuePlayer interface {
	Beep(n int)
	Set()
	Go()
}

type NopCuePlayer struct{}

func (NopCuePlayer) Beep(int) {}
func (NopCuePlayer) Set()     {}
func (NopCuePlayer) Go()      {}

var ErrFrameMismatch = errors.New("frame dimensions do not match reference")

// MeanAbsDiff computes the mean absolute luma difference between a
// reference frame and a new frame. Motion is detected the first time
// this exceeds the sensitivity threshold.
func MeanAbsDiff(ref, cur Frame) (float64, error) {
	if ref.Width != cur.Width || ref.Height != cur.Height || len(ref.Luma) != len(cur.Luma) {
		return 0, ErrFrameMismatch
	}
	if len(ref.Luma) == 0 {
		return 0, nil
	}

	var sum int64
	for i := range ref.Luma {
		d := int64(ref.Luma[i]) - int64(cur.Luma[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return float64(sum) / float64(len(ref.Luma)), nil
}
