// Package anim implements frame-swap animation. A clip is an ordered
// list of mesh names; the animator rewrites the owning entity's mesh
// component as the cursor advances.
package anim

import "fmt"

// Clip is a named sequence of mesh frames played at a fixed rate.
type Clip struct {
	Name          string
	Frames        []string
	FrameDuration float32
	Loop          bool
}

// NewClip builds a clip from an explicit frame list.
func NewClip(name string, frames []string, fps float32, loop bool) (*Clip, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("clip %q has no frames", name)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("clip %q has non-positive fps %f", name, fps)
	}
	return &Clip{
		Name:          name,
		Frames:        frames,
		FrameDuration: 1.0 / fps,
		Loop:          loop,
	}, nil
}

// NewClipSequence builds a clip whose frames follow a printf pattern
// with one integer verb, numbered from first to first+count-1.
func NewClipSequence(name, pattern string, first, count int, fps float32, loop bool) (*Clip, error) {
	if count <= 0 {
		return nil, fmt.Errorf("clip %q has non-positive frame count %d", name, count)
	}
	frames := make([]string, count)
	for i := 0; i < count; i++ {
		frames[i] = fmt.Sprintf(pattern, first+i)
	}
	return NewClip(name, frames, fps, loop)
}

// Length returns the clip duration in seconds.
func (c *Clip) Length() float32 {
	return float32(len(c.Frames)) * c.FrameDuration
}
