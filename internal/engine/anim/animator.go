package anim

import (
	"go.uber.org/zap"

	"github.com/mechanicchickendev/froggi/internal/engine/scene"
	"github.com/mechanicchickendev/froggi/internal/logger"
)

// Animator plays clips by rewriting the owner's MeshComponent mesh
// name. It advances on the rendered frame, not the fixed step, so
// playback stays smooth regardless of the simulation rate.
type Animator struct {
	scene.BaseComponent

	// Speed scales playback. 1 is real time.
	Speed float32

	clips   map[string]*Clip
	current *Clip
	time    float32
	frame   int
	playing bool
	paused  bool
}

// NewAnimator returns an animator with no clips and unit speed.
func NewAnimator() *Animator {
	return &Animator{
		Speed: 1,
		clips: make(map[string]*Clip),
	}
}

// AddClip registers a clip under its name, replacing any previous one.
func (a *Animator) AddClip(c *Clip) {
	a.clips[c.Name] = c
}

// Play starts the named clip. Playing the clip that is already active
// resumes it unless forceRestart is set, in which case the cursor is
// rewound to the first frame. Unknown clip names are logged and ignored.
func (a *Animator) Play(name string, forceRestart bool) {
	clip, ok := a.clips[name]
	if !ok {
		logger.Warn("unknown animation clip", zap.String("clip", name))
		return
	}
	if a.current == clip && a.playing && !forceRestart {
		a.paused = false
		return
	}
	a.current = clip
	a.time = 0
	a.frame = 0
	a.playing = true
	a.paused = false
	a.applyFrame()
}

// Stop halts playback. The current frame stays on screen.
func (a *Animator) Stop() {
	a.playing = false
	a.paused = false
}

// Pause freezes the cursor without losing it.
func (a *Animator) Pause() { a.paused = true }

// Resume continues a paused clip.
func (a *Animator) Resume() { a.paused = false }

// Playing reports whether a clip is actively advancing.
func (a *Animator) Playing() bool { return a.playing && !a.paused }

// CurrentClip returns the active clip name, or "" when none is set.
func (a *Animator) CurrentClip() string {
	if a.current == nil {
		return ""
	}
	return a.current.Name
}

// Frame returns the current frame index within the active clip.
func (a *Animator) Frame() int { return a.frame }

// OnUpdate advances the cursor and swaps the mesh on frame changes.
func (a *Animator) OnUpdate(dt float32) {
	if !a.playing || a.paused || a.current == nil {
		return
	}

	a.time += dt * a.Speed
	newFrame := int(a.time / a.current.FrameDuration)

	if newFrame >= len(a.current.Frames) {
		if a.current.Loop {
			a.time = 0
			newFrame = 0
		} else {
			newFrame = len(a.current.Frames) - 1
			a.playing = false
		}
	}

	if newFrame != a.frame {
		a.frame = newFrame
		a.applyFrame()
	}
}

// applyFrame resolves the sibling mesh component at apply time, so a
// mesh attached after the animator is still driven.
func (a *Animator) applyFrame() {
	if a.current == nil || a.Owner() == nil {
		return
	}
	mc, ok := scene.Get[*scene.MeshComponent](a.Owner())
	if !ok {
		logger.Warn("animator has no mesh component to drive",
			zap.String("entity", a.Owner().Name))
		return
	}
	mc.MeshName = a.current.Frames[a.frame]
}
