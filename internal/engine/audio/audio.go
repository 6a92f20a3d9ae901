// Package audio plays background music and buffered sound effects.
package audio

import (
	"bytes"
	"fmt"
	stdmath "math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the output rate every stream is resampled to.
const DefaultSampleRate = beep.SampleRate(44100)

// Manager owns the speaker, the music channel and a bank of decoded
// sound effects. All methods are safe for concurrent use.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	musicStreamer beep.StreamSeekCloser
	musicCtrl     *beep.Ctrl
	musicVolume   *effects.Volume
	musicPlaying  bool
	musicPath     string

	// Volume levels in the 0..1 range.
	masterVolume float64
	musicLevel   float64
	soundLevel   float64

	sounds map[string]*beep.Buffer

	// Mixer for overlapping sound effects.
	mixer *beep.Mixer
}

// New returns a manager with default volume levels. Call Init before
// playing anything.
func New() *Manager {
	return &Manager{
		masterVolume: 1.0,
		musicLevel:   0.7,
		soundLevel:   1.0,
		sounds:       make(map[string]*beep.Buffer),
		mixer:        &beep.Mixer{},
	}
}

// Init opens the speaker. It is a no-op when already initialized.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	m.sampleRate = DefaultSampleRate
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	return nil
}

// Close stops playback and releases the speaker.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	m.stopMusicInternal()
	speaker.Clear()
	m.initialized = false
}

// IsInitialized reports whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// LoadSound decodes a WAV file into the sound bank under the given
// name, replacing any previous entry.
func (m *Manager) LoadSound(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open sound %s: %w", path, err)
	}
	return m.LoadSoundData(name, data)
}

// LoadSoundData decodes in-memory WAV data into the sound bank.
func (m *Manager) LoadSoundData(name string, data []byte) error {
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode sound %s: %w", name, err)
	}
	defer streamer.Close()

	m.mu.Lock()
	defer m.mu.Unlock()

	rate := m.sampleRate
	if rate == 0 {
		rate = DefaultSampleRate
	}

	buf := beep.NewBuffer(beep.Format{
		SampleRate:  rate,
		NumChannels: format.NumChannels,
		Precision:   format.Precision,
	})
	if format.SampleRate != rate {
		buf.Append(beep.Resample(4, format.SampleRate, rate, streamer))
	} else {
		buf.Append(streamer)
	}

	m.sounds[name] = buf
	return nil
}

// HasSound reports whether a sound is loaded under the given name.
func (m *Manager) HasSound(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sounds[name]
	return ok
}

// PlaySound mixes a loaded sound into the effect channel. Overlapping
// plays of the same sound are allowed.
func (m *Manager) PlaySound(name string) error {
	m.mu.RLock()
	initialized := m.initialized
	buf := m.sounds[name]
	vol := m.masterVolume * m.soundLevel
	m.mu.RUnlock()

	if !initialized {
		return fmt.Errorf("audio not initialized")
	}
	if buf == nil {
		return fmt.Errorf("unknown sound %q", name)
	}

	streamer := &effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   volumeToDb(vol),
		Silent:   vol <= 0,
	}
	speaker.Lock()
	m.mixer.Add(streamer)
	speaker.Unlock()
	return nil
}

// PlayMusic streams a WAV file on the music channel, replacing the
// current track. With loop set the track repeats until stopped.
func (m *Manager) PlayMusic(path string, loop bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open music %s: %w", path, err)
	}
	return m.PlayMusicData(data, path, loop)
}

// PlayMusicData plays in-memory WAV data on the music channel. The
// name is only reported back from MusicPath.
func (m *Manager) PlayMusicData(data []byte, name string, loop bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return fmt.Errorf("audio not initialized")
	}

	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode music %s: %w", name, err)
	}

	m.stopMusicInternal()

	var src beep.Streamer = streamer
	if loop {
		src = beep.Loop(-1, streamer)
	}
	if format.SampleRate != m.sampleRate {
		src = beep.Resample(4, format.SampleRate, m.sampleRate, src)
	}

	m.musicCtrl = &beep.Ctrl{Streamer: src}
	m.musicVolume = &effects.Volume{
		Streamer: m.musicCtrl,
		Base:     2,
	}
	m.updateMusicVolume()

	m.musicStreamer = streamer
	m.musicPath = name
	m.musicPlaying = true

	speaker.Play(beep.Seq(m.musicVolume, beep.Callback(func() {
		m.mu.Lock()
		m.musicPlaying = false
		m.mu.Unlock()
	})))
	return nil
}

// StopMusic stops and releases the current track.
func (m *Manager) StopMusic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopMusicInternal()
}

func (m *Manager) stopMusicInternal() {
	if m.musicCtrl != nil {
		m.musicCtrl.Paused = true
	}
	speaker.Clear()
	// Clearing drops the effect mixer too, so put it back.
	if m.initialized {
		speaker.Play(m.mixer)
	}
	m.musicPlaying = false
	if m.musicStreamer != nil {
		m.musicStreamer.Close()
		m.musicStreamer = nil
	}
	m.musicCtrl = nil
	m.musicVolume = nil
	m.musicPath = ""
}

// PauseMusic pauses the music channel.
func (m *Manager) PauseMusic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.musicCtrl != nil {
		speaker.Lock()
		m.musicCtrl.Paused = true
		speaker.Unlock()
		m.musicPlaying = false
	}
}

// ResumeMusic resumes a paused track.
func (m *Manager) ResumeMusic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.musicCtrl != nil {
		speaker.Lock()
		m.musicCtrl.Paused = false
		speaker.Unlock()
		m.musicPlaying = true
	}
}

// IsMusicPlaying reports whether a track is playing.
func (m *Manager) IsMusicPlaying() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.musicPlaying
}

// MusicPath returns the path of the current track, or "".
func (m *Manager) MusicPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.musicPath
}

// SetMasterVolume sets the master volume in 0..1.
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp01(vol)
	m.updateMusicVolume()
}

// SetMusicVolume sets the music channel volume in 0..1.
func (m *Manager) SetMusicVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.musicLevel = clamp01(vol)
	m.updateMusicVolume()
}

// SetSoundVolume sets the effect channel volume in 0..1.
func (m *Manager) SetSoundVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.soundLevel = clamp01(vol)
}

// MasterVolume returns the master volume.
func (m *Manager) MasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// MusicVolume returns the music channel volume.
func (m *Manager) MusicVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.musicLevel
}

// SoundVolume returns the effect channel volume.
func (m *Manager) SoundVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.soundLevel
}

func (m *Manager) updateMusicVolume() {
	if m.musicVolume == nil {
		return
	}
	vol := m.masterVolume * m.musicLevel
	speaker.Lock()
	if vol <= 0 {
		m.musicVolume.Silent = true
	} else {
		m.musicVolume.Silent = false
		m.musicVolume.Volume = volumeToDb(vol)
	}
	speaker.Unlock()
}

// volumeToDb maps a linear 0..1 level onto the log scale the Volume
// effect expects: 1 is 0 dB, 0.5 is roughly -6 dB.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * stdmath.Log10(vol)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
