package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"github.com/mechanicchickendev/froggi/internal/engine/mesh"
	"github.com/mechanicchickendev/froggi/internal/engine/texture"
	"github.com/mechanicchickendev/froggi/pkg/math"
)

const previewSampleRate = beep.SampleRate(44100)

type meshBounds struct {
	min, max math.Vec3
}

// clearPreview releases whatever the previous selection loaded.
func (app *App) clearPreview() {
	if app.previewImage != nil {
		app.previewImage.Release()
		app.previewImage = nil
	}
	app.stopAudio()
	if app.audioStreamer != nil {
		app.audioStreamer.Close()
		app.audioStreamer = nil
	}
	app.previewMesh = nil
	app.previewText = ""
	app.previewHex = nil
	app.previewHexSize = 0
	app.previewZoom = 1.0
}

// loadPreview reads the selected file and prepares extension-specific
// preview state.
func (app *App) loadPreview(path string) {
	app.clearPreview()
	app.previewPath = path

	data, err := app.readFile(path)
	if err != nil {
		app.previewText = fmt.Sprintf("Error reading file: %v", err)
		return
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".bmp":
		app.loadImagePreview(data)
	case ".obj":
		app.loadMeshPreview(data)
	case ".wav":
		app.loadAudioPreview(data)
	case ".yaml", ".yml", ".txt", ".mtl", ".json", ".cfg":
		app.previewText = string(data)
	default:
		app.loadHexPreview(data)
	}
}

func (app *App) loadImagePreview(data []byte) {
	img, err := texture.Decode(bytes.NewReader(data))
	if err != nil {
		app.previewText = fmt.Sprintf("Error decoding image: %v", err)
		return
	}
	bounds := img.Bounds()
	app.previewImgSize = [2]int{bounds.Dx(), bounds.Dy()}
	app.previewImage = backend.NewTextureFromRgba(img)
}

func (app *App) loadMeshPreview(data []byte) {
	m, err := mesh.Parse(bytes.NewReader(data))
	if err != nil {
		app.previewText = fmt.Sprintf("Error parsing model: %v", err)
		return
	}
	app.previewMesh = m

	b := meshBounds{}
	for i, v := range m.Vertices {
		p := v.Position
		if i == 0 {
			b.min, b.max = p, p
			continue
		}
		b.min.X = min32(b.min.X, p.X)
		b.min.Y = min32(b.min.Y, p.Y)
		b.min.Z = min32(b.min.Z, p.Z)
		b.max.X = max32(b.max.X, p.X)
		b.max.Y = max32(b.max.Y, p.Y)
		b.max.Z = max32(b.max.Z, p.Z)
	}
	app.previewBounds = b
}

func (app *App) loadAudioPreview(data []byte) {
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		app.previewText = fmt.Sprintf("Error decoding audio: %v", err)
		return
	}
	app.audioStreamer = streamer
	app.audioFormat = format
	app.audioLength = streamer.Len()
	app.audioSampleRate = format.SampleRate
}

func (app *App) loadHexPreview(data []byte) {
	app.previewHexSize = int64(len(data))
	limit := len(data)
	if limit > 4096 {
		limit = 4096
	}
	app.previewHex = data[:limit]
}

func (app *App) renderImagePreview() {
	if app.previewImage == nil {
		imgui.TextUnformatted(app.previewText)
		return
	}

	imgui.Text(fmt.Sprintf("%d x %d", app.previewImgSize[0], app.previewImgSize[1]))
	imgui.SameLine()
	if imgui.Button("-##imgzoom") && app.previewZoom > 0.25 {
		app.previewZoom -= 0.25
	}
	imgui.SameLine()
	imgui.Text(fmt.Sprintf("%.0f%%", app.previewZoom*100))
	imgui.SameLine()
	if imgui.Button("+##imgzoom") && app.previewZoom < 4.0 {
		app.previewZoom += 0.25
	}
	imgui.SameLine()
	if imgui.Button("Reset##imgzoom") {
		app.previewZoom = 1.0
	}

	if imgui.BeginChildStrV("ImagePreview", imgui.NewVec2(0, 0), imgui.ChildFlagsBorders,
		imgui.WindowFlagsHorizontalScrollbar) {
		size := imgui.NewVec2(
			float32(app.previewImgSize[0])*app.previewZoom,
			float32(app.previewImgSize[1])*app.previewZoom,
		)
		imgui.ImageWithBgV(app.previewImage.ID, size,
			imgui.NewVec2(0, 0), imgui.NewVec2(1, 1),
			imgui.NewVec4(0.2, 0.2, 0.2, 1), imgui.NewVec4(1, 1, 1, 1))
	}
	imgui.EndChild()
}

func (app *App) renderMeshPreview() {
	if app.previewMesh == nil {
		imgui.TextUnformatted(app.previewText)
		return
	}

	m := app.previewMesh
	imgui.Text(fmt.Sprintf("Vertices:  %d", len(m.Vertices)))
	imgui.Text(fmt.Sprintf("Indices:   %d", len(m.Indices)))
	imgui.Text(fmt.Sprintf("Triangles: %d", len(m.Indices)/3))
	imgui.Separator()

	b := app.previewBounds
	imgui.Text(fmt.Sprintf("Min: (%.2f, %.2f, %.2f)", b.min.X, b.min.Y, b.min.Z))
	imgui.Text(fmt.Sprintf("Max: (%.2f, %.2f, %.2f)", b.max.X, b.max.Y, b.max.Z))
	imgui.Text(fmt.Sprintf("Size: (%.2f, %.2f, %.2f)",
		b.max.X-b.min.X, b.max.Y-b.min.Y, b.max.Z-b.min.Z))
}

func (app *App) renderAudioPreview() {
	if app.audioStreamer == nil {
		imgui.TextUnformatted(app.previewText)
		return
	}

	duration := app.audioSampleRate.D(app.audioLength).Round(time.Millisecond)
	imgui.Text(fmt.Sprintf("Sample rate: %d Hz", int(app.audioSampleRate)))
	imgui.Text(fmt.Sprintf("Channels:    %d", app.audioFormat.NumChannels))
	imgui.Text(fmt.Sprintf("Duration:    %v", duration))
	imgui.Separator()

	if app.audioPlaying {
		if imgui.Button("Stop") {
			app.stopAudio()
		}
	} else {
		if imgui.Button("Play") {
			app.playAudio()
		}
	}

	pos := 0
	if app.audioStreamer != nil {
		speaker.Lock()
		pos = app.audioStreamer.Position()
		speaker.Unlock()
	}
	frac := float32(0)
	if app.audioLength > 0 {
		frac = float32(pos) / float32(app.audioLength)
	}
	imgui.ProgressBarV(frac, imgui.NewVec2(-1, 0),
		fmt.Sprintf("%v", app.audioSampleRate.D(pos).Round(time.Second)))
}

func (app *App) playAudio() {
	speakerInitOnce.Do(func() {
		if err := speaker.Init(previewSampleRate, previewSampleRate.N(time.Second/10)); err == nil {
			speakerInited = true
		}
	})
	if !speakerInited || app.audioStreamer == nil {
		return
	}

	speaker.Clear()
	if err := app.audioStreamer.Seek(0); err != nil {
		return
	}

	var stream beep.Streamer = app.audioStreamer
	if app.audioSampleRate != previewSampleRate {
		stream = beep.Resample(4, app.audioSampleRate, previewSampleRate, stream)
	}
	app.audioCtrl = &beep.Ctrl{Streamer: stream}
	app.audioPlaying = true

	done := beep.Callback(func() {
		app.audioPlaying = false
	})
	speaker.Play(beep.Seq(app.audioCtrl, done))
}

func (app *App) stopAudio() {
	if !app.audioPlaying {
		return
	}
	speaker.Clear()
	app.audioPlaying = false
}

func (app *App) renderTextPreview() {
	if imgui.BeginChildStrV("TextPreview", imgui.NewVec2(0, 0), imgui.ChildFlagsBorders,
		imgui.WindowFlagsHorizontalScrollbar) {
		imgui.TextUnformatted(app.previewText)
	}
	imgui.EndChild()
}

func (app *App) renderHexPreview() {
	if app.previewHex == nil {
		imgui.TextUnformatted(app.previewText)
		return
	}

	imgui.Text(fmt.Sprintf("Size: %d bytes", app.previewHexSize))
	if int64(len(app.previewHex)) < app.previewHexSize {
		imgui.TextDisabled(fmt.Sprintf("(showing first %d bytes)", len(app.previewHex)))
	}
	imgui.Separator()

	if imgui.BeginChildStrV("HexPreview", imgui.NewVec2(0, 0), imgui.ChildFlagsBorders,
		imgui.WindowFlagsHorizontalScrollbar) {
		var line strings.Builder
		for offset := 0; offset < len(app.previewHex); offset += 16 {
			line.Reset()
			fmt.Fprintf(&line, "%08x  ", offset)
			end := offset + 16
			if end > len(app.previewHex) {
				end = len(app.previewHex)
			}
			for i := offset; i < end; i++ {
				fmt.Fprintf(&line, "%02x ", app.previewHex[i])
			}
			for i := end; i < offset+16; i++ {
				line.WriteString("   ")
			}
			line.WriteString(" ")
			for i := offset; i < end; i++ {
				c := app.previewHex[i]
				if c < 32 || c > 126 {
					c = '.'
				}
				line.WriteByte(c)
			}
			imgui.TextUnformatted(line.String())
		}
	}
	imgui.EndChild()
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
