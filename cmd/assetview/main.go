// assetview is a graphical browser for froggi asset packs and loose
// asset directories.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/gopxl/beep/v2"
	"github.com/sqweek/dialog"

	"github.com/mechanicchickendev/froggi/internal/engine/mesh"
	"github.com/mechanicchickendev/froggi/pkg/pack"
)

func main() {
	runtime.LockOSThread()

	packPath := flag.String("pack", "", "Asset pack to open")
	dirPath := flag.String("dir", "", "Asset directory to open")
	flag.Parse()

	app := NewApp()
	defer app.Close()

	if *packPath != "" {
		if err := app.OpenPack(*packPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening pack: %v\n", err)
		}
	} else if *dirPath != "" {
		if err := app.OpenDir(*dirPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening directory: %v\n", err)
		}
	}

	app.Run()
}

// App holds the browser state.
type App struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]

	// Source of truth for the tree. readFile resolves a listed path
	// to bytes, for either a pack or a directory.
	archive     *pack.Archive
	sourceLabel string
	files       []string
	readFile    func(path string) ([]byte, error)

	fileTree    *FileNode
	totalFiles  int
	filterCount int

	searchText   string
	selectedPath string

	// Pending pack path from the file dialog, opened on the main
	// thread.
	pendingPackPath string

	// Preview state.
	previewPath    string
	previewZoom    float32
	previewImage   *backend.Texture
	previewImgSize [2]int
	previewMesh    *mesh.Data
	previewBounds  meshBounds
	previewText    string
	previewHex     []byte
	previewHexSize int64

	audioStreamer   beep.StreamSeekCloser
	audioFormat     beep.Format
	audioCtrl       *beep.Ctrl
	audioPlaying    bool
	audioLength     int
	audioSampleRate beep.SampleRate
}

var (
	speakerInitOnce sync.Once
	speakerInited   bool
)

// FileNode is one entry in the virtual file tree.
type FileNode struct {
	Name     string
	Path     string
	IsDir    bool
	Children []*FileNode
}

// NewApp builds the window and backend.
func NewApp() *App {
	app := &App{
		previewZoom: 1.0,
	}

	var err error
	app.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		panic(fmt.Sprintf("failed to create backend: %v", err))
	}

	app.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	app.backend.CreateWindow("froggi asset viewer", 1280, 800)

	return app
}

// Close releases preview resources and the archive.
func (app *App) Close() {
	app.clearPreview()
	if app.archive != nil {
		app.archive.Close()
	}
}

// Run starts the main loop.
func (app *App) Run() {
	app.backend.Run(app.render)
}

// OpenPack loads an asset pack archive.
func (app *App) OpenPack(path string) error {
	archive, err := pack.Open(path)
	if err != nil {
		return err
	}

	if app.archive != nil {
		app.archive.Close()
	}
	app.archive = archive
	app.sourceLabel = filepath.Base(path)
	app.files = archive.List()
	app.readFile = archive.Read
	app.resetAfterOpen()

	app.backend.SetWindowTitle(fmt.Sprintf("froggi asset viewer - %s", app.sourceLabel))
	return nil
}

// OpenDir loads a loose asset directory.
func (app *App) OpenDir(root string) error {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return err
	}

	if app.archive != nil {
		app.archive.Close()
		app.archive = nil
	}
	app.sourceLabel = root
	app.files = files
	app.readFile = func(path string) ([]byte, error) {
		return os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
	}
	app.resetAfterOpen()

	app.backend.SetWindowTitle(fmt.Sprintf("froggi asset viewer - %s", root))
	return nil
}

func (app *App) resetAfterOpen() {
	app.totalFiles = len(app.files)
	app.fileTree = app.buildFileTree()
	app.filterCount = app.totalFiles
	app.selectedPath = ""
	app.clearPreview()
	app.previewPath = ""
}

// openFileDialog picks a pack from a native dialog. SDL windows must
// be touched from the main thread, so only the path is recorded here.
func (app *App) openFileDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("Asset Packs", "fpak").
			Filter("All Files", "*").
			Title("Open Asset Pack").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				fmt.Fprintf(os.Stderr, "File dialog error: %v\n", err)
			}
			return
		}
		app.pendingPackPath = filename
	}()
}

// render draws one frame of UI.
func (app *App) render() {
	if app.pendingPackPath != "" {
		path := app.pendingPackPath
		app.pendingPackPath = ""
		if err := app.OpenPack(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening pack: %v\n", err)
		}
	}

	if imgui.BeginMainMenuBar() {
		if imgui.BeginMenu("File") {
			if imgui.MenuItemBool("Open Pack...") {
				app.openFileDialog()
			}
			imgui.Separator()
			if imgui.MenuItemBool("Exit") {
				os.Exit(0)
			}
			imgui.EndMenu()
		}
		imgui.EndMainMenuBar()
	}

	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()

	leftPanelWidth := float32(350)
	statusBarHeight := float32(30)
	contentHeight := workSize.Y - statusBarHeight

	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	imgui.SetNextWindowPos(workPos)
	imgui.SetNextWindowSize(imgui.NewVec2(leftPanelWidth, contentHeight))
	if imgui.BeginV("Files", nil, flags) {
		app.renderSearch()
		imgui.Separator()
		app.renderFileTree()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+leftPanelWidth, workPos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(workSize.X-leftPanelWidth, contentHeight))
	if imgui.BeginV("Preview", nil, flags) {
		app.renderPreview()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X, workPos.Y+contentHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(workSize.X, statusBarHeight))
	statusFlags := flags | imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoScrollbar
	if imgui.BeginV("##StatusBar", nil, statusFlags) {
		app.renderStatusBar()
	}
	imgui.End()
}

func (app *App) renderSearch() {
	imgui.Text("Search:")
	imgui.SameLine()
	imgui.SetNextItemWidth(-1)
	if imgui.InputTextWithHint("##search", "Filter files...", &app.searchText, 0, nil) {
		app.rebuildTree()
	}
}

func (app *App) renderStatusBar() {
	if app.files != nil {
		imgui.Text(fmt.Sprintf("%d files total | %d filtered | Selected: %s",
			app.totalFiles, app.filterCount, app.selectedPath))
	} else {
		imgui.Text("No pack or directory loaded")
	}
}

// renderPreview shows the selected file based on its extension.
func (app *App) renderPreview() {
	if app.selectedPath == "" {
		imgui.TextDisabled("Select a file to preview")
		return
	}

	imgui.Text("Selected:")
	imgui.TextWrapped(app.selectedPath)
	imgui.Separator()

	ext := strings.ToLower(filepath.Ext(app.selectedPath))
	imgui.Text("Type: " + fileTypeName(ext))

	if app.previewPath != app.selectedPath {
		app.loadPreview(app.selectedPath)
	}

	imgui.Separator()

	switch ext {
	case ".png", ".bmp":
		app.renderImagePreview()
	case ".obj":
		app.renderMeshPreview()
	case ".wav":
		app.renderAudioPreview()
	case ".yaml", ".yml", ".txt", ".mtl", ".json", ".cfg":
		app.renderTextPreview()
	default:
		app.renderHexPreview()
	}
}

func fileTypeName(ext string) string {
	switch ext {
	case ".png", ".bmp":
		return "Image"
	case ".obj":
		return "Model"
	case ".wav":
		return "Audio"
	case ".yaml", ".yml":
		return "Manifest"
	case ".txt", ".mtl", ".json", ".cfg":
		return "Text"
	default:
		return "Binary"
	}
}
