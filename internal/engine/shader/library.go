package shader

import "fmt"

// Program names understood by the library.
const (
	ProgramSilhouette = "silhouette"
	ProgramMain       = "main"
	ProgramCompose    = "compose"
	ProgramDebug      = "debug"
	ProgramBlit       = "blit"
)

// Library owns the compiled pass programs, keyed by name.
type Library struct {
	programs map[string]uint32
}

// LoadLibrary compiles every pass program. A failed compile tears
// down the ones already built.
func LoadLibrary() (*Library, error) {
	specs := []struct {
		name, vert, frag string
	}{
		{ProgramSilhouette, meshVert, silhouetteFrag},
		{ProgramMain, meshVert, meshFrag},
		{ProgramCompose, fullscreenVert, composeFrag},
		{ProgramDebug, debugVert, debugFrag},
		{ProgramBlit, fullscreenVert, blitFrag},
	}

	lib := &Library{programs: make(map[string]uint32, len(specs))}
	for _, s := range specs {
		prog, err := CompileProgram(s.vert, s.frag)
		if err != nil {
			lib.Destroy()
			return nil, fmt.Errorf("compiling %s program: %w", s.name, err)
		}
		lib.programs[s.name] = prog
	}
	return lib, nil
}

// Program returns the compiled program id for the given name.
func (l *Library) Program(name string) (uint32, error) {
	prog, ok := l.programs[name]
	if !ok {
		return 0, fmt.Errorf("unknown shader program %q", name)
	}
	return prog, nil
}

// MustProgram is Program for pipelines the renderer cannot run
// without.
func (l *Library) MustProgram(name string) uint32 {
	prog, err := l.Program(name)
	if err != nil {
		panic(err)
	}
	return prog
}

// Destroy deletes every compiled program.
func (l *Library) Destroy() {
	for name, prog := range l.programs {
		deleteProgram(prog)
		delete(l.programs, name)
	}
}
