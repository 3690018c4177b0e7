//go:build !sdl2

package backend

import "fmt"

// SDL2 is a stand-in used when built without the sdl2 tag (and without SDL2
// development libraries available). Use -tags sdl2 to build the real one.
type SDL2 struct{}

// NewSDL2 constructs the stub SDL2 backend.
func NewSDL2() *SDL2 { return &SDL2{} }

func (s *SDL2) Init(Config) error {
	return fmt.Errorf("sdl2 backend not built: compile with -tags sdl2 and SDL2 installed")
}

func (s *SDL2) Update(Framebuffer) ([]string, bool, bool, error) {
	return nil, false, true, fmt.Errorf("sdl2 backend not built")
}

func (s *SDL2) Cleanup() error { return nil }
