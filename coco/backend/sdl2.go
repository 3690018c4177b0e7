//go:build sdl2

package backend

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

// SDL2 implements Backend using SDL2 bindings, grounded on the teacher's
// sdl2.go. Building it requires SDL2 development libraries and the sdl2
// build tag; the default build uses the stub in sdl2_stub.go instead.
type SDL2 struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
	scale    int32
	pixels   []byte
}

// NewSDL2 constructs an uninitialized SDL2 backend.
func NewSDL2() *SDL2 { return &SDL2{} }

func (s *SDL2) Init(config Config) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("sdl2: init: %w", err)
	}
	scale := int32(config.Scale)
	if scale <= 0 {
		scale = 2
	}
	s.scale = scale

	const width, height = 256, 192
	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		width*scale, height*scale,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("sdl2: create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2: create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_RGBA8888, sdl.TEXTUREACCESS_STREAMING, width, height)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("sdl2: create texture: %w", err)
	}
	s.texture = texture
	s.pixels = make([]byte, width*height*4)
	s.running = true
	return nil
}

func (s *SDL2) Update(frame Framebuffer) ([]string, bool, bool, error) {
	var pressed []string
	shiftHeld := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			s.running = false
		case *sdl.KeyboardEvent:
			if e.Keysym.Sym == sdl.K_ESCAPE {
				s.running = false
			}
			if e.Keysym.Mod&sdl.KMOD_SHIFT != 0 {
				shiftHeld = true
			}
			if e.State == sdl.PRESSED {
				if name, ok := sdlKeyNames[e.Keysym.Sym]; ok {
					pressed = append(pressed, name)
				}
			}
		}
	}

	if !s.running {
		return pressed, shiftHeld, true, nil
	}

	data := frame.ToSlice()
	for i, px := range data {
		s.pixels[i*4+0] = byte(px >> 16) // R
		s.pixels[i*4+1] = byte(px >> 8)  // G
		s.pixels[i*4+2] = byte(px)       // B
		s.pixels[i*4+3] = 0xFF
	}
	s.texture.Update(nil, s.pixels, frame.Width()*4)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()

	return pressed, shiftHeld, false, nil
}

func (s *SDL2) Cleanup() error {
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}

var sdlKeyNames = map[sdl.Keycode]string{
	sdl.K_RETURN: "Enter",
	sdl.K_UP:     "Up",
	sdl.K_DOWN:   "Down",
	sdl.K_LEFT:   "Left",
	sdl.K_RIGHT:  "Right",
	sdl.K_SPACE:  "Space",
}

func init() {
	for c := sdl.K_a; c <= sdl.K_z; c++ {
		letter := string(rune('A' + (c - sdl.K_a)))
		sdlKeyNames[c] = letter
	}
	for c := sdl.K_0; c <= sdl.K_9; c++ {
		digit := string(rune('0' + (c - sdl.K_0)))
		sdlKeyNames[c] = digit
	}
}
