package backend

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Terminal implements Backend using tcell, downsampling the 256x192
// framebuffer to half-block characters in a 256x96 terminal grid.
type Terminal struct {
	screen  tcell.Screen
	running bool

	// held tracks host key names currently down; tcell delivers key-down
	// events but not key-up, so each held key expires after keyHoldWindow
	// unless refreshed by another event for the same key.
	held      map[string]time.Time
	shiftHeld bool
}

const keyHoldWindow = 120 * time.Millisecond

// NewTerminal constructs an uninitialized terminal backend.
func NewTerminal() *Terminal {
	return &Terminal{held: make(map[string]time.Time)}
}

func (t *Terminal) Init(config Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: init screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: init screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()
	t.screen = screen
	t.running = true
	return nil
}

func (t *Terminal) Update(frame Framebuffer) ([]string, bool, bool, error) {
	now := time.Now()
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKey(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	var pressed []string
	for name, last := range t.held {
		if now.Sub(last) > keyHoldWindow {
			delete(t.held, name)
			continue
		}
		pressed = append(pressed, name)
	}

	if !t.running {
		return pressed, t.shiftHeld, true, nil
	}

	t.render(frame)
	t.screen.Show()
	return pressed, t.shiftHeld, false, nil
}

func (t *Terminal) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}

func (t *Terminal) processKey(ev *tcell.EventKey, now time.Time) {
	if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape {
		t.running = false
		return
	}
	t.shiftHeld = ev.Modifiers()&tcell.ModShift != 0
	if name, ok := tcellKeyNames[ev.Key()]; ok {
		t.held[name] = now
		return
	}
	if ev.Key() == tcell.KeyRune {
		if name, ok := runeKeyNames[ev.Rune()]; ok {
			t.held[name] = now
		}
	}
}

var tcellKeyNames = map[tcell.Key]string{
	tcell.KeyEnter:     "Enter",
	tcell.KeyUp:        "Up",
	tcell.KeyDown:      "Down",
	tcell.KeyLeft:      "Left",
	tcell.KeyRight:     "Right",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
}

// runeKeyNames maps printable runes directly onto the CoCo keyboard matrix's
// own key names (see pia.DefaultKeyMaps), which already uses single
// upper-case letters and digits.
var runeKeyNames = map[rune]string{
	' ': "Space", ';': "Semicolon", ',': "Comma", '-': "Minus", '.': "Period", '/': "Slash",
}

func init() {
	for c := 'A'; c <= 'Z'; c++ {
		runeKeyNames[c] = string(c)
		runeKeyNames[c+('a'-'A')] = string(c)
	}
	for c := '0'; c <= '9'; c++ {
		runeKeyNames[c] = string(c)
	}
}

// render downsamples the framebuffer two rows at a time into a single
// terminal row using the Unicode half-block character, matching the
// teacher's half-block terminal renderer.
func (t *Terminal) render(frame Framebuffer) {
	width, height := frame.Width(), frame.Height()
	data := frame.ToSlice()
	termW, termH := t.screen.Size()
	t.screen.Clear()
	for y := 0; y < height && y/2 < termH; y += 2 {
		for x := 0; x < width && x < termW; x++ {
			top := data[y*width+x]
			bottom := top
			if y+1 < height {
				bottom = data[(y+1)*width+x]
			}
			style := tcell.StyleDefault.
				Foreground(rgbColor(top)).
				Background(rgbColor(bottom))
			t.screen.SetContent(x, y/2, '▀', nil, style) // upper half block
		}
	}
}

func rgbColor(packed uint32) tcell.Color {
	r := uint8(packed >> 16)
	g := uint8(packed >> 8)
	b := uint8(packed)
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
