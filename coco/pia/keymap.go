package pia

// keyMatrix lays out the CoCo's 8x8 keyboard matrix, (row, col), using
// host-keyboard-independent key names that a backend's input translation
// maps its own key codes onto (see worldofdragon.org's CoCo keyboard map).
var keyMatrix = [8][8]string{
	{"", "A", "B", "C", "D", "E", "F", "G"},
	{"H", "I", "J", "K", "L", "M", "N", "O"},
	{"P", "Q", "R", "S", "T", "U", "V", "W"},
	{"X", "Y", "Z", "Up", "Down", "Left", "Right", "Space"},
	{"0", "1", "2", "3", "4", "5", "6", "7"},
	{"8", "9", "", "Semicolon", "Comma", "Minus", "Period", "Slash"},
	{"Enter", "Home", "Escape", "", "", "", "", "Shift"},
	{"", "", "", "", "", "", "", ""},
}

// oneToN covers modern keys with no direct CoCo equivalent.
var oneToN = map[string][][2]int{
	"Backspace":  {{3, 5}},
	"Shift":      {{6, 7}},
	"Apostrophe": {{6, 7}, {4, 7}},
	"Equal":      {{6, 7}, {5, 5}},
}

// shiftOneToN covers shift+key combos that don't land on the CoCo's own
// shifted symbol, so they're remapped to the chord that does.
var shiftOneToN = map[string][][2]int{
	"2":          {{0, 0}},
	"Semicolon":  {{5, 2}},
	"Apostrophe": {{6, 7}, {4, 2}},
	"7":          {{6, 7}, {4, 6}},
	"8":          {{6, 7}, {5, 2}},
	"9":          {{6, 7}, {5, 0}},
	"0":          {{6, 7}, {5, 1}},
	"Equal":      {{6, 7}, {5, 3}},
}

// DefaultKeyMaps builds the direct and shift key-translation maps a backend
// passes to PIA0.SetKeys, combining the raw matrix with the irregular
// modern-keyboard mappings above.
func DefaultKeyMaps() (direct, shift KeyMap) {
	direct = make(KeyMap)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			name := keyMatrix[row][col]
			if name == "" {
				continue
			}
			direct[name] = append(direct[name], [2]int{row, col})
		}
	}
	for k, v := range oneToN {
		direct[k] = v
	}
	shift = make(KeyMap, len(shiftOneToN))
	for k, v := range shiftOneToN {
		shift[k] = v
	}
	return direct, shift
}
