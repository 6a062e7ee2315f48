package input

import "github.com/gogpu/gpucontext"

var punctuation = map[gpucontext.Key][2]rune{
	gpucontext.KeyMinus:        {'-', '_'},
	gpucontext.KeyEqual:        {'=', '+'},
	gpucontext.KeyLeftBracket:  {'[', '{'},
	gpucontext.KeyRightBracket: {']', '}'},
	gpucontext.KeyBackslash:    {'\\', '|'},
	gpucontext.KeySemicolon:    {';', ':'},
	gpucontext.KeyApostrophe:   {'\'', '"'},
	gpucontext.KeyGrave:        {'`', '~'},
	gpucontext.KeyComma:        {',', '<'},
	gpucontext.KeyPeriod:       {'.', '>'},
	gpucontext.KeySlash:        {'/', '?'},
}

var shiftedDigits = [10]rune{')', '!', '@', '#', '$', '%', '^', '&', '*', '('}

// KeyRune returns the character a key produces on a US layout, or 0 for
// keys without one.
func KeyRune(key gpucontext.Key, mods gpucontext.Modifiers) rune {
	shift := mods.HasShift()
	switch {
	case key >= gpucontext.KeyA && key <= gpucontext.KeyZ:
		upper := shift != (mods&gpucontext.ModCapsLock != 0)
		if upper {
			return 'A' + rune(key-gpucontext.KeyA)
		}
		return 'a' + rune(key-gpucontext.KeyA)
	case key >= gpucontext.Key0 && key <= gpucontext.Key9:
		if shift {
			return shiftedDigits[key-gpucontext.Key0]
		}
		return '0' + rune(key-gpucontext.Key0)
	case key >= gpucontext.KeyNumpad0 && key <= gpucontext.KeyNumpad9:
		return '0' + rune(key-gpucontext.KeyNumpad0)
	case key == gpucontext.KeySpace:
		return ' '
	case key == gpucontext.KeyTab:
		return '\t'
	case key == gpucontext.KeyEnter, key == gpucontext.KeyNumpadEnter:
		return '\r'
	}
	if p, ok := punctuation[key]; ok {
		if shift {
			return p[1]
		}
		return p[0]
	}
	return 0
}
