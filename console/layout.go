package console

import "unicode"

// KeyboardLayout maps each of the 16 keys to the host rune that presses it
type KeyboardLayout [16]rune

// DefaultKeyboardLayout places the keypad on the left block of a QWERTY keyboard
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  ->  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
var DefaultKeyboardLayout = KeyboardLayout{
	0x0: 'x',
	0x1: '1',
	0x2: '2',
	0x3: '3',
	0x4: 'q',
	0x5: 'w',
	0x6: 'e',
	0x7: 'a',
	0x8: 's',
	0x9: 'd',
	0xA: 'z',
	0xB: 'c',
	0xC: '4',
	0xD: 'r',
	0xE: 'f',
	0xF: 'v',
}

// LookupMap returns the inverse of the layout, keyed by lower case rune
func (layout KeyboardLayout) LookupMap() map[rune]byte {
	m := make(map[rune]byte, len(layout))
	for k, r := range layout {
		m[unicode.ToLower(r)] = byte(k)
	}

	return m
}

// Key returns the key pressed by r, ignoring case
func (layout KeyboardLayout) Key(r rune) (byte, bool) {
	r = unicode.ToLower(r)
	for k, lr := range layout {
		if unicode.ToLower(lr) == r {
			return byte(k), true
		}
	}

	return 0, false
}
