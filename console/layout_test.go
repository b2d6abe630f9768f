package console_test

import (
	"testing"

	"github.com/guslan/vip8/console"
)

func TestDefaultKeyboardLayout(t *testing.T) {
	tests := map[rune]byte{
		'1': 0x1, '4': 0xC,
		'q': 0x4, 'R': 0xD,
		'a': 0x7, 'f': 0xE,
		'z': 0xA, 'x': 0x0, 'c': 0xB, 'V': 0xF,
	}

	for r, want := range tests {
		k, ok := console.DefaultKeyboardLayout.Key(r)
		if !ok || k != want {
			t.Fatalf(`Key(%q) = %X, %v, expected %X`, r, k, ok, want)
		}
	}

	if _, ok := console.DefaultKeyboardLayout.Key('p'); ok {
		t.Fatalf(`'p' should not be mapped`)
	}

	lookup := console.DefaultKeyboardLayout.LookupMap()
	if len(lookup) != 16 || lookup['w'] != 0x5 {
		t.Fatalf(`unexpected lookup map %v`, lookup)
	}
}
