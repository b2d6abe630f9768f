package vip8_test

import (
	"errors"
	"testing"

	"github.com/guslan/vip8"
)

func TestDrawSetsPixelsMostSignificantBitFirst(t *testing.T) {
	fb := vip8.NewFramebuffer()

	if collision := fb.Draw(2, 1, []byte{0b10100000}); collision {
		t.Fatalf(`drawing on an empty screen should not collide`)
	}

	s := fb.Screen()
	for x, want := range []bool{false, false, true, false, true, false} {
		if s.At(x, 1) != want {
			t.Fatalf(`pixel (%d, 1) = %v, expected %v`, x, s.At(x, 1), want)
		}
	}
	if !fb.Dirty() {
		t.Fatalf(`drawing should mark the framebuffer dirty`)
	}
}

func TestDrawTwiceRestoresTheScreen(t *testing.T) {
	fb := vip8.NewFramebuffer()
	fb.Draw(10, 10, []byte{0xFF, 0x81, 0x3C})
	before := fb.Screen()

	sprite := []byte{0xF0, 0x90, 0xF0, 0x90, 0x90}
	for _, origin := range [][2]byte{{0, 0}, {12, 9}, {60, 30}, {200, 100}} {
		fb.Draw(origin[0], origin[1], sprite)
		if collision := fb.Draw(origin[0], origin[1], sprite); !collision {
			t.Fatalf(`redrawing at %v should collide`, origin)
		}
		if fb.Screen() != before {
			t.Fatalf(`drawing twice at %v should restore the screen`, origin)
		}
	}
}

func TestDrawWrapsAroundTheEdges(t *testing.T) {
	fb := vip8.NewFramebuffer()
	fb.Draw(62, 31, []byte{0xF0, 0xF0})

	s := fb.Screen()
	for _, p := range [][2]int{{62, 31}, {63, 31}, {0, 31}, {1, 31}, {62, 0}, {63, 0}, {0, 0}, {1, 0}} {
		if !s.At(p[0], p[1]) {
			t.Fatalf(`pixel %v should be on after a wrapping draw`, p)
		}
	}
	if s.At(2, 0) {
		t.Fatalf(`pixel (2, 0) should be off`)
	}
}

func TestDrawCollisionOnlyWhenAPixelTurnsOff(t *testing.T) {
	fb := vip8.NewFramebuffer()
	fb.Draw(0, 0, []byte{0b11000000})

	if collision := fb.Draw(2, 0, []byte{0b11000000}); collision {
		t.Fatalf(`drawing next to set pixels should not collide`)
	}
	if collision := fb.Draw(1, 0, []byte{0b10000000}); !collision {
		t.Fatalf(`turning off a set pixel should collide`)
	}
}

func TestDrawInstructionLatchesCollision(t *testing.T) {
	m := quietMachine()

	program := []byte{
		// LD F, V0 ; VF = 0xAA
		0xF0, 0x29,
		0x6F, 0xAA,
		// DRW V0, V0, 5
		0xD0, 0x05,
		// DRW V0, V0, 5
		0xD0, 0x05,
	}
	runNSteps(t, m, program, 3)
	assertVxEq(t, "first draw", m, 0xF, 0)
	on, _ := m.Framebuffer.Pixel(0, 0)
	if !on {
		t.Fatalf(`the glyph 0 should be on screen`)
	}

	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	assertVxEq(t, "second draw", m, 0xF, 1)
	if m.Framebuffer.Screen() != (vip8.Screen{}) {
		t.Fatalf(`the second draw should erase the glyph`)
	}
}

func TestDrawInstructionOutOfBoundsSpriteIsFatal(t *testing.T) {
	m := quietMachine()
	// LD I, 0xFFE ; DRW V0, V0, 3
	if err := m.Load([]byte{0xAF, 0xFE, 0xD0, 0x03}); err != nil {
		t.Fatal(err)
	}
	m.Step()

	if err := m.Step(); !errors.Is(err, vip8.ErrAddressOutOfBounds) {
		t.Fatalf(`Step() = %v, expected an address out of bounds`, err)
	}
}

func TestPixelAccessIsBoundsChecked(t *testing.T) {
	fb := vip8.NewFramebuffer()

	if err := fb.SetPixel(63, 31, true); err != nil {
		t.Fatal(err)
	}
	if on, err := fb.Pixel(63, 31); err != nil || !on {
		t.Fatalf(`Pixel(63, 31) = %v, %v`, on, err)
	}
	if err := fb.SetPixel(64, 0, true); !errors.Is(err, vip8.ErrPixelOutOfBounds) {
		t.Fatalf(`SetPixel(64, 0) = %v, expected out of bounds`, err)
	}
	if _, err := fb.Pixel(0, -1); !errors.Is(err, vip8.ErrPixelOutOfBounds) {
		t.Fatalf(`Pixel(0, -1) = %v, expected out of bounds`, err)
	}

	fb.MarkClean()
	fb.Clear()
	if !fb.Dirty() || fb.Screen() != (vip8.Screen{}) {
		t.Fatalf(`Clear() should empty and dirty the framebuffer`)
	}
}

func TestScreenPacking(t *testing.T) {
	fb := vip8.NewFramebuffer()
	fb.Draw(0, 0, []byte{0b10000001})
	fb.Draw(60, 31, []byte{0x0F})

	packed := fb.Screen().Pack()
	if len(packed) != 256 {
		t.Fatalf(`len(packed) = %d, expected 256`, len(packed))
	}
	if packed[0] != 0b10000001 || packed[255] != 0x00 || packed[252] != 0x00 {
		t.Fatalf(`unexpected packing % X`, packed)
	}
	// the second sprite wraps to the start of the last row
	if packed[248] != 0b11110000 {
		t.Fatalf(`packed[248] = %08b, expected 11110000`, packed[248])
	}

	s, err := vip8.UnpackScreen(packed)
	if err != nil {
		t.Fatal(err)
	}
	if s != fb.Screen() {
		t.Fatalf(`UnpackScreen(Pack()) should be the same screen`)
	}
	if _, err := vip8.UnpackScreen(packed[:10]); err == nil {
		t.Fatalf(`UnpackScreen should reject short buffers`)
	}
}
