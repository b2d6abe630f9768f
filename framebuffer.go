package vip8

import (
	"fmt"
	"strings"
)

const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

// Screen is a read-only copy of the framebuffer, row-major
type Screen [ScreenWidth * ScreenHeight]bool

// At returns the pixel at x, y. Coordinates outside the screen read as off.
func (s Screen) At(x, y int) bool {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}

	return s[y*ScreenWidth+x]
}

// Pack returns the screen with 8 pixels per byte, most significant bit first
func (s Screen) Pack() []byte {
	buf := make([]byte, len(s)/8)
	for i, on := range s {
		if on {
			buf[i/8] |= 0b10000000 >> (i % 8)
		}
	}

	return buf
}

// UnpackScreen is the inverse of Screen.Pack
func UnpackScreen(buf []byte) (Screen, error) {
	var s Screen
	if len(buf) != len(s)/8 {
		return s, fmt.Errorf("a packed screen is %d bytes, got %d", len(s)/8, len(buf))
	}

	for i := range s {
		s[i] = buf[i/8]&(0b10000000>>(i%8)) > 0
	}

	return s, nil
}

func (s Screen) String() string {
	sb := strings.Builder{}
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			if s[y*ScreenWidth+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Framebuffer is the monochrome 64x32 display memory.
// Draw operations toggle pixels, they never overwrite them.
type Framebuffer struct {
	pixels Screen
	dirty  bool
}

func NewFramebuffer() *Framebuffer {
	return &Framebuffer{}
}

func (fb *Framebuffer) Clear() {
	fb.pixels = Screen{}
	fb.dirty = true
}

func pixelIndex(x, y int) (int, error) {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return 0, fmt.Errorf("%w: (%d, %d)", ErrPixelOutOfBounds, x, y)
	}

	return y*ScreenWidth + x, nil
}

func (fb *Framebuffer) Pixel(x, y int) (bool, error) {
	i, err := pixelIndex(x, y)
	if err != nil {
		return false, err
	}

	return fb.pixels[i], nil
}

func (fb *Framebuffer) SetPixel(x, y int, on bool) error {
	i, err := pixelIndex(x, y)
	if err != nil {
		return err
	}
	fb.pixels[i] = on
	fb.dirty = true

	return nil
}

// Draw XORs the sprite rows onto the framebuffer with its top-left corner at x, y.
// Coordinates wrap around both edges.
// Returns whether any set pixel was turned off.
func (fb *Framebuffer) Draw(x, y byte, sprite []byte) bool {
	collision := false

	for row, b := range sprite {
		py := (int(y) + row) % ScreenHeight
		for col := 0; col < 8; col++ {
			if b&(0b10000000>>col) == 0 {
				continue
			}

			px := (int(x) + col) % ScreenWidth
			t := py*ScreenWidth + px
			if fb.pixels[t] {
				collision = true
			}
			fb.pixels[t] = !fb.pixels[t]
		}
	}

	if len(sprite) > 0 {
		fb.dirty = true
	}

	return collision
}

// Screen returns a copy of the pixels
func (fb *Framebuffer) Screen() Screen {
	return fb.pixels
}

// Dirty reports whether the pixels changed since the last MarkClean
func (fb *Framebuffer) Dirty() bool {
	return fb.dirty
}

func (fb *Framebuffer) MarkClean() {
	fb.dirty = false
}
