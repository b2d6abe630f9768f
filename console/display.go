package console

import (
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/guslan/vip8"
)

// Display abstraction for a display
type Display interface {
	// Boot initializes the component
	Boot() error
	// Render draws a full screen
	Render(vip8.Screen) error
}

// DummyDisplay is a display that only remembers the last screen
type DummyDisplay struct {
	mu      sync.Mutex
	last    vip8.Screen
	renders int
}

func NewDummyDisplay() *DummyDisplay {
	return &DummyDisplay{}
}

func (d *DummyDisplay) Boot() error {
	return nil
}

func (d *DummyDisplay) Render(screen vip8.Screen) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.last = screen
	d.renders++

	return nil
}

func (d *DummyDisplay) Last() vip8.Screen {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.last
}

func (d *DummyDisplay) Renders() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.renders
}

const ESC = 0x1B

type TerminalDisplay struct {
	terminal        io.Writer
	OnChar, OffChar string
	onColor         *color.Color
}

func NewTerminalDisplay() *TerminalDisplay {
	return NewTerminalDisplayWithOutput(color.Output)
}

func NewTerminalDisplayWithOutput(out io.Writer) *TerminalDisplay {
	return &TerminalDisplay{
		terminal: out,
		OnChar:   "██",
		OffChar:  "  ",
		onColor:  color.New(color.FgYellow),
	}
}

// Boot implements Display.
func (disp *TerminalDisplay) Boot() error {
	_, err := disp.terminal.Write([]byte{
		// Move cursor do start
		ESC, '[', '1', 'H',
		// clear the terminal
		ESC, '[', '0', 'J',
	})

	return err
}

// Render implements Display.
func (disp *TerminalDisplay) Render(screen vip8.Screen) error {
	on := disp.onColor.Sprint(disp.OnChar)

	buff := make([]byte, 0, vip8.ScreenWidth*vip8.ScreenHeight*len(on)+vip8.ScreenHeight*2+64)
	buff = append(buff, ESC, '[', '1', 'H')
	for y := 0; y < vip8.ScreenHeight; y++ {
		for x := 0; x < vip8.ScreenWidth; x++ {
			if screen.At(x, y) {
				buff = append(buff, on...)
			} else {
				buff = append(buff, disp.OffChar...)
			}
		}
		buff = append(buff, '|', '\r', '\n')
	}

	_, err := disp.terminal.Write(buff)
	return err
}

var _ Display = (*DummyDisplay)(nil)
var _ Display = (*TerminalDisplay)(nil)
