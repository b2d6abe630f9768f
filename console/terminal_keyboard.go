package console

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// DefaultKeyHold is how long a key stays down after its byte is read.
// Terminals report key presses only, never releases.
const DefaultKeyHold = 150 * time.Millisecond

// KeySink receives key events
type KeySink interface {
	KeyDown(k byte) error
	KeyUp(k byte) error
}

// TerminalKeyboard reads key presses from a terminal in raw mode
type TerminalKeyboard struct {
	in     *os.File
	sink   KeySink
	layout KeyboardLayout
	Hold   time.Duration
	// OnQuit is called when ESC or Ctrl-C is read
	OnQuit func()

	originalTerminalConfig unix.Termios
	raw                    bool

	mu sync.Mutex
	// presses counts the presses of each key, so only the release of the latest press fires
	presses map[byte]uint64
}

func NewTerminalKeyboard(sink KeySink, layout KeyboardLayout) *TerminalKeyboard {
	return &TerminalKeyboard{
		in:      os.Stdin,
		sink:    sink,
		layout:  layout,
		Hold:    DefaultKeyHold,
		presses: map[byte]uint64{},
	}
}

// Boot configures the terminal to run in raw mode and starts reading keys
func (kb *TerminalKeyboard) Boot() error {
	if err := termios.Tcgetattr(kb.in.Fd(), &kb.originalTerminalConfig); err != nil {
		return err
	}

	newTermios := kb.originalTerminalConfig
	newTermios.Lflag &^= unix.ICANON | unix.ECHO
	if err := termios.Tcsetattr(kb.in.Fd(), termios.TCSANOW, &newTermios); err != nil {
		return err
	}
	kb.raw = true
	slog.Info("Terminal in raw mode")

	go kb.poll(kb.in)

	return nil
}

// Close restores the terminal
func (kb *TerminalKeyboard) Close() error {
	if !kb.raw {
		return nil
	}
	kb.raw = false
	slog.Info("Restoring the terminal")

	return termios.Tcsetattr(kb.in.Fd(), termios.TCSANOW, &kb.originalTerminalConfig)
}

func (kb *TerminalKeyboard) poll(in io.Reader) {
	buf := make([]byte, 16)
	for {
		n, err := in.Read(buf)
		if err != nil {
			return
		}

		for _, b := range buf[:n] {
			kb.HandleByte(b)
		}
	}
}

// HandleByte presses the key mapped to b and schedules its release
func (kb *TerminalKeyboard) HandleByte(b byte) {
	if b == ESC || b == 0x03 {
		if kb.OnQuit != nil {
			kb.OnQuit()
		}
		return
	}

	k, ok := kb.layout.Key(rune(b))
	if !ok {
		return
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()

	if err := kb.sink.KeyDown(k); err != nil {
		slog.Error("Error pressing key", slog.Int("key", int(k)), slog.Any("error", err))
		return
	}

	kb.presses[k]++
	press := kb.presses[k]
	time.AfterFunc(kb.Hold, func() {
		kb.mu.Lock()
		latest := kb.presses[k] == press
		kb.mu.Unlock()

		if latest {
			kb.sink.KeyUp(k)
		}
	})
}
