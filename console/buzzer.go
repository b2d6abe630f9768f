package console

import (
	"io"
	"os"
	"sync"
)

type Buzzer interface {
	// Boot initializes the component
	Boot() error
	Play()
	Stop()
}

type DummyBuzzer struct {
	mu        sync.Mutex
	isPlaying bool
}

// Boot implements Buzzer.
func (b *DummyBuzzer) Boot() error {
	return nil
}

func NewDummyBuzzer() *DummyBuzzer {
	return &DummyBuzzer{
		isPlaying: false,
	}
}

// Play implements Buzzer.
func (b *DummyBuzzer) Play() {
	b.mu.Lock()
	b.isPlaying = true
	b.mu.Unlock()
}

// Stop implements Buzzer
func (b *DummyBuzzer) Stop() {
	b.mu.Lock()
	b.isPlaying = false
	b.mu.Unlock()
}

func (b *DummyBuzzer) IsPlaying() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.isPlaying
}

// TerminalBuzzer rings the terminal bell when the sound starts
type TerminalBuzzer struct {
	out       io.Writer
	isPlaying bool
}

func NewTerminalBuzzer() *TerminalBuzzer {
	return NewTerminalBuzzerWithOutput(os.Stdout)
}

func NewTerminalBuzzerWithOutput(out io.Writer) *TerminalBuzzer {
	return &TerminalBuzzer{out: out}
}

// Boot implements Buzzer.
func (b *TerminalBuzzer) Boot() error {
	return nil
}

// Play implements Buzzer.
func (b *TerminalBuzzer) Play() {
	if !b.isPlaying {
		b.out.Write([]byte{'\a'})
	}
	b.isPlaying = true
}

// Stop implements Buzzer.
func (b *TerminalBuzzer) Stop() {
	b.isPlaying = false
}

var _ Buzzer = (*DummyBuzzer)(nil)
var _ Buzzer = (*TerminalBuzzer)(nil)
