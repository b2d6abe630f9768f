package vip8

import (
	"fmt"
	"strings"
)

const (
	// MemorySize is the number of addressable bytes
	MemorySize = 4096
	// StartOfProgram is where program images are loaded and where PC starts
	StartOfProgram = 0x200
	// StartOfFont is where the built-in hexadecimal glyphs live
	StartOfFont = 0x000
	// GlyphSize is the number of bytes (rows) of each font glyph
	GlyphSize = 5
)

// MaxProgramSize is the largest program image that fits after StartOfProgram
const MaxProgramSize = MemorySize - StartOfProgram

// Memory is the flat 4 KiB address space.
// Every access is validated against the size of the memory.
type Memory struct {
	cells [MemorySize]byte
}

// NewMemory creates an empty memory of 4096 bytes with the font loaded
func NewMemory() *Memory {
	m := &Memory{}
	loadCharactersInto(m)

	return m
}

func checkRange(addr uint16, n int) error {
	if n < 0 || int(addr)+n > MemorySize {
		return &AddressError{Addr: addr, Len: n}
	}

	return nil
}

func (mem *Memory) Read(addr uint16) (byte, error) {
	if err := checkRange(addr, 1); err != nil {
		return 0, err
	}

	return mem.cells[addr], nil
}

func (mem *Memory) Write(addr uint16, b byte) error {
	if err := checkRange(addr, 1); err != nil {
		return err
	}
	mem.cells[addr] = b

	return nil
}

// ReadRange returns a copy of the n bytes starting at addr
func (mem *Memory) ReadRange(addr uint16, n int) ([]byte, error) {
	if err := checkRange(addr, n); err != nil {
		return nil, err
	}

	out := make([]byte, n)
	copy(out, mem.cells[addr:int(addr)+n])

	return out, nil
}

// WriteRange copies data into memory starting at addr.
// Nothing is written when data does not fit.
func (mem *Memory) WriteRange(addr uint16, data []byte) error {
	if err := checkRange(addr, len(data)); err != nil {
		return err
	}
	copy(mem.cells[addr:], data)

	return nil
}

// Fetch reads the big-endian instruction word at addr
func (mem *Memory) Fetch(addr uint16) (uint16, error) {
	if err := checkRange(addr, 2); err != nil {
		return 0, err
	}

	var opCode uint16
	opCode |= uint16(mem.cells[addr+0]) << 8
	opCode |= uint16(mem.cells[addr+1]) << 0

	return opCode, nil
}

// Bytes returns a copy of the whole memory
func (mem *Memory) Bytes() []byte {
	out := make([]byte, MemorySize)
	copy(out, mem.cells[:])

	return out
}

func (mem *Memory) Clone() *Memory {
	m := &Memory{}
	m.cells = mem.cells

	return m
}

func (mem *Memory) IsEqual(other *Memory) bool {
	return mem.cells == other.cells
}

func (mem *Memory) String() string {
	sb := strings.Builder{}

	sb.WriteString("[ ")
	for _, b := range mem.cells[:StartOfProgram] {
		sb.WriteString(fmt.Sprintf("%X ", b))
	}
	sb.WriteString("]\n")
	sb.WriteString("[ ")
	for _, b := range mem.cells[StartOfProgram:] {
		sb.WriteString(fmt.Sprintf("%X ", b))
	}
	sb.WriteString("]")

	return sb.String()
}

// clear zeroes the memory and reloads the font
func (mem *Memory) clear() {
	mem.cells = [MemorySize]byte{}
	loadCharactersInto(mem)
}

// LoadProgram clears the memory, loads the font and copies the program at StartOfProgram
func (mem *Memory) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit", ErrProgramTooLarge, len(program), MaxProgramSize)
	}

	mem.clear()
	copy(mem.cells[StartOfProgram:], program)

	return nil
}

// GlyphAddress returns the address of the font glyph for the low nibble of digit
func GlyphAddress(digit byte) uint16 {
	return StartOfFont + uint16(digit&0x0F)*GlyphSize
}

var font = [16 * GlyphSize]byte{
	// 0
	0xF0, 0x90, 0x90, 0x90, 0xF0,
	// 1
	0x20, 0x60, 0x20, 0x20, 0x70,
	// 2
	0xF0, 0x10, 0xF0, 0x80, 0xF0,
	// 3
	0xF0, 0x10, 0xF0, 0x10, 0xF0,
	// 4
	0x90, 0x90, 0xF0, 0x10, 0x10,
	// 5
	0xF0, 0x80, 0xF0, 0x10, 0xF0,
	// 6
	0xF0, 0x80, 0xF0, 0x90, 0xF0,
	// 7
	0xF0, 0x10, 0x20, 0x40, 0x40,
	// 8
	0xF0, 0x90, 0xF0, 0x90, 0xF0,
	// 9
	0xF0, 0x90, 0xF0, 0x10, 0xF0,
	// A
	0xF0, 0x90, 0xF0, 0x90, 0x90,
	// B
	0xE0, 0x90, 0xE0, 0x90, 0xE0,
	// C
	0xF0, 0x80, 0x80, 0x80, 0xF0,
	// D
	0xE0, 0x90, 0x90, 0x90, 0xE0,
	// E
	0xF0, 0x80, 0xF0, 0x80, 0xF0,
	// F
	0xF0, 0x80, 0xF0, 0x80, 0x80,
}

func loadCharactersInto(mem *Memory) {
	copy(mem.cells[StartOfFont:], font[:])
}
