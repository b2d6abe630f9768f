package vip8

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
)

const (
	RegisterCount = 16
	// FlagRegister is VF, the carry/borrow/shift/collision output
	FlagRegister = 0xF
	// StackSize is the number of return addresses the stack holds
	StackSize = 16
)

// MachineRoutine interprets 0nnn (SYS) instructions
type MachineRoutine func(opCode uint16, m *Machine) error

type MachineConfig struct {
	// Random is the byte source of the RND instruction
	Random io.Reader
	Logger *slog.Logger
	Quirks Quirks
	// MachineRoutine handles 0nnn. When nil, 0nnn is an unknown opcode.
	MachineRoutine MachineRoutine
}
type MachineConfigCb func(config *MachineConfig)

type State byte

const (
	StateRunning State = iota
	// StateAwaitingKey is entered by Fx0A and left on the first step that sees a key down
	StateAwaitingKey
	// StateHalted is entered on any fault and left only through Reset or Load
	StateHalted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateAwaitingKey:
		return "awaiting key"
	case StateHalted:
		return "halted"
	}

	return fmt.Sprintf("State(%d)", byte(s))
}

// Machine is the whole virtual machine: registers, memory, stack, timers,
// keypad and framebuffer. It performs no I/O and no timing of its own.
type Machine struct {
	Memory *Memory
	// V 8-bit registers
	V [RegisterCount]byte
	// I 16-bit register (12-bit usable)
	I uint16
	// Delay timer register
	Dt byte
	// Sound timer register
	St byte
	// Program counter
	Pc uint16
	// Stack pointer
	Sp byte
	// Stack
	Stack [StackSize]uint16

	Keypad      *Keypad
	Framebuffer *Framebuffer

	state          State
	keyDstRegister byte
	lastError      error
	cycles         uint64
	loaded         bool

	random         io.Reader
	logger         *slog.Logger
	quirks         Quirks
	machineRoutine MachineRoutine
}

func NewMachine(configs ...MachineConfigCb) *Machine {
	config := &MachineConfig{
		Random:         rand.Reader,
		Logger:         slog.Default(),
		Quirks:         0,
		MachineRoutine: nil,
	}
	for _, cb := range configs {
		cb(config)
	}

	m := &Machine{
		Memory:      NewMemory(),
		Keypad:      NewKeypad(),
		Framebuffer: NewFramebuffer(),

		random:         config.Random,
		logger:         config.Logger,
		quirks:         config.Quirks,
		machineRoutine: config.MachineRoutine,
	}
	m.Reset()

	return m
}

// Reset puts the machine back at the start of the loaded program.
// Memory keeps the program, the font is reloaded.
func (m *Machine) Reset() {
	m.V = [RegisterCount]byte{}
	m.I = 0
	m.Dt = 0
	m.St = 0
	m.Pc = StartOfProgram
	m.Sp = 0
	m.Stack = [StackSize]uint16{}

	m.state = StateRunning
	m.keyDstRegister = 0
	m.lastError = nil
	m.cycles = 0

	loadCharactersInto(m.Memory)
	m.Keypad.Reset()
	m.Framebuffer.Clear()
}

// Load resets the machine and loads the program at StartOfProgram.
// A program that does not fit leaves the machine untouched.
func (m *Machine) Load(program []byte) error {
	if err := m.Memory.LoadProgram(program); err != nil {
		return err
	}

	m.Reset()
	m.loaded = true

	return nil
}

func (m *Machine) Loaded() bool {
	return m.loaded
}

func (m *Machine) Quirks() Quirks {
	return m.quirks
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Waiting() bool {
	return m.state == StateAwaitingKey
}

func (m *Machine) Halted() bool {
	return m.state == StateHalted
}

// Err returns the fault that halted the machine, if any
func (m *Machine) Err() error {
	return m.lastError
}

// Cycles returns the number of instructions executed since the last reset
func (m *Machine) Cycles() uint64 {
	return m.cycles
}

func (m *Machine) KeyDown(k byte) error {
	return m.Keypad.Press(k)
}

func (m *Machine) KeyUp(k byte) error {
	return m.Keypad.Release(k)
}

// Step executes a single instruction.
func (m *Machine) Step() error {
	switch m.state {
	case StateHalted:
		return haltedError{cause: m.lastError}

	case StateAwaitingKey:
		if k, pressed := m.Keypad.FirstPressed(); pressed {
			m.V[m.keyDstRegister] = k
			m.state = StateRunning
		}
		return nil
	}

	pc := m.Pc
	opCode, err := m.Memory.Fetch(pc)
	if err != nil {
		return m.fault(pc, 0, err)
	}

	if m.logger.Enabled(context.Background(), slog.LevelDebug) {
		m.logger.Debug(
			"exec",
			slog.String("pc", fmt.Sprintf("0x%03X", pc)),
			slog.String("opcode", fmt.Sprintf("0x%04X", opCode)),
			slog.String("instr", Disassemble(opCode)),
		)
	}

	m.Pc += 2
	if err := m.executeInstruction(pc, opCode); err != nil {
		return m.fault(pc, opCode, err)
	}
	m.cycles++

	return nil
}

func (m *Machine) fault(pc, opCode uint16, err error) error {
	f := &Fault{Pc: pc, OpCode: opCode, Err: err}
	m.state = StateHalted
	m.lastError = f

	m.logger.Error("Machine halted",
		slog.String("pc", fmt.Sprintf("0x%03X", pc)),
		slog.String("opcode", fmt.Sprintf("0x%04X", opCode)),
		slog.Any("error", err),
	)

	return f
}

// Snapshot is a copy of the machine registers
type Snapshot struct {
	OpCode uint16
	Pc     uint16
	V      [RegisterCount]byte
	I      uint16
	Sp     byte
	Stack  [StackSize]uint16
	Dt     byte
	St     byte
	State  State
	Cycles uint64
}

// Snapshot copies the registers. OpCode is the word at PC, or 0 when PC is out of memory.
func (m *Machine) Snapshot() Snapshot {
	opCode, _ := m.Memory.Fetch(m.Pc)

	return Snapshot{
		OpCode: opCode,
		Pc:     m.Pc,
		V:      m.V,
		I:      m.I,
		Sp:     m.Sp,
		Stack:  m.Stack,
		Dt:     m.Dt,
		St:     m.St,
		State:  m.state,
		Cycles: m.cycles,
	}
}
