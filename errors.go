package vip8

import (
	"errors"
	"fmt"
)

var ErrProgramTooLarge = errors.New("the program does not fit into memory")
var ErrNoProgram = errors.New("there is no program loaded")

var ErrStackUnderflow = errors.New("stack underflow: try to pop an empty stack")
var ErrStackOverflow = errors.New("stack overflow: try to push to a full stack")

var ErrAddressOutOfBounds = errors.New("address out of bounds")
var ErrKeyOutOfRange = errors.New("key out of range")
var ErrPixelOutOfBounds = errors.New("pixel out of bounds")

var ErrMachineHalted = errors.New("the machine is halted")

type ErrOpCodeUnknown struct {
	OpCode uint16
	Pc     uint16
}

func (err ErrOpCodeUnknown) Error() string {
	return fmt.Sprintf("unknown opcode=%04X at PC=%03X", err.OpCode, err.Pc)
}

// AddressError reports an access of Len bytes starting at Addr that escapes memory.
type AddressError struct {
	Addr uint16
	Len  int
}

func (err *AddressError) Error() string {
	return fmt.Sprintf("access of %d byte(s) at %03X escapes %d bytes of memory", err.Len, err.Addr, MemorySize)
}

func (err *AddressError) Is(target error) bool {
	return target == ErrAddressOutOfBounds
}

type KeyError struct {
	Key byte
}

func (err *KeyError) Error() string {
	return fmt.Sprintf("key %X is not one of the 16 keys", err.Key)
}

func (err *KeyError) Is(target error) bool {
	return target == ErrKeyOutOfRange
}

// Fault is the error that halts the machine.
// Pc is the address of the faulting instruction.
type Fault struct {
	Pc     uint16
	OpCode uint16
	Err    error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault at PC=%03X (opcode=%04X): %v", f.Pc, f.OpCode, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// haltedError is returned by Step once the machine has faulted.
type haltedError struct {
	cause error
}

func (err haltedError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMachineHalted, err.cause)
}

func (err haltedError) Unwrap() []error {
	return []error{ErrMachineHalted, err.cause}
}
