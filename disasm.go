package vip8

import "fmt"

// Disassemble renders opCode as a mnemonic.
// Words that are not instructions are rendered as data (DW).
func Disassemble(opCode uint16) string {
	x := (opCode & 0x0F00) >> 8
	y := (opCode & 0x00F0) >> 4
	n := opCode & 0x000F
	kk := opCode & 0x00FF
	nnn := opCode & 0x0FFF

	switch opCode & 0xF000 {
	case 0x0000:
		switch opCode {
		case 0x00E0:
			return "CLS"
		case 0x00EE:
			return "RET"
		}
		return fmt.Sprintf("SYS 0x%03X", nnn)
	case 0x1000:
		return fmt.Sprintf("JP 0x%03X", nnn)
	case 0x2000:
		return fmt.Sprintf("CALL 0x%03X", nnn)
	case 0x3000:
		return fmt.Sprintf("SE V%X, 0x%02X", x, kk)
	case 0x4000:
		return fmt.Sprintf("SNE V%X, 0x%02X", x, kk)
	case 0x5000:
		if n == 0 {
			return fmt.Sprintf("SE V%X, V%X", x, y)
		}
	case 0x6000:
		return fmt.Sprintf("LD V%X, 0x%02X", x, kk)
	case 0x7000:
		return fmt.Sprintf("ADD V%X, 0x%02X", x, kk)
	case 0x8000:
		if mnemonic, ok := aluMnemonics[n]; ok {
			return fmt.Sprintf("%s V%X, V%X", mnemonic, x, y)
		}
	case 0x9000:
		if n == 0 {
			return fmt.Sprintf("SNE V%X, V%X", x, y)
		}
	case 0xA000:
		return fmt.Sprintf("LD I, 0x%03X", nnn)
	case 0xB000:
		return fmt.Sprintf("JP V0, 0x%03X", nnn)
	case 0xC000:
		return fmt.Sprintf("RND V%X, 0x%02X", x, kk)
	case 0xD000:
		return fmt.Sprintf("DRW V%X, V%X, %d", x, y, n)
	case 0xE000:
		switch kk {
		case 0x9E:
			return fmt.Sprintf("SKP V%X", x)
		case 0xA1:
			return fmt.Sprintf("SKNP V%X", x)
		}
	case 0xF000:
		if format, ok := miscFormats[kk]; ok {
			return fmt.Sprintf(format, x)
		}
	}

	return fmt.Sprintf("DW 0x%04X", opCode)
}

var aluMnemonics = map[uint16]string{
	0x0: "LD",
	0x1: "OR",
	0x2: "AND",
	0x3: "XOR",
	0x4: "ADD",
	0x5: "SUB",
	0x6: "SHR",
	0x7: "SUBN",
	0xE: "SHL",
}

var miscFormats = map[uint16]string{
	0x07: "LD V%X, DT",
	0x0A: "LD V%X, K",
	0x15: "LD DT, V%X",
	0x18: "LD ST, V%X",
	0x1E: "ADD I, V%X",
	0x29: "LD F, V%X",
	0x33: "LD B, V%X",
	0x55: "LD [I], V%X",
	0x65: "LD V%X, [I]",
}

// Line is one disassembled instruction word
type Line struct {
	Addr   uint16
	OpCode uint16
	Text   string
}

// DisassembleProgram disassembles program as if loaded at StartOfProgram.
// A trailing odd byte is rendered as data.
func DisassembleProgram(program []byte) []Line {
	lines := make([]Line, 0, len(program)/2+1)

	for i := 0; i+1 < len(program); i += 2 {
		opCode := uint16(program[i])<<8 | uint16(program[i+1])
		lines = append(lines, Line{
			Addr:   uint16(StartOfProgram + i),
			OpCode: opCode,
			Text:   Disassemble(opCode),
		})
	}

	if len(program)%2 == 1 {
		last := len(program) - 1
		lines = append(lines, Line{
			Addr:   uint16(StartOfProgram + last),
			OpCode: uint16(program[last]),
			Text:   fmt.Sprintf("DB 0x%02X", program[last]),
		})
	}

	return lines
}

func (l Line) String() string {
	return fmt.Sprintf("%03X: %04X  %s", l.Addr, l.OpCode, l.Text)
}
