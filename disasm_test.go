package vip8_test

import (
	"testing"

	"github.com/guslan/vip8"
)

func TestDisassemble(t *testing.T) {
	tests := []struct {
		opCode uint16
		want   string
	}{
		{0x00E0, "CLS"},
		{0x00EE, "RET"},
		{0x0123, "SYS 0x123"},
		{0x1204, "JP 0x204"},
		{0x2ABC, "CALL 0xABC"},
		{0x3A05, "SE VA, 0x05"},
		{0x4B10, "SNE VB, 0x10"},
		{0x5120, "SE V1, V2"},
		{0x5121, "DW 0x5121"},
		{0x6A05, "LD VA, 0x05"},
		{0x7A03, "ADD VA, 0x03"},
		{0x8014, "ADD V0, V1"},
		{0x8017, "SUBN V0, V1"},
		{0x801E, "SHL V0, V1"},
		{0x8019, "DW 0x8019"},
		{0x9120, "SNE V1, V2"},
		{0xA300, "LD I, 0x300"},
		{0xB300, "JP V0, 0x300"},
		{0xC10F, "RND V1, 0x0F"},
		{0xD125, "DRW V1, V2, 5"},
		{0xE59E, "SKP V5"},
		{0xE5A1, "SKNP V5"},
		{0xF30A, "LD V3, K"},
		{0xF333, "LD B, V3"},
		{0xF355, "LD [I], V3"},
		{0xF365, "LD V3, [I]"},
		{0xF3FF, "DW 0xF3FF"},
	}

	for _, tt := range tests {
		if got := vip8.Disassemble(tt.opCode); got != tt.want {
			t.Fatalf(`Disassemble(%04X) = %q, expected %q`, tt.opCode, got, tt.want)
		}
	}
}

func TestDisassembleProgram(t *testing.T) {
	lines := vip8.DisassembleProgram([]byte{0x00, 0xE0, 0x12, 0x00, 0x7F})

	if len(lines) != 3 {
		t.Fatalf(`len(lines) = %d, expected 3`, len(lines))
	}
	if lines[1].Addr != 0x202 || lines[1].OpCode != 0x1200 || lines[1].Text != "JP 0x200" {
		t.Fatalf(`unexpected line %+v`, lines[1])
	}
	if lines[2].String() != "204: 007F  DB 0x7F" {
		t.Fatalf(`lines[2] = %q`, lines[2].String())
	}
}
