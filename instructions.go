package vip8

import (
	"io"
)

// executeInstruction runs opCode fetched from pc. PC has already been advanced past it.
func (m *Machine) executeInstruction(pc, opCode uint16) error {
	x := byte((opCode & 0x0F00) >> 8)
	y := byte((opCode & 0x00F0) >> 4)
	n := byte(opCode & 0x000F)
	kk := byte(opCode & 0x00FF)
	nnn := opCode & 0x0FFF

	unknown := ErrOpCodeUnknown{OpCode: opCode, Pc: pc}

	switch opCode & 0xF000 {
	case 0x0000:
		switch opCode {
		case 0x00E0:
			// CLS :: Clear the display.
			m.Framebuffer.Clear()

		case 0x00EE:
			// RET :: Return from a subroutine.
			if m.Sp == 0 {
				return ErrStackUnderflow
			}
			m.Sp--
			m.Pc = m.Stack[m.Sp]

		default:
			// SYS addr :: Jump to a machine code routine at nnn.
			// Delegated to the configured routine, unknown otherwise.
			if m.machineRoutine == nil {
				return unknown
			}
			return m.machineRoutine(opCode, m)
		}

	case 0x1000:
		// JP addr :: Jump to location nnn.
		m.Pc = nnn

	case 0x2000:
		// CALL addr :: Call subroutine at nnn.
		if int(m.Sp) >= StackSize {
			return ErrStackOverflow
		}
		m.Stack[m.Sp] = m.Pc
		m.Sp++
		m.Pc = nnn

	case 0x3000:
		// SE Vx, byte :: Skip next instruction if Vx = kk.
		if m.V[x] == kk {
			m.Pc += 2
		}

	case 0x4000:
		// SNE Vx, byte :: Skip next instruction if Vx != kk.
		if m.V[x] != kk {
			m.Pc += 2
		}

	case 0x5000:
		// SE Vx, Vy :: Skip next instruction if Vx = Vy.
		if n != 0 {
			return unknown
		}
		if m.V[x] == m.V[y] {
			m.Pc += 2
		}

	case 0x6000:
		// LD Vx, byte :: Set Vx = kk.
		m.V[x] = kk

	case 0x7000:
		// ADD Vx, byte :: Set Vx = Vx + kk. No carry.
		m.V[x] = m.V[x] + kk

	case 0x8000:
		return m.executeAlu(x, y, n, unknown)

	case 0x9000:
		// SNE Vx, Vy :: Skip next instruction if Vx != Vy.
		if n != 0 {
			return unknown
		}
		if m.V[x] != m.V[y] {
			m.Pc += 2
		}

	case 0xA000:
		// LD I, addr :: Set I = nnn.
		m.I = nnn

	case 0xB000:
		// JP V0, addr :: Jump to location nnn + V0 (or xnn + Vx).
		if m.quirks.Has(QuirkJumpUsesVx) {
			m.Pc = uint16(m.V[x]) + nnn
		} else {
			m.Pc = uint16(m.V[0]) + nnn
		}

	case 0xC000:
		// RND Vx, byte :: Set Vx = random byte AND kk.
		buff := [1]byte{}
		if _, err := io.ReadFull(m.random, buff[:]); err != nil {
			return err
		}
		m.V[x] = buff[0] & kk

	case 0xD000:
		// DRW Vx, Vy, nibble :: Display n-byte sprite starting at memory location I at (Vx, Vy), set VF = collision.
		sprite, err := m.Memory.ReadRange(m.I, int(n))
		if err != nil {
			return err
		}
		collision := m.Framebuffer.Draw(m.V[x], m.V[y], sprite)
		m.setFlag(collision)

	case 0xE000:
		var skip bool
		switch kk {
		case 0x9E:
			// SKP Vx :: Skip next instruction if key with the value of Vx is pressed.
			pressed, err := m.Keypad.IsPressed(m.V[x])
			if err != nil {
				return err
			}
			skip = pressed

		case 0xA1:
			// SKNP Vx :: Skip next instruction if key with the value of Vx is not pressed.
			pressed, err := m.Keypad.IsPressed(m.V[x])
			if err != nil {
				return err
			}
			skip = !pressed

		default:
			return unknown
		}
		if skip {
			m.Pc += 2
		}

	case 0xF000:
		return m.executeMisc(x, kk, unknown)
	}

	return nil
}

// executeAlu runs the 8xyn register-to-register group
func (m *Machine) executeAlu(x, y, n byte, unknown ErrOpCodeUnknown) error {
	switch n {
	case 0x0:
		// LD Vx, Vy :: Set Vx = Vy.
		m.V[x] = m.V[y]

	case 0x1:
		// OR Vx, Vy :: Set Vx = Vx OR Vy.
		m.V[x] |= m.V[y]
		if m.quirks.Has(QuirkVfReset) {
			m.V[FlagRegister] = 0
		}

	case 0x2:
		// AND Vx, Vy :: Set Vx = Vx AND Vy.
		m.V[x] &= m.V[y]
		if m.quirks.Has(QuirkVfReset) {
			m.V[FlagRegister] = 0
		}

	case 0x3:
		// XOR Vx, Vy :: Set Vx = Vx XOR Vy.
		m.V[x] ^= m.V[y]
		if m.quirks.Has(QuirkVfReset) {
			m.V[FlagRegister] = 0
		}

	case 0x4:
		// ADD Vx, Vy :: Set Vx = Vx + Vy, set VF = carry.
		r := uint16(m.V[x]) + uint16(m.V[y])
		m.V[x] = byte(r & 0x00FF)
		m.setFlag(r > 0xFF)

	case 0x5:
		// SUB Vx, Vy :: Set Vx = Vx - Vy, set VF = NOT borrow.
		carry := m.V[x] >= m.V[y]
		m.V[x] = m.V[x] - m.V[y]
		m.setFlag(carry)

	case 0x6:
		// SHR Vx {, Vy} :: Set Vx = Vx SHR 1.
		if m.quirks.Has(QuirkShiftUsesVy) {
			m.V[x] = m.V[y]
		}
		carry := m.V[x] & 0b00000001
		m.V[x] = m.V[x] >> 1
		m.V[FlagRegister] = carry

	case 0x7:
		// SUBN Vx, Vy :: Set Vx = Vy - Vx, set VF = NOT borrow.
		carry := m.V[y] >= m.V[x]
		m.V[x] = m.V[y] - m.V[x]
		m.setFlag(carry)

	case 0xE:
		// SHL Vx {, Vy} :: Set Vx = Vx SHL 1.
		if m.quirks.Has(QuirkShiftUsesVy) {
			m.V[x] = m.V[y]
		}
		carry := (m.V[x] & 0b10000000) >> 7
		m.V[x] = m.V[x] << 1
		m.V[FlagRegister] = carry

	default:
		return unknown
	}

	return nil
}

// executeMisc runs the Fxkk group
func (m *Machine) executeMisc(x, kk byte, unknown ErrOpCodeUnknown) error {
	switch kk {
	case 0x07:
		// LD Vx, DT :: Set Vx = delay timer value.
		m.V[x] = m.Dt

	case 0x0A:
		// LD Vx, K :: Wait for a key press, store the value of the key in Vx.
		m.state = StateAwaitingKey
		m.keyDstRegister = x

	case 0x15:
		// LD DT, Vx :: Set delay timer = Vx.
		m.Dt = m.V[x]

	case 0x18:
		// LD ST, Vx :: Set sound timer = Vx.
		m.St = m.V[x]

	case 0x1E:
		// ADD I, Vx :: Set I = I + Vx. VF is not affected.
		m.I = m.I + uint16(m.V[x])

	case 0x29:
		// LD F, Vx :: Set I = location of sprite for digit Vx.
		m.I = StartOfFont + uint16(m.V[x])*GlyphSize

	case 0x33:
		// LD B, Vx :: Store BCD representation of Vx in memory locations I, I+1, and I+2.
		v := m.V[x]
		return m.Memory.WriteRange(m.I, []byte{v / 100, (v / 10) % 10, v % 10})

	case 0x55:
		// LD [I], Vx :: Store registers V0 through Vx in memory starting at location I.
		if err := m.Memory.WriteRange(m.I, m.V[:x+1]); err != nil {
			return err
		}
		if m.quirks.Has(QuirkMemoryMovesIndex) {
			m.I += uint16(x) + 1
		}

	case 0x65:
		// LD Vx, [I] :: Read registers V0 through Vx from memory starting at location I.
		regs, err := m.Memory.ReadRange(m.I, int(x)+1)
		if err != nil {
			return err
		}
		copy(m.V[:], regs)
		if m.quirks.Has(QuirkMemoryMovesIndex) {
			m.I += uint16(x) + 1
		}

	default:
		return unknown
	}

	return nil
}

// setFlag latches a carry/borrow/collision result into VF
func (m *Machine) setFlag(b bool) {
	m.V[FlagRegister] = bool2byte(b)
}

func bool2byte(b bool) byte {
	if b {
		return 1
	}

	return 0
}
