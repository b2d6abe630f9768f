package vip8

const KeyCount = 16

// KeyboardState holds whether each of the 16 keys is down
type KeyboardState [KeyCount]bool

// Keypad is the 16-key hexadecimal input device.
//
//	+---+---+---+---+
//	| 1 | 2 | 3 | C |
//	+---+---+---+---+
//	| 4 | 5 | 6 | D |
//	+---+---+---+---+
//	| 7 | 8 | 9 | E |
//	+---+---+---+---+
//	| A | 0 | B | F |
//	+---+---+---+---+
type Keypad struct {
	state KeyboardState
}

func NewKeypad() *Keypad {
	return &Keypad{
		state: KeyboardState{},
	}
}

func checkKey(k byte) error {
	if k >= KeyCount {
		return &KeyError{Key: k}
	}

	return nil
}

func (kp *Keypad) Press(k byte) error {
	if err := checkKey(k); err != nil {
		return err
	}
	kp.state[k] = true

	return nil
}

func (kp *Keypad) Release(k byte) error {
	if err := checkKey(k); err != nil {
		return err
	}
	kp.state[k] = false

	return nil
}

func (kp *Keypad) IsPressed(k byte) (bool, error) {
	if err := checkKey(k); err != nil {
		return false, err
	}

	return kp.state[k], nil
}

// FirstPressed returns the lowest key that is down
func (kp *Keypad) FirstPressed() (byte, bool) {
	for k, down := range kp.state {
		if down {
			return byte(k), true
		}
	}

	return 0, false
}

func (kp *Keypad) State() KeyboardState {
	return kp.state
}

func (kp *Keypad) Reset() {
	kp.state = KeyboardState{}
}
