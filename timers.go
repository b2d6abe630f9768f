package vip8

// TickTimers decrements the delay and sound timers toward zero.
// Drivers call it once per frame (60 Hz) regardless of how many steps ran.
func (m *Machine) TickTimers() {
	if m.Dt > 0 {
		m.Dt--
	}
	if m.St > 0 {
		m.St--
	}
}

func (m *Machine) SoundActive() bool {
	return m.St > 0
}

func (m *Machine) DelayActive() bool {
	return m.Dt > 0
}
