package console_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/guslan/vip8"
	"github.com/guslan/vip8/console"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newRunner(t *testing.T, program []byte, steps uint) (*console.Runner, *console.DummyDisplay, *console.DummyBuzzer) {
	t.Helper()

	m := vip8.NewMachine(func(config *vip8.MachineConfig) {
		config.Logger = quiet
	})
	d := console.NewDummyDisplay()
	b := console.NewDummyBuzzer()
	r := console.NewRunner(m, d, b, func(config *console.RunnerConfig) {
		config.StepsPerFrame = steps
		config.Logger = quiet
	})

	if err := r.Boot(); err != nil {
		t.Fatalf(`Boot() returned an error %v`, err)
	}
	if program != nil {
		if err := r.Load(program); err != nil {
			t.Fatalf(`Load() returned an error %v`, err)
		}
	}

	return r, d, b
}

func snapshot(r *console.Runner) vip8.Snapshot {
	var s vip8.Snapshot
	r.Inspect(func(m *vip8.Machine) {
		s = m.Snapshot()
	})

	return s
}

func TestFrameRunsStepsThenTicksOnce(t *testing.T) {
	program := []byte{
		// V0 = 5, DT = V0
		0x60, 0x05,
		0xF0, 0x15,
		// V1 += 1 forever
		0x71, 0x01,
		0x12, 0x04,
	}
	r, _, _ := newRunner(t, program, 8)

	if err := r.Frame(); err != nil {
		t.Fatal(err)
	}

	s := snapshot(r)
	if s.Cycles != 8 {
		t.Fatalf(`s.Cycles = %d, expected 8 steps per frame`, s.Cycles)
	}
	if s.Dt != 4 {
		t.Fatalf(`s.Dt = %d, expected a single tick`, s.Dt)
	}
	if s.V[1] != 3 {
		t.Fatalf(`s.V[1] = %d, expected 3`, s.V[1])
	}
	if r.Frames() != 1 {
		t.Fatalf(`r.Frames() = %d, expected 1`, r.Frames())
	}
}

func TestPausedRunnerDoesNothingButStep(t *testing.T) {
	r, _, _ := newRunner(t, []byte{0x71, 0x01, 0x12, 0x00}, 10)
	r.Stop()

	if r.IsRunning() {
		t.Fatalf(`the runner should be stopped`)
	}
	if err := r.Frame(); err != nil {
		t.Fatal(err)
	}
	if s := snapshot(r); s.Cycles != 0 {
		t.Fatalf(`a paused frame ran %d steps`, s.Cycles)
	}

	if err := r.Step(); err != nil {
		t.Fatal(err)
	}
	if s := snapshot(r); s.Cycles != 1 || s.V[1] != 1 {
		t.Fatalf(`Step() should run one instruction, got %+v`, s)
	}
}

func TestRunnerRendersOnlyDirtyFrames(t *testing.T) {
	program := []byte{
		// DRW V0, V0, 1 then loop
		0xD0, 0x01,
		0x12, 0x02,
	}
	r, d, _ := newRunner(t, program, 2)
	loadRenders := d.Renders()

	r.Frame()
	if d.Renders() != loadRenders+1 {
		t.Fatalf(`d.Renders() = %d, expected a render after drawing`, d.Renders())
	}
	if !d.Last().At(0, 0) {
		t.Fatalf(`the rendered screen should have the drawn pixel`)
	}

	r.Frame()
	if d.Renders() != loadRenders+1 {
		t.Fatalf(`an unchanged framebuffer should not be rendered again`)
	}
}

func TestRunnerDrivesTheBuzzer(t *testing.T) {
	program := []byte{
		// ST = 2
		0x60, 0x02,
		0xF0, 0x18,
		0x12, 0x04,
	}
	r, _, b := newRunner(t, program, 2)

	r.Frame()
	if !b.IsPlaying() {
		t.Fatalf(`the buzzer should play while the sound timer is active`)
	}
	r.Frame()
	if b.IsPlaying() {
		t.Fatalf(`the buzzer should stop once the sound timer reaches zero`)
	}
}

func TestRunnerStopsOnFault(t *testing.T) {
	r, _, _ := newRunner(t, []byte{0x00, 0xEE}, 10)

	var faults int
	r.AddErrorHook(func(m *vip8.Machine) {
		faults++
	})

	err := r.Frame()
	if !errors.Is(err, vip8.ErrStackUnderflow) {
		t.Fatalf(`Frame() = %v, expected a stack underflow`, err)
	}
	if faults != 1 {
		t.Fatalf(`the error hook ran %d times`, faults)
	}
	if r.IsRunning() {
		t.Fatalf(`the runner should pause on a fault`)
	}

	if err := r.Reset(); err != nil {
		t.Fatal(err)
	}
	if s := snapshot(r); s.State != vip8.StateRunning || s.Pc != 0x200 {
		t.Fatalf(`Reset() should restart the program, got %+v`, s)
	}
}

func TestRunnerWithoutProgram(t *testing.T) {
	r, _, _ := newRunner(t, nil, 10)

	if err := r.Frame(); !errors.Is(err, vip8.ErrNoProgram) {
		t.Fatalf(`Frame() = %v, expected no program`, err)
	}
	if err := r.Step(); !errors.Is(err, vip8.ErrNoProgram) {
		t.Fatalf(`Step() = %v, expected no program`, err)
	}
}

func TestRunnerHooks(t *testing.T) {
	r, _, _ := newRunner(t, []byte{0x12, 0x00}, 3)

	var before, after, steps int
	r.AddBeforeFrameHook(func(m *vip8.Machine) { before++ })
	r.AddAfterFrameHook(func(m *vip8.Machine) { after++ })
	r.AddAfterStepHook(func(m *vip8.Machine) { steps++ })

	r.Frame()
	r.Frame()

	if before != 2 || after != 2 || steps != 6 {
		t.Fatalf(`before=%d after=%d steps=%d, expected 2 2 6`, before, after, steps)
	}
}

func TestRunnerKeysReachTheMachine(t *testing.T) {
	program := []byte{
		// LD V2, K then loop
		0xF2, 0x0A,
		0x12, 0x02,
	}
	r, _, _ := newRunner(t, program, 2)

	r.Frame()
	if s := snapshot(r); s.State != vip8.StateAwaitingKey {
		t.Fatalf(`s.State = %v, expected the machine to wait for a key`, s.State)
	}

	if err := r.KeyDown(0x7); err != nil {
		t.Fatal(err)
	}
	r.Frame()
	if s := snapshot(r); s.State != vip8.StateRunning || s.V[2] != 0x7 {
		t.Fatalf(`expected key 7 in V2, got %+v`, s)
	}
	if err := r.KeyUp(0x20); !errors.Is(err, vip8.ErrKeyOutOfRange) {
		t.Fatalf(`KeyUp(20) = %v, expected out of range`, err)
	}
}

func TestStepsPerFrameAreClamped(t *testing.T) {
	r, _, _ := newRunner(t, nil, 0)
	if r.StepsPerFrame() != console.MinStepsPerFrame {
		t.Fatalf(`r.StepsPerFrame() = %d, expected %d`, r.StepsPerFrame(), console.MinStepsPerFrame)
	}

	r.SetStepsPerFrame(1000)
	if r.StepsPerFrame() != console.MaxStepsPerFrame {
		t.Fatalf(`r.StepsPerFrame() = %d, expected %d`, r.StepsPerFrame(), console.MaxStepsPerFrame)
	}
}

func TestRunUntilCancelled(t *testing.T) {
	r, _, _ := newRunner(t, []byte{0x12, 0x00}, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := r.Run(ctx); err != nil {
		t.Fatalf(`Run() returned an error %v`, err)
	}
	if r.Frames() == 0 {
		t.Fatalf(`Run() should have run some frames`)
	}
}

func TestRunReturnsFaults(t *testing.T) {
	r, _, _ := newRunner(t, []byte{0xFF, 0xFF}, 10)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var unknown vip8.ErrOpCodeUnknown
	if err := r.Run(ctx); !errors.As(err, &unknown) {
		t.Fatalf(`Run() = %v, expected an unknown opcode`, err)
	}
}

func TestRunRequiresBoot(t *testing.T) {
	m := vip8.NewMachine()
	r := console.NewRunner(m, console.NewDummyDisplay(), console.NewDummyBuzzer())

	if err := r.Run(context.Background()); !errors.Is(err, console.ErrRunnerIsNotBooted) {
		t.Fatalf(`Run() = %v, expected the runner not to be booted`, err)
	}
}
