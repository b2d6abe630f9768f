package console

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/guslan/vip8"
)

const (
	DefaultStepsPerFrame uint = 10
	MinStepsPerFrame     uint = 1
	MaxStepsPerFrame     uint = 100
	DefaultFrameRate     uint = 60
)

var ErrRunnerIsNotBooted = errors.New("the runner has not been booted properly")

type RunnerConfig struct {
	// StepsPerFrame is the number of instructions executed between timer ticks
	StepsPerFrame uint
	// FrameRate is the number of frames per second, which is also the timer rate
	FrameRate uint
	Logger    *slog.Logger
}
type RunnerConfigCb func(config *RunnerConfig)

// Runner drives a machine: it executes a fixed number of steps per frame,
// ticks the timers once per frame and renders the framebuffer when it changed.
// All access to the machine from other goroutines has to go through the runner.
type Runner struct {
	mu      sync.Mutex
	machine *vip8.Machine

	Display Display
	Buzzer  Buzzer

	stepsPerFrame uint
	frameRate     uint
	logger        *slog.Logger

	frames   uint
	isBooted bool
	isPaused bool

	// Hooks that run before every frame
	beforeFrameHooks []Hook
	// Hooks that run after every frame
	afterFrameHooks []Hook
	// Hooks that run after every step
	afterStepHooks []Hook
	// Hooks that run after an error
	errorHooks []Hook
}

func NewRunner(m *vip8.Machine, display Display, buzzer Buzzer, configs ...RunnerConfigCb) *Runner {
	config := &RunnerConfig{
		StepsPerFrame: DefaultStepsPerFrame,
		FrameRate:     DefaultFrameRate,
		Logger:        slog.Default(),
	}
	for _, cb := range configs {
		cb(config)
	}

	return &Runner{
		machine: m,

		Display: display,
		Buzzer:  buzzer,

		stepsPerFrame: clampSteps(config.StepsPerFrame),
		frameRate:     max(config.FrameRate, 1),
		logger:        config.Logger,

		isBooted: false,
		isPaused: false,

		beforeFrameHooks: make([]Hook, 0),
		afterFrameHooks:  make([]Hook, 0),
		afterStepHooks:   make([]Hook, 0),
		errorHooks:       make([]Hook, 0),
	}
}

func clampSteps(n uint) uint {
	return min(max(n, MinStepsPerFrame), MaxStepsPerFrame)
}

// Boot initializes the display and the buzzer.
// If the runner was already booted, this method is a noop
func (r *Runner) Boot() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isBooted {
		return nil
	}

	if err := r.Display.Boot(); err != nil {
		return err
	}

	if err := r.Buzzer.Boot(); err != nil {
		return err
	}

	r.isBooted = true

	return nil
}

func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return !r.isPaused
}

// Start resumes the frames
func (r *Runner) Start() {
	r.mu.Lock()
	r.isPaused = false
	r.mu.Unlock()
}

// Stop pauses the frames. Step still works while paused.
func (r *Runner) Stop() {
	r.mu.Lock()
	r.isPaused = true
	r.Buzzer.Stop()
	r.mu.Unlock()
}

func (r *Runner) StepsPerFrame() uint {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.stepsPerFrame
}

func (r *Runner) SetStepsPerFrame(n uint) {
	r.mu.Lock()
	r.stepsPerFrame = clampSteps(n)
	r.mu.Unlock()
}

func (r *Runner) Frames() uint {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.frames
}

// Load loads the program into the machine and renders the cleared screen
func (r *Runner) Load(program []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.machine.Load(program); err != nil {
		return err
	}
	r.frames = 0
	r.logger.Info("Program loaded", slog.Int("size", len(program)))

	return r.render()
}

// Reset restarts the loaded program
func (r *Runner) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.machine.Reset()
	r.frames = 0

	return r.render()
}

func (r *Runner) KeyDown(k byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.machine.KeyDown(k)
}

func (r *Runner) KeyUp(k byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.machine.KeyUp(k)
}

// Inspect runs fn with exclusive access to the machine
func (r *Runner) Inspect(fn func(m *vip8.Machine)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(r.machine)
}

// Run executes frames at the frame rate until the context is done or the machine faults
func (r *Runner) Run(ctx context.Context) error {
	if !r.booted() {
		return ErrRunnerIsNotBooted
	}

	ticker := time.NewTicker(time.Second / time.Duration(r.frameRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.Frame(); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.isBooted
}

// Frame runs the steps of one frame and then ticks the timers once.
// A paused runner does nothing.
func (r *Runner) Frame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isPaused {
		return nil
	}

	return r.frame()
}

// FrameOnce runs a single frame bypassing the pause state
func (r *Runner) FrameOnce() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.frame()
}

func (r *Runner) frame() error {
	if !r.machine.Loaded() {
		return vip8.ErrNoProgram
	}

	r.runHooks(r.beforeFrameHooks)

	for i := uint(0); i < r.stepsPerFrame; i++ {
		if err := r.step(); err != nil {
			return err
		}
	}

	r.machine.TickTimers()
	r.updateBuzzer()

	if err := r.render(); err != nil {
		return err
	}

	r.frames++
	r.runHooks(r.afterFrameHooks)

	return nil
}

// Step executes a single instruction bypassing the pause state.
// Timers are not ticked.
func (r *Runner) Step() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.machine.Loaded() {
		return vip8.ErrNoProgram
	}

	if err := r.step(); err != nil {
		return err
	}

	return r.render()
}

func (r *Runner) step() error {
	if err := r.machine.Step(); err != nil {
		r.isPaused = true
		r.Buzzer.Stop()
		r.runHooks(r.errorHooks)
		return err
	}
	r.runHooks(r.afterStepHooks)

	return nil
}

func (r *Runner) updateBuzzer() {
	if r.machine.SoundActive() {
		r.Buzzer.Play()
	} else {
		r.Buzzer.Stop()
	}
}

func (r *Runner) render() error {
	fb := r.machine.Framebuffer
	if !fb.Dirty() {
		return nil
	}
	fb.MarkClean()

	if err := r.Display.Render(fb.Screen()); err != nil {
		r.logger.Error("Error rendering", slog.Any("error", err))
		return err
	}

	return nil
}
