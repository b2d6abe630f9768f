package console

import "github.com/guslan/vip8"

// Hook runs with the runner lock held, so it may read the machine freely
type Hook func(m *vip8.Machine)

// AddBeforeFrameHook adds a hook that will run before every frame
func (r *Runner) AddBeforeFrameHook(h Hook) int {
	r.beforeFrameHooks = append(r.beforeFrameHooks, h)

	return len(r.beforeFrameHooks)
}

// AddAfterFrameHook adds a hook that will run after every frame
func (r *Runner) AddAfterFrameHook(h Hook) int {
	r.afterFrameHooks = append(r.afterFrameHooks, h)

	return len(r.afterFrameHooks)
}

// AddAfterStepHook adds a hook that will run after every instruction
func (r *Runner) AddAfterStepHook(h Hook) int {
	r.afterStepHooks = append(r.afterStepHooks, h)

	return len(r.afterStepHooks)
}

// AddErrorHook adds a hook that will run once the machine faults
func (r *Runner) AddErrorHook(h Hook) int {
	r.errorHooks = append(r.errorHooks, h)

	return len(r.errorHooks)
}

func (r *Runner) runHooks(hooks []Hook) {
	for _, h := range hooks {
		h(r.machine)
	}
}
