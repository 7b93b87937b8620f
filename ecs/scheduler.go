package ecs

import "math"

// System runs once per rendered frame.
type System interface {
	Update(w *World, dt float64)
}

// FixedSystem runs zero or more times per frame on the physics clock.
type FixedSystem interface {
	FixedUpdate(w *World, dt float64)
}

// LateSystem runs after the fixed steps, e.g. to follow what physics moved.
type LateSystem interface {
	LateUpdate(w *World, dt float64)
}

// maxCatchUpSteps caps how many fixed steps one slow frame may run.
const maxCatchUpSteps = 8

// FixedStep accumulates frame time and hands out whole physics steps.
type FixedStep struct {
	Step  float64
	accum float64
}

func NewFixedStep(hz float64) FixedStep {
	return FixedStep{Step: 1 / hz}
}

// Advance adds dt and returns how many fixed steps are now due.
func (f *FixedStep) Advance(dt float64) int {
	if f.Step <= 0 || dt <= 0 {
		return 0
	}
	f.accum += dt
	n := int(math.Floor(f.accum / f.Step))
	if n > maxCatchUpSteps {
		n = maxCatchUpSteps
		f.accum = 0
		return n
	}
	f.accum -= float64(n) * f.Step
	return n
}

// Alpha is how far the accumulator sits into the next step, in [0, 1).
func (f *FixedStep) Alpha() float64 {
	if f.Step <= 0 {
		return 0
	}
	return f.accum / f.Step
}

type Scheduler struct {
	systems []any
	fixed   FixedStep
}

// NewScheduler runs fixed systems at hz. Each system may implement any mix
// of System, FixedSystem, LateSystem and Drawer.
func NewScheduler(hz float64, systems ...any) *Scheduler {
	s := &Scheduler{fixed: NewFixedStep(hz)}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system any) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// SetRate changes the physics rate, dropping any accumulated time.
func (s *Scheduler) SetRate(hz float64) {
	s.fixed = NewFixedStep(hz)
}

func (s *Scheduler) FixedDelta() float64 {
	return s.fixed.Step
}

// Update runs one frame: every System, then the due fixed steps, then every
// LateSystem. Events raised during the frame are cleared at the end.
func (s *Scheduler) Update(w *World, dt float64) {
	for _, system := range s.systems {
		if u, ok := system.(System); ok {
			u.Update(w, dt)
		}
	}
	steps := s.fixed.Advance(dt)
	for i := 0; i < steps; i++ {
		for _, system := range s.systems {
			if f, ok := system.(FixedSystem); ok {
				f.FixedUpdate(w, s.fixed.Step)
			}
		}
	}
	for _, system := range s.systems {
		if l, ok := system.(LateSystem); ok {
			l.LateUpdate(w, dt)
		}
	}
	w.events.flush()
}

func (s *Scheduler) Systems() []any {
	return append([]any(nil), s.systems...)
}
