package climb

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
)

const climbLifecycleDispatchScript = `
if __phase == "enter" {
	onEnter(__engine, __state)
} else if __phase == "update" {
	update(__engine, __state)
} else if __phase == "exit" {
	onExit(__engine, __state)
}
`

// ScriptedClimb runs a tengo script with onEnter, update and onExit
// functions. Each receives an engine map of body accessors and a state map
// that persists for the duration of one climb.
type ScriptedClimb struct {
	name     string
	kind     Kind
	compiled *tengo.Compiled
	enabled  bool

	entered  bool
	finished bool
	state    *tengo.Map
	ctx      *Context

	logger *log.Logger
}

// NewScriptedClimb compiles src for kind. name is used in log lines.
func NewScriptedClimb(kind Kind, name string, src []byte) (*ScriptedClimb, error) {
	if !kind.valid() || kind == KindNone {
		return nil, fmt.Errorf("%w: scripted kind %s", ErrInvalidConfig, kind)
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + climbLifecycleDispatchScript))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap("math", "fmt", "text"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("climb: compile %s: %w", name, err)
	}

	return &ScriptedClimb{
		name:     name,
		kind:     kind,
		compiled: compiled,
		state:    newScriptState(),
		logger:   log.Default(),
	}, nil
}

func newScriptState() *tengo.Map {
	return &tengo.Map{Value: map[string]tengo.Object{}}
}

func (s *ScriptedClimb) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *ScriptedClimb) Kind() Kind { return s.kind }

func (s *ScriptedClimb) Enabled() bool { return s.enabled }

func (s *ScriptedClimb) Climbing() bool { return s.entered }

func (s *ScriptedClimb) SetEnabled(enabled bool) {
	s.enabled = enabled
	if enabled {
		return
	}
	if s.entered {
		if err := s.runPhase("exit", s.buildEngine(s.ctx)); err != nil {
			s.logger.Printf("climb: %s script onExit error: %v", s.name, err)
		}
	}
	s.entered = false
	s.finished = false
	s.state = newScriptState()
}

func (s *ScriptedClimb) Update(ctx *Context) {
	if !s.enabled || ctx == nil || ctx.Body == nil {
		return
	}
	s.ctx = ctx
	engine := s.buildEngine(ctx)

	if !s.entered {
		s.entered = true
		if err := s.runPhase("enter", engine); err != nil {
			s.abort(ctx, "onEnter", err)
			return
		}
	}

	if !s.finished {
		if err := s.runPhase("update", engine); err != nil {
			s.abort(ctx, "update", err)
			return
		}
	}

	if s.finished {
		ctx.finish()
	}
}

func (s *ScriptedClimb) abort(ctx *Context, phase string, err error) {
	s.logger.Printf("climb: %s script %s error: %v", s.name, phase, err)
	// onExit is not worth running after a broken phase.
	s.entered = false
	ctx.finish()
}

func (s *ScriptedClimb) runPhase(phase string, engine *tengo.ImmutableMap) error {
	if err := s.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := s.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := s.compiled.Set("__state", s.state); err != nil {
		return err
	}
	return s.compiled.Run()
}

func (s *ScriptedClimb) buildEngine(ctx *Context) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	if ctx == nil || ctx.Body == nil {
		return &tengo.ImmutableMap{Value: values}
	}
	body := ctx.Body

	values["dt"] = &tengo.UserFunction{Name: "dt", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: ctx.Dt}, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return vecObject(body.Position()), nil
	}}

	values["velocity"] = &tengo.UserFunction{Name: "velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return vecObject(body.Velocity()), nil
	}}

	values["forward"] = &tengo.UserFunction{Name: "forward", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return vecObject(horizontal(body.Forward())), nil
	}}

	values["ledge"] = &tengo.UserFunction{Name: "ledge", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"touching": boolObject(ctx.Touching),
			"point":    vecObject(ctx.Ledge.Point),
			"top":      &tengo.Float{Value: ctx.Ledge.Top()},
		}}, nil
	}}

	values["set_velocity"] = &tengo.UserFunction{Name: "set_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		v, ok := vecArgs(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		body.SetVelocity(v)
		return tengo.TrueValue, nil
	}}

	values["set_position"] = &tengo.UserFunction{Name: "set_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		v, ok := vecArgs(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		body.SetPosition(v)
		return tengo.TrueValue, nil
	}}

	values["set_gravity"] = &tengo.UserFunction{Name: "set_gravity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		scale, ok := tengo.ToFloat64(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		body.SetGravityScale(scale)
		return tengo.TrueValue, nil
	}}

	values["input"] = &tengo.UserFunction{Name: "input", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		in := ctx.Input
		switch strings.TrimSpace(objectAsString(args[0])) {
		case "forward":
			return boolObject(in.ForwardHeld), nil
		case "jump":
			return boolObject(in.JumpPressed), nil
		case "climb":
			return boolObject(in.ClimbHeld), nil
		case "recover":
			return boolObject(in.RecoverPressed), nil
		}
		return tengo.FalseValue, nil
	}}

	values["finish"] = &tengo.UserFunction{Name: "finish", Value: func(args ...tengo.Object) (tengo.Object, error) {
		s.finished = true
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		s.logger.Printf("climb: %s: %s", s.name, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func vecObject(v mgl64.Vec3) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: v.X()},
		&tengo.Float{Value: v.Y()},
		&tengo.Float{Value: v.Z()},
	}}
}

// vecArgs accepts either three numbers or a single three-element array.
func vecArgs(args []tengo.Object) (mgl64.Vec3, bool) {
	if len(args) == 1 {
		if arr, ok := args[0].(*tengo.Array); ok {
			args = arr.Value
		}
	}
	if len(args) < 3 {
		return mgl64.Vec3{}, false
	}
	var v mgl64.Vec3
	for i := 0; i < 3; i++ {
		f, ok := tengo.ToFloat64(args[i])
		if !ok {
			return mgl64.Vec3{}, false
		}
		v[i] = f
	}
	return v, true
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
