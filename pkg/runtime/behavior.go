package runtime

import (
	"strings"

	"glang/interpreter-go/pkg/ast"
)

// TransformFunc rewrites a value; ValidateFunc accepts or rejects one. Both
// receive the behavior's bound arguments.
type TransformFunc func(v Value, args []Value) (Value, error)
type ValidateFunc func(v Value, args []Value) (bool, error)

// Behavior is a named, composable validate+transform step attachable to a
// container's rule pipeline.
type Behavior struct {
	Name      string
	Transform TransformFunc
	Validate  ValidateFunc
	OnInvalid TransformFunc
}

// Apply runs the behavior against one value: a failing validator either
// routes through OnInvalid or fails; the transform (when present) always runs
// afterwards.
func (b *Behavior) Apply(v Value, args ...Value) (Value, error) {
	if b.Validate != nil {
		ok, err := b.Validate(v, args)
		if err != nil {
			return nil, err
		}
		if !ok {
			if b.OnInvalid == nil {
				return nil, NewError(ErrTypeConstraint, ast.Position{},
					"behavior '%s' rejected value %s", b.Name, Display(v))
			}
			repaired, err := b.OnInvalid(v, args)
			if err != nil {
				return nil, err
			}
			v = repaired
		}
	}
	if b.Transform != nil {
		return b.Transform(v, args)
	}
	return v, nil
}

// Pipeline holds an ordered list of (behavior, args) stages applied strictly
// in sequence, each stage's output feeding the next.
type Pipeline struct {
	stages []pipelineStage
}

type pipelineStage struct {
	behavior *Behavior
	args     []Value
}

func NewPipeline() *Pipeline {
	return &Pipeline{}
}

func (p *Pipeline) Add(b *Behavior, args ...Value) *Pipeline {
	p.stages = append(p.stages, pipelineStage{behavior: b, args: args})
	return p
}

func (p *Pipeline) Len() int {
	if p == nil {
		return 0
	}
	return len(p.stages)
}

// Names lists the stage behavior names in order.
func (p *Pipeline) Names() []string {
	out := make([]string, 0, p.Len())
	if p != nil {
		for _, stage := range p.stages {
			out = append(out, stage.behavior.Name)
		}
	}
	return out
}

func (p *Pipeline) Apply(v Value) (Value, error) {
	if p == nil {
		return v, nil
	}
	current := v
	for _, stage := range p.stages {
		next, err := stage.behavior.Apply(current, stage.args...)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// ApplyToList maps the pipeline over every element independently, then
// resolves any fill markers introduced by the fill behaviors with the
// dedicated cross-element pass.
func (p *Pipeline) ApplyToList(elements []Value) ([]Value, error) {
	out := make([]Value, len(elements))
	for idx, el := range elements {
		result, err := p.Apply(el)
		if err != nil {
			return nil, err
		}
		out[idx] = result
	}
	return ProcessContextualFills(out), nil
}

func isFillMarker(v Value) bool {
	switch v.(type) {
	case ForwardFillValue, BackwardFillValue:
		return true
	default:
		return false
	}
}

// ProcessContextualFills resolves fill markers in two independent passes.
// The forward pass replaces every ForwardFillValue with the nearest preceding
// non-marker, non-none value; the backward pass replaces every
// BackwardFillValue with the nearest following non-marker value. An element
// resolved by one pass is not eligible input to the other: both passes scan
// the original sequence.
func ProcessContextualFills(elements []Value) []Value {
	out := append([]Value(nil), elements...)

	var lastSeen Value
	for idx, el := range elements {
		switch el.(type) {
		case ForwardFillValue:
			if lastSeen != nil {
				out[idx] = lastSeen
			} else {
				out[idx] = NoneValue{}
			}
		case BackwardFillValue:
			// handled by the backward pass
		case NoneValue:
			// none never feeds a forward fill
		default:
			lastSeen = el
		}
	}

	var nextSeen Value
	for idx := len(elements) - 1; idx >= 0; idx-- {
		switch elements[idx].(type) {
		case BackwardFillValue:
			if nextSeen != nil {
				out[idx] = nextSeen
			} else {
				out[idx] = NoneValue{}
			}
		case ForwardFillValue:
			// handled by the forward pass
		default:
			nextSeen = elements[idx]
		}
	}

	return out
}

//-----------------------------------------------------------------------------
// Registry
//-----------------------------------------------------------------------------

// BehaviorRegistry resolves behavior names. It is constructed explicitly and
// passed into the interpreter, so independent interpreter instances never
// share rule state.
type BehaviorRegistry struct {
	byName map[string]*Behavior
}

func NewBehaviorRegistry() *BehaviorRegistry {
	r := &BehaviorRegistry{byName: make(map[string]*Behavior)}
	for _, b := range builtinBehaviors() {
		r.Register(b)
	}
	return r
}

func (r *BehaviorRegistry) Register(b *Behavior) {
	r.byName[b.Name] = b
}

func (r *BehaviorRegistry) Lookup(name string) (*Behavior, bool) {
	b, ok := r.byName[name]
	return b, ok
}

//-----------------------------------------------------------------------------
// Rulesets
//-----------------------------------------------------------------------------

// RuleSpec names a registered behavior with bound arguments, or carries an
// inline custom behavior.
type RuleSpec struct {
	Name   string
	Args   []Value
	Custom *Behavior
}

// Ruleset is a named, ordered bundle of behavior specifications applied
// together to a container's rule list.
type Ruleset struct {
	Name  string
	Specs []RuleSpec
}

// Build resolves the ruleset against a registry into a runnable pipeline.
func (rs *Ruleset) Build(registry *BehaviorRegistry) (*Pipeline, error) {
	p := NewPipeline()
	for _, spec := range rs.Specs {
		if spec.Custom != nil {
			p.Add(spec.Custom, spec.Args...)
			continue
		}
		behavior, ok := registry.Lookup(spec.Name)
		if !ok {
			return nil, NewError(ErrArgument, ast.Position{},
				"ruleset '%s' references unknown behavior '%s'", rs.Name, spec.Name)
		}
		p.Add(behavior, spec.Args...)
	}
	return p, nil
}

//-----------------------------------------------------------------------------
// Built-in behaviors
//-----------------------------------------------------------------------------

func builtinBehaviors() []*Behavior {
	return []*Behavior{
		{
			Name: "uppercase",
			Transform: func(v Value, _ []Value) (Value, error) {
				if s, ok := v.(StringValue); ok {
					return StringValue{Val: strings.ToUpper(s.Val)}, nil
				}
				return v, nil
			},
		},
		{
			Name: "lowercase",
			Transform: func(v Value, _ []Value) (Value, error) {
				if s, ok := v.(StringValue); ok {
					return StringValue{Val: strings.ToLower(s.Val)}, nil
				}
				return v, nil
			},
		},
		{
			Name: "trim",
			Transform: func(v Value, _ []Value) (Value, error) {
				if s, ok := v.(StringValue); ok {
					return StringValue{Val: strings.TrimSpace(s.Val)}, nil
				}
				return v, nil
			},
		},
		{
			Name: "round",
			Transform: func(v Value, args []Value) (Value, error) {
				num, ok := v.(NumberValue)
				if !ok {
					return v, nil
				}
				places := 0
				if len(args) > 0 {
					argNum, ok := args[0].(NumberValue)
					if !ok {
						return nil, NewError(ErrArgument, ast.Position{}, "round expects a numeric argument")
					}
					p, err := argNum.Val.Int()
					if err != nil {
						return nil, err
					}
					places = int(p)
				}
				return NumberValue{Val: num.Val.Round(places)}, nil
			},
		},
		{
			Name: "clamp",
			Transform: func(v Value, args []Value) (Value, error) {
				num, ok := v.(NumberValue)
				if !ok {
					return v, nil
				}
				if len(args) != 2 {
					return nil, NewError(ErrArgument, ast.Position{}, "clamp expects low and high arguments")
				}
				low, okLow := args[0].(NumberValue)
				high, okHigh := args[1].(NumberValue)
				if !okLow || !okHigh {
					return nil, NewError(ErrArgument, ast.Position{}, "clamp expects numeric bounds")
				}
				if num.Val.Cmp(low.Val) < 0 {
					return low, nil
				}
				if num.Val.Cmp(high.Val) > 0 {
					return high, nil
				}
				return num, nil
			},
		},
		{
			Name: "default",
			Transform: func(v Value, args []Value) (Value, error) {
				if len(args) != 1 {
					return nil, NewError(ErrArgument, ast.Position{}, "default expects one argument")
				}
				if _, ok := v.(NoneValue); ok {
					return args[0], nil
				}
				return v, nil
			},
		},
		{
			Name: "non_empty",
			Validate: func(v Value, _ []Value) (bool, error) {
				switch val := v.(type) {
				case StringValue:
					return val.Val != "", nil
				case *ListValue:
					return len(val.Elements) > 0, nil
				case *HashValue:
					return val.Len() > 0, nil
				case NoneValue:
					return false, nil
				default:
					return true, nil
				}
			},
		},
		{
			Name: "positive",
			Validate: func(v Value, _ []Value) (bool, error) {
				num, ok := v.(NumberValue)
				if !ok {
					return false, nil
				}
				return num.Val.Sign() > 0, nil
			},
		},
		{
			Name: "forward_fill",
			Transform: func(v Value, _ []Value) (Value, error) {
				if _, ok := v.(NoneValue); ok {
					return ForwardFillValue{}, nil
				}
				return v, nil
			},
		},
		{
			Name: "backward_fill",
			Transform: func(v Value, _ []Value) (Value, error) {
				if _, ok := v.(NoneValue); ok {
					return BackwardFillValue{}, nil
				}
				return v, nil
			},
		},
	}
}
