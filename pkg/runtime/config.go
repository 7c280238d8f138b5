package runtime

import (
	"glang/interpreter-go/pkg/ast"
)

// Zero-division policies.
const (
	ZeroDivisionError    = "error"
	ZeroDivisionInfinity = "infinity"
	ZeroDivisionNone     = "none"
)

// ConfigContext is the layered stack of runtime settings consulted by
// arithmetic and container operations. The base layer holds system defaults
// and is never popped.
type ConfigContext struct {
	layers []configLayer
}

type configLayer struct {
	scope    string
	settings map[string]Value
}

// NewConfigContext builds a context holding only the base defaults layer.
func NewConfigContext() *ConfigContext {
	base := map[string]Value{
		"skip_none":                 BoolValue{Val: false},
		"strict_types":              BoolValue{Val: false},
		"allow_implicit_conversion": BoolValue{Val: false},
		"auto_flatten":              BoolValue{Val: false},
		"case_sensitive":            BoolValue{Val: true},
		"zero_division":             StringValue{Val: ZeroDivisionError},
	}
	return &ConfigContext{layers: []configLayer{{scope: "base", settings: base}}}
}

// Push validates and installs a new layer. Validation happens before the
// layer is installed, so a failed push never partially applies. Unknown keys
// are preserved untouched.
func (c *ConfigContext) Push(settings map[string]Value, scope string) error {
	validated := make(map[string]Value, len(settings))
	for key, value := range settings {
		name := key
		if name == "skip_nil" {
			name = "skip_none"
		}
		if err := validateSetting(name, value); err != nil {
			return err
		}
		validated[name] = value
	}
	c.layers = append(c.layers, configLayer{scope: scope, settings: validated})
	return nil
}

// Pop removes the top layer. The base layer is never removed.
func (c *ConfigContext) Pop() map[string]Value {
	if len(c.layers) <= 1 {
		return nil
	}
	top := c.layers[len(c.layers)-1]
	c.layers = c.layers[:len(c.layers)-1]
	return top.settings
}

// Depth reports the number of layers including the base.
func (c *ConfigContext) Depth() int { return len(c.layers) }

// Get searches layers top to bottom; the first hit wins.
func (c *ConfigContext) Get(key string) (Value, bool) {
	if key == "skip_nil" {
		key = "skip_none"
	}
	for idx := len(c.layers) - 1; idx >= 0; idx-- {
		if v, ok := c.layers[idx].settings[key]; ok {
			return v, true
		}
	}
	return nil, false
}

func (c *ConfigContext) GetBool(key string, fallback bool) bool {
	if v, ok := c.Get(key); ok {
		if b, ok := v.(BoolValue); ok {
			return b.Val
		}
	}
	return fallback
}

func (c *ConfigContext) GetString(key string, fallback string) string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(StringValue); ok {
			return s.Val
		}
	}
	return fallback
}

// DecimalPlaces returns the configured rounding precision, or ok=false when
// no layer sets one.
func (c *ConfigContext) DecimalPlaces() (int, bool) {
	v, ok := c.Get("decimal_places")
	if !ok {
		return 0, false
	}
	num, ok := v.(NumberValue)
	if !ok {
		return 0, false
	}
	places, err := num.Val.Int()
	if err != nil {
		return 0, false
	}
	return int(places), true
}

func validateSetting(name string, value Value) error {
	switch name {
	case "skip_none", "strict_types", "allow_implicit_conversion", "auto_flatten", "case_sensitive":
		if _, ok := value.(BoolValue); !ok {
			return NewError(ErrConfig, ast.Position{},
				"setting '%s' expects a boolean, got %s", name, TypeTag(value))
		}
	case "decimal_places":
		num, ok := value.(NumberValue)
		if !ok {
			return NewError(ErrConfig, ast.Position{},
				"setting 'decimal_places' expects a number, got %s", TypeTag(value))
		}
		places, err := num.Val.Int()
		if err != nil || places < 0 || places > 100 {
			return NewError(ErrConfig, ast.Position{},
				"setting 'decimal_places' expects an integer between 0 and 100, got %s", num.Val.String())
		}
	case "zero_division":
		s, ok := value.(StringValue)
		if !ok {
			return NewError(ErrConfig, ast.Position{},
				"setting 'zero_division' expects a string, got %s", TypeTag(value))
		}
		switch s.Val {
		case ZeroDivisionError, ZeroDivisionInfinity, ZeroDivisionNone:
		default:
			return NewError(ErrConfig, ast.Position{},
				"setting 'zero_division' must be one of error, infinity, none; got %q", s.Val)
		}
	default:
		// Unknown keys pass through untouched.
	}
	return nil
}
