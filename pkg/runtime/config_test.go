package runtime

import (
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfigContext()

	if cfg.GetBool("skip_none", true) {
		t.Fatalf("skip_none should default to false")
	}
	if !cfg.GetBool("case_sensitive", false) {
		t.Fatalf("case_sensitive should default to true")
	}
	if got := cfg.GetString("zero_division", ""); got != ZeroDivisionError {
		t.Fatalf("unexpected zero_division default %q", got)
	}
	if _, ok := cfg.DecimalPlaces(); ok {
		t.Fatalf("decimal_places should be unset by default")
	}
}

func TestConfigLayering(t *testing.T) {
	cfg := NewConfigContext()

	if err := cfg.Push(map[string]Value{"decimal_places": NumberValue{Val: NumberFromInt(2)}}, "outer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Push(map[string]Value{"decimal_places": NumberValue{Val: NumberFromInt(4)}}, "inner"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if places, ok := cfg.DecimalPlaces(); !ok || places != 4 {
		t.Fatalf("inner layer should win, got %d (ok=%v)", places, ok)
	}

	cfg.Pop()
	if places, ok := cfg.DecimalPlaces(); !ok || places != 2 {
		t.Fatalf("outer layer should be visible after pop, got %d (ok=%v)", places, ok)
	}

	cfg.Pop()
	if _, ok := cfg.DecimalPlaces(); ok {
		t.Fatalf("decimal_places should be unset after both pops")
	}
}

func TestConfigBaseLayerProtected(t *testing.T) {
	cfg := NewConfigContext()
	if got := cfg.Pop(); got != nil {
		t.Fatalf("popping the base layer should be a no-op, got %#v", got)
	}
	if cfg.Depth() != 1 {
		t.Fatalf("unexpected depth %d", cfg.Depth())
	}
	if !cfg.GetBool("case_sensitive", false) {
		t.Fatalf("defaults must survive a pop attempt")
	}
}

func TestConfigSkipNilAlias(t *testing.T) {
	cfg := NewConfigContext()
	if err := cfg.Push(map[string]Value{"skip_nil": BoolValue{Val: true}}, "block"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.GetBool("skip_none", false) {
		t.Fatalf("skip_nil should store under skip_none")
	}
	if !cfg.GetBool("skip_nil", false) {
		t.Fatalf("skip_nil reads should resolve the canonical key")
	}
}

func TestConfigUnknownKeysPassThrough(t *testing.T) {
	cfg := NewConfigContext()
	if err := cfg.Push(map[string]Value{"my_custom_flag": StringValue{Val: "on"}}, "block"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.GetString("my_custom_flag", ""); got != "on" {
		t.Fatalf("unknown keys should be stored untouched, got %q", got)
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := NewConfigContext()

	err := cfg.Push(map[string]Value{"decimal_places": NumberValue{Val: MustNumber("2.5")}}, "block")
	if !IsKind(err, ErrConfig) {
		t.Fatalf("expected config error for fractional decimal_places, got %v", err)
	}

	err = cfg.Push(map[string]Value{"decimal_places": NumberValue{Val: NumberFromInt(101)}}, "block")
	if !IsKind(err, ErrConfig) {
		t.Fatalf("expected config error for out-of-range decimal_places, got %v", err)
	}

	err = cfg.Push(map[string]Value{"zero_division": StringValue{Val: "explode"}}, "block")
	if !IsKind(err, ErrConfig) {
		t.Fatalf("expected config error for bad zero_division policy, got %v", err)
	}

	err = cfg.Push(map[string]Value{"skip_none": StringValue{Val: "yes"}}, "block")
	if !IsKind(err, ErrConfig) {
		t.Fatalf("expected config error for non-boolean skip_none, got %v", err)
	}
}

func TestConfigFailedPushInstallsNothing(t *testing.T) {
	cfg := NewConfigContext()
	err := cfg.Push(map[string]Value{
		"case_sensitive": BoolValue{Val: false},
		"zero_division":  StringValue{Val: "explode"},
	}, "block")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if cfg.Depth() != 1 {
		t.Fatalf("failed push must not install a layer, depth %d", cfg.Depth())
	}
	if !cfg.GetBool("case_sensitive", false) {
		t.Fatalf("failed push must not apply any of its settings")
	}
}
