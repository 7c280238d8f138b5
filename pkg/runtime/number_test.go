package runtime

import (
	"testing"
)

func TestNumberFromStringRejectsGarbage(t *testing.T) {
	if _, err := NumberFromString("12abc"); err == nil {
		t.Fatalf("expected parse error for malformed number")
	}
	if _, err := NumberFromString(""); err == nil {
		t.Fatalf("expected parse error for empty string")
	}
}

func TestNumberArithmetic(t *testing.T) {
	a := MustNumber("1.5")
	b := MustNumber("2.5")

	if got := a.Add(b); !got.Equal(MustNumber("4")) {
		t.Fatalf("unexpected sum %s", got.String())
	}
	if got := b.Sub(a); !got.Equal(NumberFromInt(1)) {
		t.Fatalf("unexpected difference %s", got.String())
	}
	if got := a.Mul(b); !got.Equal(MustNumber("3.75")) {
		t.Fatalf("unexpected product %s", got.String())
	}
	got, err := b.Div(NumberFromInt(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(MustNumber("1.25")) {
		t.Fatalf("unexpected quotient %s", got.String())
	}
}

func TestNumberDecimalExactness(t *testing.T) {
	diff := MustNumber("1.1").Sub(MustNumber("1.0"))
	if !diff.Equal(MustNumber("0.1")) {
		t.Fatalf("1.1 - 1.0 = %s", diff.String())
	}
	if got := diff.String(); got != "0.1" {
		t.Fatalf("unexpected rendering %q", got)
	}
	sum := MustNumber("0.1").Add(MustNumber("0.2"))
	if !sum.Equal(MustNumber("0.3")) {
		t.Fatalf("0.1 + 0.2 = %s", sum.String())
	}
	if got := MustNumber("1.1").Mul(MustNumber("1.1")); !got.Equal(MustNumber("1.21")) {
		t.Fatalf("1.1 * 1.1 = %s", got.String())
	}
	quot, err := MustNumber("3.3").Div(MustNumber("1.1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quot.Equal(NumberFromInt(3)) {
		t.Fatalf("3.3 / 1.1 = %s", quot.String())
	}
}

func TestNumberDivByZero(t *testing.T) {
	_, err := NumberFromInt(1).Div(NumberFromInt(0))
	if !IsKind(err, ErrZeroDivision) {
		t.Fatalf("expected zero-division error, got %v", err)
	}
}

func TestNumberModByZero(t *testing.T) {
	_, err := NumberFromInt(7).Mod(NumberFromInt(0))
	if !IsKind(err, ErrZeroDivision) {
		t.Fatalf("expected zero-division error, got %v", err)
	}
}

func TestNumberMod(t *testing.T) {
	got, err := NumberFromInt(7).Mod(NumberFromInt(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(NumberFromInt(1)) {
		t.Fatalf("unexpected remainder %s", got.String())
	}
}

func TestNumberPow(t *testing.T) {
	got, err := NumberFromInt(2).Pow(NumberFromInt(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(NumberFromInt(1024)) {
		t.Fatalf("unexpected power %s", got.String())
	}

	got, err = NumberFromInt(2).Pow(NumberFromInt(-2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(MustNumber("0.25")) {
		t.Fatalf("unexpected power %s", got.String())
	}
}

func TestNumberPowZeroNegativeExponent(t *testing.T) {
	if _, err := NumberFromInt(0).Pow(NumberFromInt(-1)); !IsKind(err, ErrZeroDivision) {
		t.Fatalf("expected zero-division error, got %v", err)
	}
}

func TestNumberPowOverflowSaturates(t *testing.T) {
	got, err := MustNumber("10").Pow(NumberFromInt(1000000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsInf() || got.Sign() <= 0 {
		t.Fatalf("expected positive infinity, got %s", got.String())
	}
}

func TestNumberRoundHalfAwayFromZero(t *testing.T) {
	if got := MustNumber("2.5").Round(0); !got.Equal(NumberFromInt(3)) {
		t.Fatalf("2.5 rounded to %s", got.String())
	}
	if got := MustNumber("-2.5").Round(0); !got.Equal(NumberFromInt(-3)) {
		t.Fatalf("-2.5 rounded to %s", got.String())
	}
	if got := MustNumber("0.25").Round(1); !got.Equal(MustNumber("0.3")) {
		t.Fatalf("0.25 rounded to %s", got.String())
	}
	if got := MustNumber("2.4").Round(0); !got.Equal(NumberFromInt(2)) {
		t.Fatalf("2.4 rounded to %s", got.String())
	}
}

func TestNumberRoundSignificant(t *testing.T) {
	if got := MustNumber("123456").RoundSignificant(3); !got.Equal(NumberFromInt(123000)) {
		t.Fatalf("unexpected significant rounding %s", got.String())
	}
	if got := MustNumber("0.001234").RoundSignificant(2); !got.Equal(MustNumber("0.0012")) {
		t.Fatalf("unexpected significant rounding %s", got.String())
	}
	if got := NumberFromInt(0).RoundSignificant(3); !got.Equal(NumberFromInt(0)) {
		t.Fatalf("unexpected significant rounding of zero %s", got.String())
	}
}

func TestNumberCeilFloorAbs(t *testing.T) {
	if got := MustNumber("1.2").Ceil(); !got.Equal(NumberFromInt(2)) {
		t.Fatalf("unexpected ceil %s", got.String())
	}
	if got := MustNumber("-1.2").Ceil(); !got.Equal(NumberFromInt(-1)) {
		t.Fatalf("unexpected ceil %s", got.String())
	}
	if got := MustNumber("1.8").Floor(); !got.Equal(NumberFromInt(1)) {
		t.Fatalf("unexpected floor %s", got.String())
	}
	if got := MustNumber("-1.2").Floor(); !got.Equal(NumberFromInt(-2)) {
		t.Fatalf("unexpected floor %s", got.String())
	}
	if got := MustNumber("-3.5").Abs(); !got.Equal(MustNumber("3.5")) {
		t.Fatalf("unexpected abs %s", got.String())
	}
}

func TestNumberSqrt(t *testing.T) {
	got, err := NumberFromInt(16).Sqrt()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(NumberFromInt(4)) {
		t.Fatalf("unexpected sqrt %s", got.String())
	}
	if _, err := NumberFromInt(-1).Sqrt(); !IsKind(err, ErrArgument) {
		t.Fatalf("expected argument error for negative sqrt, got %v", err)
	}
}

func TestNumberIntConversion(t *testing.T) {
	v, err := MustNumber("42").Int()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("unexpected int %d", v)
	}
	if _, err := MustNumber("2.5").Int(); err == nil {
		t.Fatalf("expected error converting non-integer")
	}
}

func TestNumberStringTrimsTrailingZeros(t *testing.T) {
	if got := MustNumber("2.5").String(); got != "2.5" {
		t.Fatalf("unexpected rendering %q", got)
	}
	if got := NumberFromInt(10).String(); got != "10" {
		t.Fatalf("unexpected rendering %q", got)
	}
	if got := MustNumber("0.25").String(); got != "0.25" {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestNumberInfinity(t *testing.T) {
	pos := Inf(1)
	neg := Inf(-1)
	if !pos.IsInf() || pos.Sign() != 1 {
		t.Fatalf("unexpected positive infinity %s", pos.String())
	}
	if !neg.IsInf() || neg.Sign() != -1 {
		t.Fatalf("unexpected negative infinity %s", neg.String())
	}
	if pos.Cmp(NumberFromInt(1000)) <= 0 {
		t.Fatalf("infinity should compare above any finite value")
	}
}
