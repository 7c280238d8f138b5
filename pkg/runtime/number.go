package runtime

import (
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"glang/interpreter-go/pkg/ast"
)

// quotientPlaces is the number of fractional digits kept when a quotient
// does not terminate.
const quotientPlaces = 64

// powMagnitudeLimit bounds the decimal magnitude (digits before or after the
// point) a power result may reach before it saturates to the signed-infinity
// sentinel or to zero.
const powMagnitudeLimit = 1 << 16

// sqrtPrec and sqrtDigits size the binary intermediate used for square
// roots and the significant digits kept in the decimal result.
const (
	sqrtPrec   = 256
	sqrtDigits = 40
)

// Number is the arbitrary-precision decimal abstraction behind every Glang
// numeric value: an exact coefficient-and-exponent representation, plus a
// signed-infinity sentinel used for saturation and the zero-division policy.
type Number struct {
	inf int8 // -1 or +1 when infinite
	dec decimal.Decimal
}

// NumberFromString parses a decimal literal. The empty string is rejected.
func NumberFromString(text string) (Number, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return Number{}, NewError(ErrArgument, ast.Position{}, "invalid number literal %q", text)
	}
	return Number{dec: d}, nil
}

// MustNumber is a test/bootstrap helper; it panics on malformed input.
func MustNumber(text string) Number {
	n, err := NumberFromString(text)
	if err != nil {
		panic(err)
	}
	return n
}

func NumberFromInt(v int64) Number {
	return Number{dec: decimal.NewFromInt(v)}
}

func NumberFromFloat(v float64) Number {
	return Number{dec: decimal.NewFromFloat(v)}
}

// Inf returns the signed-infinity sentinel.
func Inf(sign int) Number {
	if sign < 0 {
		return Number{inf: -1}
	}
	return Number{inf: 1}
}

func (n Number) IsInf() bool { return n.inf != 0 }

func (n Number) Sign() int {
	if n.inf != 0 {
		return int(n.inf)
	}
	return n.dec.Sign()
}

// IsInt reports whether the number has no fractional part.
func (n Number) IsInt() bool {
	return n.inf == 0 && n.dec.IsInteger()
}

// Int converts to int64, failing on fractional or out-of-range values.
func (n Number) Int() (int64, error) {
	if !n.IsInt() {
		return 0, NewError(ErrArgument, ast.Position{}, "expected integer, got %s", n.String())
	}
	bi := n.dec.BigInt()
	if !bi.IsInt64() {
		return 0, NewError(ErrArgument, ast.Position{}, "integer out of range: %s", n.String())
	}
	return bi.Int64(), nil
}

func (n Number) Float() float64 {
	if n.inf != 0 {
		return math.Inf(int(n.inf))
	}
	f, _ := n.dec.Float64()
	return f
}

func (n Number) Add(other Number) Number {
	if n.inf != 0 {
		return n
	}
	if other.inf != 0 {
		return other
	}
	return Number{dec: n.dec.Add(other.dec)}
}

func (n Number) Sub(other Number) Number {
	if n.inf != 0 {
		return n
	}
	if other.inf != 0 {
		return Inf(-int(other.inf))
	}
	return Number{dec: n.dec.Sub(other.dec)}
}

func (n Number) Mul(other Number) Number {
	if n.inf != 0 || other.inf != 0 {
		sign := n.Sign() * other.Sign()
		if sign == 0 {
			return Number{}
		}
		return Inf(sign)
	}
	return Number{dec: n.dec.Mul(other.dec)}
}

func (n Number) Div(other Number) (Number, error) {
	if other.Sign() == 0 {
		return Number{}, NewError(ErrZeroDivision, ast.Position{}, "division by zero")
	}
	if n.inf != 0 {
		return Inf(int(n.inf) * other.Sign()), nil
	}
	if other.inf != 0 {
		return Number{}, nil
	}
	return Number{dec: n.dec.DivRound(other.dec, quotientPlaces)}, nil
}

// Mod follows truncated division: a - b * trunc(a/b).
func (n Number) Mod(other Number) (Number, error) {
	if other.Sign() == 0 {
		return Number{}, NewError(ErrZeroDivision, ast.Position{}, "modulo by zero")
	}
	if n.inf != 0 || other.inf != 0 {
		return Number{}, nil
	}
	_, r := n.dec.QuoRem(other.dec, 0)
	return Number{dec: r}, nil
}

// Pow raises n to an integer exponent. A result whose decimal magnitude is
// out of reach saturates to a signed-infinity sentinel (or to zero on the
// way down) instead of failing.
func (n Number) Pow(exponent Number) (Number, error) {
	exp, err := exponent.Int()
	if err != nil {
		return Number{}, NewError(ErrArgument, ast.Position{}, "exponent must be an integer, got %s", exponent.String())
	}
	if n.inf != 0 {
		switch {
		case exp == 0:
			return NumberFromInt(1), nil
		case exp < 0:
			return Number{}, nil
		default:
			sign := 1
			if n.inf < 0 && exp%2 != 0 {
				sign = -1
			}
			return Inf(sign), nil
		}
	}
	if n.dec.Sign() == 0 {
		if exp < 0 {
			return Number{}, NewError(ErrZeroDivision, ast.Position{}, "zero raised to a negative power")
		}
		if exp == 0 {
			return NumberFromInt(1), nil
		}
		return Number{}, nil
	}
	if sat, ok := powSaturation(n.dec, exp); ok {
		return sat, nil
	}

	negative := exp < 0
	if negative {
		exp = -exp
	}
	result := decimal.NewFromInt(1)
	base := n.dec
	for exp > 0 {
		if exp&1 == 1 {
			result = powTrim(result.Mul(base))
		}
		exp >>= 1
		if exp > 0 {
			base = powTrim(base.Mul(base))
		}
	}
	if negative {
		result = decimal.NewFromInt(1).DivRound(result, quotientPlaces)
	}
	return Number{dec: result}, nil
}

// powSaturation estimates the decimal magnitude of base**exp and collapses
// results the exact representation cannot reasonably hold.
func powSaturation(base decimal.Decimal, exp int64) (Number, bool) {
	f, _ := base.Abs().Float64()
	mag := math.Log10(f) * float64(exp)
	switch {
	case mag > powMagnitudeLimit:
		sign := 1
		if base.Sign() < 0 && exp%2 != 0 {
			sign = -1
		}
		return Inf(sign), true
	case mag < -powMagnitudeLimit:
		return Number{}, true
	}
	return Number{}, false
}

// powTrim caps coefficient growth for bases whose exact powers would need
// absurdly long coefficients (e.g. values barely off 1); exactness is
// already meaningless at that size.
func powTrim(d decimal.Decimal) decimal.Decimal {
	const maxDigits = 4096
	if d.NumDigits() <= maxDigits {
		return d
	}
	return roundSig(d, maxDigits)
}

func (n Number) Neg() Number {
	if n.inf != 0 {
		return Inf(-int(n.inf))
	}
	return Number{dec: n.dec.Neg()}
}

func (n Number) Abs() Number {
	if n.inf != 0 {
		return Inf(1)
	}
	return Number{dec: n.dec.Abs()}
}

// Cmp orders the signed-infinity sentinels around every finite value.
func (n Number) Cmp(other Number) int {
	if n.inf != other.inf {
		if n.inf < other.inf {
			return -1
		}
		return 1
	}
	if n.inf != 0 {
		return 0
	}
	return n.dec.Cmp(other.dec)
}

func (n Number) Equal(other Number) bool {
	return n.Cmp(other) == 0
}

// Sqrt goes through a high-precision binary intermediate and keeps
// sqrtDigits significant digits; perfect squares come back exact.
func (n Number) Sqrt() (Number, error) {
	if n.Sign() < 0 {
		return Number{}, NewError(ErrArgument, ast.Position{}, "square root of negative number %s", n.String())
	}
	if n.inf != 0 {
		return n, nil
	}
	f, ok := new(big.Float).SetPrec(sqrtPrec).SetString(n.dec.String())
	if !ok {
		return Number{}, NewError(ErrArgument, ast.Position{}, "square root of %s", n.String())
	}
	root := new(big.Float).SetPrec(sqrtPrec).Sqrt(f)
	out, err := decimal.NewFromString(root.Text('e', sqrtDigits-1))
	if err != nil {
		return Number{}, NewError(ErrArgument, ast.Position{}, "square root of %s", n.String())
	}
	return Number{dec: out}, nil
}

func (n Number) Ceil() Number {
	if n.inf != 0 {
		return n
	}
	return Number{dec: n.dec.Ceil()}
}

func (n Number) Floor() Number {
	if n.inf != 0 {
		return n
	}
	return Number{dec: n.dec.Floor()}
}

// Round rounds to `places` decimal places, half away from zero.
func (n Number) Round(places int) Number {
	if n.inf != 0 {
		return n
	}
	if places < 0 {
		places = 0
	}
	return Number{dec: n.dec.Round(int32(places))}
}

// RoundSignificant keeps the leading `digits` significant decimal digits,
// used by precision blocks.
func (n Number) RoundSignificant(digits int) Number {
	if digits <= 0 || n.inf != 0 || n.dec.Sign() == 0 {
		return n
	}
	return Number{dec: roundSig(n.dec, digits)}
}

// roundSig rounds to `digits` significant digits: the most significant
// coefficient digit sits at power NumDigits-1+Exponent, so the decimal
// place to round at is digits - NumDigits - Exponent.
func roundSig(d decimal.Decimal, digits int) decimal.Decimal {
	places := int32(digits) - int32(d.NumDigits()) - d.Exponent()
	return d.Round(places)
}

// String renders the exact decimal value in fixed notation, trimming
// trailing fractional zeros.
func (n Number) String() string {
	if n.inf < 0 {
		return "-Infinity"
	}
	if n.inf > 0 {
		return "Infinity"
	}
	s := n.dec.String()
	if strings.ContainsRune(s, '.') {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
