package value

import (
	"math"

	"github.com/sasscore/sasscore/errs"
)

// Number is a Sass number: a double plus numerator/denominator unit
// lists (spec 3). AsSlash preserves the textual form of a literal
// division for legacy rgba(r,g,b, a/b) compatibility (spec 4.1).
type Number struct {
	V           float64
	Numerator   []string
	Denominator []string
	AsSlash     *SlashPair
}

// SlashPair records the two Numbers either side of a `/` that was kept
// in slash form rather than computed, per spec 4.1.
type SlashPair struct {
	Left, Right Number
}

func NewNumber(v float64, unit string) Number {
	if unit == "" {
		return Number{V: v}
	}
	return Number{V: v, Numerator: []string{unit}}
}

func Unitless(v float64) Number { return Number{V: v} }

func (n Number) Unit() string {
	if len(n.Numerator) == 1 && len(n.Denominator) == 0 {
		return n.Numerator[0]
	}
	if len(n.Numerator) == 0 && len(n.Denominator) == 0 {
		return ""
	}
	num := joinUnits(n.Numerator)
	if len(n.Denominator) == 0 {
		return num
	}
	return num + "/" + joinUnits(n.Denominator)
}

func (n Number) HasUnits() bool { return len(n.Numerator) > 0 || len(n.Denominator) > 0 }

func (n Number) CSSText() string {
	return formatNumber(n.V) + n.Unit()
}

func (n Number) Inspect() string { return n.CSSText() }

func (n Number) Truthy() bool { return true }

// Equal compares after coercion to a canonical unit base, per spec 3 and
// invariant 4 (testable properties).
func (n Number) Equal(o Value) bool {
	on, ok := o.(Number)
	if !ok {
		return false
	}
	if !unitsCompatible(n, on) {
		return false
	}
	a, _ := coerceToUnits(n, on.Numerator, on.Denominator)
	return math.Abs(a.V-on.V) < 1e-11
}

// WithoutSlash strips AsSlash, idempotently (invariant 4).
func (n Number) WithoutSlash() Number {
	n.AsSlash = nil
	return n
}

func (n Number) WithSlash(left, right Number) Number {
	n.AsSlash = &SlashPair{Left: left, Right: right}
	return n
}

// --- unit algebra, grounded on unit_conversions.go's conversion-table
// approach in the teacher, generalized to Sass's full unit set ---

var unitConversions = map[string]map[string]float64{
	"in": {"in": 1, "cm": 1.0 / 2.54, "pc": 1.0 / 6, "mm": 1.0 / 25.4, "q": 1.0 / 101.6, "pt": 1.0 / 72, "px": 1.0 / 96},
	"cm": {"in": 2.54, "cm": 1, "pc": 2.54 / 6, "mm": 0.1, "q": 0.025, "pt": 2.54 / 72, "px": 2.54 / 96},
	"mm": {"in": 25.4, "cm": 10, "pc": 25.4 / 6, "mm": 1, "q": 0.25, "pt": 25.4 / 72, "px": 25.4 / 96},
	"q":  {"in": 101.6, "cm": 40, "pc": 101.6 / 6, "mm": 4, "q": 1, "pt": 101.6 / 72, "px": 101.6 / 96},
	"pc": {"in": 6, "cm": 6 / 2.54, "pc": 1, "mm": 6 / 25.4, "q": 6 / 101.6, "pt": 1.0 / 12, "px": 1.0 / 16},
	"pt": {"in": 72, "cm": 72 / 2.54, "pc": 12, "mm": 72 / 25.4, "q": 72 / 101.6, "pt": 1, "px": 0.75},
	"px": {"in": 96, "cm": 96 / 2.54, "pc": 16, "mm": 96 / 25.4, "q": 96 / 101.6, "pt": 1.0 / 0.75, "px": 1},
	"s":  {"s": 1, "ms": 1.0 / 1000},
	"ms": {"s": 1000, "ms": 1},
	"deg": {"deg": 1, "grad": 0.9, "rad": 180 / math.Pi, "turn": 360},
	"grad": {"deg": 1.0 / 0.9, "grad": 1, "rad": 200 / math.Pi, "turn": 400},
	"rad": {"deg": math.Pi / 180, "grad": math.Pi / 200, "rad": 1, "turn": 2 * math.Pi},
	"turn": {"deg": 1.0 / 360, "grad": 1.0 / 400, "rad": 1.0 / (2 * math.Pi), "turn": 1},
	"dpi": {"dpi": 1, "dpcm": 2.54, "dppx": 96},
	"dpcm": {"dpi": 1.0 / 2.54, "dpcm": 1, "dppx": 96 / 2.54},
	"dppx": {"dpi": 1.0 / 96, "dpcm": 2.54 / 96, "dppx": 1},
}

func convertibleFamily(u string) (string, bool) {
	for family, table := range unitConversions {
		if _, ok := table[u]; ok {
			return family, true
		}
	}
	return "", false
}

func unitFactor(from, to string) (float64, bool) {
	if from == to {
		return 1, true
	}
	table, ok := unitConversions[to]
	if !ok {
		return 0, false
	}
	f, ok := table[from]
	return f, ok
}

func unitsCompatible(a, b Number) bool {
	if len(a.Numerator) != len(b.Numerator) || len(a.Denominator) != len(b.Denominator) {
		return !a.HasUnits() && !b.HasUnits()
	}
	if !a.HasUnits() && !b.HasUnits() {
		return true
	}
	au, bu := a.Unit(), b.Unit()
	if au == bu {
		return true
	}
	if len(a.Numerator) == 1 && len(a.Denominator) == 0 && len(b.Numerator) == 1 && len(b.Denominator) == 0 {
		_, convA := convertibleFamily(au)
		_, convB := convertibleFamily(bu)
		return convA && convB && sameFamily(au, bu)
	}
	return false
}

func sameFamily(a, b string) bool {
	_, ok := unitFactor(a, b)
	return ok
}

// coerceToUnits re-expresses n in terms of targetNum/targetDen, per spec
// 4.1: "addition/subtraction require unit-compatible operands and coerce
// to the left's units".
func coerceToUnits(n Number, targetNum, targetDen []string) (Number, error) {
	if len(n.Numerator) == 0 && len(n.Denominator) == 0 {
		return Number{V: n.V, Numerator: targetNum, Denominator: targetDen}, nil
	}
	if len(targetNum) == 0 && len(targetDen) == 0 {
		return n, nil
	}
	if len(n.Numerator) == 1 && len(n.Denominator) == 0 && len(targetNum) == 1 && len(targetDen) == 0 {
		factor, ok := unitFactor(n.Numerator[0], targetNum[0])
		if !ok {
			return Number{}, errs.NewScriptError("Incompatible units %s and %s.", n.Unit(), joinUnits(targetNum))
		}
		return Number{V: n.V * factor, Numerator: targetNum, Denominator: targetDen}, nil
	}
	if n.Unit() == joinUnits(targetNum)+condSlash(targetDen) {
		return n, nil
	}
	return Number{}, errs.NewScriptError("Incompatible units %s and %s.", n.Unit(), joinUnits(targetNum))
}

func condSlash(den []string) string {
	if len(den) == 0 {
		return ""
	}
	return "/" + joinUnits(den)
}

// Add, Sub, Mul, Div, Mod implement spec 4.1's arithmetic table.
func (n Number) Add(o Number) (Number, error) {
	co, err := coerceToUnits(o, n.Numerator, n.Denominator)
	if err != nil {
		return Number{}, err
	}
	return Number{V: n.V + co.V, Numerator: n.Numerator, Denominator: n.Denominator}, nil
}

func (n Number) Sub(o Number) (Number, error) {
	co, err := coerceToUnits(o, n.Numerator, n.Denominator)
	if err != nil {
		return Number{}, err
	}
	return Number{V: n.V - co.V, Numerator: n.Numerator, Denominator: n.Denominator}, nil
}

// Mul combines numerator/denominator unit lists, canceling matching
// units across the combined numerator/denominator (spec 4.1).
func (n Number) Mul(o Number) Number {
	num := append(append([]string{}, n.Numerator...), o.Numerator...)
	den := append(append([]string{}, n.Denominator...), o.Denominator...)
	num, den = cancelUnits(num, den)
	return Number{V: n.V * o.V, Numerator: num, Denominator: den}
}

// Div allows division by zero, producing +/-Inf or NaN like CSS calc();
// only Mod guards against a zero divisor.
func (n Number) Div(o Number) (Number, error) {
	num := append(append([]string{}, n.Numerator...), o.Denominator...)
	den := append(append([]string{}, n.Denominator...), o.Numerator...)
	num, den = cancelUnits(num, den)
	return Number{V: n.V / o.V, Numerator: num, Denominator: den}, nil
}

func (n Number) Mod(o Number) (Number, error) {
	co, err := coerceToUnits(o, n.Numerator, n.Denominator)
	if err != nil {
		return Number{}, err
	}
	if co.V == 0 {
		return Number{V: math.NaN(), Numerator: n.Numerator, Denominator: n.Denominator}, nil
	}
	r := math.Mod(n.V, co.V)
	if r != 0 && (r < 0) != (co.V < 0) {
		r += co.V
	}
	return Number{V: r, Numerator: n.Numerator, Denominator: n.Denominator}, nil
}

func cancelUnits(num, den []string) ([]string, []string) {
	for i := 0; i < len(num); i++ {
		for j := 0; j < len(den); j++ {
			if num[i] == den[j] {
				num = append(num[:i], num[i+1:]...)
				den = append(den[:j], den[j+1:]...)
				i--
				break
			}
		}
	}
	return num, den
}

// Compare implements <, <=, >, >= after unit coercion; only unit-compatible
// numbers may be ordered.
func (n Number) Compare(o Number) (int, error) {
	co, err := coerceToUnits(o, n.Numerator, n.Denominator)
	if err != nil {
		return 0, err
	}
	switch {
	case n.V < co.V:
		return -1, nil
	case n.V > co.V:
		return 1, nil
	default:
		return 0, nil
	}
}
