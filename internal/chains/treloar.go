package chains

import (
	"math"
	"math/big"

	"github.com/san-kum/polysim/internal/thermo"
)

// treloarPrecision is the mantissa width of the alternating sums. The
// binomial terms reach 2^N while the sum can be many orders smaller.
const treloarPrecision = 512

// treloar is the exact end-to-end density of a freely jointed chain,
//
//	P(gamma) = N^N / (2^(N+1) pi (N-2)! gamma) * S(gamma)
//	S(gamma) = sum_s (-1)^s C(N,s) (1 - gamma - 2s/N)^(N-2)
//
// over the terms with a positive base. It needs N >= 2.
type treloar struct {
	n            int
	logPrefactor float64
	coefficients []*big.Float
}

func newTreloar(n int) (treloar, error) {
	if n < 2 {
		return treloar{}, &thermo.ParameterError{Name: "number_of_links", Value: float64(n)}
	}
	lg, _ := math.Lgamma(float64(n - 1))
	t := treloar{
		n: n,
		logPrefactor: float64(n)*math.Log(float64(n)) - float64(n+1)*math.Ln2 -
			math.Log(math.Pi) - lg,
		coefficients: make([]*big.Float, n+1),
	}
	for s := 0; s <= n; s++ {
		c := new(big.Int).Binomial(int64(n), int64(s))
		f := new(big.Float).SetPrec(treloarPrecision).SetInt(c)
		if s%2 == 1 {
			f.Neg(f)
		}
		t.coefficients[s] = f
	}
	return t, nil
}

func newFloat() *big.Float { return new(big.Float).SetPrec(treloarPrecision) }

func powInt(x *big.Float, k int) *big.Float {
	result := newFloat().SetInt64(1)
	base := newFloat().Set(x)
	for ; k > 0; k >>= 1 {
		if k&1 == 1 {
			result.Mul(result, base)
		}
		base.Mul(base, base)
	}
	return result
}

// sums returns S(gamma) and dS/dgamma.
func (t treloar) sums(gamma float64) (sum, deriv *big.Float) {
	one := newFloat().SetInt64(1)
	n := newFloat().SetInt64(int64(t.n))
	g := newFloat().SetFloat64(gamma)
	sum, deriv = newFloat(), newFloat()

	for s := 0; s <= t.n; s++ {
		x := newFloat().SetInt64(int64(2 * s))
		x.Quo(x, n)
		x.Add(x, g)
		x.Sub(one, x)
		if x.Sign() <= 0 {
			break
		}
		if t.n == 2 {
			sum.Add(sum, t.coefficients[s])
			continue
		}
		p := powInt(x, t.n-3)
		p.Mul(p, t.coefficients[s])
		deriv.Add(deriv, p)
		p.Mul(p, x)
		sum.Add(sum, p)
	}
	deriv.Mul(deriv, newFloat().SetInt64(int64(-(t.n - 2))))
	return sum, deriv
}

func logBig(x *big.Float) float64 {
	mant := newFloat()
	exp := x.MantExp(mant)
	m, _ := mant.Float64()
	return math.Log(m) + float64(exp)*math.Ln2
}

// checkDomain maps gamma = 0 to the Zero sentinel, where the density is
// regular but the closed form is 0/0.
func (t treloar) checkDomain(gamma float64) (float64, error) {
	switch {
	case gamma < 0:
		return 0, &thermo.RangeError{Quantity: "gamma", Value: gamma, Limit: 0}
	case gamma >= 1:
		return 0, &thermo.RangeError{Quantity: "gamma", Value: gamma, Limit: 1}
	case gamma < thermo.Zero:
		return thermo.Zero, nil
	}
	return gamma, nil
}

// LogDensity returns ln P(gamma).
func (t treloar) LogDensity(gamma float64) (float64, error) {
	gamma, err := t.checkDomain(gamma)
	if err != nil {
		return 0, err
	}
	sum, _ := t.sums(gamma)
	if sum.Sign() <= 0 {
		return math.Inf(-1), nil
	}
	return t.logPrefactor - math.Log(gamma) + logBig(sum), nil
}

func (t treloar) MaxExtension() float64 { return 1 }

// Force is eta = (1/N) d(-ln P)/dgamma = (1/N)(1/gamma - S'/S).
func (t treloar) Force(gamma float64) (float64, error) {
	if gamma == 0 {
		return 0, nil
	}
	gamma, err := t.checkDomain(gamma)
	if err != nil {
		return 0, err
	}
	sum, deriv := t.sums(gamma)
	if sum.Sign() <= 0 {
		return math.Inf(1), nil
	}
	r := newFloat().Quo(deriv, sum)
	inv := newFloat().Quo(newFloat().SetInt64(1), newFloat().SetFloat64(gamma))
	inv.Sub(inv, r)
	eta, _ := inv.Float64()
	return eta / float64(t.n), nil
}

// HelmholtzFreeEnergy is -ln P(gamma).
func (t treloar) HelmholtzFreeEnergy(gamma float64) (float64, error) {
	lp, err := t.LogDensity(gamma)
	return -lp, err
}
