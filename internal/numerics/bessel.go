package numerics

import "math"

// BesselI returns the modified Bessel function of the first kind I_nu(x)
// for nu >= 0 and x >= 0.
func BesselI(nu, x float64) float64 {
	if x == 0 {
		if nu == 0 {
			return 1
		}
		return 0
	}
	if x > 50 && nu < x/2 {
		return besselIAsymptotic(nu, x)
	}
	return besselISeries(nu, x)
}

func besselISeries(nu, x float64) float64 {
	half := 0.5 * x
	q := half * half
	lgamma, _ := math.Lgamma(nu + 1)
	term := math.Exp(nu*math.Log(half) - lgamma)
	sum := term
	for k := 1; k < 500; k++ {
		term *= q / (float64(k) * (float64(k) + nu))
		sum += term
		if term < 1e-17*sum {
			break
		}
	}
	return sum
}

// BesselIScaled returns exp(-x) I_nu(x), which stays finite for large x.
func BesselIScaled(nu, x float64) float64 {
	if x > 50 && nu < x/2 {
		return hankelSum(nu, x) / math.Sqrt(2*math.Pi*x)
	}
	return BesselI(nu, x) * math.Exp(-x)
}

// besselIAsymptotic is the large-argument Hankel expansion.
func besselIAsymptotic(nu, x float64) float64 {
	return math.Exp(x) / math.Sqrt(2*math.Pi*x) * hankelSum(nu, x)
}

func hankelSum(nu, x float64) float64 {
	mu := 4 * nu * nu
	term := 1.0
	sum := 1.0
	for k := 1; k < 60; k++ {
		odd := float64(2*k - 1)
		next := -term * (mu - odd*odd) / (float64(k) * 8 * x)
		if math.Abs(next) > math.Abs(term) {
			break
		}
		term = next
		sum += term
		if math.Abs(term) < 1e-17*math.Abs(sum) {
			break
		}
	}
	return sum
}

// BesselIRatio returns I_{nu+1}(x)/I_nu(x) from the Gauss continued fraction,
// evaluated with the modified Lentz method. It stays finite for any x.
func BesselIRatio(nu, x float64) float64 {
	if x == 0 {
		return 0
	}
	if x < 0 {
		return -BesselIRatio(nu, -x)
	}
	const tiny = 1e-300
	b := func(k int) float64 { return 2 * (nu + float64(k)) / x }

	f := b(1)
	c, d := f, 0.0
	for k := 2; k < 100000; k++ {
		bk := b(k)
		d = bk + d
		if d == 0 {
			d = tiny
		}
		d = 1 / d
		c = bk + 1/c
		if c == 0 {
			c = tiny
		}
		delta := c * d
		f *= delta
		if math.Abs(delta-1) < 1e-15 {
			break
		}
	}
	return 1 / f
}
