package numerics

import "gonum.org/v1/gonum/floats"

// Integrand is a pure function of one real variable.
type Integrand func(x float64) float64

// Midpoint integrates f over [lower, upper] with a composite midpoint rule
// of the given number of points. f is never evaluated at the bounds.
func Midpoint(f Integrand, lower, upper float64, points int) float64 {
	if points <= 0 || lower == upper {
		return 0
	}
	dx := (upper - lower) / float64(points)
	sum := 0.0
	for i := 0; i < points; i++ {
		sum += f(lower + (float64(i)+0.5)*dx)
	}
	return sum * dx
}

// Trapezoid integrates f over [lower, upper] with a composite trapezoid
// rule on points uniform intervals. The grid endpoints are exact.
func Trapezoid(f Integrand, lower, upper float64, points int) float64 {
	if points <= 0 || lower == upper {
		return 0
	}
	grid := floats.Span(make([]float64, points+1), lower, upper)
	values := make([]float64, len(grid))
	for i, x := range grid {
		values[i] = f(x)
	}
	dx := (upper - lower) / float64(points)
	return dx * (floats.Sum(values) - 0.5*(values[0]+values[points]))
}
