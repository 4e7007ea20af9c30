package numerics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/polysim/internal/thermo"
)

func TestMidpoint_Polynomial(t *testing.T) {
	f := func(x float64) float64 { return 3 * x * x }
	got := Midpoint(f, 0, 2, 1000)
	if math.Abs(got-8) > 1e-5 {
		t.Errorf("expected 8, got %.10f", got)
	}
}

func TestQuadrature_StaysInBounds(t *testing.T) {
	lower, upper := 0.25, 1.75
	f := func(x float64) float64 {
		if x < lower || x > upper {
			t.Fatalf("evaluated outside bounds at %v", x)
		}
		return math.Exp(-x)
	}
	want := math.Exp(-lower) - math.Exp(-upper)

	if got := Midpoint(f, lower, upper, thermo.Points); math.Abs(got-want) > 1e-4 {
		t.Errorf("midpoint: expected %v, got %v", want, got)
	}
	if got := Trapezoid(f, lower, upper, thermo.Points); math.Abs(got-want) > 1e-4 {
		t.Errorf("trapezoid: expected %v, got %v", want, got)
	}
}

func TestQuadrature_EmptyInterval(t *testing.T) {
	f := func(x float64) float64 { return 1 }
	if got := Midpoint(f, 1, 1, 64); got != 0 {
		t.Errorf("midpoint over empty interval = %v", got)
	}
	if got := Trapezoid(f, 1, 1, 64); got != 0 {
		t.Errorf("trapezoid over empty interval = %v", got)
	}
}

func TestNewton_Sqrt2(t *testing.T) {
	for _, p := range []int{1, 2, 4} {
		solver := NewNewton().WithPower(p)
		x, err := solver.Solve(
			func(x float64) float64 { return x*x - 2 },
			func(x float64) float64 { return 2 * x },
			1.0,
		)
		if err != nil {
			t.Fatalf("power %d: %v", p, err)
		}
		if math.Abs(x-math.Sqrt2) > 1e-9 {
			t.Errorf("power %d: expected sqrt(2), got %v", p, x)
		}
	}
}

func TestNewton_NonConvergence(t *testing.T) {
	solver := NewNewton()
	solver.MaxIterations = 5
	_, err := solver.Solve(
		func(x float64) float64 { return x*x + 1 },
		func(x float64) float64 { return 2 * x },
		0.5,
	)
	if !errors.Is(err, thermo.ErrNonConvergence) {
		t.Fatalf("expected ErrNonConvergence, got %v", err)
	}
	var ce *ConvergenceError
	if !errors.As(err, &ce) {
		t.Fatal("expected *ConvergenceError")
	}
	if ce.Residual < 1 {
		t.Errorf("residual should be at least 1, got %v", ce.Residual)
	}
}

func TestNewton_Bounds(t *testing.T) {
	solver := NewNewton().WithBounds(0, math.Inf(1))
	x, err := solver.Solve(
		func(x float64) float64 { return math.Log(x) },
		func(x float64) float64 { return 1 / x },
		5.0,
	)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if math.Abs(x-1) > 1e-9 {
		t.Errorf("expected 1, got %v", x)
	}
}

func TestLangevin_Continuity(t *testing.T) {
	for _, x := range []float64{0.0099999, 0.01, 0.0100001} {
		series := x / 3 * (1 - x*x/15)
		if math.Abs(Langevin(x)-series) > 1e-9 {
			t.Errorf("L(%v)=%v, series %v", x, Langevin(x), series)
		}
	}
	if got := Langevin(-2); math.Abs(got+Langevin(2)) > 1e-15 {
		t.Errorf("Langevin should be odd, got %v", got)
	}
}

func TestInverseLangevin_RoundTrip(t *testing.T) {
	for _, y := range []float64{1e-9, 1e-4, 0.1, 0.3, 0.5, 0.9, 0.99, 0.9999, -0.4} {
		x, err := InverseLangevin(y)
		if err != nil {
			t.Fatalf("y=%v: %v", y, err)
		}
		if math.Abs(Langevin(x)-y) > 1e-12 {
			t.Errorf("L(Linv(%v)) = %v", y, Langevin(x))
		}
	}
}

func TestInverseLangevin_OutOfRange(t *testing.T) {
	for _, y := range []float64{1, 1.5, -1, math.NaN()} {
		if _, err := InverseLangevin(y); !errors.Is(err, thermo.ErrOutOfRange) {
			t.Errorf("y=%v: expected ErrOutOfRange, got %v", y, err)
		}
	}
}

func TestLogSinhc(t *testing.T) {
	for _, x := range []float64{1e-5, 0.5, 3, 19.9, 20.1, 300} {
		var want float64
		if x < 300 {
			want = math.Log(math.Sinh(x) / x)
		} else {
			want = x - math.Ln2 - math.Log(x)
		}
		if got := LogSinhc(x); math.Abs(got-want) > 1e-10*math.Max(1, math.Abs(want)) {
			t.Errorf("LogSinhc(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestBesselI_HalfOrder(t *testing.T) {
	for _, x := range []float64{0.1, 1, 5, 30, 60, 120} {
		want := math.Sqrt(2/(math.Pi*x)) * math.Sinh(x)
		got := BesselI(0.5, x)
		if math.Abs(got-want) > 1e-10*want {
			t.Errorf("I_1/2(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestBesselI_KnownValues(t *testing.T) {
	tests := []struct {
		nu, x, want float64
	}{
		{0, 0, 1},
		{1, 0, 0},
		{0, 1, 1.2660658777520082},
		{1, 1, 0.5651591039924851},
		{0, 10, 2815.716628466254},
	}
	for _, tt := range tests {
		got := BesselI(tt.nu, tt.x)
		if math.Abs(got-tt.want) > 1e-12*math.Max(1, tt.want) {
			t.Errorf("I_%v(%v) = %v, want %v", tt.nu, tt.x, got, tt.want)
		}
	}
}

func TestBesselIRatio_IsLangevin(t *testing.T) {
	for _, x := range []float64{1e-6, 0.01, 0.5, 2, 10, 100, 1000} {
		got := BesselIRatio(0.5, x)
		if math.Abs(got-Langevin(x)) > 1e-12 {
			t.Errorf("I_3/2/I_1/2(%v) = %v, L = %v", x, got, Langevin(x))
		}
	}
	got := BesselIRatio(0, 1)
	want := 0.5651591039924851 / 1.2660658777520082
	if math.Abs(got-want) > 1e-14 {
		t.Errorf("I1/I0(1) = %v, want %v", got, want)
	}
}

func TestNewton_InvertSteepTarget(t *testing.T) {
	// 1/(1-x)^3 reaches 1e9 at x = 0.999, where neighbouring floats differ
	// by far more than an absolute residual of 1e-10.
	f := func(x float64) float64 { u := 1 - x; return 1 / (u * u * u) }
	df := func(x float64) float64 { u := 1 - x; return 3 / (u * u * u * u) }

	x, err := NewNewton().WithPower(2).WithBounds(0, 1).Invert(f, df, 1e9, 0.99)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(x-0.999) > 1e-12 {
		t.Errorf("expected 0.999, got %v", x)
	}

	// targets below one keep the absolute tolerance
	x, err = NewNewton().Invert(f, df, 1.5, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(f(x)-1.5) > thermo.Tolerance {
		t.Errorf("residual %v above tolerance", f(x)-1.5)
	}
}

func TestBesselIScaled(t *testing.T) {
	for _, nu := range []float64{0, 0.5, 2} {
		for _, x := range []float64{0.1, 3, 20} {
			want := BesselI(nu, x) * math.Exp(-x)
			if got := BesselIScaled(nu, x); math.Abs(got-want) > 1e-14*want {
				t.Errorf("nu=%v x=%v: expected %v, got %v", nu, x, want, got)
			}
		}
		below, above := BesselIScaled(nu, 50), BesselIScaled(nu, math.Nextafter(50, 100))
		if math.Abs(below-above) > 1e-10*below {
			t.Errorf("nu=%v: jump at 50 from %v to %v", nu, below, above)
		}
	}
	// I_{1/2}(x) = sqrt(2/(pi x)) sinh x
	x := 400.0
	want := math.Sqrt(2/(math.Pi*x)) * 0.5 * (1 - math.Exp(-2*x))
	if got := BesselIScaled(0.5, x); math.Abs(got-want) > 1e-12*want {
		t.Errorf("expected %v, got %v", want, got)
	}
}
