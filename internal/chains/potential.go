package chains

import (
	"math"

	"github.com/san-kum/polysim/internal/thermo"
)

// Potential is a nondimensional link potential u(s) in units of kT, with
// s the link stretch relative to its rest length.
type Potential interface {
	Name() string
	Energy(s float64) float64
	// Force is u'(s).
	Force(s float64) float64
	// Stiffness is u''(s).
	Stiffness(s float64) float64
	// Kappa is the stiffness at rest, u''(1).
	Kappa() float64
	// Inflection is the stretch of maximum force, +Inf when unbounded.
	Inflection() float64
	// MaxForce is u'(Inflection()).
	MaxForce() float64
}

// Harmonic is u = kappa (s-1)^2 / 2.
type Harmonic struct{ kappa float64 }

func NewHarmonic(kappa float64) Harmonic { return Harmonic{kappa: kappa} }

func (h Harmonic) Name() string                { return "harmonic" }
func (h Harmonic) Energy(s float64) float64    { return 0.5 * h.kappa * (s - 1) * (s - 1) }
func (h Harmonic) Force(s float64) float64     { return h.kappa * (s - 1) }
func (h Harmonic) Stiffness(s float64) float64 { return h.kappa }
func (h Harmonic) Kappa() float64              { return h.kappa }
func (h Harmonic) Inflection() float64         { return math.Inf(1) }
func (h Harmonic) MaxForce() float64           { return math.Inf(1) }

// Morse is u = epsilon (1 - exp(-alpha (s-1)))^2 with alpha fixed by the
// rest stiffness, alpha = sqrt(kappa / (2 epsilon)).
type Morse struct {
	kappa, epsilon, alpha float64
}

func NewMorse(kappa, epsilon float64) (Morse, error) {
	if err := thermo.Positive("link_stiffness", kappa); err != nil {
		return Morse{}, err
	}
	if err := thermo.Positive("link_energy", epsilon); err != nil {
		return Morse{}, err
	}
	return Morse{kappa: kappa, epsilon: epsilon, alpha: math.Sqrt(kappa / (2 * epsilon))}, nil
}

func (m Morse) Name() string { return "morse" }

func (m Morse) Energy(s float64) float64 {
	y := 1 - math.Exp(-m.alpha*(s-1))
	return m.epsilon * y * y
}

func (m Morse) Force(s float64) float64 {
	e := math.Exp(-m.alpha * (s - 1))
	return 2 * m.epsilon * m.alpha * e * (1 - e)
}

func (m Morse) Stiffness(s float64) float64 {
	e := math.Exp(-m.alpha * (s - 1))
	return 2 * m.epsilon * m.alpha * m.alpha * e * (2*e - 1)
}

func (m Morse) Kappa() float64      { return m.kappa }
func (m Morse) Inflection() float64 { return 1 + math.Ln2/m.alpha }
func (m Morse) MaxForce() float64   { return m.epsilon * m.alpha / 2 }

// LennardJones is u = epsilon (s^-12 - 2 s^-6) with epsilon = kappa/72.
type LennardJones struct {
	kappa, epsilon float64
}

func NewLennardJones(kappa float64) LennardJones {
	return LennardJones{kappa: kappa, epsilon: kappa / 72}
}

func (l LennardJones) Name() string { return "lennard-jones" }

func (l LennardJones) Energy(s float64) float64 {
	s6 := math.Pow(s, -6)
	return l.epsilon * (s6*s6 - 2*s6)
}

func (l LennardJones) Force(s float64) float64 {
	return 12 * l.epsilon * (math.Pow(s, -7) - math.Pow(s, -13))
}

func (l LennardJones) Stiffness(s float64) float64 {
	return 12 * l.epsilon * (13*math.Pow(s, -14) - 7*math.Pow(s, -8))
}

func (l LennardJones) Kappa() float64      { return l.kappa }
func (l LennardJones) Inflection() float64 { return math.Pow(13.0/7, 1.0/6) }
func (l LennardJones) MaxForce() float64   { return l.Force(l.Inflection()) }

// LogSquared is u = kappa ln(s)^2 / 2.
type LogSquared struct{ kappa float64 }

func NewLogSquared(kappa float64) LogSquared { return LogSquared{kappa: kappa} }

func (l LogSquared) Name() string { return "log-squared" }

func (l LogSquared) Energy(s float64) float64 {
	ln := math.Log(s)
	return 0.5 * l.kappa * ln * ln
}

func (l LogSquared) Force(s float64) float64     { return l.kappa * math.Log(s) / s }
func (l LogSquared) Stiffness(s float64) float64 { return l.kappa * (1 - math.Log(s)) / (s * s) }
func (l LogSquared) Kappa() float64              { return l.kappa }
func (l LogSquared) Inflection() float64         { return math.E }
func (l LogSquared) MaxForce() float64           { return l.kappa / math.E }
