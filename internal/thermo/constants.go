package thermo

const (
	// Zero replaces exact zero force or extension in relations whose
	// closed forms are singular there. Reference states sit at Zero.
	Zero = 1e-6

	// Points is the default sample count for fixed-point quadrature.
	Points = 64

	// Tolerance is the residual bound used by Newton-Raphson solves.
	Tolerance = 1e-10

	// MaxIterations caps every Newton-Raphson solve.
	MaxIterations = 100

	// BoltzmannConstant in J/(mol K).
	BoltzmannConstant = 8.314462618

	// PlanckConstant is the reduced Planck constant in the matching
	// mass-length-time system (kg/mol, nm, ns).
	PlanckConstant = 0.06350780720
)
