// Package numerics provides the numerical primitives of the chain models.
//
//   - [Midpoint], [Trapezoid]: fixed-point composite quadrature
//   - [Newton]: damped Newton-Raphson root solver with a power-law step divisor
//   - [Langevin], [InverseLangevin]: single-link force-extension relation
//   - [BesselI], [BesselIRatio]: modified Bessel functions of the first kind
//
// All routines are deterministic and allocation-free on the hot path.
package numerics
