// Package viz renders chain models in the terminal.
//
// The package provides:
//
//   - [Explorer]: Bubble Tea application that steps a model through force
//     or extension and shows every observable at the current point
//   - [Canvas]: braille pixel canvas used for force-extension curves
//   - [PlotResult] and [PlotCompare]: asciigraph charts of sweeps
//   - Theme selection with 3 built-in color schemes
//
// # Key Bindings
//
//	h/l - step the force or extension
//	H/L - step ten times further
//	e   - switch between isotensional and isometric ensembles
//	v   - cycle the variants of the current ensemble
//	t   - cycle color themes
package viz
