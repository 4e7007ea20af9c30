// Package analysis checks and compares chain models.
//
// The package includes tools for validating approximations:
//
//   - [ConvergenceOrder]: power-law fit of an approximation error against a parameter
//   - [CheckIsotensional] and [CheckIsometric]: derivative consistency of one ensemble
//   - [CheckDuality]: agreement between the two ensembles of a model
//   - [ParameterScan]: sweep a potential parameter and measure each model
//
// # Asymptotic Accuracy
//
// The error of a reduced extensible model falls off like 1/kappa:
//
//	c, _ := analysis.ConvergenceOrder(kappas, errorAt)
//	if math.Abs(c.Order+1) < 0.1 {
//	    // first order in 1/kappa
//	}
package analysis
