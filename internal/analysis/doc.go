// Package analysis provides the closed-form diffusion and transport time
// curves and the MSD fit used to check a run against its input D.
//
//   - [DiffusionTime]: x²/(6D), characteristic 3D diffusion time
//   - [TransportTime]: x/v, constant-velocity (action potential) travel time
//   - [DiffusionCurve], [ComparisonCurve]: chart series over the standard ranges
//   - [FitDiffusion]: least-squares slope of MSD(t), D = slope/6
//
// # Preconditions
//
// The time formulas do not validate D. D <= 0 yields +Inf or NaN; callers
// must reject it first:
//
//	if d > 0 {
//	    t := analysis.DiffusionTime(x, d)
//	}
package analysis
