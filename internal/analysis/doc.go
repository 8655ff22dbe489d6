// Package analysis extracts oscillation features from recorded series.
//
//   - [PowerSpectrum]: FFT magnitude of a mean-removed series
//   - [DominantPeriod]: period of the strongest spectral peak
//   - [CrossingPeriod]: period from mean crossings, a cross-check for short runs
//   - [PhasePortrait]: theta/omega trajectory rendered as text
//
// The continuous arm settles into a damped swing about -90 degrees, so its
// dominant period approaches the small-angle period as friction bleeds
// energy out:
//
//	res, _ := continuous.Solve(ctx, tr)
//	period, err := analysis.DominantPeriod(res.Thetas(), dt)
package analysis
