// Package analysis provides post-hoc trajectory diagnostics.
//
//   - [PowerSpectrum]: frequency content of a sampled component
//   - [DominantFrequency]: strongest non-constant frequency
//   - [MaxLyapunov]: largest Lyapunov exponent via trajectory separation
//
// A positive largest Lyapunov exponent indicates chaotic dynamics.
package analysis
