// Package bloom implements the tone-shaping saturation stage: a high shelf
// followed by drive gain and a tanh soft clipper, all scaled by a single
// bloom amount in [0, 1].
//
// Build with -tags fastmath to replace the tanh and dB conversions with the
// algo-approx exponential.
package bloom
