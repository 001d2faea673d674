// Package oversample implements 2x and 4x polyphase IIR oversampling.
//
// Each 2x stage is a half-band filter built from two parallel chains of
// first-order allpass sections running at the lower rate. The coefficients
// come from an elliptic half-band design parameterized by coefficient count
// and normalized transition bandwidth. 4x cascades two 2x stages.
//
// The IIR structure is minimum phase and reports no latency. Processing
// never allocates once an [Oversampler] has been sized for the host block.
package oversample
