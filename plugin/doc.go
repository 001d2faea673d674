// Package plugin wires the bloom color stage, the reverb send and the gain
// stages into a block processor with the host-facing lifecycle
// (Prepare, Process, GetState/SetState, Release).
//
// Per block the processor reads one parameter snapshot, applies the input
// gain ramp and the optional low cut, blends the colored signal into the
// dry path by the smoothed bloom amount, blends the reverb return by the
// smoothed wet amount and finishes with the trimmed output gain ramp.
// Engaging bypass leaves the buffer untouched.
package plugin
