// Package design provides RBJ biquad coefficient designers.
//
// The functions in this package produce coefficients consumable by
// dsp/filter/biquad. Invalid sample rates or frequencies yield zero
// coefficients; corners above [MaxCornerRatio] of the sample rate are pulled
// down so a 10 kHz shelf still designs cleanly at 22.05 kHz.
package design
