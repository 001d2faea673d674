// Package reverb provides the stereo room reverb used by the send path.
//
// [Freeverb] is a Schroeder/Moorer network of eight damped feedback combs
// and four allpasses per side with Jezar's tunings, scaled from 44.1 kHz to
// the processing rate. [Send] puts an 800 Hz high-pass in front of a fully
// wet Freeverb and is what the processor mixes back in.
package reverb
