// Package buffer provides the multichannel audio buffer the processor
// mutates in place. A Multi has a fixed channel count and a variable block
// length; resizing reuses the reserved capacity so a prepared buffer can
// follow host block-size changes without allocating.
package buffer
