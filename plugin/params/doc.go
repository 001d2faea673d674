// Package params holds the host-facing parameter set.
//
// A [Store] is written by host or UI goroutines and read lock-free by the
// audio thread through [Source.Load], which returns a value [Snapshot]. The
// store also encodes and decodes the versioned JSON state blob hosts
// persist with a session.
package params
