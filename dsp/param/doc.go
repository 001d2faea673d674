// Package param provides per-sample parameter smoothing for the realtime
// processing path.
package param
