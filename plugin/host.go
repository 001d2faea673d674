package plugin

import (
	"errors"

	"github.com/cwbudde/airbloom/dsp/buffer"
	"github.com/cwbudde/airbloom/dsp/core"
)

// ErrUnsupportedLayout is returned by Prepare for channel layouts other
// than matching mono or stereo in/out.
var ErrUnsupportedLayout = errors.New("plugin: unsupported channel layout")

const maxChannels = 2

// Host is the contract a plugin wrapper drives.
type Host interface {
	Prepare(spec core.ProcessSpec) error
	Process(buf *buffer.Multi)
	GetState() ([]byte, error)
	SetState(data []byte) error
	Release()
}

var _ Host = (*Processor)(nil)

// SupportsLayout reports whether in/out channel counts can be processed.
func SupportsLayout(in, out int) bool {
	return in == out && in >= 1 && in <= maxChannels
}

// RouterState is the processing state of the last block.
type RouterState int

const (
	// Active runs the full chain.
	Active RouterState = iota
	// Bypassed passes audio through untouched.
	Bypassed
)

func (s RouterState) String() string {
	switch s {
	case Active:
		return "active"
	case Bypassed:
		return "bypassed"
	default:
		return "unknown"
	}
}
