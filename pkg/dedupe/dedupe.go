package dedupe

import (
	"fmt"
	"time"
)

// Group makes sure only one execution of fn is in flight for a given key.
// shared reports whether v was handed to more than one caller.
type Group interface {
	Do(key string, fn func() (interface{}, error)) (v interface{}, err error, shared bool)
}

const (
	ModeSingleflight = "singleflight"
	ModeFlock        = "flock"
	ModeNone         = "none"
)

// New returns the Group for mode. lockDir and lockTimeout are used by the
// flock mode only.
func New(mode, lockDir string, lockTimeout time.Duration) (Group, error) {
	switch mode {
	case ModeSingleflight, "":
		return NewSingleflightGroup(), nil
	case ModeFlock:
		return NewFlockGroup(lockDir, lockTimeout)
	case ModeNone:
		return NewNoOpGroup(), nil
	default:
		return nil, fmt.Errorf("unknown dedupe mode %q", mode)
	}
}
