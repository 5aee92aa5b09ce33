package dedupe

import "golang.org/x/sync/singleflight"

// SingleflightGroup shares one execution between concurrent callers of the
// same key inside this process.
type SingleflightGroup struct {
	group singleflight.Group
}

var _ Group = (*SingleflightGroup)(nil)

func NewSingleflightGroup() *SingleflightGroup {
	return &SingleflightGroup{}
}

func (s *SingleflightGroup) Do(key string, fn func() (interface{}, error)) (v interface{}, err error, shared bool) {
	return s.group.Do(key, fn)
}
