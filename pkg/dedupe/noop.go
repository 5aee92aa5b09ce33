package dedupe

// NoOpGroup runs every call immediately.
type NoOpGroup struct{}

var _ Group = (*NoOpGroup)(nil)

func NewNoOpGroup() *NoOpGroup {
	return &NoOpGroup{}
}

func (n *NoOpGroup) Do(key string, fn func() (interface{}, error)) (v interface{}, err error, shared bool) {
	v, err = fn()
	return v, err, false
}
