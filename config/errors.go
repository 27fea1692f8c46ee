package config

// Error reports an unusable configuration: an unreadable or malformed file,
// an invalid value, or settings that cannot be resolved.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return e.Reason + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
