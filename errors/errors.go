package errors

// Error is a constant error. Sentinels are declared as const ErrX = errors.Error("...").
type Error string

func (e Error) Error() string { return string(e) }
