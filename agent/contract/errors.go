package contract

import "errors"

var (
	ErrModelInvoke         = errors.New("model invoke failed")
	ErrSchemaViolation     = errors.New("model response violates schema")
	ErrValidation          = errors.New("validation failed")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrUnknownTool         = errors.New("unknown tool")
	ErrBadToolArgs         = errors.New("bad tool arguments")
	ErrStorage             = errors.New("contact store failure")
)
