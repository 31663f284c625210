package contract

import "errors"

var (
	ErrModelInvoke            = errors.New("model invoke failed")
	ErrSchemaViolation        = errors.New("model response violates schema")
	ErrPromptMissing          = errors.New("required prompt is missing")
	ErrValidation             = errors.New("validation failed")
	ErrToolNotFound           = errors.New("tool not found")
	ErrPresetMissing          = errors.New("format preset is missing")
	ErrTranslationUnavailable = errors.New("translation unavailable")
	ErrInvalidMessage         = errors.New("message is empty")
)
