package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")

	ErrEmptyURL        = fmt.Errorf("%w: url must not be empty", ErrValidation)
	ErrURLTooLong      = fmt.Errorf("%w: url exceeds maximum length", ErrValidation)
	ErrInvalidEncoding = fmt.Errorf("%w: url is not valid UTF-8", ErrValidation)
	ErrMissingURL      = fmt.Errorf("%w: missing 'url' field", ErrValidation)

	ErrClassification = errors.New("classification failed")
	ErrArtifact       = errors.New("artifact load failed")
)
