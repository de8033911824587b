package receiver

import (
	"errors"
	"fmt"
)

var (
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrMissingSignature = errors.New("missing signature header")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrMissingResult    = errors.New("result is missing or not an array")
)

// Stage is the verification step a delivery failed at.
type Stage string

const (
	StageMethod    Stage = "method"
	StageRead      Stage = "read"
	StageSignature Stage = "signature"
	StageParse     Stage = "parse"
	StageShape     Stage = "shape"
	StageHandler   Stage = "handler"
)

// RejectError tags a rejection with its stage for logging. Callers of the
// middleware never see it; every rejection produces the same response.
type RejectError struct {
	Stage Stage
	Cause error
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("webhook rejected at %s: %v", e.Stage, e.Cause)
}

func (e *RejectError) Unwrap() error { return e.Cause }

func reject(stage Stage, cause error) error {
	return &RejectError{Stage: stage, Cause: cause}
}

func AsRejectError(err error) *RejectError {
	var e *RejectError
	if errors.As(err, &e) {
		return e
	}
	return nil
}
