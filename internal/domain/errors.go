package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrTransport indicates the server could not be reached or failed internally
	ErrTransport = errors.New("server is unreachable")

	// ErrValidation indicates the server rejected the payload
	ErrValidation = errors.New("rejected by server")

	// ErrNotFound indicates the identifier is unknown (removed by another session)
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a delete was blocked by a referencing entity
	ErrConflict = errors.New("conflict")

	// ErrBrowse indicates the catalog path is invalid or the catalog is unreachable
	ErrBrowse = errors.New("catalog browse failed")

	// ErrLoad indicates a collection listing could not be loaded
	ErrLoad = errors.New("failed to load collection")

	// ErrPartialSave indicates a channel was saved but its new logo was not attached
	ErrPartialSave = errors.New("channel saved without its new logo")
)

// APIError carries the server's verbatim message alongside the sentinel it maps to.
type APIError struct {
	Sentinel  error
	Operation string
	Status    int    // HTTP status, 0 for transport failures
	Message   string // Server-provided detail, shown to the operator as-is
	Err       error  // Lower-level cause (e.g. net.Error)
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Sentinel, e.Err}
	}
	return []error{e.Sentinel}
}

// SaveStage names a step of the two-phase channel save
type SaveStage int

const (
	StageStarted SaveStage = iota
	StageBaseSaved
	StageLogoUploaded
	StagePatched
	StageFailedBase
	StageFailedUpload
	StageFailedPatch
)

func (s SaveStage) String() string {
	switch s {
	case StageStarted:
		return "started"
	case StageBaseSaved:
		return "base saved"
	case StageLogoUploaded:
		return "logo uploaded"
	case StagePatched:
		return "patched"
	case StageFailedBase:
		return "base save failed"
	case StageFailedUpload:
		return "logo upload failed"
	case StageFailedPatch:
		return "logo patch failed"
	default:
		return "unknown"
	}
}

// PartialSaveError reports a channel that exists server-side but lacks the logo it
// was submitted with. It is a warning: the draft is closed and nothing is rolled back.
type PartialSaveError struct {
	Stage     SaveStage
	ChannelID string
	Err       error
}

func (e *PartialSaveError) Error() string {
	return fmt.Sprintf("channel %s saved, %s: %v", e.ChannelID, e.Stage, e.Err)
}

func (e *PartialSaveError) Unwrap() []error {
	return []error{ErrPartialSave, e.Err}
}

// UserMessage extracts the operator-facing message from an error chain,
// preferring the server's verbatim detail when there is one.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
