package tui

import (
	"github.com/mmcdole/troutctl/internal/catalog"
	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/mmcdole/troutctl/internal/editor"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	msg := domain.UserMessage(e.Err)
	if e.Context != "" {
		return e.Context + ": " + msg
	}
	return msg
}

// StatusMsg shows a transient status line
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status line
type ClearStatusMsg struct{}

// TickMsg advances the spinner
type TickMsg struct{}

// CollectionsLoadedMsg signals a refresh of one or both collections finished
type CollectionsLoadedMsg struct {
	Err error
}

// VersionMsg carries the server version, "" when unknown
type VersionMsg struct {
	Version string
}

// SubmitDoneMsg signals a draft submit finished
type SubmitDoneMsg struct {
	Outcome *editor.Outcome
	Err     error
}

// DeleteDoneMsg signals a delete finished
type DeleteDoneMsg struct {
	Kind domain.EntityKind
	Name string
	Err  error
}

// BrowseDoneMsg signals a catalog navigation finished
type BrowseDoneMsg struct {
	Path string
	Err  error

	session *catalog.Session
}

// PlaybackStartedMsg signals that the player was launched
type PlaybackStartedMsg struct {
	Channel string
}
