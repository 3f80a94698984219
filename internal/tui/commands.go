package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/troutctl/internal/catalog"
	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/mmcdole/troutctl/internal/draft"
	"github.com/mmcdole/troutctl/internal/editor"
	"github.com/mmcdole/troutctl/internal/service"
)

// Command factories for async operations

const requestTimeout = 60 * time.Second

// RefreshAllCmd reloads both collections in parallel
func RefreshAllCmd(ed *editor.Editor) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return CollectionsLoadedMsg{Err: ed.Refresh(ctx)}
	}
}

// VersionCmd looks up the server version for the header
func VersionCmd(svc *service.SessionService) tea.Cmd {
	return func() tea.Msg {
		return VersionMsg{Version: svc.ServerVersion(context.Background())}
	}
}

// SubmitCmd completes a submission frozen by editor.Begin. The save is not
// cancelled if the draft is closed meanwhile; its result is then stale.
func SubmitCmd(ed *editor.Editor, sub *draft.Submission) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		out, err := ed.Complete(ctx, sub)
		return SubmitDoneMsg{Outcome: out, Err: err}
	}
}

// DeleteCmd deletes a channel or playlist and refreshes its collection
func DeleteCmd(ed *editor.Editor, kind domain.EntityKind, id, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return DeleteDoneMsg{Kind: kind, Name: name, Err: ed.Delete(ctx, kind, id)}
	}
}

// BrowseCmd lists a catalog directory
func BrowseCmd(s *catalog.Session, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return BrowseDoneMsg{Path: path, Err: s.Navigate(ctx, path), session: s}
	}
}

// PlayCmd launches a channel's stream in the external player
func PlayCmd(svc *service.PlaybackService, ch *domain.Channel) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Play(ch); err != nil {
			return ErrMsg{Err: err, Context: "play"}
		}
		return PlaybackStartedMsg{Channel: ch.Name}
	}
}

// TickCmd drives the spinner
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd clears the status line after d
func ClearStatusCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
