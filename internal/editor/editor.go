// Package editor runs submits and deletes for the open draft: it freezes the
// draft, performs the (possibly two-phase) save, settles the draft and
// refreshes the affected collection.
package editor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/mmcdole/troutctl/internal/draft"
	"golang.org/x/sync/errgroup"
)

// Outcome describes a finished submit
type Outcome struct {
	Kind  domain.EntityKind
	ID    string           // server ID of the saved entity, "" if nothing was saved
	Stage domain.SaveStage // last channel save stage; StageBaseSaved for playlists

	// Warning is set when a channel was saved without its new logo
	Warning error

	// Stale is set when the draft was closed or reopened while the save was
	// in flight. The server-side effect stands but the draft was left alone.
	Stale bool

	// RefreshErr is set when the post-save listing refresh failed
	RefreshErr error
}

// Editor ties the draft store to the persistence commands
type Editor struct {
	drafts    *draft.Store
	channels  domain.ChannelCommands
	playlists domain.PlaylistCommands
	logger    *slog.Logger
}

// New creates an editor
func New(drafts *draft.Store, channels domain.ChannelCommands, playlists domain.PlaylistCommands, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{drafts: drafts, channels: channels, playlists: playlists, logger: logger}
}

// Drafts returns the underlying draft store
func (e *Editor) Drafts() *draft.Store { return e.drafts }

// Submit saves the open draft. On success, and on a partial channel save, the
// draft is closed and the collection refreshed. On failure the draft stays
// open for another attempt. A second Submit while one is in flight returns
// draft.ErrSubmitInProgress.
func (e *Editor) Submit(ctx context.Context) (*Outcome, error) {
	sub, err := e.Begin()
	if err != nil {
		return nil, err
	}
	return e.Complete(ctx, sub)
}

// Begin freezes the draft for submission. Callers that run Complete on
// another goroutine must call Begin first so no edit lands between the
// keypress and the snapshot.
func (e *Editor) Begin() (*draft.Submission, error) {
	return e.drafts.BeginSubmit()
}

// Complete performs the save for a submission obtained from Begin
func (e *Editor) Complete(ctx context.Context, sub *draft.Submission) (*Outcome, error) {
	out := &Outcome{Kind: sub.Kind, Stage: domain.StageStarted}

	var saveErr error
	switch sub.Kind {
	case domain.KindChannel:
		saveErr = e.submitChannel(ctx, sub, out)
	default:
		saveErr = e.submitPlaylist(ctx, sub, out)
	}

	if saveErr != nil {
		out.Stale = !e.drafts.Finish(sub, false)
		e.logger.Error("submit failed", "kind", sub.Kind, "stage", out.Stage, "error", saveErr)
		return out, saveErr
	}

	out.Stale = !e.drafts.Finish(sub, true)
	if out.Stale {
		e.logger.Info("save finished after draft was closed", "kind", sub.Kind, "id", out.ID)
	}

	out.RefreshErr = e.refresh(ctx, sub.Kind)
	return out, nil
}

func (e *Editor) submitChannel(ctx context.Context, sub *draft.Submission, out *Outcome) error {
	res, err := e.channels.Save(ctx, sub.Channel, sub.PendingLogo)
	if res != nil {
		out.Stage = res.Stage
		if res.Channel != nil {
			out.ID = res.Channel.ID
		}
	}
	if errors.Is(err, domain.ErrPartialSave) {
		out.Warning = err
		return nil
	}
	return err
}

func (e *Editor) submitPlaylist(ctx context.Context, sub *draft.Submission, out *Outcome) error {
	var (
		saved *domain.Playlist
		err   error
	)
	if sub.IsCreate() {
		saved, err = e.playlists.Create(ctx, sub.Playlist)
	} else {
		saved, err = e.playlists.Update(ctx, sub.EntityID, sub.Playlist)
	}
	if err != nil {
		out.Stage = domain.StageFailedBase
		return err
	}
	out.Stage = domain.StageBaseSaved
	out.ID = saved.ID
	return nil
}

// Delete removes an entity and refreshes its collection. The refresh also
// runs when the delete fails so a stale listing is corrected.
func (e *Editor) Delete(ctx context.Context, kind domain.EntityKind, id string) error {
	var err error
	switch kind {
	case domain.KindChannel:
		err = e.channels.Delete(ctx, id)
	default:
		err = e.playlists.Delete(ctx, id)
	}
	if refreshErr := e.refresh(ctx, kind); refreshErr != nil {
		e.logger.Warn("refresh after delete failed", "kind", kind, "error", refreshErr)
	}
	return err
}

// Refresh reloads both collections concurrently
func (e *Editor) Refresh(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := e.channels.List(ctx)
		return err
	})
	g.Go(func() error {
		_, err := e.playlists.List(ctx)
		return err
	})
	return g.Wait()
}

func (e *Editor) refresh(ctx context.Context, kind domain.EntityKind) error {
	var err error
	switch kind {
	case domain.KindChannel:
		_, err = e.channels.List(ctx)
	default:
		_, err = e.playlists.List(ctx)
	}
	return err
}
