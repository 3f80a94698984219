package draft

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/troutctl/internal/domain"
)

var (
	// ErrDraftOpen is returned when opening a draft while another is open
	ErrDraftOpen = errors.New("a draft is already open")

	// ErrNoDraft is returned when there is no open draft
	ErrNoDraft = errors.New("no draft is open")

	// ErrDraftBusy is returned for mutations while a submit is in flight
	ErrDraftBusy = errors.New("draft is being saved")

	// ErrSubmitInProgress is returned for a second submit of the same draft
	ErrSubmitInProgress = errors.New("a save is already in progress")
)

// State is the draft store's lifecycle state
type State int

const (
	StateClosed State = iota
	StateCreating
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateCreating:
		return "creating"
	case StateEditing:
		return "editing"
	default:
		return "closed"
	}
}

// Store holds at most one open draft.
//
// Every open and close bumps the epoch. A submission carries the epoch it was
// taken at, so results that arrive after the draft was closed or replaced are
// recognised as stale and dropped.
type Store struct {
	cache  domain.Store
	logger *slog.Logger

	mu         sync.Mutex
	state      State
	entityID   string
	draft      *Draft
	epoch      uint64
	submitting bool
}

// NewStore creates a draft store that resolves edit targets through cache
func NewStore(cache domain.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{cache: cache, logger: logger}
}

// OpenForCreate starts a new unsaved entity of the given kind
func (s *Store) OpenForCreate(kind domain.EntityKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateClosed {
		return ErrDraftOpen
	}

	var d *Draft
	switch kind {
	case domain.KindChannel:
		d = newChannelDraft(&domain.Channel{
			Category: domain.DefaultCategory,
			Loop:     true,
			Enabled:  true,
			Stream:   domain.DefaultStreamSettings(),
		})
	default:
		d = newPlaylistDraft(&domain.Playlist{})
	}

	s.open(StateCreating, "", d)
	s.logger.Debug("draft opened", "state", s.state, "kind", kind)
	return nil
}

// OpenForEdit copies a cached entity into a new draft. Unknown IDs return
// domain.ErrNotFound and leave the store closed.
func (s *Store) OpenForEdit(kind domain.EntityKind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateClosed {
		return ErrDraftOpen
	}

	var d *Draft
	switch kind {
	case domain.KindChannel:
		ch, ok := s.cache.FindChannel(id)
		if !ok {
			return fmt.Errorf("channel %q: %w", id, domain.ErrNotFound)
		}
		d = newChannelDraft(ch.Clone())
	default:
		p, ok := s.cache.FindPlaylist(id)
		if !ok {
			return fmt.Errorf("playlist %q: %w", id, domain.ErrNotFound)
		}
		d = newPlaylistDraft(p.Clone())
	}

	s.open(StateEditing, id, d)
	s.logger.Debug("draft opened", "state", s.state, "kind", kind, "id", id)
	return nil
}

func (s *Store) open(state State, id string, d *Draft) {
	s.state = state
	s.entityID = id
	s.draft = d
	s.submitting = false
	s.epoch++
}

// Close discards the draft unconditionally. An in-flight submit keeps running
// but its result will be stale.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Store) closeLocked() {
	if s.state == StateClosed {
		return
	}
	s.state = StateClosed
	s.entityID = ""
	s.draft = nil
	s.submitting = false
	s.epoch++
}

// State returns the current lifecycle state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// EntityID returns the ID being edited, "" when creating or closed
func (s *Store) EntityID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entityID
}

// Epoch identifies the current draft lifetime
func (s *Store) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Submitting reports whether a submit is in flight
func (s *Store) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Current returns the open draft for rendering, nil when closed.
// Callers must not mutate it; use Mutable.
func (s *Store) Current() *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Mutable returns the open draft for editing. It fails while a submit is in
// flight so the payload being saved cannot change underneath it.
func (s *Store) Mutable() (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil, ErrNoDraft
	}
	if s.submitting {
		return nil, ErrDraftBusy
	}
	return s.draft, nil
}

// Submission is a frozen copy of a draft handed to the persistence layer
type Submission struct {
	Epoch    uint64
	Kind     domain.EntityKind
	EntityID string // "" for create

	Channel     *domain.Channel
	Playlist    *domain.Playlist
	PendingLogo *domain.LogoAsset
}

// IsCreate reports whether the submission creates a new entity
func (sub *Submission) IsCreate() bool { return sub.EntityID == "" }

// BeginSubmit freezes the draft and marks a submit in flight
func (s *Store) BeginSubmit() (*Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return nil, ErrNoDraft
	}
	if s.submitting {
		return nil, ErrSubmitInProgress
	}
	s.submitting = true

	snap := s.draft.clone()
	sub := &Submission{
		Epoch:       s.epoch,
		Kind:        snap.kind,
		EntityID:    s.entityID,
		PendingLogo: snap.pendingLogo,
	}
	if snap.kind == domain.KindChannel {
		sub.Channel = snap.channel
		sub.Channel.ID = s.entityID
	} else {
		sub.Playlist = snap.Playlist()
		sub.Playlist.ID = s.entityID
	}
	return sub, nil
}

// Finish settles a submission. When closeDraft is set the draft is closed,
// otherwise it is unlocked for further edits. Returns false when the
// submission is stale and nothing was changed.
func (s *Store) Finish(sub *Submission, closeDraft bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub == nil || sub.Epoch != s.epoch || s.state == StateClosed {
		s.logger.Debug("discarding stale submit result")
		return false
	}
	if closeDraft {
		s.closeLocked()
		return true
	}
	s.submitting = false
	return true
}
