package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmcdole/troutctl/internal/domain"
)

// ErrNotPlayable is returned for channels that cannot be streamed yet
var ErrNotPlayable = errors.New("channel cannot be played")

// launcher abstracts media player launching (consumer-defined interface)
type launcher interface {
	Launch(url string) error
}

// PlaybackService opens channel streams in an external player
type PlaybackService struct {
	launcher launcher
	streams  domain.PlaybackClient
	logger   *slog.Logger
}

// NewPlaybackService creates a new playback service
func NewPlaybackService(launcher launcher, streams domain.PlaybackClient, logger *slog.Logger) *PlaybackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackService{
		launcher: launcher,
		streams:  streams,
		logger:   logger,
	}
}

// Play launches the channel's live stream. Unsaved and disabled channels
// have no stream.
func (s *PlaybackService) Play(ch *domain.Channel) error {
	switch {
	case ch == nil || ch.ID == "":
		return fmt.Errorf("%w: not saved yet", ErrNotPlayable)
	case !ch.Enabled:
		return fmt.Errorf("%w: %s is disabled", ErrNotPlayable, ch.Name)
	}

	url := s.streams.StreamURL(ch.ID)
	s.logger.Info("launching playback", "channelID", ch.ID, "name", ch.Name, "url", url)
	if err := s.launcher.Launch(url); err != nil {
		s.logger.Error("failed to launch player", "error", err, "channelID", ch.ID)
		return err
	}
	return nil
}
