package trout

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mmcdole/troutctl/internal/domain"
)

// The server emits naive ISO timestamps (no zone) as well as RFC 3339
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func parseTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// mapChannel converts a channel DTO to a domain channel
func mapChannel(dto channelDTO) *domain.Channel {
	return &domain.Channel{
		ID:         dto.ID,
		Name:       dto.Name,
		Number:     dto.Number,
		Category:   dto.Category,
		Logo:       domain.LogoRef(optString(dto.LogoURL)),
		PlaylistID: optString(dto.PlaylistID),
		Loop:       dto.Loop,
		Enabled:    dto.Enabled,
		StartTime:  parseTime(dto.StartTime),
		Stream: domain.StreamSettings{
			VideoBitrate:    dto.StreamSettings.VideoBitrate,
			AudioBitrate:    dto.StreamSettings.AudioBitrate,
			SegmentDuration: dto.StreamSettings.SegmentDuration,
			PlaylistSize:    dto.StreamSettings.PlaylistSize,
			TranscodePreset: dto.StreamSettings.TranscodePreset,
			Resolution:      dto.StreamSettings.Resolution,
		},
	}
}

// mapChannels converts a channel listing
func mapChannels(dtos []channelDTO) []*domain.Channel {
	out := make([]*domain.Channel, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, mapChannel(dto))
	}
	return out
}

func toChannelDTO(ch *domain.Channel) channelDTO {
	return channelDTO{
		ID:         ch.ID,
		Name:       ch.Name,
		Number:     ch.Number,
		Category:   ch.Category,
		LogoURL:    nullable(strings.TrimSpace(string(ch.Logo))),
		PlaylistID: nullable(ch.PlaylistID),
		Loop:       ch.Loop,
		Enabled:    ch.Enabled,
		StartTime:  formatTime(ch.StartTime),
		StreamSettings: streamSettingsDTO{
			VideoBitrate:    ch.Stream.VideoBitrate,
			AudioBitrate:    ch.Stream.AudioBitrate,
			SegmentDuration: ch.Stream.SegmentDuration,
			PlaylistSize:    ch.Stream.PlaylistSize,
			TranscodePreset: ch.Stream.TranscodePreset,
			Resolution:      ch.Stream.Resolution,
		},
	}
}

// mapPlaylist converts a playlist DTO to a domain playlist
func mapPlaylist(dto playlistDTO) *domain.Playlist {
	items := make([]domain.PlaylistItem, 0, len(dto.Items))
	for _, it := range dto.Items {
		items = append(items, domain.PlaylistItem{
			FilePath:    it.FilePath,
			Duration:    it.Duration,
			Title:       it.Title,
			Description: optString(it.Description),
		})
	}
	return &domain.Playlist{
		ID:          dto.ID,
		Name:        dto.Name,
		Description: optString(dto.Description),
		Items:       items,
		Tags:        append([]string(nil), dto.Tags...),
		CreatedAt:   parseTime(dto.CreatedAt),
		UpdatedAt:   parseTime(dto.UpdatedAt),
	}
}

// mapPlaylists converts a playlist listing
func mapPlaylists(dtos []playlistDTO) []*domain.Playlist {
	out := make([]*domain.Playlist, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, mapPlaylist(dto))
	}
	return out
}

func toPlaylistDTO(p *domain.Playlist) playlistDTO {
	items := make([]playlistItemDTO, 0, len(p.Items))
	for _, it := range p.Items {
		desc := it.Description
		items = append(items, playlistItemDTO{
			FilePath:    it.FilePath,
			Duration:    it.Duration,
			Title:       it.Title,
			Description: &desc,
		})
	}
	desc := p.Description
	tags := domain.NormalizeTags(p.Tags)
	return playlistDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: &desc,
		Items:       items,
		Tags:        tags,
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

// mapListing converts a browse response to a domain listing
func mapListing(dto browseDTO) domain.Listing {
	listing := domain.Listing{
		CurrentPath: dto.CurrentPath,
		ParentPath:  optString(dto.ParentPath),
		HasParent:   dto.ParentPath != nil,
		Entries:     make([]domain.CatalogEntry, 0, len(dto.Items)),
	}
	for _, it := range dto.Items {
		entry := domain.CatalogEntry{
			Name: it.Name,
			Path: it.Path,
			Kind: domain.EntryFile,
		}
		if it.Type == "directory" {
			entry.Kind = domain.EntryDirectory
		} else {
			entry.Size = it.Size
			if it.Duration != nil {
				entry.Duration = int(math.Round(*it.Duration))
			}
		}
		listing.Entries = append(listing.Entries, entry)
	}
	return listing
}

// errorMessage extracts a readable message from an error body. Validation
// errors are flattened to "field: msg" pairs.
func errorMessage(body []byte) string {
	var e errorDTO
	if err := json.Unmarshal(body, &e); err != nil || len(e.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}

	var fields []fieldErrorDTO
	if err := json.Unmarshal(e.Detail, &fields); err == nil {
		msgs := make([]string, 0, len(fields))
		for _, f := range fields {
			msgs = append(msgs, fieldPath(f.Loc)+f.Msg)
		}
		return strings.Join(msgs, "; ")
	}

	return string(e.Detail)
}

// fieldPath renders a validation location, skipping the leading "body" segment
func fieldPath(loc []any) string {
	var parts []string
	for i, p := range loc {
		if i == 0 && p == "body" {
			continue
		}
		parts = append(parts, fmt.Sprint(p))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ".") + ": "
}
