package domain

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
)

// Stream defaults applied to every new channel
const (
	DefaultVideoBitrate    = 3000 // kbps
	DefaultAudioBitrate    = 128  // kbps
	DefaultSegmentDuration = 6    // seconds
	DefaultPlaylistSize    = 10   // segments kept in the live window
	DefaultResolution      = "1280x720"
	DefaultPreset          = PresetSoftwareFast
	DefaultCategory        = "General"
)

// Transcode presets understood by the stream backend
const (
	PresetSoftwareFast   = "software_fast"
	PresetSoftwareMedium = "software_medium"
	PresetQSV            = "qsv"
	PresetNVENC          = "nvenc"
)

// Presets lists the transcode presets in display order
var Presets = []string{PresetSoftwareFast, PresetSoftwareMedium, PresetQSV, PresetNVENC}

// LogoKind classifies a logo reference
type LogoKind int

const (
	LogoAbsent   LogoKind = iota
	LogoURL               // absolute http(s) URL
	LogoUploaded          // server-relative uploaded asset path
)

func (k LogoKind) String() string {
	switch k {
	case LogoURL:
		return "url"
	case LogoUploaded:
		return "uploaded"
	default:
		return "none"
	}
}

// LogoRef is a channel logo reference. Its shape decides its kind, so a
// reference is always exactly one of absent, URL or uploaded asset.
type LogoRef string

// Kind returns which of the three logo shapes the reference has
func (l LogoRef) Kind() LogoKind {
	s := strings.TrimSpace(string(l))
	if s == "" {
		return LogoAbsent
	}
	if u, err := url.Parse(s); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return LogoURL
	}
	return LogoUploaded
}

// IsZero reports whether no logo is set
func (l LogoRef) IsZero() bool { return l.Kind() == LogoAbsent }

// StreamSettings holds the per-channel encode settings
type StreamSettings struct {
	VideoBitrate    int    // kbps
	AudioBitrate    int    // kbps
	SegmentDuration int    // seconds
	PlaylistSize    int    // segments
	TranscodePreset string // one of Presets
	Resolution      string // "WxH"
}

// DefaultStreamSettings returns the settings a new channel starts with
func DefaultStreamSettings() StreamSettings {
	return StreamSettings{
		VideoBitrate:    DefaultVideoBitrate,
		AudioBitrate:    DefaultAudioBitrate,
		SegmentDuration: DefaultSegmentDuration,
		PlaylistSize:    DefaultPlaylistSize,
		TranscodePreset: DefaultPreset,
		Resolution:      DefaultResolution,
	}
}

// Channel is a named, numbered stream configuration bound to at most one playlist
type Channel struct {
	ID         string  // Server-assigned; empty until first create
	Name       string  // Display name
	Number     int     // Operator-assigned, uniqueness is the server's concern
	Category   string  // Free-text category label
	Logo       LogoRef // Absent, URL or uploaded asset path
	PlaylistID string  // Bound playlist, empty when unbound
	Loop       bool
	Enabled    bool

	// StartTime anchors the schedule; nil means continuous from epoch.
	// Not editable here but carried through saves.
	StartTime *time.Time

	Stream StreamSettings
}

// Clone returns a deep copy
func (c *Channel) Clone() *Channel {
	if c == nil {
		return nil
	}
	out := *c
	if c.StartTime != nil {
		t := *c.StartTime
		out.StartTime = &t
	}
	return &out
}

// StreamPath returns the server-relative master playlist path for the channel
func (c *Channel) StreamPath() string {
	return fmt.Sprintf("/stream/%s/master.m3u8", url.PathEscape(c.ID))
}

// ListItem interface implementation for Channel

func (c *Channel) GetID() string       { return c.ID }
func (c *Channel) GetTitle() string    { return c.Name }
func (c *Channel) GetItemType() string { return "channel" }

func (c *Channel) GetDescription() string {
	state := "disabled"
	if c.Enabled {
		state = "enabled"
	}
	return fmt.Sprintf("#%d · %s · %s", c.Number, c.Category, state)
}

// PlaylistItem is one media reference inside a playlist
type PlaylistItem struct {
	FilePath    string // Catalog path of the media file
	Duration    int    // Whole seconds
	Title       string
	Description string
}

// Playlist is a named, ordered, reusable sequence of media references
type Playlist struct {
	ID          string
	Name        string
	Description string
	Items       []PlaylistItem // Order is significant
	Tags        []string       // Set semantics, first-seen order

	// Server-owned timestamps, carried through saves
	CreatedAt *time.Time
	UpdatedAt *time.Time
}

// Clone returns a deep copy
func (p *Playlist) Clone() *Playlist {
	if p == nil {
		return nil
	}
	out := *p
	out.Items = append([]PlaylistItem(nil), p.Items...)
	out.Tags = append([]string(nil), p.Tags...)
	if p.CreatedAt != nil {
		t := *p.CreatedAt
		out.CreatedAt = &t
	}
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		out.UpdatedAt = &t
	}
	return &out
}

// TotalDuration returns the summed duration of all items
func (p *Playlist) TotalDuration() time.Duration {
	var total int
	for _, item := range p.Items {
		total += item.Duration
	}
	return time.Duration(total) * time.Second
}

// ListItem interface implementation for Playlist

func (p *Playlist) GetID() string       { return p.ID }
func (p *Playlist) GetTitle() string    { return p.Name }
func (p *Playlist) GetItemType() string { return "playlist" }

func (p *Playlist) GetDescription() string {
	if len(p.Items) == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", len(p.Items))
}

// NormalizeTags trims, drops empties and removes duplicates keeping first-seen order
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// EntryKind distinguishes catalog entries
type EntryKind int

const (
	EntryFile EntryKind = iota
	EntryDirectory
)

// CatalogEntry is one row of a media catalog directory listing
type CatalogEntry struct {
	Kind     EntryKind
	Name     string
	Path     string // Catalog-relative path
	Size     int64  // Bytes, files only
	Duration int    // Seconds, 0 when the catalog could not probe it
}

// IsDir reports whether the entry is a directory
func (e CatalogEntry) IsDir() bool { return e.Kind == EntryDirectory }

// Title derives a display title from the file name without its extension
func (e CatalogEntry) Title() string {
	base := path.Base(strings.ReplaceAll(e.Path, "\\", "/"))
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// FormattedSize returns the size in a human-readable format
func (e CatalogEntry) FormattedSize() string {
	if e.Size <= 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(e.Size)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", e.Size)
	}
	return fmt.Sprintf("%.2f %s", size, units[i])
}

// FormattedDuration returns h:mm:ss or m:ss, empty when unknown
func (e CatalogEntry) FormattedDuration() string {
	return FormatSeconds(e.Duration)
}

// FormatSeconds renders whole seconds as h:mm:ss or m:ss, empty for zero
func FormatSeconds(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Listing is one directory page returned by the catalog
type Listing struct {
	CurrentPath string // "" is the catalog root
	ParentPath  string
	HasParent   bool
	Entries     []CatalogEntry
}

// Files returns only the file entries, in listing order
func (l Listing) Files() []CatalogEntry {
	var files []CatalogEntry
	for _, e := range l.Entries {
		if !e.IsDir() {
			files = append(files, e)
		}
	}
	return files
}

// LogoAsset is a not-yet-uploaded logo image
type LogoAsset struct {
	Filename    string
	ContentType string
	Data        []byte
}
