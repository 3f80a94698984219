package trout

import "encoding/json"

// API response structures for the channel server.
// Optional fields are pointers so a JSON null survives the round trip.

type streamSettingsDTO struct {
	VideoBitrate    int    `json:"video_bitrate"`
	AudioBitrate    int    `json:"audio_bitrate"`
	SegmentDuration int    `json:"segment_duration"`
	PlaylistSize    int    `json:"playlist_size"`
	TranscodePreset string `json:"transcode_preset"`
	Resolution      string `json:"resolution"`
}

type channelDTO struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Number         int               `json:"number"`
	Category       string            `json:"category"`
	LogoURL        *string           `json:"logo_url"`
	PlaylistID     *string           `json:"playlist_id"`
	Loop           bool              `json:"loop"`
	StartTime      *string           `json:"start_time"`
	StreamSettings streamSettingsDTO `json:"stream_settings"`
	Enabled        bool              `json:"enabled"`
}

type playlistItemDTO struct {
	FilePath    string  `json:"file_path"`
	Duration    int     `json:"duration"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type playlistDTO struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Items       []playlistItemDTO `json:"items"`
	Tags        []string          `json:"tags"`
	CreatedAt   *string           `json:"created_at,omitempty"`
	UpdatedAt   *string           `json:"updated_at,omitempty"`
}

type browseItemDTO struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"` // "file" or "directory"
	Path     string   `json:"path"`
	Size     int64    `json:"size"`
	Duration *float64 `json:"duration"`
	Modified string   `json:"modified"`
}

type browseDTO struct {
	CurrentPath string          `json:"current_path"`
	ParentPath  *string         `json:"parent_path"`
	Items       []browseItemDTO `json:"items"`
}

type logoUploadDTO struct {
	LogoURL  string `json:"logo_url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type versionDTO struct {
	Version string `json:"version"`
}

// errorDTO is the server's error body. Detail is a string for most errors
// and a list of field errors for request validation failures.
type errorDTO struct {
	Detail json.RawMessage `json:"detail"`
}

type fieldErrorDTO struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}
