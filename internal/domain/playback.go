package domain

// PlaybackClient resolves playable stream URLs.
type PlaybackClient interface {
	StreamURL(channelID string) string
}
