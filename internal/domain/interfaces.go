package domain

// ListItem is the polymorphic interface for rows shown in the collection lists.
// Channel and Playlist implement it directly so the list views and the fuzzy
// filters can treat both kinds the same way.
type ListItem interface {
	// GetID returns the server identifier
	GetID() string

	// GetTitle returns the display name
	GetTitle() string

	// GetDescription returns secondary info for display (e.g., "#4 · News · enabled")
	GetDescription() string

	// GetItemType returns the type identifier: "channel" or "playlist"
	GetItemType() string
}

// EntityKind selects which collection an operation targets
type EntityKind int

const (
	KindChannel EntityKind = iota
	KindPlaylist
)

func (k EntityKind) String() string {
	if k == KindPlaylist {
		return "playlist"
	}
	return "channel"
}
