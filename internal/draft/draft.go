package draft

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmcdole/troutctl/internal/domain"
)

var (
	// ErrWrongKind is returned when a channel-only operation hits a playlist draft or vice versa
	ErrWrongKind = errors.New("operation not valid for this draft kind")

	// ErrNotInteger is returned by the numeric text setters
	ErrNotInteger = errors.New("not an integer")
)

// LogoMode tracks what will happen to a channel's logo on submit
type LogoMode int

const (
	LogoNone    LogoMode = iota // no logo
	LogoURL                     // absolute URL entered by the operator
	LogoKeep                    // keep the previously uploaded asset
	LogoPending                 // upload a new asset after the channel is saved
)

func (m LogoMode) String() string {
	switch m {
	case LogoURL:
		return "url"
	case LogoKeep:
		return "keep"
	case LogoPending:
		return "pending upload"
	default:
		return "none"
	}
}

func logoModeFor(ref domain.LogoRef) LogoMode {
	switch ref.Kind() {
	case domain.LogoURL:
		return LogoURL
	case domain.LogoUploaded:
		return LogoKeep
	default:
		return LogoNone
	}
}

// Draft is the working copy of one channel or playlist.
// Exactly one of channel and playlist is set, matching kind.
type Draft struct {
	kind     domain.EntityKind
	channel  *domain.Channel
	playlist *domain.Playlist
	items    *ItemList // playlist drafts only; authoritative over playlist.Items

	baseLogo    domain.LogoRef // logo reference as persisted when the draft opened
	logoMode    LogoMode
	pendingLogo *domain.LogoAsset
}

func newChannelDraft(ch *domain.Channel) *Draft {
	return &Draft{
		kind:     domain.KindChannel,
		channel:  ch,
		baseLogo: ch.Logo,
		logoMode: logoModeFor(ch.Logo),
	}
}

func newPlaylistDraft(p *domain.Playlist) *Draft {
	d := &Draft{
		kind:     domain.KindPlaylist,
		playlist: p,
		items:    NewItemList(p.Items),
	}
	p.Items = nil
	return d
}

// Kind returns whether this is a channel or playlist draft
func (d *Draft) Kind() domain.EntityKind { return d.kind }

// Channel returns a copy of the channel being edited, nil for playlist drafts
func (d *Draft) Channel() *domain.Channel { return d.channel.Clone() }

// Playlist returns a copy of the playlist being edited with its current item
// order, nil for channel drafts
func (d *Draft) Playlist() *domain.Playlist {
	if d.playlist == nil {
		return nil
	}
	p := d.playlist.Clone()
	p.Items = d.items.Items()
	p.Tags = domain.NormalizeTags(p.Tags)
	return p
}

// Items returns the ordered item list of a playlist draft, nil for channels
func (d *Draft) Items() *ItemList { return d.items }

// LogoMode returns the current logo mode of a channel draft
func (d *Draft) LogoMode() LogoMode { return d.logoMode }

// PendingLogo returns the asset waiting for upload, if any
func (d *Draft) PendingLogo() *domain.LogoAsset { return d.pendingLogo }

// Name returns the display name of either kind
func (d *Draft) Name() string {
	if d.channel != nil {
		return d.channel.Name
	}
	return d.playlist.Name
}

func (d *Draft) clone() *Draft {
	out := &Draft{
		kind:     d.kind,
		channel:  d.channel.Clone(),
		playlist: d.playlist.Clone(),
		items:    d.items.clone(),
		baseLogo: d.baseLogo,
		logoMode: d.logoMode,
	}
	if d.pendingLogo != nil {
		asset := *d.pendingLogo
		asset.Data = append([]byte(nil), d.pendingLogo.Data...)
		out.pendingLogo = &asset
	}
	return out
}

// === Shared fields ===

// SetName sets the channel or playlist name
func (d *Draft) SetName(name string) {
	if d.channel != nil {
		d.channel.Name = name
		return
	}
	d.playlist.Name = name
}

// === Channel fields ===

func (d *Draft) ch() (*domain.Channel, error) {
	if d.channel == nil {
		return nil, ErrWrongKind
	}
	return d.channel, nil
}

func (d *Draft) SetNumber(n int) error {
	ch, err := d.ch()
	if err != nil {
		return err
	}
	ch.Number = n
	return nil
}

// SetNumberText parses and sets the channel number
func (d *Draft) SetNumberText(s string) error {
	n, err := parseInt(s)
	if err != nil {
		return err
	}
	return d.SetNumber(n)
}

func (d *Draft) SetCategory(category string) error {
	ch, err := d.ch()
	if err != nil {
		return err
	}
	ch.Category = category
	return nil
}

func (d *Draft) SetLoop(loop bool) error {
	ch, err := d.ch()
	if err != nil {
		return err
	}
	ch.Loop = loop
	return nil
}

func (d *Draft) SetEnabled(enabled bool) error {
	ch, err := d.ch()
	if err != nil {
		return err
	}
	ch.Enabled = enabled
	return nil
}

// SetPlaylistID binds the channel to a playlist; "" unbinds it
func (d *Draft) SetPlaylistID(id string) error {
	ch, err := d.ch()
	if err != nil {
		return err
	}
	ch.PlaylistID = id
	return nil
}

func (d *Draft) SetVideoBitrate(kbps int) error {
	ch, err := d.ch()
	if err != nil {
		return err
	}
	ch.Stream.VideoBitrate = kbps
	return nil
}

func (d *Draft) SetVideoBitrateText(s string) error {
	n, err := parseInt(s)
	if err != nil {
		return err
	}
	return d.SetVideoBitrate(n)
}

func (d *Draft) SetAudioBitrate(kbps int) error {
	ch, err := d.ch()
	if err != nil {
		return err
	}
	ch.Stream.AudioBitrate = kbps
	return nil
}

func (d *Draft) SetAudioBitrateText(s string) error {
	n, err := parseInt(s)
	if err != nil {
		return err
	}
	return d.SetAudioBitrate(n)
}

func (d *Draft) SetResolution(res string) error {
	ch, err := d.ch()
	if err != nil {
		return err
	}
	ch.Stream.Resolution = res
	return nil
}

// SetPreset sets the transcode preset. Unknown names are passed through for
// the server to reject.
func (d *Draft) SetPreset(preset string) error {
	ch, err := d.ch()
	if err != nil {
		return err
	}
	ch.Stream.TranscodePreset = preset
	return nil
}

// SetLogoURL sets the logo reference directly and drops any pending upload.
// An empty string clears the logo.
func (d *Draft) SetLogoURL(ref string) error {
	ch, err := d.ch()
	if err != nil {
		return err
	}
	ch.Logo = domain.LogoRef(strings.TrimSpace(ref))
	d.logoMode = logoModeFor(ch.Logo)
	d.pendingLogo = nil
	return nil
}

// ClearLogo removes the logo and any pending upload
func (d *Draft) ClearLogo() error {
	return d.SetLogoURL("")
}

// SetPendingLogo stores an asset to upload once the channel has an ID.
// The logo reference goes back to the one the channel had when the draft
// opened, discarding any unsaved URL or clear, and stays there until the
// upload succeeds.
func (d *Draft) SetPendingLogo(asset domain.LogoAsset) error {
	ch, err := d.ch()
	if err != nil {
		return err
	}
	ch.Logo = d.baseLogo
	d.pendingLogo = &asset
	d.logoMode = LogoPending
	return nil
}

// === Playlist fields ===

func (d *Draft) pl() (*domain.Playlist, error) {
	if d.playlist == nil {
		return nil, ErrWrongKind
	}
	return d.playlist, nil
}

func (d *Draft) SetDescription(desc string) error {
	p, err := d.pl()
	if err != nil {
		return err
	}
	p.Description = desc
	return nil
}

// SetTags replaces the tag set
func (d *Draft) SetTags(tags []string) error {
	p, err := d.pl()
	if err != nil {
		return err
	}
	p.Tags = domain.NormalizeTags(tags)
	return nil
}

// SetTagsText parses a comma separated tag list
func (d *Draft) SetTagsText(s string) error {
	return d.SetTags(strings.Split(s, ","))
}

func (d *Draft) AddTag(tag string) error {
	p, err := d.pl()
	if err != nil {
		return err
	}
	p.Tags = domain.NormalizeTags(append(p.Tags, tag))
	return nil
}

func (d *Draft) RemoveTag(tag string) error {
	p, err := d.pl()
	if err != nil {
		return err
	}
	out := p.Tags[:0]
	for _, t := range p.Tags {
		if t != tag {
			out = append(out, t)
		}
	}
	p.Tags = out
	return nil
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, s)
	}
	return n, nil
}
