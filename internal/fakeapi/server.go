// Package fakeapi is an in-memory channel server used by tests. It speaks the
// same JSON API as the real server, including its status codes and error
// bodies, and can be told to fail or stall individual routes.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Route keys used with Fail, Hold and Calls
const (
	RouteListChannels   = "GET /api/channels"
	RouteCreateChannel  = "POST /api/channels"
	RouteUpdateChannel  = "PUT /api/channels/{id}"
	RouteDeleteChannel  = "DELETE /api/channels/{id}"
	RouteListPlaylists  = "GET /api/playlists"
	RouteCreatePlaylist = "POST /api/playlists"
	RouteUpdatePlaylist = "PUT /api/playlists/{id}"
	RouteDeletePlaylist = "DELETE /api/playlists/{id}"
	RouteBrowse         = "GET /api/media/browse"
	RouteUploadLogo     = "POST /api/uploads/logo/{id}"
	RouteDeleteLogo     = "DELETE /api/uploads/logo/{id}"
	RouteVersion        = "GET /version"
)

const maxLogoBytes = 5 << 20

var logoExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp"}

// Wire shapes. Kept separate from the client's DTOs so the fake checks the
// JSON contract rather than sharing Go types with the code under test.

type StreamSettings struct {
	VideoBitrate    int    `json:"video_bitrate"`
	AudioBitrate    int    `json:"audio_bitrate"`
	SegmentDuration int    `json:"segment_duration"`
	PlaylistSize    int    `json:"playlist_size"`
	TranscodePreset string `json:"transcode_preset"`
	Resolution      string `json:"resolution"`
}

type Channel struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Number         int            `json:"number"`
	Category       string         `json:"category"`
	LogoURL        *string        `json:"logo_url"`
	PlaylistID     *string        `json:"playlist_id"`
	Loop           bool           `json:"loop"`
	StartTime      *string        `json:"start_time"`
	StreamSettings StreamSettings `json:"stream_settings"`
	Enabled        bool           `json:"enabled"`
}

type PlaylistItem struct {
	FilePath    string `json:"file_path"`
	Duration    int    `json:"duration"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Playlist struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Items       []PlaylistItem `json:"items"`
	Tags        []string       `json:"tags"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

type BrowseItem struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Path     string   `json:"path"`
	Size     int64    `json:"size,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
	Modified string   `json:"modified"`
}

type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type failure struct {
	status int
	detail string
}

// Server is the in-memory channel server
type Server struct {
	mu sync.Mutex

	version   string
	channels  []*Channel
	playlists []*Playlist
	logos     map[string]string       // channel id -> logo url
	tree      map[string][]BrowseItem // directory path -> entries
	failures  map[string]failure
	holds     map[string]chan struct{}
	calls     map[string]int
}

// New returns an empty server with a catalog root
func New() *Server {
	return &Server{
		version:  "1.0.0",
		logos:    make(map[string]string),
		tree:     map[string][]BrowseItem{"": {}},
		failures: make(map[string]failure),
		holds:    make(map[string]chan struct{}),
		calls:    make(map[string]int),
	}
}

// Router returns the HTTP handler
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/version", s.wrap(RouteVersion, s.handleVersion))

	r.Route("/api/channels", func(r chi.Router) {
		r.Get("/", s.wrap(RouteListChannels, s.handleListChannels))
		r.Post("/", s.wrap(RouteCreateChannel, s.handleCreateChannel))
		r.Put("/{id}", s.wrap(RouteUpdateChannel, s.handleUpdateChannel))
		r.Delete("/{id}", s.wrap(RouteDeleteChannel, s.handleDeleteChannel))
	})

	r.Route("/api/playlists", func(r chi.Router) {
		r.Get("/", s.wrap(RouteListPlaylists, s.handleListPlaylists))
		r.Post("/", s.wrap(RouteCreatePlaylist, s.handleCreatePlaylist))
		r.Put("/{id}", s.wrap(RouteUpdatePlaylist, s.handleUpdatePlaylist))
		r.Delete("/{id}", s.wrap(RouteDeletePlaylist, s.handleDeletePlaylist))
	})

	r.Get("/api/media/browse", s.wrap(RouteBrowse, s.handleBrowse))
	r.Post("/api/uploads/logo/{id}", s.wrap(RouteUploadLogo, s.handleUploadLogo))
	r.Delete("/api/uploads/logo/{id}", s.wrap(RouteDeleteLogo, s.handleDeleteLogo))

	return r
}

// wrap counts calls and applies injected holds and failures
func (s *Server) wrap(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		hold := s.holds[route]
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		s.mu.Lock()
		f, failing := s.failures[route]
		s.mu.Unlock()
		if failing {
			writeError(w, f.status, f.detail)
			return
		}
		h(w, r)
	}
}

// === Test controls ===

// Fail makes every request to route answer with status and detail until Recover
func (s *Server) Fail(route string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, detail: detail}
}

// Recover removes an injected failure
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Hold stalls requests to route until the returned release func is called
func (s *Server) Hold(route string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[route] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.holds, route)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns how many requests route has received
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// SeedChannel stores a channel as-is; an empty ID is assigned
func (s *Server) SeedChannel(ch Channel) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	s.channels = append(s.channels, &ch)
	return ch.ID
}

// SeedPlaylist stores a playlist as-is; an empty ID is assigned
func (s *Server) SeedPlaylist(p Playlist) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.playlists = append(s.playlists, &p)
	return p.ID
}

// AddDir registers a catalog directory and links it from its parent
func (s *Server) AddDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addDirLocked(dir)
}

func (s *Server) addDirLocked(dir string) {
	if _, ok := s.tree[dir]; ok {
		return
	}
	s.tree[dir] = []BrowseItem{}
	parent := parentOf(dir)
	s.addDirLocked(parent)
	s.tree[parent] = append(s.tree[parent], BrowseItem{
		Name: path.Base(dir), Type: "directory", Path: dir,
		Modified: time.Now().UTC().Format("2006-01-02T15:04:05"),
	})
}

// AddFile registers a media file. A duration <= 0 is reported as unknown.
func (s *Server) AddFile(filePath string, size int64, duration float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dir := parentOf(filePath)
	s.addDirLocked(dir)
	item := BrowseItem{
		Name: path.Base(filePath), Type: "file", Path: filePath, Size: size,
		Modified: time.Now().UTC().Format("2006-01-02T15:04:05"),
	}
	if duration > 0 {
		item.Duration = &duration
	}
	s.tree[dir] = append(s.tree[dir], item)
}

// Channel returns a copy of a stored channel
func (s *Server) Channel(id string) (Channel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.channelIndex(id); i >= 0 {
		return *s.channels[i], true
	}
	return Channel{}, false
}

// Playlist returns a copy of a stored playlist
func (s *Server) Playlist(id string) (Playlist, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.playlistIndex(id); i >= 0 {
		p := *s.playlists[i]
		p.Items = slices.Clone(p.Items)
		return p, true
	}
	return Playlist{}, false
}

// Logo returns the uploaded logo URL recorded for a channel
func (s *Server) Logo(channelID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.logos[channelID]
	return u, ok
}

// === Handlers ===

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	v := s.version
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"version": v})
}

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		out = append(out, *ch)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateChannel(w http.ResponseWriter, r *http.Request) {
	var ch Channel
	if !decodeBody(w, r, &ch) {
		return
	}
	if errs := validateChannel(ch); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": errs})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	// The server moves a taken number to the next free one
	for s.numberTaken(ch.Number, "") {
		ch.Number++
	}
	s.channels = append(s.channels, &ch)
	writeJSON(w, http.StatusCreated, ch)
}

func (s *Server) handleUpdateChannel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var ch Channel
	if !decodeBody(w, r, &ch) {
		return
	}
	if errs := validateChannel(ch); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": errs})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.channelIndex(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Channel %s not found", id))
		return
	}
	ch.ID = id
	s.channels[i] = &ch
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) handleDeleteChannel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.channelIndex(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Channel %s not found", id))
		return
	}
	s.channels = slices.Delete(s.channels, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Playlist, 0, len(s.playlists))
	for _, p := range s.playlists {
		out = append(out, *p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var p Playlist
	if !decodeBody(w, r, &p) {
		return
	}
	if errs := validatePlaylist(p); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": errs})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format("2006-01-02T15:04:05.000000")
	p.CreatedAt, p.UpdatedAt = now, now
	if p.Items == nil {
		p.Items = []PlaylistItem{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	s.playlists = append(s.playlists, &p)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var p Playlist
	if !decodeBody(w, r, &p) {
		return
	}
	if errs := validatePlaylist(p); len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": errs})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.playlistIndex(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Playlist %s not found", id))
		return
	}
	p.ID = id
	p.CreatedAt = s.playlists[i].CreatedAt
	p.UpdatedAt = time.Now().UTC().Format("2006-01-02T15:04:05.000000")
	if p.Items == nil {
		p.Items = []PlaylistItem{}
	}
	s.playlists[i] = &p
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.playlistIndex(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Playlist %s not found", id))
		return
	}
	for _, ch := range s.channels {
		if ch.PlaylistID != nil && *ch.PlaylistID == id {
			writeError(w, http.StatusConflict, "Playlist is in use by one or more channels")
			return
		}
	}
	s.playlists = slices.Delete(s.playlists, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	dir := r.URL.Query().Get("path")
	if strings.HasPrefix(dir, "/") {
		writeError(w, http.StatusBadRequest, "Absolute paths are not allowed")
		return
	}
	if slices.Contains(strings.Split(dir, "/"), "..") {
		writeError(w, http.StatusBadRequest, "Parent directory references are not allowed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.tree[dir]
	if !ok {
		writeError(w, http.StatusNotFound, "Path not found")
		return
	}

	// Directories first, then files, each by name
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b BrowseItem) int {
		if a.Type != b.Type {
			if a.Type == "directory" {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	var parent *string
	if dir != "" {
		p := parentOf(dir)
		parent = &p
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"current_path": dir,
		"parent_path":  parent,
		"items":        sorted,
	})
}

func (s *Server) handleUploadLogo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(header.Filename))
	if !slices.Contains(logoExtensions, ext) {
		writeError(w, http.StatusBadRequest, "Invalid file type. Allowed: "+strings.Join(logoExtensions, ", "))
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read file")
		return
	}
	if len(data) > maxLogoBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size: 5MB")
		return
	}

	filename := fmt.Sprintf("%s_%s%s", id, uuid.NewString()[:8], ext)
	logoURL := "/logos/" + filename

	s.mu.Lock()
	s.logos[id] = logoURL
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"logo_url": logoURL,
		"filename": filename,
		"size":     len(data),
	})
}

func (s *Server) handleDeleteLogo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.logos[id]; !ok {
		writeError(w, http.StatusNotFound, "Logo not found")
		return
	}
	delete(s.logos, id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted 1 logo file(s)"})
}

// === Helpers ===

func (s *Server) channelIndex(id string) int {
	return slices.IndexFunc(s.channels, func(ch *Channel) bool { return ch.ID == id })
}

func (s *Server) playlistIndex(id string) int {
	return slices.IndexFunc(s.playlists, func(p *Playlist) bool { return p.ID == id })
}

func (s *Server) numberTaken(n int, exceptID string) bool {
	return slices.ContainsFunc(s.channels, func(ch *Channel) bool {
		return ch.Number == n && ch.ID != exceptID
	})
}

func validateChannel(ch Channel) []fieldError {
	var errs []fieldError
	if strings.TrimSpace(ch.Name) == "" {
		errs = append(errs, fieldError{Loc: []string{"body", "name"}, Msg: "field required", Type: "value_error.missing"})
	}
	return errs
}

func validatePlaylist(p Playlist) []fieldError {
	var errs []fieldError
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fieldError{Loc: []string{"body", "name"}, Msg: "field required", Type: "value_error.missing"})
	}
	for i, it := range p.Items {
		if it.Duration < 1 {
			errs = append(errs, fieldError{
				Loc:  []string{"body", "items", fmt.Sprint(i), "duration"},
				Msg:  "ensure this value is greater than or equal to 1",
				Type: "value_error.number.not_ge",
			})
		}
	}
	return errs
}

func parentOf(p string) string {
	dir := path.Dir(p)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []fieldError{
			{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error.jsondecode"},
		}})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
