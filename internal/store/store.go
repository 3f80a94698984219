package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/troutctl/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// One bucket per collection, one document per bucket
var (
	bucketChannels  = []byte("channels")
	bucketPlaylists = []byte("playlists")
	collections     = [][]byte{bucketChannels, bucketPlaylists}
)

var docKey = []byte("listing")

// CollectionStore implements domain.Store using BoltDB.
//
// Each collection is stored as one JSON document, so a save swaps the whole
// listing at once. Readers decode their own copy and never observe a
// half-written listing or share slices with another reader.
type CollectionStore struct {
	db *bolt.DB

	mu   sync.RWMutex
	docs map[string][]byte // encoded listings by bucket, mirrors disk
}

// NewCollectionStore opens the cache for one server. An empty baseCacheDir
// keeps everything in memory.
func NewCollectionStore(baseCacheDir, serverURL string) (*CollectionStore, error) {
	s := &CollectionStore{docs: make(map[string][]byte)}
	if baseCacheDir == "" {
		return s, nil
	}

	// Each server gets its own database so listings never mix
	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, serverKey(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(dir, "troutctl.db"), 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}
	if err := db.Update(createBuckets); err != nil {
		db.Close()
		return nil, err
	}
	s.db = db
	return s, nil
}

func createBuckets(tx *bolt.Tx) error {
	for _, name := range collections {
		if _, err := tx.CreateBucketIfNotExists(name); err != nil {
			return err
		}
	}
	return nil
}

func serverKey(serverURL string) string {
	sum := sha256.Sum256([]byte(strings.TrimRight(strings.ToLower(serverURL), "/")))
	return hex.EncodeToString(sum[:6])
}

// Close releases the database file
func (s *CollectionStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// load decodes a collection into dest. Reports false when the collection was
// never saved or its document is unreadable.
func (s *CollectionStore) load(bucket []byte, dest any) bool {
	s.mu.RLock()
	doc, ok := s.docs[string(bucket)]
	s.mu.RUnlock()

	if !ok && s.db != nil {
		var disk []byte
		_ = s.db.View(func(tx *bolt.Tx) error {
			if b := tx.Bucket(bucket); b != nil {
				if v := b.Get(docKey); v != nil {
					disk = append([]byte(nil), v...)
				}
			}
			return nil
		})
		if disk != nil {
			// A replace may have landed while disk was read; it wins
			s.mu.Lock()
			if cur, ok := s.docs[string(bucket)]; ok {
				doc = cur
			} else {
				s.docs[string(bucket)] = disk
				doc = disk
			}
			s.mu.Unlock()
		}
	}
	if doc == nil {
		return false
	}
	return json.Unmarshal(doc, dest) == nil
}

// replace swaps a collection's document. Memory is always updated so readers
// see the new listing; a failed disk write is returned but only costs the
// copy used on the next start.
func (s *CollectionStore) replace(bucket []byte, listing any) error {
	doc, err := json.Marshal(listing)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[string(bucket)] = doc
	if s.db == nil {
		return nil
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put(docKey, doc)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s cache: %w", bucket, err)
	}
	return nil
}

func findByID[T interface{ GetID() string }](items []T, id string) (T, bool) {
	for _, it := range items {
		if it.GetID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// === Channels ===

func (s *CollectionStore) GetChannels() ([]*domain.Channel, bool) {
	var channels []*domain.Channel
	ok := s.load(bucketChannels, &channels)
	return channels, ok
}

func (s *CollectionStore) SaveChannels(channels []*domain.Channel) error {
	if channels == nil {
		channels = []*domain.Channel{}
	}
	return s.replace(bucketChannels, channels)
}

func (s *CollectionStore) FindChannel(id string) (*domain.Channel, bool) {
	channels, _ := s.GetChannels()
	return findByID(channels, id)
}

// === Playlists ===

func (s *CollectionStore) GetPlaylists() ([]*domain.Playlist, bool) {
	var playlists []*domain.Playlist
	ok := s.load(bucketPlaylists, &playlists)
	return playlists, ok
}

func (s *CollectionStore) SavePlaylists(playlists []*domain.Playlist) error {
	if playlists == nil {
		playlists = []*domain.Playlist{}
	}
	return s.replace(bucketPlaylists, playlists)
}

func (s *CollectionStore) FindPlaylist(id string) (*domain.Playlist, bool) {
	playlists, _ := s.GetPlaylists()
	return findByID(playlists, id)
}

// === Invalidation ===

// InvalidateAll forgets both collections in memory and on disk
func (s *CollectionStore) InvalidateAll() {
	s.mu.Lock()
	s.docs = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	_ = s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range collections {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
		}
		return createBuckets(tx)
	})
}
