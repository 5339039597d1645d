// Package session persists the active Canon of each draft between CLI
// invocations. A Canon is session-scoped: created on first extraction,
// mutated through accepted edits, destroyed when the draft is discarded.
// The store is layered (in-memory cache over JSON files on disk) and
// enforces the single-writer discipline per draft.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/tuanvm/draftguard/internal/model"
)

// Store is a layered draft session store
type Store struct {
	memory  *gocache.Cache
	dir     string
	diskTTL time.Duration

	mu      sync.Mutex
	writers map[string]*sync.Mutex
}

// NewStore creates a session store rooted at dir. The directory is created
// on first save.
func NewStore(dir string, memoryTTL, diskTTL time.Duration) *Store {
	return &Store{
		memory:  gocache.New(memoryTTL, 10*time.Minute),
		dir:     dir,
		diskTTL: diskTTL,
		writers: make(map[string]*sync.Mutex),
	}
}

type diskEntry struct {
	Canon     model.Canon `json:"canon"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Lock acquires the single-writer lock for a draft and returns the unlock
// function. Concurrent edits to different drafts are fully independent;
// edits to the same draft serialize here.
func (s *Store) Lock(draftID string) func() {
	s.mu.Lock()
	w, ok := s.writers[draftID]
	if !ok {
		w = &sync.Mutex{}
		s.writers[draftID] = w
	}
	s.mu.Unlock()

	w.Lock()
	return w.Unlock
}

// Load retrieves the active Canon for a draft, checking memory first and
// promoting disk hits
func (s *Store) Load(draftID string) (model.Canon, bool, error) {
	key := sessionKey(draftID)

	if val, found := s.memory.Get(key); found {
		return val.(model.Canon).Clone(), true, nil
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return model.Canon{}, false, nil
		}
		return model.Canon{}, false, fmt.Errorf("read session: %w", err)
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return model.Canon{}, false, fmt.Errorf("decode session: %w", err)
	}

	if time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(s.path(key))
		return model.Canon{}, false, nil
	}

	s.memory.Set(key, entry.Canon.Clone(), gocache.DefaultExpiration)
	return entry.Canon, true, nil
}

// Save stores the Canon in both layers
func (s *Store) Save(c model.Canon) error {
	if c.Meta.DraftID == "" {
		return fmt.Errorf("canon has no draft id")
	}

	key := sessionKey(c.Meta.DraftID)
	s.memory.Set(key, c.Clone(), gocache.DefaultExpiration)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	entry := diskEntry{
		Canon:     c,
		ExpiresAt: time.Now().Add(s.diskTTL),
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Delete discards a draft's session from both layers
func (s *Store) Delete(draftID string) error {
	key := sessionKey(draftID)
	s.memory.Delete(key)

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func sessionKey(draftID string) string {
	sum := sha256.Sum256([]byte(draftID))
	return "draft-" + hex.EncodeToString(sum[:8])
}
