package account

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// FlushHook observes successful flushes. Used to feed the read-model index;
// must not block.
type FlushHook func(participantID string, a *Account)

// Store is the durable per-participant account store: an in-memory cache over
// one zstd-compressed JSON file per participant. It is not goroutine-safe;
// the engine loop is the only caller.
type Store struct {
	dir           string
	startingMoney int64
	logger        *log.Logger
	cache         map[string]*Account
	hook          FlushHook
}

func NewStore(dir string, startingMoney int64, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{
		dir:           dir,
		startingMoney: startingMoney,
		logger:        logger,
		cache:         map[string]*Account{},
	}, nil
}

// SetFlushHook installs the flush observer. Call before the engine starts.
func (s *Store) SetFlushHook(h FlushHook) { s.hook = h }

// Get loads the account into the cache, creating a fresh record on first
// appearance. A read or parse failure falls back to a fresh default record
// with a warning; it never propagates.
func (s *Store) Get(participantID string) *Account {
	if a, ok := s.cache[participantID]; ok {
		return a
	}
	a, err := s.read(participantID)
	if err != nil {
		if !os.IsNotExist(err) && s.logger != nil {
			s.logger.Printf("account %s: read failed, using defaults: %v", participantID, err)
		}
		a = New(s.startingMoney)
	}
	a.normalize()
	s.cache[participantID] = a
	return a
}

// Mutate applies fn to the cached record and flushes synchronously. A write
// failure is logged; the cache stays authoritative until the next flush.
func (s *Store) Mutate(participantID string, fn func(*Account)) *Account {
	a := s.Get(participantID)
	fn(a)
	s.flush(participantID, a)
	return a
}

// Evict flushes and drops the cache entry. Call on participant departure.
func (s *Store) Evict(participantID string) {
	a, ok := s.cache[participantID]
	if !ok {
		return
	}
	s.flush(participantID, a)
	delete(s.cache, participantID)
}

// Cached reports whether the participant currently occupies the cache.
func (s *Store) Cached(participantID string) bool {
	_, ok := s.cache[participantID]
	return ok
}

func (s *Store) flush(participantID string, a *Account) {
	if err := s.write(participantID, a); err != nil {
		if s.logger != nil {
			s.logger.Printf("account %s: write failed: %v", participantID, err)
		}
		return
	}
	if s.hook != nil {
		s.hook(participantID, a)
	}
}

func (s *Store) path(participantID string) string {
	// Participant ids are UUIDs; the replacer guards against path separators
	// from malformed identities.
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(participantID)
	return filepath.Join(s.dir, safe+".json.zst")
}

func (s *Store) read(participantID string) (*Account, error) {
	f, err := os.Open(s.path(participantID))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var a Account
	if err := json.NewDecoder(dec).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &a, nil
}

func (s *Store) write(participantID string, a *Account) error {
	path := s.path(participantID)
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := json.NewEncoder(enc).Encode(a); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return fmt.Errorf("encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
