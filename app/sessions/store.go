package sessions

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// KeyPrefix namespaces session entries inside the badger keyspace.
const KeyPrefix = "session:"

var (
	ErrNotFound = errors.New("session not found")
	ErrClosed   = errors.New("session store closed")
)

// Session binds a cookie token to one user id.
type Session struct {
	Token     string    `json:"token"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps sessions in badger. Entries expire on their own after the
// configured lifetime; Delete ends them early.
type Store struct {
	db     *badger.DB
	ttl    time.Duration
	log    *logrus.Logger
	mutex  sync.RWMutex
	closed bool
	now    func() time.Time
}

// Open opens (or creates) a session store under dir. An empty dir keeps
// everything in memory.
func Open(dir string, ttl time.Duration, log *logrus.Logger) (*Store, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dir)
	}
	opts = opts.
		WithLogger(nil).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store %q: %w", dir, err)
	}
	return New(db, ttl, log), nil
}

// New wraps an already opened badger database.
func New(db *badger.DB, ttl time.Duration, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
	}
	return &Store{db: db, ttl: ttl, log: log, now: time.Now}
}

func key(token string) []byte {
	return []byte(KeyPrefix + token)
}

// Create starts a session for userID and returns it.
func (s *Store) Create(userID int) (*Session, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	sess := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key(sess.Token), data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.log.WithField("user_id", userID).Debug("Session created")
	return sess, nil
}

// Get returns ErrNotFound for unknown, expired or deleted tokens.
func (s *Store) Get(token string) (*Session, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var sess Session
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(token))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &sess)
		})
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Delete ends a session. Deleting an unknown token is not an error.
func (s *Store) Delete(token string) error {
	if token == "" {
		return nil
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return ErrClosed
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(token))
	})
}

// Count returns the number of live sessions.
func (s *Store) Count() (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(KeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Purge drops every session, logging out all users.
func (s *Store) Purge() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := s.db.DropPrefix([]byte(KeyPrefix)); err != nil {
		return fmt.Errorf("failed to purge sessions: %w", err)
	}
	s.log.Info("All sessions purged")
	return nil
}

func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
