package storage

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"fetchanything/pkg/log"
	"fetchanything/pkg/utils"
)

const pageKeyPrefix = "page:" // Prefix for visited URL keys in DB

// BadgerStore is a VisitedSet backed by an in-memory BadgerDB.
// Nothing touches the filesystem, so the set disappears with the process like the map-based store,
// but large crawls keep keys in badger's arena instead of a Go map.
type BadgerStore struct {
	db       *badger.DB
	log      *logrus.Entry
	keyCount int
}

var _ VisitedSet = (*BadgerStore)(nil)

// NewBadgerStore opens an empty in-memory database
func NewBadgerStore(logger *logrus.Entry) (*BadgerStore, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(log.NewBadgerLogrusAdapter(logger)).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: opening in-memory badger: %w", utils.ErrDatabase, err)
	}
	logger.Debug("In-memory visited set initialized.")
	return &BadgerStore{db: db, log: logger}, nil
}

// MarkVisited implements the VisitedSet interface
func (s *BadgerStore) MarkVisited(rawURL string) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("%w: visited set closed", utils.ErrDatabase)
	}
	added := false
	key := []byte(pageKeyPrefix + rawURL)

	err := s.db.Update(func(txn *badger.Txn) error {
		_, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			errSet := txn.SetEntry(badger.NewEntry(key, []byte{}))
			if errSet == nil {
				added = true
			}
			return errSet
		}
		return errGet // nil if the key exists
	})
	if err != nil {
		s.log.WithField("key", string(key)).Errorf("DB Update error in MarkVisited: %v", err)
		return false, fmt.Errorf("%w: marking key '%s': %w", utils.ErrDatabase, string(key), err)
	}
	if added {
		s.keyCount++
	}
	return added, nil
}

// IsVisited implements the VisitedSet interface
func (s *BadgerStore) IsVisited(rawURL string) (bool, error) {
	if s.db == nil {
		return false, fmt.Errorf("%w: visited set closed", utils.ErrDatabase)
	}
	found := false
	key := []byte(pageKeyPrefix + rawURL)

	err := s.db.View(func(txn *badger.Txn) error {
		_, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			return nil
		}
		if errGet == nil {
			found = true
		}
		return errGet
	})
	if err != nil {
		return false, fmt.Errorf("%w: reading key '%s': %w", utils.ErrDatabase, string(key), err)
	}
	return found, nil
}

// Count implements the VisitedSet interface
func (s *BadgerStore) Count() (int, error) { return s.keyCount, nil }

// Close implements the VisitedSet interface
func (s *BadgerStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	if err != nil {
		return fmt.Errorf("%w: closing badger: %w", utils.ErrDatabase, err)
	}
	return nil
}
