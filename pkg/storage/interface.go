package storage

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"fetchanything/pkg/config"
	"fetchanything/pkg/utils"
)

// VisitedSet holds the URLs already processed during one crawl.
// It only grows, lives for a single crawl, and is never written to disk.
// Implementations are used from the traversal goroutine only and need no locking.
type VisitedSet interface {
	// MarkVisited records rawURL as visited
	// Returns true if the URL was newly added, false if it was already present
	MarkVisited(rawURL string) (bool, error)

	// IsVisited reports whether rawURL has been recorded
	IsVisited(rawURL string) (bool, error)

	// Count returns the number of recorded URLs
	Count() (int, error)

	// Close releases any resources held by the set
	Close() error
}

// NewVisitedSet builds the visited set selected by kind (config.VisitedStoreMemory or config.VisitedStoreBadger)
func NewVisitedSet(kind string, log *logrus.Entry) (VisitedSet, error) {
	switch kind {
	case config.VisitedStoreMemory, "":
		return NewMemoryStore(), nil
	case config.VisitedStoreBadger:
		return NewBadgerStore(log)
	default:
		return nil, fmt.Errorf("%w: unknown visited store '%s'", utils.ErrConfigValidation, kind)
	}
}
