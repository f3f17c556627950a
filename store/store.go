package store

import (
	"time"

	"github.com/n4dhq/n4d/internal/profile"
	"github.com/n4dhq/n4d/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Cache settings
	cacheConfig cache.Config

	// Listing caches, one per entity type so that prefix invalidation on one
	// listing can never touch another entity's cached pages.
	patientListCache *cache.Cache // cache for paginated patient listings
	noteListCache    *cache.Cache // cache for paginated note listings
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	// Listing caches are disposable views over the database; a long TTL is
	// fine because every write invalidates the affected listing wholesale.
	cacheConfig := cache.Config{
		DefaultTTL:      24 * time.Hour,
		CleanupInterval: 10 * time.Minute,
		MaxItems:        1000,
		OnEviction:      nil,
	}

	store := &Store{
		driver:           driver,
		profile:          profile,
		cacheConfig:      cacheConfig,
		patientListCache: cache.New(cacheConfig),
		noteListCache:    cache.New(cacheConfig),
	}

	return store
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	// Stop all cache cleanup goroutines
	s.patientListCache.Close()
	s.noteListCache.Close()

	return s.driver.Close()
}
