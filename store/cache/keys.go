package cache

import "fmt"

// Key prefixes for the listing caches. Invalidation targets a whole prefix
// because any write can change the total count and ordering of every cached
// page of that listing.
const (
	NoteListPrefix    = "notes_page_"
	PatientListPrefix = "patients_page_"
)

// ListKey builds the cache key for one page of a listing. The key encodes
// every parameter that affects the result set so that two requests with
// different filters never collide. Distinct filter strings that happen to
// match the same rows still occupy distinct entries.
func ListKey(prefix string, page, limit int, filter string) string {
	return fmt.Sprintf("%s%d_limit_%d_filter_%s", prefix, page, limit, filter)
}
