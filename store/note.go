package store

import (
	"context"

	"github.com/n4dhq/n4d/store/cache"
)

// Note is the object representing a clinical note.
type Note struct {
	ID        int32
	UID       string
	CreatedTs int64
	UpdatedTs int64
	// PatientUID references the patient the note belongs to.
	PatientUID string
	// PatientName is denormalized for display and filtering.
	PatientName string
	NoteType    NoteType
	Title       string
	Content     string
}

// FindNote is the find condition for note.
type FindNote struct {
	ID         *int32
	UID        *string
	PatientUID *string

	// Filter is a case-insensitive substring matched against patient name,
	// title and content.
	Filter *string

	// Pagination
	Limit  *int
	Offset *int
}

// UpdateNote is the update request for note.
type UpdateNote struct {
	UID         string
	PatientUID  *string
	PatientName *string
	NoteType    *NoteType
	Title       *string
	Content     *string
	UpdatedTs   *int64
}

// DeleteNote is the delete request for note.
type DeleteNote struct {
	UID string
}

// NotePage is one cached page of the note listing.
type NotePage struct {
	Data  []*Note
	Total int
}

// CreateNote creates a new note and invalidates the cached note listings.
func (s *Store) CreateNote(ctx context.Context, create *Note) (*Note, error) {
	note, err := s.driver.CreateNote(ctx, create)
	if err != nil {
		return nil, err
	}
	s.noteListCache.ClearByPrefix(ctx, cache.NoteListPrefix)
	return note, nil
}

// ListNotes lists notes with filter.
func (s *Store) ListNotes(ctx context.Context, find *FindNote) ([]*Note, error) {
	return s.driver.ListNotes(ctx, find)
}

// GetNote gets a single note, or nil when no row matches.
func (s *Store) GetNote(ctx context.Context, find *FindNote) (*Note, error) {
	list, err := s.driver.ListNotes(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// SearchNotesPage returns one page of the note listing, newest first,
// optionally filtered, plus the total matching count. The second result
// reports whether the page was served from the listing cache.
func (s *Store) SearchNotesPage(ctx context.Context, page, limit int, filter string) (*NotePage, bool, error) {
	key := cache.ListKey(cache.NoteListPrefix, page, limit, filter)
	if value, ok := s.noteListCache.Get(ctx, key); ok {
		if cached, ok := value.(*NotePage); ok {
			return cached, true, nil
		}
	}

	find := &FindNote{}
	if filter != "" {
		find.Filter = &filter
	}

	total, err := s.driver.CountNotes(ctx, find)
	if err != nil {
		return nil, false, err
	}

	offset := (page - 1) * limit
	find.Limit = &limit
	find.Offset = &offset
	rows, err := s.driver.ListNotes(ctx, find)
	if err != nil {
		return nil, false, err
	}

	result := &NotePage{Data: rows, Total: total}
	s.noteListCache.Set(ctx, key, result)
	return result, false, nil
}

// UpdateNote updates a note and invalidates the cached note listings.
func (s *Store) UpdateNote(ctx context.Context, update *UpdateNote) (*Note, error) {
	note, err := s.driver.UpdateNote(ctx, update)
	if err != nil {
		return nil, err
	}
	s.noteListCache.ClearByPrefix(ctx, cache.NoteListPrefix)
	return note, nil
}

// DeleteNote deletes a note, returning the deleted row, and invalidates the
// cached note listings.
func (s *Store) DeleteNote(ctx context.Context, delete *DeleteNote) (*Note, error) {
	note, err := s.driver.DeleteNote(ctx, delete)
	if err != nil {
		return nil, err
	}
	s.noteListCache.ClearByPrefix(ctx, cache.NoteListPrefix)
	return note, nil
}
