package store

import (
	"context"

	"github.com/n4dhq/n4d/store/cache"
)

// Patient is the object representing a patient record.
type Patient struct {
	ID        int32
	UID       string
	CreatedTs int64
	UpdatedTs int64
	FirstName string
	LastName  string
	// Dob is the date of birth in YYYY-MM-DD form.
	Dob    string
	Gender Gender
}

// FindPatient is the find condition for patient.
type FindPatient struct {
	ID  *int32
	UID *string

	// Pagination
	Limit  *int
	Offset *int
}

// UpdatePatient is the update request for patient.
type UpdatePatient struct {
	UID       string
	FirstName *string
	LastName  *string
	Dob       *string
	Gender    *Gender
	UpdatedTs *int64
}

// DeletePatient is the delete request for patient.
type DeletePatient struct {
	UID string
}

// PatientPage is one cached page of the patient listing.
type PatientPage struct {
	Data  []*Patient
	Total int
}

// CreatePatient creates a new patient and invalidates the cached patient
// listings.
func (s *Store) CreatePatient(ctx context.Context, create *Patient) (*Patient, error) {
	patient, err := s.driver.CreatePatient(ctx, create)
	if err != nil {
		return nil, err
	}
	s.patientListCache.ClearByPrefix(ctx, cache.PatientListPrefix)
	return patient, nil
}

// ListPatients lists patients with filter.
func (s *Store) ListPatients(ctx context.Context, find *FindPatient) ([]*Patient, error) {
	return s.driver.ListPatients(ctx, find)
}

// GetPatient gets a single patient, or nil when no row matches.
func (s *Store) GetPatient(ctx context.Context, find *FindPatient) (*Patient, error) {
	list, err := s.driver.ListPatients(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// SearchPatientsPage returns one page of the patient listing plus the total
// row count. The second result reports whether the page was served from the
// listing cache.
func (s *Store) SearchPatientsPage(ctx context.Context, page, limit int) (*PatientPage, bool, error) {
	key := cache.ListKey(cache.PatientListPrefix, page, limit, "")
	if value, ok := s.patientListCache.Get(ctx, key); ok {
		if cached, ok := value.(*PatientPage); ok {
			return cached, true, nil
		}
	}

	total, err := s.driver.CountPatients(ctx, &FindPatient{})
	if err != nil {
		return nil, false, err
	}

	offset := (page - 1) * limit
	rows, err := s.driver.ListPatients(ctx, &FindPatient{Limit: &limit, Offset: &offset})
	if err != nil {
		return nil, false, err
	}

	result := &PatientPage{Data: rows, Total: total}
	s.patientListCache.Set(ctx, key, result)
	return result, false, nil
}

// UpdatePatient updates a patient and invalidates the cached patient
// listings.
func (s *Store) UpdatePatient(ctx context.Context, update *UpdatePatient) (*Patient, error) {
	patient, err := s.driver.UpdatePatient(ctx, update)
	if err != nil {
		return nil, err
	}
	s.patientListCache.ClearByPrefix(ctx, cache.PatientListPrefix)
	return patient, nil
}

// DeletePatient deletes a patient, returning the deleted row. Notes of the
// patient are removed by the schema's cascade. Both listing caches are
// invalidated: the cascade can change note listings too.
func (s *Store) DeletePatient(ctx context.Context, delete *DeletePatient) (*Patient, error) {
	patient, err := s.driver.DeletePatient(ctx, delete)
	if err != nil {
		return nil, err
	}
	s.patientListCache.ClearByPrefix(ctx, cache.PatientListPrefix)
	s.noteListCache.ClearByPrefix(ctx, cache.NoteListPrefix)
	return patient, nil
}
