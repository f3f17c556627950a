package v1

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/n4dhq/n4d/store"
)

const (
	defaultPage  = 1
	defaultLimit = 5
	maxLimit     = 100
)

// Patient is the wire representation of a patient.
type Patient struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Dob       string `json:"dob"`
	Gender    string `json:"gender"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Note is the wire representation of a clinical note.
type Note struct {
	ID          string `json:"id"`
	PatientID   string `json:"patientId"`
	PatientName string `json:"patientName"`
	NoteType    string `json:"noteType"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func convertPatient(p *store.Patient) *Patient {
	return &Patient{
		ID:        p.UID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Dob:       p.Dob,
		Gender:    p.Gender.String(),
		CreatedAt: formatTs(p.CreatedTs),
		UpdatedAt: formatTs(p.UpdatedTs),
	}
}

func convertPatients(list []*store.Patient) []*Patient {
	result := make([]*Patient, 0, len(list))
	for _, p := range list {
		result = append(result, convertPatient(p))
	}
	return result
}

func convertNote(n *store.Note) *Note {
	return &Note{
		ID:          n.UID,
		PatientID:   n.PatientUID,
		PatientName: n.PatientName,
		NoteType:    n.NoteType.String(),
		Title:       n.Title,
		Content:     n.Content,
		CreatedAt:   formatTs(n.CreatedTs),
		UpdatedAt:   formatTs(n.UpdatedTs),
	}
}

func convertNotes(list []*store.Note) []*Note {
	result := make([]*Note, 0, len(list))
	for _, n := range list {
		result = append(result, convertNote(n))
	}
	return result
}

func formatTs(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}

// parsePagination reads page and limit query parameters, falling back to the
// listing defaults on absent or unparsable values.
func parsePagination(c echo.Context) (page, limit int) {
	page = defaultPage
	limit = defaultLimit

	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
		if limit > maxLimit {
			limit = maxLimit
		}
	}
	return page, limit
}
