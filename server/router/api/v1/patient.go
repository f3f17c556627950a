package v1

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/n4dhq/n4d/store"
)

type createPatientRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Dob       string `json:"dob"`
	Gender    string `json:"gender"`
}

type updatePatientRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Dob       *string `json:"dob"`
	Gender    *string `json:"gender"`
}

// patientListResponse is a page of patients plus the cache-hit flag.
type patientListResponse struct {
	Data   []*Patient `json:"data"`
	Total  int        `json:"total"`
	Cached bool       `json:"cached"`
}

// ListPatients returns all patients.
// GET /api/patients
func (s *APIV1Service) ListPatients(c echo.Context) error {
	patients, err := s.Store.ListPatients(c.Request().Context(), &store.FindPatient{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list patients"})
	}
	return c.JSON(http.StatusOK, convertPatients(patients))
}

// SearchPatients returns one page of the patient listing.
// GET /api/patients/paginated?page&limit
func (s *APIV1Service) SearchPatients(c echo.Context) error {
	page, limit := parsePagination(c)

	result, cached, err := s.Store.SearchPatientsPage(c.Request().Context(), page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list patients"})
	}
	return c.JSON(http.StatusOK, &patientListResponse{
		Data:   convertPatients(result.Data),
		Total:  result.Total,
		Cached: cached,
	})
}

// GetPatient returns a single patient.
// GET /api/patients/:id
func (s *APIV1Service) GetPatient(c echo.Context) error {
	uid := c.Param("id")
	patient, err := s.Store.GetPatient(c.Request().Context(), &store.FindPatient{UID: &uid})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get patient"})
	}
	if patient == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Patient not found"})
	}
	return c.JSON(http.StatusOK, convertPatient(patient))
}

// CreatePatient creates a patient.
// POST /api/patients
func (s *APIV1Service) CreatePatient(c echo.Context) error {
	var req createPatientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.FirstName == "" || req.LastName == "" || req.Dob == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	}

	gender := store.Gender(req.Gender)
	if req.Gender == "" {
		gender = store.GenderUnknown
	}
	if !gender.IsValid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid gender"})
	}

	patient, err := s.Store.CreatePatient(c.Request().Context(), &store.Patient{
		UID:       uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Dob:       req.Dob,
		Gender:    gender,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create patient"})
	}
	return c.JSON(http.StatusOK, convertPatient(patient))
}

// UpdatePatient updates a patient.
// PUT /api/patients/:id
func (s *APIV1Service) UpdatePatient(c echo.Context) error {
	var req updatePatientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	uid := c.Param("id")
	existing, err := s.Store.GetPatient(c.Request().Context(), &store.FindPatient{UID: &uid})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update patient"})
	}
	if existing == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Patient not found"})
	}

	update := &store.UpdatePatient{
		UID:       uid,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Dob:       req.Dob,
	}
	if req.Gender != nil {
		gender := store.Gender(*req.Gender)
		if !gender.IsValid() {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid gender"})
		}
		update.Gender = &gender
	}

	patient, err := s.Store.UpdatePatient(c.Request().Context(), update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update patient"})
	}
	return c.JSON(http.StatusOK, convertPatient(patient))
}

// DeletePatient deletes a patient and, via the schema cascade, their notes.
// DELETE /api/patients/:id
func (s *APIV1Service) DeletePatient(c echo.Context) error {
	uid := c.Param("id")
	existing, err := s.Store.GetPatient(c.Request().Context(), &store.FindPatient{UID: &uid})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete patient"})
	}
	if existing == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Patient not found"})
	}

	patient, err := s.Store.DeletePatient(c.Request().Context(), &store.DeletePatient{UID: uid})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete patient"})
	}
	return c.JSON(http.StatusOK, convertPatient(patient))
}
