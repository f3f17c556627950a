package v1

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/n4dhq/n4d/plugin/extractor"
	"github.com/n4dhq/n4d/store"
)

type createNoteRequest struct {
	PatientID string `json:"patientId"`
	NoteType  string `json:"noteType"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

type updateNoteRequest struct {
	NoteType *string `json:"noteType"`
	Title    *string `json:"title"`
	Content  *string `json:"content"`
}

// noteListResponse is a page of notes plus the cache-hit flag.
type noteListResponse struct {
	Data   []*Note `json:"data"`
	Total  int     `json:"total"`
	Cached bool    `json:"cached"`
}

// SearchNotes returns one page of the note listing, optionally filtered.
// GET /api/notes?page&limit&filter
func (s *APIV1Service) SearchNotes(c echo.Context) error {
	page, limit := parsePagination(c)
	filter := c.QueryParam("filter")

	result, cached, err := s.Store.SearchNotesPage(c.Request().Context(), page, limit, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list notes"})
	}
	return c.JSON(http.StatusOK, &noteListResponse{
		Data:   convertNotes(result.Data),
		Total:  result.Total,
		Cached: cached,
	})
}

// ListNotesByPatient returns every note for one patient, newest first.
// GET /api/notes/:patientId
func (s *APIV1Service) ListNotesByPatient(c echo.Context) error {
	patientUID := c.Param("patientId")
	notes, err := s.Store.ListNotes(c.Request().Context(), &store.FindNote{PatientUID: &patientUID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list notes"})
	}
	return c.JSON(http.StatusOK, convertNotes(notes))
}

// CreateNote creates a typed note.
// POST /api/notes
func (s *APIV1Service) CreateNote(c echo.Context) error {
	var req createNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.PatientID == "" || req.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	}

	noteType := store.NoteType(req.NoteType)
	if req.NoteType == "" {
		noteType = store.NoteTypeTyped
	}
	if !noteType.IsValid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid note type"})
	}

	note, err := s.createNoteForPatient(c, req.PatientID, noteType, req.Title, req.Content)
	if note == nil {
		return err
	}
	return c.JSON(http.StatusOK, convertNote(note))
}

// UploadNote runs a scanned document through the extraction pipeline and
// stores the resulting text as a note.
// POST /api/notes/upload (multipart form: file, patientId, title, noteType)
func (s *APIV1Service) UploadNote(c echo.Context) error {
	ctx := c.Request().Context()

	patientUID := c.FormValue("patientId")
	title := c.FormValue("title")
	if patientUID == "" || title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read uploaded file"})
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to read uploaded file"})
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	text, err := s.Extractor.Extract(ctx, &extractor.Document{Data: data, MimeType: mimeType})
	if err != nil {
		if errors.Is(err, extractor.ErrUnsupportedType) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported file type"})
		}
		slog.Error("text extraction failed", "mimeType", mimeType, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to process the uploaded file"})
	}
	if text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unable to extract text from the provided file. Try again with a different file."})
	}

	content := text
	if s.Formatter != nil {
		formatted, err := s.Formatter.Format(ctx, text)
		if err != nil {
			slog.Warn("note formatting failed, storing raw extracted text", "error", err)
		} else {
			content = formatted
		}
	}

	noteType := store.NoteType(c.FormValue("noteType"))
	if noteType == "" {
		noteType = store.NoteTypeScanned
	}
	if !noteType.IsValid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid note type"})
	}

	note, err := s.createNoteForPatient(c, patientUID, noteType, title, content)
	if note == nil {
		return err
	}
	return c.JSON(http.StatusOK, convertNote(note))
}

// UpdateNote updates a note.
// PUT /api/notes/:id
func (s *APIV1Service) UpdateNote(c echo.Context) error {
	var req updateNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	uid := c.Param("id")
	existing, err := s.Store.GetNote(c.Request().Context(), &store.FindNote{UID: &uid})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update note"})
	}
	if existing == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Note not found"})
	}

	update := &store.UpdateNote{
		UID:     uid,
		Title:   req.Title,
		Content: req.Content,
	}
	if req.NoteType != nil {
		noteType := store.NoteType(*req.NoteType)
		if !noteType.IsValid() {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid note type"})
		}
		update.NoteType = &noteType
	}

	note, err := s.Store.UpdateNote(c.Request().Context(), update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update note"})
	}
	return c.JSON(http.StatusOK, convertNote(note))
}

// DeleteNote deletes a note.
// DELETE /api/notes/:id
func (s *APIV1Service) DeleteNote(c echo.Context) error {
	uid := c.Param("id")
	existing, err := s.Store.GetNote(c.Request().Context(), &store.FindNote{UID: &uid})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete note"})
	}
	if existing == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Note not found"})
	}

	note, err := s.Store.DeleteNote(c.Request().Context(), &store.DeleteNote{UID: uid})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete note"})
	}
	return c.JSON(http.StatusOK, convertNote(note))
}

// createNoteForPatient resolves the patient, denormalizes their display name
// onto the note, and persists it. On failure the error response has already
// been written and the returned note is nil.
func (s *APIV1Service) createNoteForPatient(c echo.Context, patientUID string, noteType store.NoteType, title, content string) (*store.Note, error) {
	ctx := c.Request().Context()

	patient, err := s.Store.GetPatient(ctx, &store.FindPatient{UID: &patientUID})
	if err != nil {
		return nil, c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create note"})
	}
	if patient == nil {
		return nil, c.JSON(http.StatusNotFound, map[string]string{"error": "Patient not found"})
	}

	note, err := s.Store.CreateNote(ctx, &store.Note{
		UID:         uuid.NewString(),
		PatientUID:  patient.UID,
		PatientName: patient.FirstName + " " + patient.LastName,
		NoteType:    noteType,
		Title:       title,
		Content:     content,
	})
	if err != nil {
		return nil, c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create note"})
	}
	return note, nil
}
