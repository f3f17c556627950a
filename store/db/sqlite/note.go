package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/n4dhq/n4d/store"
)

func (d *DB) CreateNote(ctx context.Context, create *store.Note) (*store.Note, error) {
	fields := []string{"uid", "patient_uid", "patient_name", "note_type", "title", "content"}
	placeholderValues := []any{
		create.UID, create.PatientUID, create.PatientName, create.NoteType.String(), create.Title, create.Content,
	}

	stmt := `INSERT INTO note (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return create, nil
}

// noteWhere builds the shared WHERE clause for list and count queries so a
// page and its total always agree on the matching rows.
func noteWhere(find *store.FindNote) ([]string, []any) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "note.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "note.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.PatientUID; v != nil {
		where, args = append(where, "note.patient_uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Filter; v != nil {
		pattern := "%" + strings.ToLower(*v) + "%"
		where = append(where, "(LOWER(note.patient_name) LIKE "+placeholder(len(args)+1)+
			" OR LOWER(note.title) LIKE "+placeholder(len(args)+2)+
			" OR LOWER(note.content) LIKE "+placeholder(len(args)+3)+")")
		args = append(args, pattern, pattern, pattern)
	}

	return where, args
}

func (d *DB) ListNotes(ctx context.Context, find *store.FindNote) ([]*store.Note, error) {
	where, args := noteWhere(find)

	query := `
		SELECT
			id, uid, created_ts, updated_ts,
			patient_uid, patient_name, note_type, title, content
		FROM note
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY note.created_ts DESC, note.id DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Note, 0)
	for rows.Next() {
		var note store.Note
		var noteType string
		if err := rows.Scan(
			&note.ID,
			&note.UID,
			&note.CreatedTs,
			&note.UpdatedTs,
			&note.PatientUID,
			&note.PatientName,
			&noteType,
			&note.Title,
			&note.Content,
		); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		note.NoteType = store.NoteType(noteType)
		list = append(list, &note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	return list, nil
}

func (d *DB) CountNotes(ctx context.Context, find *store.FindNote) (int, error) {
	where, args := noteWhere(find)

	query := `SELECT COUNT(*) FROM note WHERE ` + strings.Join(where, " AND ")

	var count int
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}
	return count, nil
}

func (d *DB) UpdateNote(ctx context.Context, update *store.UpdateNote) (*store.Note, error) {
	set, args := []string{}, []any{}

	if v := update.PatientUID; v != nil {
		set, args = append(set, "patient_uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.PatientName; v != nil {
		set, args = append(set, "patient_name = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.NoteType; v != nil {
		set, args = append(set, "note_type = "+placeholder(len(args)+1)), append(args, v.String())
	}
	if v := update.Title; v != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Content; v != nil {
		set, args = append(set, "content = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *v)
	} else {
		set = append(set, "updated_ts = strftime('%s', 'now')")
	}

	stmt := `UPDATE note SET ` + strings.Join(set, ", ") + `
		WHERE uid = ` + placeholder(len(args)+1) + `
		RETURNING id, uid, created_ts, updated_ts, patient_uid, patient_name, note_type, title, content`
	args = append(args, update.UID)

	var note store.Note
	var noteType string
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&note.ID,
		&note.UID,
		&note.CreatedTs,
		&note.UpdatedTs,
		&note.PatientUID,
		&note.PatientName,
		&noteType,
		&note.Title,
		&note.Content,
	); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	note.NoteType = store.NoteType(noteType)

	return &note, nil
}

func (d *DB) DeleteNote(ctx context.Context, delete *store.DeleteNote) (*store.Note, error) {
	stmt := `DELETE FROM note WHERE uid = ` + placeholder(1) + `
		RETURNING id, uid, created_ts, updated_ts, patient_uid, patient_name, note_type, title, content`

	var note store.Note
	var noteType string
	if err := d.db.QueryRowContext(ctx, stmt, delete.UID).Scan(
		&note.ID,
		&note.UID,
		&note.CreatedTs,
		&note.UpdatedTs,
		&note.PatientUID,
		&note.PatientName,
		&noteType,
		&note.Title,
		&note.Content,
	); err != nil {
		return nil, fmt.Errorf("failed to delete note: %w", err)
	}
	note.NoteType = store.NoteType(noteType)

	return &note, nil
}
