package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/n4dhq/n4d/store"
)

func (d *DB) CreatePatient(ctx context.Context, create *store.Patient) (*store.Patient, error) {
	fields := []string{"uid", "first_name", "last_name", "dob", "gender"}
	placeholderValues := []any{
		create.UID, create.FirstName, create.LastName, create.Dob, create.Gender.String(),
	}

	stmt := `INSERT INTO patient (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	return create, nil
}

func (d *DB) ListPatients(ctx context.Context, find *store.FindPatient) ([]*store.Patient, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "patient.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "patient.uid = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			id, uid, created_ts, updated_ts,
			first_name, last_name, dob, gender
		FROM patient
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY patient.created_ts DESC, patient.id DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Patient, 0)
	for rows.Next() {
		var patient store.Patient
		var gender string
		if err := rows.Scan(
			&patient.ID,
			&patient.UID,
			&patient.CreatedTs,
			&patient.UpdatedTs,
			&patient.FirstName,
			&patient.LastName,
			&patient.Dob,
			&gender,
		); err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patient.Gender = store.Gender(gender)
		list = append(list, &patient)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate patients: %w", err)
	}

	return list, nil
}

func (d *DB) CountPatients(ctx context.Context, find *store.FindPatient) (int, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "patient.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "patient.uid = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `SELECT COUNT(*) FROM patient WHERE ` + strings.Join(where, " AND ")

	var count int
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}

func (d *DB) UpdatePatient(ctx context.Context, update *store.UpdatePatient) (*store.Patient, error) {
	set, args := []string{}, []any{}

	if v := update.FirstName; v != nil {
		set, args = append(set, "first_name = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.LastName; v != nil {
		set, args = append(set, "last_name = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Dob; v != nil {
		set, args = append(set, "dob = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Gender; v != nil {
		set, args = append(set, "gender = "+placeholder(len(args)+1)), append(args, v.String())
	}
	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *v)
	} else {
		set = append(set, "updated_ts = EXTRACT(EPOCH FROM NOW())")
	}

	stmt := `UPDATE patient SET ` + strings.Join(set, ", ") + `
		WHERE uid = ` + placeholder(len(args)+1) + `
		RETURNING id, uid, created_ts, updated_ts, first_name, last_name, dob, gender`
	args = append(args, update.UID)

	var patient store.Patient
	var gender string
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&patient.ID,
		&patient.UID,
		&patient.CreatedTs,
		&patient.UpdatedTs,
		&patient.FirstName,
		&patient.LastName,
		&patient.Dob,
		&gender,
	); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	patient.Gender = store.Gender(gender)

	return &patient, nil
}

func (d *DB) DeletePatient(ctx context.Context, delete *store.DeletePatient) (*store.Patient, error) {
	stmt := `DELETE FROM patient WHERE uid = ` + placeholder(1) + `
		RETURNING id, uid, created_ts, updated_ts, first_name, last_name, dob, gender`

	var patient store.Patient
	var gender string
	if err := d.db.QueryRowContext(ctx, stmt, delete.UID).Scan(
		&patient.ID,
		&patient.UID,
		&patient.CreatedTs,
		&patient.UpdatedTs,
		&patient.FirstName,
		&patient.LastName,
		&patient.Dob,
		&gender,
	); err != nil {
		return nil, fmt.Errorf("failed to delete patient: %w", err)
	}
	patient.Gender = store.Gender(gender)

	return &patient, nil
}
