package postgres

import (
	"context"
	"database/sql"

	"patientdocs/internal/model"
	"patientdocs/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, filename, storage_key, size, content_type, patient_id, upload_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, filename, storage_key, size, content_type, patient_id, upload_date
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Filename,
		doc.StorageKey,
		doc.Size,
		doc.ContentType,
		doc.PatientID,
		doc.UploadDate,
	)
	var out model.Document
	if err := scanDocument(row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT id, filename, storage_key, size, content_type, patient_id, upload_date
		FROM documents
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var d model.Document
	if err := scanDocument(row, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByPatient returns all documents for a patient. Rows come back ordered by
// upload_date for stable output, though callers are not promised any ordering.
func (r *DocumentPostgres) ListByPatient(ctx context.Context, patientID string) ([]model.Document, error) {
	const q = `
		SELECT id, filename, storage_key, size, content_type, patient_id, upload_date
		FROM documents
		WHERE patient_id = $1
		ORDER BY upload_date DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := scanDocument(rows, &d); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a document by ID. Returns sql.ErrNoRows when nothing was deleted.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner, d *model.Document) error {
	return row.Scan(
		&d.ID,
		&d.Filename,
		&d.StorageKey,
		&d.Size,
		&d.ContentType,
		&d.PatientID,
		&d.UploadDate,
	)
}
