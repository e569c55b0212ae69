package repository

import (
	"context"

	"patientdocs/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record.
	// The caller should provide required fields (e.g., ID, UploadDate) according to the database schema defaults.
	// Returns the stored document (may include values set by the DB).
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, or sql.ErrNoRows if absent.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// ListByPatient returns all documents grouped under the given patient id.
	// Callers must not rely on a particular ordering.
	ListByPatient(ctx context.Context, patientID string) ([]model.Document, error)

	// Delete removes a document by ID. It returns sql.ErrNoRows when no row was removed,
	// so callers can distinguish a repeated delete.
	Delete(ctx context.Context, id string) error
}
