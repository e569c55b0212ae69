package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"patientdocs/internal/cache"
	"patientdocs/internal/model"
	"patientdocs/internal/repository"
	"patientdocs/internal/storage"
)

// MaxDocumentSize is the upload ceiling for a single PDF.
const MaxDocumentSize = 10 << 20 // 10 MiB

const pdfContentType = "application/pdf"

var (
	ErrIDRequired         = errors.New("id is required")
	ErrPatientIDRequired  = errors.New("patient id is required")
	ErrNotFound           = errors.New("document not found")
	ErrReaderNil          = errors.New("reader is nil")
	ErrInvalidContentType = errors.New("only PDF files allowed")
	ErrFileTooLarge       = errors.New("file too large (max 10MiB)")
)

// DocumentService defines the use cases for handling patient documents.
type DocumentService interface {
	// Upload validates the content type and size, writes the bytes to blob
	// storage under a generated opaque key, saves metadata to the DB (rolling
	// back storage if the DB save fails), and invalidates the patient's cached
	// listing.
	Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64, patientID string) (*model.Document, error)

	// ListByPatient returns all documents for a patient, consulting the cache
	// first and writing back on a miss.
	ListByPatient(ctx context.Context, patientID string) ([]model.Document, error)

	// Download resolves the document's file lookup (cache first) and opens the
	// blob for streaming. Returns ErrNotFound when the record or the blob is missing.
	Download(ctx context.Context, id string) (io.ReadCloser, *cache.FileLookup, error)

	// Delete removes the record, then best-effort deletes the blob and
	// invalidates cache entries before returning.
	Delete(ctx context.Context, id string) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
	cache cache.DocumentCache
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, docCache cache.DocumentCache) DocumentService {
	return &documentService{store: store, repo: repo, cache: docCache}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64, patientID string) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if patientID == "" {
		return nil, ErrPatientIDRequired
	}
	if contentType != pdfContentType {
		return nil, ErrInvalidContentType
	}
	if size > MaxDocumentSize {
		return nil, ErrFileTooLarge
	}

	// Opaque storage key, independent of the user-supplied filename
	key := "documents/" + uuid.New().String() + ".pdf"

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		Filename:    originalFilename,
		StorageKey:  objInfo.Key,
		Size:        objInfo.Size,
		ContentType: contentType,
		PatientID:   patientID,
		UploadDate:  time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	// The patient's cached listing no longer reflects the store
	s.cache.InvalidatePatientDocs(ctx, patientID)

	return stored, nil
}

func (s *documentService) ListByPatient(ctx context.Context, patientID string) ([]model.Document, error) {
	if patientID == "" {
		return nil, ErrPatientIDRequired
	}

	if docs, ok := s.cache.GetPatientDocs(ctx, patientID); ok {
		return docs, nil
	}

	docs, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	s.cache.SetPatientDocs(ctx, patientID, docs)
	return docs, nil
}

func (s *documentService) Download(ctx context.Context, id string) (io.ReadCloser, *cache.FileLookup, error) {
	if id == "" {
		return nil, nil, ErrIDRequired
	}

	lookup, ok := s.cache.GetFileLookup(ctx, id)
	if !ok {
		doc, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil, ErrNotFound
			}
			return nil, nil, err
		}
		lookup = &cache.FileLookup{Filename: doc.Filename, StorageKey: doc.StorageKey}
		s.cache.SetFileLookup(ctx, id, lookup)
	}

	rc, _, err := s.store.Get(ctx, lookup.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("read storage: %w", err)
	}
	return rc, lookup, nil
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	// Best-effort blob cleanup. The record is already gone, so a storage
	// failure here leaves an orphaned blob; log it and still report success.
	if err := s.store.Delete(ctx, doc.StorageKey); err != nil {
		logAnomaly("orphaned_blob", map[string]any{
			"document_id": id,
			"storage_key": doc.StorageKey,
			"error":       err.Error(),
		})
	}

	// Invalidate before returning so a subsequent read cannot observe the
	// deleted document through the cache.
	s.cache.InvalidatePatientDocs(ctx, doc.PatientID)
	s.cache.InvalidateFileLookup(ctx, id)

	return nil
}

func logAnomaly(event string, fields map[string]any) {
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": "warn",
		"event": event,
	}
	for k, v := range fields {
		entry[k] = v
	}
	if b, err := json.Marshal(entry); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
