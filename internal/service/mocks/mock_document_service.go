package mocks

import (
	"context"
	"io"

	"patientdocs/internal/cache"
	"patientdocs/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64, patientID string) (*model.Document, error) {
	args := m.Called(ctx, r, originalFilename, contentType, size, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) ListByPatient(ctx context.Context, patientID string) ([]model.Document, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Download(ctx context.Context, id string) (io.ReadCloser, *cache.FileLookup, error) {
	args := m.Called(ctx, id)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var lookup *cache.FileLookup
	if args.Get(1) != nil {
		lookup = args.Get(1).(*cache.FileLookup)
	}
	return rc, lookup, args.Error(2)
}

func (m *MockDocumentService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
