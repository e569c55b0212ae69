package mocks

import (
	"context"

	"patientdocs/internal/cache"
	"patientdocs/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockDocumentCache struct {
	mock.Mock
}

func (m *MockDocumentCache) GetPatientDocs(ctx context.Context, patientID string) ([]model.Document, bool) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]model.Document), args.Bool(1)
}

func (m *MockDocumentCache) SetPatientDocs(ctx context.Context, patientID string, docs []model.Document) {
	m.Called(ctx, patientID, docs)
}

func (m *MockDocumentCache) InvalidatePatientDocs(ctx context.Context, patientID string) {
	m.Called(ctx, patientID)
}

func (m *MockDocumentCache) GetFileLookup(ctx context.Context, docID string) (*cache.FileLookup, bool) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*cache.FileLookup), args.Bool(1)
}

func (m *MockDocumentCache) SetFileLookup(ctx context.Context, docID string, lookup *cache.FileLookup) {
	m.Called(ctx, docID, lookup)
}

func (m *MockDocumentCache) InvalidateFileLookup(ctx context.Context, docID string) {
	m.Called(ctx, docID)
}
