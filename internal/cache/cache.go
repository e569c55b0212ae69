package cache

import (
	"context"
	"time"

	"patientdocs/internal/model"
)

// Package cache contains the best-effort metadata cache in front of the
// document repository. The repository remains the source of truth: a cache
// that is down or empty only costs latency, never correctness. Implementations
// must therefore swallow backend errors and report them as misses.

// TTL is the fixed freshness window for cached entries. Stale reads are
// tolerated for at most this long.
const TTL = 60 * time.Second

// FileLookup is the cached subset of a document needed to serve a download.
type FileLookup struct {
	Filename   string `json:"filename"`
	StorageKey string `json:"storage_key"`
}

// DocumentCache caches per-patient document listings and per-document file
// lookups. Get methods report a miss with ok=false; Set and Invalidate are
// best-effort and return nothing.
type DocumentCache interface {
	GetPatientDocs(ctx context.Context, patientID string) ([]model.Document, bool)
	SetPatientDocs(ctx context.Context, patientID string, docs []model.Document)
	InvalidatePatientDocs(ctx context.Context, patientID string)

	GetFileLookup(ctx context.Context, docID string) (*FileLookup, bool)
	SetFileLookup(ctx context.Context, docID string, lookup *FileLookup)
	InvalidateFileLookup(ctx context.Context, docID string)
}

// Noop is the cache used when no cache backend is configured or reachable.
// Every read is a miss and every write is dropped.
type Noop struct{}

var _ DocumentCache = Noop{}

func (Noop) GetPatientDocs(ctx context.Context, patientID string) ([]model.Document, bool) {
	return nil, false
}

func (Noop) SetPatientDocs(ctx context.Context, patientID string, docs []model.Document) {}

func (Noop) InvalidatePatientDocs(ctx context.Context, patientID string) {}

func (Noop) GetFileLookup(ctx context.Context, docID string) (*FileLookup, bool) {
	return nil, false
}

func (Noop) SetFileLookup(ctx context.Context, docID string, lookup *FileLookup) {}

func (Noop) InvalidateFileLookup(ctx context.Context, docID string) {}
