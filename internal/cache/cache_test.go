package cache

import (
	"context"
	"testing"

	"patientdocs/internal/config"
	"patientdocs/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestNoopAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	var c DocumentCache = Noop{}

	c.SetPatientDocs(ctx, "p1", []model.Document{{ID: "doc-1"}})
	docs, ok := c.GetPatientDocs(ctx, "p1")
	assert.False(t, ok)
	assert.Nil(t, docs)

	c.SetFileLookup(ctx, "doc-1", &FileLookup{Filename: "report.pdf", StorageKey: "documents/k.pdf"})
	lookup, ok := c.GetFileLookup(ctx, "doc-1")
	assert.False(t, ok)
	assert.Nil(t, lookup)

	// Invalidation on a noop cache must not panic
	c.InvalidatePatientDocs(ctx, "p1")
	c.InvalidateFileLookup(ctx, "doc-1")
}

func TestKeyNamespaces(t *testing.T) {
	assert.Equal(t, "docs:p1", patientDocsKey("p1"))
	assert.Equal(t, "docfile:doc-1", fileLookupKey("doc-1"))
}

func TestNewRedisRequiresAddr(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}
