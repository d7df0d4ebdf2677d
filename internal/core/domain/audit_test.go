package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestAuditLogEntry_ComputeHash(t *testing.T) {
	entry := domain.AuditLogEntry{
		Action:       domain.AuditPost,
		Module:       "journal",
		DocumentType: "journal_entry",
		DocumentID:   "entry-1",
		Actor:        "user-1",
		Timestamp:    time.Date(2025, time.July, 1, 10, 0, 0, 0, time.UTC),
		AfterState:   json.RawMessage(`{"status":"POSTED"}`),
	}

	first := entry.ComputeHash(domain.GenesisHash)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, entry.ComputeHash(domain.GenesisHash), "hash must be deterministic")

	// Any covered field change must change the hash.
	tampered := entry
	tampered.AfterState = json.RawMessage(`{"status":"DRAFT"}`)
	assert.NotEqual(t, first, tampered.ComputeHash(domain.GenesisHash))

	// Chaining: a different previous hash yields a different current hash.
	assert.NotEqual(t, first, entry.ComputeHash(first))
}
