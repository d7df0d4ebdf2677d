package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	entryDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 7, 1, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(entryDate, createdAt)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedEntryDate, decodedCreatedAt, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, entryDate, decodedEntryDate, "Entry date should match after decode")
	assert.Equal(t, createdAt, decodedCreatedAt, "Created at time should match after decode")

	// Garbage tokens are rejected.
	_, _, err = DecodeToken("not-a-token")
	assert.Error(t, err)
}

func TestEncodeDecodeCursorToken(t *testing.T) {
	createdAt := time.Date(2025, 7, 1, 14, 30, 45, 123456789, time.UTC)

	token := EncodeCursorToken(createdAt, "8f2c1b34-row-id")
	decodedCreatedAt, decodedID, err := DecodeCursorToken(token)
	assert.NoError(t, err)
	assert.Equal(t, createdAt, decodedCreatedAt)
	assert.Equal(t, "8f2c1b34-row-id", decodedID, "Row id tiebreaker should survive the round trip")

	// A token with no id half is rejected.
	_, _, err = DecodeCursorToken(EncodeCursorToken(createdAt, ""))
	assert.Error(t, err)

	_, _, err = DecodeCursorToken("not-a-token")
	assert.Error(t, err)
}

func TestEncodeDecodeSequenceToken(t *testing.T) {
	token := EncodeSequenceToken(42)
	sequence, err := DecodeSequenceToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), sequence)

	_, err = DecodeSequenceToken("%%%%")
	assert.Error(t, err)
}
