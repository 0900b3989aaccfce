package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Minute)

	token, expiresAt, err := signer.Generate("job-1", "audit/job-1.csv")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	jobID, relPath, _, err := signer.Parse(token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, "audit/job-1.csv", relPath)
}

func TestSignedURLTampered(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Minute)

	token, _, err := signer.Generate("job-1", "audit/job-1.csv")
	require.NoError(t, err)

	_, _, _, err = signer.Parse(token+"x", false)
	assert.Error(t, err)
}

func TestSignedURLExpired(t *testing.T) {
	signer := &SignedURLSigner{secret: []byte("test-secret"), ttl: -time.Minute}

	token, _, err := signer.Generate("job-2", "audit/job-2.pdf")
	require.NoError(t, err)

	_, _, _, err = signer.Parse(token, false)
	assert.Error(t, err)

	_, relPath, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	assert.Equal(t, "audit/job-2.pdf", relPath)
}

func TestSignedURLMissingSecret(t *testing.T) {
	signer := NewSignedURLSigner("", time.Minute)
	_, _, err := signer.Generate("job-3", "audit/job-3.csv")
	assert.Error(t, err)
}
