package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://media.luem.tv/thumbnail/1_ab.png", PublicURL("https://media.luem.tv/", "thumbnail/1_ab.png"))
	assert.Equal(t, "https://media.luem.tv/video/x.mp4", PublicURL("https://media.luem.tv", "/video/x.mp4"))
}

func TestKeyFromURL(t *testing.T) {
	key, err := KeyFromURL("https://media.luem.tv", "https://media.luem.tv/banner/1_ab.jpg")
	require.NoError(t, err)
	assert.Equal(t, "banner/1_ab.jpg", key)

	_, err = KeyFromURL("https://media.luem.tv", "https://evil.example/banner/1_ab.jpg")
	assert.ErrorIs(t, err, ErrForeignURL)

	_, err = KeyFromURL("https://media.luem.tv", "https://media.luem.tv/")
	assert.ErrorIs(t, err, ErrForeignURL)

	_, err = KeyFromURL("https://media.luem.tv", "https://media.luem.tv/../secrets")
	assert.ErrorIs(t, err, ErrForeignURL)
}
