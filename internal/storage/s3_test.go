package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	key := objectKey("user/avatars", "me.png")

	assert.True(t, strings.HasPrefix(key, "user/avatars/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	// keys are random, two uploads of the same file never collide
	assert.NotEqual(t, key, objectKey("user/avatars", "me.png"))
}

func TestObjectKeyNoExtension(t *testing.T) {
	key := objectKey("shops", "logo")
	assert.True(t, strings.HasPrefix(key, "shops/"))
	assert.False(t, strings.HasSuffix(key, "."))
}

func TestKeyFromURL(t *testing.T) {
	s := &S3Storage{publicBaseURL: "https://cdn.test"}

	assert.Equal(t, "shops/2025/01/abc.png", s.keyFromURL("https://cdn.test/shops/2025/01/abc.png"))
	assert.Empty(t, s.keyFromURL(""))
	assert.Empty(t, s.keyFromURL("https://elsewhere.test/shops/abc.png"))
}
