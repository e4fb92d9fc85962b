package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvatarFileAllowed(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"me.png", true},
		{"me.JPG", true},
		{"me.jpeg", true},
		{"animated.gif", true},
		{"script.php", false},
		{"noext", false},
		{"archive.tar.gz", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AvatarFileAllowed(tt.filename), "filename %q", tt.filename)
	}
}

func TestNewAvatarFilename(t *testing.T) {
	a := NewAvatarFilename("selfie.PNG")
	b := NewAvatarFilename("selfie.PNG")

	assert.True(t, strings.HasSuffix(a, ".png"), "extension kept, lowercased: %q", a)
	assert.NotEqual(t, a, b, "generated names must not collide")
}
