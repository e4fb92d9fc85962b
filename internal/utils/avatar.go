package utils

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowed avatar file extensions, lowercase without the dot
var avatarExts = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true,
}

// AvatarFileAllowed reports whether the uploaded filename carries an
// accepted image extension.
func AvatarFileAllowed(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return avatarExts[ext]
}

// NewAvatarFilename builds a collision-free stored name for an upload,
// keeping the original extension.
func NewAvatarFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.NewString() + ext
}
