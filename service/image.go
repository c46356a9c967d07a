package service

import (
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var supportedExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".jfif": true, ".webp": true,
}

// IsSupportedImage matches the file extension case-insensitively.
func IsSupportedImage(name string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(name))]
}

// BlobName is the stored name for an upload: unix millis plus the original
// extension. Two uploads in the same millisecond with the same extension collide.
func BlobName(at time.Time, originalName string) string {
	return strconv.FormatInt(at.UnixMilli(), 10) + strings.ToLower(filepath.Ext(originalName))
}

func (s *Service) PublicPath(name string) string {
	return path.Join(s.settings.URLPrefix, name)
}
