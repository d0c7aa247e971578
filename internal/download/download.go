// Package download maps Readarr-reported file paths into the local mount
// namespace and serves completed files.
package download

import (
	"path/filepath"
	"strings"
)

// knownPrefixes are the storage roots Readarr deployments commonly report,
// ordered so that the longest prefix in each family matches first.
var knownPrefixes = []string{
	"/data/books",
	"/data",
	"/books",
	"/media/books",
	"/media",
}

// mimeTypes maps book file extensions to content types.
var mimeTypes = map[string]string{
	".epub": "application/epub+zip",
	".pdf":  "application/pdf",
	".mobi": "application/x-mobipocket-ebook",
	".azw":  "application/vnd.amazon.ebook",
	".azw3": "application/vnd.amazon.ebook",
	".txt":  "text/plain",
	".html": "text/html",
	".htm":  "text/html",
}

// TranslatePath rewrites a backend-reported storage path onto the local
// mount. The first matching known prefix is substituted; a path matching
// none is returned unchanged.
func TranslatePath(reported, mountPath string) string {
	for _, prefix := range knownPrefixes {
		if strings.HasPrefix(reported, prefix) {
			return mountPath + strings.TrimPrefix(reported, prefix)
		}
	}
	return reported
}

// MIMEType returns the content type for a book file name, defaulting to a
// generic byte stream for unknown extensions.
func MIMEType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if mt, ok := mimeTypes[ext]; ok {
		return mt
	}
	return "application/octet-stream"
}
