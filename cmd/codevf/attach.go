package main

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/codevf/codevf-go/pkg/review"
)

// loadAttachments reads local files into review attachments. Text files are
// attached inline; everything else is base64-encoded. MIME types come from
// the file extension, falling back to content sniffing.
func loadAttachments(paths []string) ([]review.Attachment, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	attachments := make([]review.Attachment, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading attachment %s: %w", path, err)
		}

		name := filepath.Base(path)
		mimeType := detectMimeType(path, data)

		if isText(mimeType, data) {
			attachments = append(attachments, review.Text(name, mimeType, string(data)))
		} else {
			attachments = append(attachments, review.Bytes(name, mimeType, data))
		}
	}
	return attachments, nil
}

// detectMimeType resolves a MIME type from the extension, then the content.
func detectMimeType(path string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		// Strip parameters like "; charset=utf-8", the API wants bare types.
		if mediaType, _, err := mime.ParseMediaType(t); err == nil {
			return mediaType
		}
		return t
	}

	mediaType, _, err := mime.ParseMediaType(http.DetectContentType(data))
	if err != nil {
		return "application/octet-stream"
	}
	return mediaType
}

// isText reports whether the payload can travel as inline text.
func isText(mimeType string, data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	return strings.HasPrefix(mimeType, "text/") ||
		mimeType == "application/json" ||
		mimeType == "application/xml" ||
		strings.HasSuffix(mimeType, "+json") ||
		strings.HasSuffix(mimeType, "+xml")
}
