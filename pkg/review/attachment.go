package review

import (
	"encoding/base64"
	"fmt"

	"github.com/codevf/codevf-go/pkg/codevf"
)

// attachmentSource tags which payload variant an Attachment carries.
type attachmentSource int

const (
	sourceNone attachmentSource = iota
	sourceInline
	sourceEncoded
)

// Attachment is a single file payload accompanying a review request. The
// payload is either inline text or base64-encoded binary; the constructors
// are the only way to set it, so a well-formed Attachment always carries
// exactly one variant.
type Attachment struct {
	FileName string
	MimeType string

	source  attachmentSource
	payload string
}

// Text creates an attachment carrying inline text content.
func Text(fileName, mimeType, content string) Attachment {
	return Attachment{
		FileName: fileName,
		MimeType: mimeType,
		source:   sourceInline,
		payload:  content,
	}
}

// Bytes creates an attachment carrying binary data, base64-encoded on the wire.
func Bytes(fileName, mimeType string, data []byte) Attachment {
	return Attachment{
		FileName: fileName,
		MimeType: mimeType,
		source:   sourceEncoded,
		payload:  base64.StdEncoding.EncodeToString(data),
	}
}

// Encoded creates an attachment from data the caller has already
// base64-encoded. The encoding is not verified locally; a malformed payload
// is rejected by the service.
func Encoded(fileName, mimeType, b64 string) Attachment {
	return Attachment{
		FileName: fileName,
		MimeType: mimeType,
		source:   sourceEncoded,
		payload:  b64,
	}
}

// validate checks the structural invariants. A zero-valued Attachment (not
// built by a constructor) has no payload variant and is rejected.
func (a Attachment) validate() error {
	if a.FileName == "" {
		return fmt.Errorf("%w: attachment has no file name", ErrAttachment)
	}
	if a.source == sourceNone {
		return fmt.Errorf("%w: attachment %q has no content; use Text, Bytes or Encoded", ErrAttachment, a.FileName)
	}
	return nil
}

// wire converts the attachment to the API shape.
func (a Attachment) wire() codevf.TaskAttachment {
	ta := codevf.TaskAttachment{
		FileName: a.FileName,
		MimeType: a.MimeType,
	}
	switch a.source {
	case sourceInline:
		ta.Content = a.payload
	case sourceEncoded:
		ta.Base64 = a.payload
	}
	return ta
}

// AttachmentInput is the loosely-typed attachment shape accepted from
// structured callers (the MCP tool, JSON config, CLI). Exactly one of
// Content and Base64 must be set.
type AttachmentInput struct {
	FileName string `json:"file_name" yaml:"file_name"`
	MimeType string `json:"mime_type" yaml:"mime_type"`
	Content  string `json:"content,omitempty" yaml:"content,omitempty"`
	Base64   string `json:"base64,omitempty" yaml:"base64,omitempty"`
}

// Validate enforces the exactly-one-of-content/base64 invariant before any
// network call. The error names the offending attachment.
func (in AttachmentInput) Validate() error {
	if in.FileName == "" {
		return fmt.Errorf("%w: attachment has no file name", ErrAttachment)
	}
	if in.Content != "" && in.Base64 != "" {
		return fmt.Errorf("%w: attachment %q sets both content and base64", ErrAttachment, in.FileName)
	}
	if in.Content == "" && in.Base64 == "" {
		return fmt.Errorf("%w: attachment %q sets neither content nor base64", ErrAttachment, in.FileName)
	}
	return nil
}

// Attachment converts the input to the tagged variant form. Validate must
// have succeeded first.
func (in AttachmentInput) Attachment() Attachment {
	if in.Base64 != "" {
		return Encoded(in.FileName, in.MimeType, in.Base64)
	}
	return Text(in.FileName, in.MimeType, in.Content)
}

// normalizeInputs validates and converts a slice of structured attachment
// inputs. Returns nil for an empty slice.
func normalizeInputs(inputs []AttachmentInput) ([]Attachment, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	atts := make([]Attachment, 0, len(inputs))
	for _, in := range inputs {
		if err := in.Validate(); err != nil {
			return nil, err
		}
		atts = append(atts, in.Attachment())
	}
	return atts, nil
}
