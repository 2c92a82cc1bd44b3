package codec

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// AttachmentStatus tells whether a file still has to be transmitted.
type AttachmentStatus string

const (
	// AttachmentPending carries a raw local payload that has not been
	// uploaded yet.
	AttachmentPending AttachmentStatus = "pending"
	// AttachmentUploaded references a file the server already stores.
	AttachmentUploaded AttachmentStatus = "done"
)

// Attachment is a tagged variant: either a pending local file payload or a
// reference to an already-uploaded server file with a browsable URL.
type Attachment struct {
	UID    string
	Name   string
	Status AttachmentStatus

	// Pending variant
	Data        []byte
	ContentType string

	// Uploaded variant
	Path string
	URL  string
}

// NewPendingAttachment wraps a freshly selected local file.
func NewPendingAttachment(name, contentType string, data []byte) *Attachment {
	return &Attachment{
		UID:         uuid.NewString(),
		Name:        name,
		Status:      AttachmentPending,
		Data:        data,
		ContentType: contentType,
	}
}

// newUploadedAttachment builds the synthetic descriptor for a file the
// server already holds. The UID is derived from the preview URL so repeated
// decodes of the same record yield the same identifier.
func newUploadedAttachment(origin, serverPath string) *Attachment {
	normalized := strings.ReplaceAll(serverPath, "\\", "/")
	normalized = strings.TrimPrefix(normalized, "/")
	url := strings.TrimSuffix(origin, "/") + "/" + normalized

	return &Attachment{
		UID:    uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String(),
		Name:   path.Base(normalized),
		Status: AttachmentUploaded,
		Path:   normalized,
		URL:    url,
	}
}

// Pending reports whether the attachment still carries a local payload that
// has to go out with the next submit.
func (a *Attachment) Pending() bool {
	return a != nil && a.Status == AttachmentPending
}
