package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gestiongasto/internal/common"
)

// AttachmentKind tells which approval stage a file belongs to.
type AttachmentKind string

const (
	KindRequest AttachmentKind = "request"
	KindInvoice AttachmentKind = "invoice"
)

// ParseAttachmentKind accepts "request", "invoice" or an empty string
// (defaults to request).
func ParseAttachmentKind(s string) (AttachmentKind, error) {
	switch AttachmentKind(s) {
	case "", KindRequest:
		return KindRequest, nil
	case KindInvoice:
		return KindInvoice, nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrInvalidKind, s)
	}
}

// Attachment is a ledger row linking a purchase request to a stored file.
type Attachment struct {
	ID        string
	RequestID string
	Kind      AttachmentKind
	Backend   string
	RemoteID  string
	Name      string
	WebURL    string
	Size      int64
	CreatedAt time.Time
}
