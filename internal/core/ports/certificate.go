package ports

import (
	"context"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

// Document is a rendered, downloadable credential.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// CertificateRenderer turns a credential view into a document.
type CertificateRenderer interface {
	Render(ctx context.Context, cert domain.Certificate) (*Document, error)
}

// CertificateService issues certificates for the active session.
type CertificateService interface {
	Issue(ctx context.Context, courseID string) (*Document, error)
}
