package handler

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deepmetric/institute-portal/internal/core/ports"
)

type CertificateHandler struct {
	certificates ports.CertificateService
}

func NewCertificateHandler(certificates ports.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificates: certificates}
}

// Download handles GET /v1/certificates/:courseId.
//
// @Summary      Download the certificate for a completed course
// @Tags         certificates
// @Produce      image/png
// @Produce      text/html
// @Security     BearerAuth
// @Param        courseId  path  string  true  "Course id"
// @Success      200
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/certificates/{courseId} [get]
func (h *CertificateHandler) Download(c echo.Context) error {
	doc, err := h.certificates.Issue(c.Request().Context(), c.Param("courseId"))
	if err != nil {
		return err
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename})
	if disposition == "" {
		disposition = fmt.Sprintf("attachment; filename=%q", "certificate")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition)
	return c.Blob(http.StatusOK, doc.ContentType, doc.Body)
}
