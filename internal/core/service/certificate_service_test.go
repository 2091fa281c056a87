package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/core/ports"
)

type stubRenderer struct {
	contentType string
	err         error
	got         *domain.Certificate
}

func (r *stubRenderer) Render(_ context.Context, c domain.Certificate) (*ports.Document, error) {
	r.got = &c
	if r.err != nil {
		return nil, r.err
	}
	return &ports.Document{Filename: "cert", ContentType: r.contentType, Body: []byte("x")}, nil
}

func issueFixture(t *testing.T, complete bool) (ports.EnrollmentService, *recordingNotifier) {
	t.Helper()
	ctx := context.Background()
	notifier := &recordingNotifier{}
	courses := stubCourseLookup{"c1": {ID: "c1", Title: "SQL", Instructor: "Yaw Boateng"}}
	enrollment := NewEnrollmentService(&stubDirectoryRepo{}, courses, notifier, zerolog.Nop())

	u, err := enrollment.Authenticate(ctx, "Ama", "ama@x.com", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enrollment.RegisterCourse(ctx, "c1"); err != nil {
		t.Fatal(err)
	}
	if complete {
		if err := enrollment.ApproveCompletion(ctx, u.ID, "c1"); err != nil {
			t.Fatal(err)
		}
	}
	notifier.take()
	return enrollment, notifier
}

func TestCertificateService_Issue(t *testing.T) {
	enrollment, notifier := issueFixture(t, true)
	png := &stubRenderer{contentType: "image/png"}
	courses := stubCourseLookup{"c1": {ID: "c1", Title: "SQL", Instructor: "Yaw Boateng"}}
	svc := NewCertificateService(enrollment, courses, png, &stubRenderer{}, "Deepmetric Analytics Institute", notifier, zerolog.Nop())

	doc, err := svc.Issue(context.Background(), "c1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if doc.ContentType != "image/png" {
		t.Errorf("expected the primary renderer, got %s", doc.ContentType)
	}
	if png.got.RecipientName != "Ama" || png.got.Instructor != "Yaw Boateng" || png.got.Issuer != "Deepmetric Analytics Institute" {
		t.Errorf("unexpected certificate: %+v", png.got)
	}
	if time.Since(png.got.IssuedAt) > time.Minute {
		t.Errorf("issue date should be now")
	}

	ns := notifier.take()
	if len(ns) != 1 || ns[0].Email == nil || ns[0].Email.Subject != "Certificate Generated" {
		t.Fatalf("expected certificate email, got %+v", ns)
	}
	if !strings.Contains(ns[0].Email.Body, `"SQL"`) {
		t.Errorf("email should quote the course title: %q", ns[0].Email.Body)
	}
}

func TestCertificateService_FallsBackToPrint(t *testing.T) {
	enrollment, notifier := issueFixture(t, true)
	courses := stubCourseLookup{"c1": {ID: "c1", Title: "SQL"}}
	primary := &stubRenderer{err: errors.New("font missing")}
	fallback := &stubRenderer{contentType: "text/html"}
	svc := NewCertificateService(enrollment, courses, primary, fallback, "Deepmetric", notifier, zerolog.Nop())

	doc, err := svc.Issue(context.Background(), "c1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if doc.ContentType != "text/html" {
		t.Errorf("expected print fallback, got %s", doc.ContentType)
	}
}

func TestCertificateService_RequiresCompletion(t *testing.T) {
	enrollment, notifier := issueFixture(t, false)
	courses := stubCourseLookup{"c1": {ID: "c1", Title: "SQL"}}
	svc := NewCertificateService(enrollment, courses, &stubRenderer{}, &stubRenderer{}, "Deepmetric", notifier, zerolog.Nop())

	_, err := svc.Issue(context.Background(), "c1")

	if !errors.Is(err, domain.ErrCourseNotCompleted) {
		t.Errorf("expected ErrCourseNotCompleted, got %v", err)
	}
	if ns := notifier.take(); len(ns) != 0 {
		t.Errorf("no email without a certificate, got %+v", ns)
	}
}
