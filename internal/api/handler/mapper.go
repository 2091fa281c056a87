package handler

import (
	"strings"

	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/core/ports"
)

// --- Request → domain ---

func toCourse(req courseRequest) domain.Course {
	return domain.Course{
		ID:           strings.TrimSpace(req.ID),
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Instructor:   strings.TrimSpace(req.Instructor),
		Duration:     strings.TrimSpace(req.Duration),
		Level:        domain.Level(req.Level),
		Price:        req.Price,
		Tags:         trimAll(req.Tags),
		Image:        strings.TrimSpace(req.Image),
		Requirements: trimAll(req.Requirements),
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// --- Service output → Response ---

func toCourseResponse(s ports.CourseSummary) courseResponse {
	return courseResponse{Course: s.Course, Stats: s.Stats, HasRated: s.HasRated}
}

func toCourseListResponse(summaries []ports.CourseSummary) courseListResponse {
	out := make([]courseResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, toCourseResponse(s))
	}
	return courseListResponse{Courses: out, Count: len(out)}
}
