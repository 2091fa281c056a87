package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deepmetric/institute-portal/internal/core/ports"
)

// EnrollmentHandler serves the student side of the enrollment lifecycle and
// the admin completion queue.
type EnrollmentHandler struct {
	enrollment ports.EnrollmentService
	courses    ports.CourseLookup
}

func NewEnrollmentHandler(enrollment ports.EnrollmentService, courses ports.CourseLookup) *EnrollmentHandler {
	return &EnrollmentHandler{enrollment: enrollment, courses: courses}
}

// Register handles POST /v1/enrollments/:courseId.
//
// @Summary      Register for a course
// @Tags         enrollments
// @Produce      json
// @Security     BearerAuth
// @Param        courseId  path      string  true  "Course id"
// @Success      200       {object}  domain.User
// @Failure      401       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /v1/enrollments/{courseId} [post]
func (h *EnrollmentHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	courseID := c.Param("courseId")

	if _, err := h.courses.FindCourse(ctx, courseID); err != nil {
		return err
	}

	user, err := h.enrollment.RegisterCourse(ctx, courseID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// SetProgress handles PUT /v1/enrollments/:courseId/progress. Values outside
// 0..100 are clamped.
//
// @Summary      Record course progress
// @Tags         enrollments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        courseId  path      string           true  "Course id"
// @Param        body      body      progressRequest  true  "Progress percentage"
// @Success      200       {object}  domain.User
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /v1/enrollments/{courseId}/progress [put]
func (h *EnrollmentHandler) SetProgress(c echo.Context) error {
	var req progressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.enrollment.SetProgress(c.Request().Context(), c.Param("courseId"), *req.Percent)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// RequestCompletion handles POST /v1/enrollments/:courseId/completion.
//
// @Summary      Ask an administrator to mark a course completed
// @Tags         enrollments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        courseId  path      string             true   "Course id"
// @Param        body      body      completionRequest  false  "Optional evidence"
// @Success      200       {object}  domain.User
// @Failure      401       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /v1/enrollments/{courseId}/completion [post]
func (h *EnrollmentHandler) RequestCompletion(c echo.Context) error {
	var req completionRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
	}

	user, err := h.enrollment.RequestCompletion(c.Request().Context(), c.Param("courseId"), strings.TrimSpace(req.Evidence))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Pending handles GET /v1/admin/completions.
//
// @Summary      List pending completion requests
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  pendingListResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/completions [get]
func (h *EnrollmentHandler) Pending(c echo.Context) error {
	requests, err := h.enrollment.PendingCompletions(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pendingListResponse{Requests: requests, Count: len(requests)})
}

// Approve handles POST /v1/admin/completions/:userId/:courseId/approve.
// Unknown users or courses are ignored.
//
// @Summary      Approve a completion request
// @Tags         admin
// @Security     BearerAuth
// @Param        userId    path  string  true  "User id"
// @Param        courseId  path  string  true  "Course id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/completions/{userId}/{courseId}/approve [post]
func (h *EnrollmentHandler) Approve(c echo.Context) error {
	if err := h.enrollment.ApproveCompletion(c.Request().Context(), c.Param("userId"), c.Param("courseId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Reject handles POST /v1/admin/completions/:userId/:courseId/reject.
//
// @Summary      Reject a completion request
// @Tags         admin
// @Security     BearerAuth
// @Param        userId    path  string  true  "User id"
// @Param        courseId  path  string  true  "Course id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/completions/{userId}/{courseId}/reject [post]
func (h *EnrollmentHandler) Reject(c echo.Context) error {
	if err := h.enrollment.RejectCompletion(c.Request().Context(), c.Param("userId"), c.Param("courseId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
