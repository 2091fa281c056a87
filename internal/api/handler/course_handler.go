package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deepmetric/institute-portal/internal/core/domain"
	"github.com/deepmetric/institute-portal/internal/core/ports"
)

// CourseHandler serves the catalog and its reviews.
type CourseHandler struct {
	catalog ports.CatalogService
}

func NewCourseHandler(catalog ports.CatalogService) *CourseHandler {
	return &CourseHandler{catalog: catalog}
}

// List handles GET /v1/courses.
//
// @Summary      List the catalog with review stats
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  courseListResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	summaries, err := h.catalog.ListCourses(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCourseListResponse(summaries))
}

// Get handles GET /v1/courses/:id.
//
// @Summary      Get a course with its review stats
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  courseResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/courses/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	id := c.Param("id")

	course, err := h.catalog.FindCourse(ctx, id)
	if err != nil {
		return err
	}
	stats, err := h.catalog.ReviewStats(ctx, id)
	if err != nil {
		return err
	}
	rated, err := h.catalog.HasUserRated(ctx, p.UserID, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCourseResponse(ports.CourseSummary{Course: *course, Stats: stats, HasRated: rated}))
}

// Create handles POST /v1/courses.
//
// @Summary      Create a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      courseRequest  true  "Course"
// @Success      201   {object}  domain.Course
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	created, err := h.catalog.CreateCourse(c.Request().Context(), toCourse(req))
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, "/v1/courses/"+created.ID)
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /v1/courses/:id.
//
// @Summary      Replace a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Course id"
// @Param        body  body      courseRequest  true  "Course"
// @Success      200   {object}  domain.Course
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/courses/{id} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	// The path id wins over any id in the body.
	req.ID = c.Param("id")
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	updated, err := h.catalog.UpdateCourse(c.Request().Context(), toCourse(req))
	if err != nil {
		return err
	}
	if updated == nil {
		return domain.ErrCourseNotFound
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/courses/:id. Deleting an unknown course succeeds.
//
// @Summary      Delete a course
// @Tags         courses
// @Security     BearerAuth
// @Param        id   path  string  true  "Course id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /v1/courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	if err := h.catalog.DeleteCourse(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SubmitReview handles POST /v1/courses/:id/reviews.
//
// @Summary      Rate and review a course
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path      string         true   "Course id"
// @Param        Idempotency-Key  header    string         false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      reviewRequest  true   "Review"
// @Success      201              {object}  domain.Review
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/courses/{id}/reviews [post]
func (h *CourseHandler) SubmitReview(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	review, err := h.catalog.SubmitReview(c.Request().Context(), ports.SubmitReviewInput{
		UserID:         p.UserID,
		UserName:       p.Name,
		CourseID:       c.Param("id"),
		Rating:         req.Rating,
		Comment:        strings.TrimSpace(req.Comment),
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, review)
}

// Reviews handles GET /v1/courses/:id/reviews.
//
// @Summary      List the reviews of a course
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  reviewListResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/courses/{id}/reviews [get]
func (h *CourseHandler) Reviews(c echo.Context) error {
	reviews, stats, err := h.catalog.CourseReviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return c.JSON(http.StatusOK, reviewListResponse{Reviews: reviews, Stats: stats})
}
