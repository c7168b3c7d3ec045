package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roamstack/travel-backend/internal/model"
	"github.com/roamstack/travel-backend/internal/queue"
	"github.com/roamstack/travel-backend/internal/repository"
	"github.com/roamstack/travel-backend/internal/service"
)

// DestinationHandler exposes the destination CRUD endpoints.  Writes
// publish a change event so the consumer can invalidate cached responses;
// the publish is fire-and-forget and never fails the request.
type DestinationHandler struct {
	Repo *repository.DestinationRepo
}

func NewDestinationHandler(repo *repository.DestinationRepo) *DestinationHandler {
	return &DestinationHandler{Repo: repo}
}

// ----- DTOs -----

type destinationCreateReq struct {
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Area        *model.Polygon `json:"area"`
	Center      *model.Point   `json:"center"`
	CenterLat   *float64       `json:"center_lat"`
	CenterLng   *float64       `json:"center_lng"`
	Description *string        `json:"description"`
	Images      []string       `json:"images"`
	Videos      []string       `json:"videos"`
	BasePrice   *float64       `json:"base_price"`
	Altitude    *float64       `json:"altitude"`
}

type destinationUpdateReq struct {
	Name        *string        `json:"name"`
	Slug        *string        `json:"slug"`
	Area        *model.Polygon `json:"area"`
	Center      *model.Point   `json:"center"`
	CenterLat   *float64       `json:"center_lat"`
	CenterLng   *float64       `json:"center_lng"`
	Description *string        `json:"description"`
	Images      []string       `json:"images"`
	Videos      []string       `json:"videos"`
	BasePrice   *float64       `json:"base_price"`
	Altitude    *float64       `json:"altitude"`
}

type destinationResp struct {
	ID          uint64         `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Area        *model.Polygon `json:"area"`
	Center      *model.Point   `json:"center"`
	CenterLat   float64        `json:"center_lat"`
	CenterLng   float64        `json:"center_lng"`
	Description *string        `json:"description"`
	Images      []string       `json:"images"`
	Videos      []string       `json:"videos"`
	BasePrice   *float64       `json:"base_price"`
	Altitude    *float64       `json:"altitude"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Create inserts a new destination.  Centre coordinates are mandatory even
// when structured geometry is supplied; geometry support is best-effort
// and readers fall back to the bare coordinates.
func (h *DestinationHandler) Create(c echo.Context) error {
	var req destinationCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.Slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/slug required"})
	}
	if req.CenterLat == nil || req.CenterLng == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "center_lat/center_lng required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var createdBy *string
	if uid, ok := c.Get("user_id").(string); ok && uid != "" {
		createdBy = &uid
	}

	d, err := h.Repo.Create(ctx, repository.DestinationInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Area:        req.Area,
		Center:      req.Center,
		CenterLat:   *req.CenterLat,
		CenterLng:   *req.CenterLng,
		Description: req.Description,
		Images:      req.Images,
		Videos:      req.Videos,
		BasePrice:   req.BasePrice,
		Altitude:    req.Altitude,
		CreatedBy:   createdBy,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	h.publishChange(c, "created", d)
	return c.JSON(http.StatusCreated, toDestinationResp(d))
}

// List returns all destinations.
func (h *DestinationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ds, err := h.Repo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	out := make([]destinationResp, 0, len(ds))
	for _, d := range ds {
		out = append(out, toDestinationResp(d))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns a single destination by numeric id or slug.
func (h *DestinationHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	param := c.Param("id")
	var (
		d   *model.Destination
		err error
	)
	if id, convErr := strconv.ParseUint(param, 10, 64); convErr == nil {
		d, err = h.Repo.GetByID(ctx, id)
	} else {
		d, err = h.Repo.GetBySlug(ctx, param)
	}
	if err != nil {
		if errors.Is(err, repository.ErrDestinationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "destination not found"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, toDestinationResp(d))
}

// Update applies a partial update.  Fields absent from the body keep their
// stored value; the not-found case performs no mutation.
func (h *DestinationHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req destinationUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Repo.Update(ctx, id, repository.DestinationUpdate{
		Name:        req.Name,
		Slug:        req.Slug,
		Area:        req.Area,
		Center:      req.Center,
		CenterLat:   req.CenterLat,
		CenterLng:   req.CenterLng,
		Description: req.Description,
		Images:      req.Images,
		Videos:      req.Videos,
		BasePrice:   req.BasePrice,
		Altitude:    req.Altitude,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDestinationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "destination not found"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	h.publishChange(c, "updated", d)
	return c.JSON(http.StatusOK, toDestinationResp(d))
}

// Delete removes a destination by id.
func (h *DestinationHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrDestinationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "destination not found"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	h.publishChange(c, "deleted", &model.Destination{ID: id})
	return c.NoContent(http.StatusNoContent)
}

// publishChange emits the change event in the background with its own
// deadline so a slow broker never holds up the response.
func (h *DestinationHandler) publishChange(c echo.Context, action string, d *model.Destination) {
	ev := queue.DestinationChangedEvent{
		Action:        action,
		DestinationID: d.ID,
		Slug:          d.Slug,
		Name:          d.Name,
		ChangedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if uid, ok := c.Get("user_id").(string); ok {
		ev.ChangedBy = uid
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = service.PublishDestinationChanged(ctx, ev)
	}()
}

func toDestinationResp(d *model.Destination) destinationResp {
	return destinationResp{
		ID:          d.ID,
		Name:        d.Name,
		Slug:        d.Slug,
		Area:        d.Area,
		Center:      d.Center,
		CenterLat:   d.CenterLat,
		CenterLng:   d.CenterLng,
		Description: d.Description,
		Images:      d.Images,
		Videos:      d.Videos,
		BasePrice:   d.BasePrice,
		Altitude:    d.Altitude,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
