package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roamstack/travel-backend/internal/model"
	"github.com/roamstack/travel-backend/internal/repository"
)

// WishlistHandler exposes the per-user wishlist endpoints.  All routes sit
// behind the auth middleware, so the user id is always present in the
// request context.
type WishlistHandler struct {
	Repo *repository.WishlistRepo
}

func NewWishlistHandler(repo *repository.WishlistRepo) *WishlistHandler {
	return &WishlistHandler{Repo: repo}
}

type wishlistAddReq struct {
	PoiID uint64 `json:"poi_id"`
}

type wishlistEntryResp struct {
	ID        uint64    `json:"id"`
	UserID    string    `json:"user_id"`
	PoiID     uint64    `json:"poi_id"`
	CreatedAt time.Time `json:"created_at"`
}

type wishlistItemResp struct {
	Entry       wishlistEntryResp `json:"entry"`
	Destination destinationResp   `json:"destination"`
}

// Add saves a destination to the caller's wishlist.  A pair that already
// exists is a conflict, not a silent no-op.
func (h *WishlistHandler) Add(c echo.Context) error {
	var req wishlistAddReq
	if err := c.Bind(&req); err != nil || req.PoiID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "poi_id required"})
	}
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entry, err := h.Repo.Add(ctx, uid, req.PoiID)
	if err != nil {
		if errors.Is(err, repository.ErrWishlistDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "already in wishlist"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, toWishlistEntryResp(entry))
}

// Remove deletes the (user, poi) pair.
func (h *WishlistHandler) Remove(c echo.Context) error {
	poiID, err := strconv.ParseUint(c.Param("poiID"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid poi id"})
	}
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Remove(ctx, uid, poiID); err != nil {
		if errors.Is(err, repository.ErrWishlistNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "wishlist entry not found"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns the caller's wishlist joined with destination details.
func (h *WishlistHandler) List(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Repo.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	out := make([]wishlistItemResp, 0, len(items))
	for _, it := range items {
		out = append(out, wishlistItemResp{
			Entry:       toWishlistEntryResp(&it.Entry),
			Destination: toDestinationResp(&it.Destination),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func toWishlistEntryResp(e *model.WishlistEntry) wishlistEntryResp {
	return wishlistEntryResp{ID: e.ID, UserID: e.UserID, PoiID: e.PoiID, CreatedAt: e.CreatedAt}
}
