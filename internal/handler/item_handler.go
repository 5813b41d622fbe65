package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"lostfound/internal/errors"
	"lostfound/internal/logging"
	"lostfound/internal/model"
	"lostfound/internal/service"
	"lostfound/internal/storage"
)

// ItemHandler handles catalog endpoints.
type ItemHandler struct {
	itemService service.ItemService
	images      storage.ImageStore
	logger      logging.Logger
}

// NewItemHandler creates a new item handler.
func NewItemHandler(itemService service.ItemService, images storage.ImageStore, logger logging.Logger) *ItemHandler {
	return &ItemHandler{itemService: itemService, images: images, logger: logger}
}

// LostItemRequest is the multipart form of a new lost listing.
type LostItemRequest struct {
	Title       string `form:"title" validate:"required,max=100"`
	Description string `form:"description" validate:"required"`
	Category    string `form:"category" validate:"omitempty,max=50"`
	Location    string `form:"location" validate:"omitempty,max=200"`
}

// FoundItemRequest is the multipart form of a new found listing.
type FoundItemRequest struct {
	Title       string `form:"title" validate:"required,max=100"`
	Description string `form:"description" validate:"required"`
}

// LostItemResponse is a lost listing with a resolvable image URL.
type LostItemResponse struct {
	*model.LostItem
	ImageURL string `json:"image_url"`
}

// FoundItemResponse is a found listing with a resolvable image URL.
type FoundItemResponse struct {
	*model.FoundItem
	ImageURL string `json:"image_url"`
}

func (h *ItemHandler) imageURL(ctx context.Context, key string) string {
	url, err := h.images.URL(ctx, key)
	if err != nil {
		h.logger.Warn(ctx, "resolve image url", "key", key, "error", err)
		return ""
	}
	return url
}

func (h *ItemHandler) lostResponse(ctx context.Context, item *model.LostItem) LostItemResponse {
	return LostItemResponse{LostItem: item, ImageURL: h.imageURL(ctx, item.Image)}
}

func (h *ItemHandler) foundResponse(ctx context.Context, item *model.FoundItem) FoundItemResponse {
	return FoundItemResponse{FoundItem: item, ImageURL: h.imageURL(ctx, item.Image)}
}

// uploadImage stores the "image" form file and returns its key.
func (h *ItemHandler) uploadImage(c echo.Context, kind model.ItemKind, userID uint) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil || fh.Filename == "" || fh.Size == 0 {
		return "", fail(errors.ErrImageRequired)
	}
	src, err := fh.Open()
	if err != nil {
		return "", badRequest("unreadable image", "INVALID_IMAGE")
	}
	defer src.Close()

	ctx := c.Request().Context()
	key := storage.NewKey(string(kind), userID, fh.Filename)
	if err := h.images.Put(ctx, key, fh.Header.Get(echo.HeaderContentType), src, fh.Size); err != nil {
		h.logger.Error(ctx, "store image", "key", key, "error", err)
		return "", echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
			Error: "failed to store image",
			Code:  "IMAGE_STORE_FAILED",
		})
	}
	return key, nil
}

// discardImage removes an uploaded image whose listing was not created.
func (h *ItemHandler) discardImage(ctx context.Context, key string) {
	if err := h.images.Delete(ctx, key); err != nil {
		h.logger.Warn(ctx, "discard orphan image", "key", key, "error", err)
	}
}

// CreateLost godoc
// @Summary Post a lost item
// @Tags items
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param category formData string false "Category"
// @Param location formData string false "Location"
// @Param image formData file true "Image"
// @Success 201 {object} LostItemResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /items/lost [post]
func (h *ItemHandler) CreateLost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req LostItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	key, err := h.uploadImage(c, model.ItemKindLost, userID)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	item, err := h.itemService.CreateLost(ctx, service.LostItemInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		ImageRef:    key,
	})
	if err != nil {
		h.discardImage(ctx, key)
		return fail(err)
	}

	h.logger.Info(ctx, "lost item posted", "item_id", item.ID, "user_id", userID)
	return c.JSON(http.StatusCreated, h.lostResponse(ctx, item))
}

// CreateFound godoc
// @Summary Post a found item
// @Tags items
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param image formData file true "Image"
// @Success 201 {object} FoundItemResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /items/found [post]
func (h *ItemHandler) CreateFound(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req FoundItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	key, err := h.uploadImage(c, model.ItemKindFound, userID)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	item, err := h.itemService.CreateFound(ctx, service.FoundItemInput{
		Title:       req.Title,
		Description: req.Description,
		ImageRef:    key,
	})
	if err != nil {
		h.discardImage(ctx, key)
		return fail(err)
	}

	h.logger.Info(ctx, "found item posted", "item_id", item.ID, "user_id", userID)
	return c.JSON(http.StatusCreated, h.foundResponse(ctx, item))
}

// ListLost godoc
// @Summary List lost items, newest first
// @Tags items
// @Produce json
// @Success 200 {array} LostItemResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /items/lost [get]
func (h *ItemHandler) ListLost(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.itemService.ListLost(ctx)
	if err != nil {
		return fail(err)
	}
	out := make([]LostItemResponse, 0, len(items))
	for i := range items {
		out = append(out, h.lostResponse(ctx, &items[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// ListFound godoc
// @Summary List found items, newest first
// @Tags items
// @Produce json
// @Success 200 {array} FoundItemResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /items/found [get]
func (h *ItemHandler) ListFound(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.itemService.ListFound(ctx)
	if err != nil {
		return fail(err)
	}
	out := make([]FoundItemResponse, 0, len(items))
	for i := range items {
		out = append(out, h.foundResponse(ctx, &items[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get godoc
// @Summary Get a lost or found item
// @Tags items
// @Produce json
// @Param kind path string true "Item kind" Enums(lost, found)
// @Param id path int true "Item ID"
// @Success 200 {object} LostItemResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /items/{kind}/{id} [get]
func (h *ItemHandler) Get(c echo.Context) error {
	ref, err := parseItemRef(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	item, err := h.itemService.Get(ctx, ref)
	if err != nil {
		return fail(err)
	}
	switch it := item.(type) {
	case *model.LostItem:
		return c.JSON(http.StatusOK, h.lostResponse(ctx, it))
	case *model.FoundItem:
		return c.JSON(http.StatusOK, h.foundResponse(ctx, it))
	default:
		return fail(errors.ErrItemNotFound)
	}
}
