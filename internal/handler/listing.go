package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"surplus-marketplace/internal/dto"
	"surplus-marketplace/internal/middleware"
	"surplus-marketplace/internal/model"
	"surplus-marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type ListingHandler struct {
	listingService service.ListingService
	uploadDir      string
}

func NewListingHandler(listingService service.ListingService, uploadDir string) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		uploadDir:      uploadDir,
	}
}

func (h *ListingHandler) Browse(c echo.Context) error {
	ctx := c.Request().Context()

	listings, err := h.listingService.Browse(ctx, model.ListingCategory(c.QueryParam("category")))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, listings)
}

func (h *ListingHandler) GetByID(c echo.Context) error {
	ctx := c.Request().Context()

	listing, err := h.listingService.GetByID(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, listing)
}

func (h *ListingHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	var req dto.ListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid listing data")
	}

	image, err := h.saveImage(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image upload failed")
	}

	listing, err := h.listingService.Create(ctx, ident.ID, &service.ListingInput{
		Title:           req.Title,
		Description:     req.Description,
		Category:        model.ListingCategory(req.Category),
		OriginalPrice:   req.OriginalPrice,
		DiscountedPrice: req.DiscountedPrice,
		Quantity:        req.Quantity,
		PickupStart:     req.PickupStart,
		PickupEnd:       req.PickupEnd,
		Image:           image,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, listing)
}

func (h *ListingHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	var req dto.ListingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid listing data")
	}

	image, err := h.saveImage(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "image upload failed")
	}

	listing, err := h.listingService.Update(ctx, ident.ID, c.Param("id"), &service.ListingInput{
		Title:           req.Title,
		Description:     req.Description,
		Category:        model.ListingCategory(req.Category),
		OriginalPrice:   req.OriginalPrice,
		DiscountedPrice: req.DiscountedPrice,
		Quantity:        req.Quantity,
		PickupStart:     req.PickupStart,
		PickupEnd:       req.PickupEnd,
		Image:           image,
	})
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, listing)
}

func (h *ListingHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	ident := middleware.IdentityFrom(c)

	if err := h.listingService.Delete(ctx, ident.ID, c.Param("id")); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, &dto.MessageResponse{Message: "Listing removed"})
}

// saveImage stores an optional multipart "image" part under the upload dir
// and returns its served path. A JSON request simply has no file.
func (h *ListingHandler) saveImage(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("listing-%d%s", time.Now().UnixNano(), filepath.Ext(file.Filename))
	if err := writeUpload(src, filepath.Join(h.uploadDir, name)); err != nil {
		return "", err
	}

	return filepath.ToSlash(filepath.Join("uploads", name)), nil
}

func writeUpload(src multipart.File, path string) error {
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
