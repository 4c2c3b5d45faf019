package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"utilityapi/internal/service"
)

// allowedImageTypes are the upload content types the image tools accept.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// ImageHandler handles the image tool endpoints, all behind the
// authorization gate.
type ImageHandler struct {
	images *service.ImageService
}

// NewImageHandler creates a new image handler.
func NewImageHandler(images *service.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// Resize godoc
// @Summary Resize an image to the given dimensions
// @Tags images
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce octet-stream
// @Param file formData file true "Image to resize"
// @Param width query int false "Target width" default(400)
// @Param height query int false "Target height" default(400)
// @Param quality query int false "JPEG quality 1-100" default(80)
// @Success 200 {file} binary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tools/images/resize [post]
func (h *ImageHandler) Resize(c echo.Context) error {
	width := intQueryParam(c, "width", 400)
	height := intQueryParam(c, "height", 400)
	quality := intQueryParam(c, "quality", 80)
	if width < 1 || height < 1 || quality < 1 || quality > 100 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resize parameters")
	}

	fileHeader, contentType, f, err := openImageUpload(c)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := h.images.Resize(f, contentType, width, height, quality)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Image processing failed")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=resized-%s", fileHeader.Filename))
	return c.Blob(http.StatusOK, contentType, data)
}

// Upscale godoc
// @Summary Increase image dimensions by a scale factor
// @Tags images
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce octet-stream
// @Param file formData file true "Image to upscale"
// @Param scale_factor query number false "Scale factor" default(2.0)
// @Success 200 {file} binary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tools/images/upscale [post]
func (h *ImageHandler) Upscale(c echo.Context) error {
	factor := floatQueryParam(c, "scale_factor", 2.0)
	if factor <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "scale_factor must be positive")
	}

	fileHeader, contentType, f, err := openImageUpload(c)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := h.images.Upscale(f, contentType, factor)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Image upscaling failed")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=upscaled-%s", fileHeader.Filename))
	return c.Blob(http.StatusOK, contentType, data)
}

// openImageUpload validates and opens the multipart image upload. The caller
// owns the returned reader.
func openImageUpload(c echo.Context) (*multipart.FileHeader, string, multipart.File, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", nil, echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	contentType := fileHeader.Header.Get(echo.HeaderContentType)
	if !allowedImageTypes[contentType] {
		return nil, "", nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid image format.")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", nil, echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}
	return fileHeader, contentType, f, nil
}

func intQueryParam(c echo.Context, name string, def int) int {
	if raw := c.QueryParam(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return def
}

func floatQueryParam(c echo.Context, name string, def float64) float64 {
	if raw := c.QueryParam(name); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return def
}
