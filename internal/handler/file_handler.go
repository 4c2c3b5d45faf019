package handler

import (
	"encoding/base64"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"utilityapi/internal/auth"
	"utilityapi/internal/model"
)

// FileHandler handles the base64 file tools. Both routes sit behind the
// authorization gate.
type FileHandler struct{}

// NewFileHandler creates a new file handler.
func NewFileHandler() *FileHandler {
	return &FileHandler{}
}

// UserInfo echoes the non-sensitive identity fields of the caller.
type UserInfo struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	IsActive   bool      `json:"is_active"`
	AuthMethod string    `json:"auth_method"`
}

func userInfo(u *model.User) UserInfo {
	return UserInfo{
		ID:         u.ID,
		Email:      u.Email,
		IsActive:   u.IsActive,
		AuthMethod: u.AuthMethod,
	}
}

// ToBase64Response is the encoded-file body.
type ToBase64Response struct {
	Filename     string   `json:"filename"`
	Base64String string   `json:"base64_string"`
	User         UserInfo `json:"user"`
}

// FromBase64Request carries a base64 payload to decode.
type FromBase64Request struct {
	Base64String string `json:"base64_string" validate:"required"`
}

// FromBase64Response reports the decoded size.
type FromBase64Response struct {
	Message       string `json:"message"`
	FileSizeBytes int    `json:"file_size_bytes"`
}

// ToBase64 godoc
// @Summary Convert an uploaded file to a Base64 string
// @Tags files
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to encode"
// @Success 200 {object} ToBase64Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /tools/files/to-base64 [post]
func (h *FileHandler) ToBase64(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authentication credentials")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}
	defer f.Close()

	contents, err := io.ReadAll(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
	}

	return c.JSON(http.StatusOK, ToBase64Response{
		Filename:     fileHeader.Filename,
		Base64String: base64.StdEncoding.EncodeToString(contents),
		User:         userInfo(user),
	})
}

// FromBase64 godoc
// @Summary Decode a Base64 string to raw bytes
// @Tags files
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body FromBase64Request true "Base64 payload"
// @Success 200 {object} FromBase64Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /tools/files/from-base64 [post]
func (h *FileHandler) FromBase64(c echo.Context) error {
	var req FromBase64Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	decoded, err := base64.StdEncoding.DecodeString(req.Base64String)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid Base64 string")
	}

	return c.JSON(http.StatusOK, FromBase64Response{
		Message:       "Base64 decoded successfully",
		FileSizeBytes: len(decoded),
	})
}
