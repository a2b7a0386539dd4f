package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petshare-backend-go/internal/core"
	"petshare-backend-go/internal/middleware"
)

const (
	uploadFailedMessage = "Image upload failed. Your post was not created."
	postFailedMessage   = "Something went wrong while creating your post."
)

// PostHandler handles post submission endpoints.
type PostHandler struct {
	postService core.PostService
	logger      *zap.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService core.PostService, logger *zap.Logger) *PostHandler {
	return &PostHandler{postService: postService, logger: logger}
}

// Create handles POST /api/v1/posts. The request is multipart form data
// with an "image" file and a "caption" field. Validation errors come back
// as 400 before any upstream call is made; an image-host failure is 502 and
// a store failure 500, both with generic messages.
func (h *PostHandler) Create(c *gin.Context) {
	session := middleware.SessionFromContext(c)
	if !session.Authenticated() {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	req := core.SubmitRequest{
		Caption: c.PostForm("caption"),
	}

	fileHeader, err := c.FormFile("image")
	if err == nil && fileHeader != nil {
		file, openErr := fileHeader.Open()
		if openErr != nil {
			h.logger.Warn("Failed to open uploaded image", zap.Error(openErr))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "The selected image could not be read."})
			return
		}
		defer file.Close()
		req.Filename = fileHeader.Filename
		req.Image = io.Reader(file)
	}

	post, err := h.postService.Submit(c.Request.Context(), session, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrMissingImage), errors.Is(err, core.ErrEmptyCaption):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, core.ErrSubmissionInFlight):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, core.ErrUploadFailed):
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: uploadFailedMessage})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: postFailedMessage})
		}
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{Message: "Post created", Data: post})
}
