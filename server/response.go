package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/voicekit/errors"
	"github.com/kbukum/voicekit/logger"
)

// DataResponse wraps every successful body as {"data": ..., "meta": ...}.
type DataResponse struct {
	Data any `json:"data"`
	// Meta is omitted unless the handler pages its result.
	Meta any `json:"meta,omitempty"`
}

// RespondWithError writes err as the error envelope. Anything that is not
// an *apperrors.AppError is logged and becomes a 500 INTERNAL_ERROR; its
// text stays out of the body.
func RespondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		ctx := context.Background()
		if c.Request != nil {
			ctx = c.Request.Context()
		}
		logger.Default().WithContext(ctx).WithError(err).
			Error("Unhandled error", logger.Fields("path", c.FullPath()))
		appErr = apperrors.Internal(err)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK writes 200 with data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// RespondOKWithMeta writes 200 with data and paging metadata.
func RespondOKWithMeta(c *gin.Context, data, meta any) {
	c.JSON(http.StatusOK, DataResponse{Data: data, Meta: meta})
}

// RespondCreated writes 201 with the stored row.
func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, DataResponse{Data: data})
}

// RespondNoContent writes 204 after a delete.
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
