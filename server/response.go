package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/discovery/errors"
	"github.com/kbukum/discovery/logger"
)

// RespondWithError writes err as a structured error body tagged with the
// request id. AppErrors carry their own status; anything else becomes a
// 500 without the cause.
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	body := appErr.ToResponse()
	body.Error.RequestID = logger.RequestIDFromContext(c.Request.Context())
	c.JSON(appErr.HTTPStatus, body)
}

// RespondOK writes body as JSON with status 200.
func RespondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// RespondText writes a plain text 200 response.
func RespondText(c *gin.Context, body string) {
	c.String(http.StatusOK, body)
}
