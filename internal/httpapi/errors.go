package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	goerrors "github.com/goliatone/go-errors"
	"github.com/sirupsen/logrus"
)

func statusFor(cat goerrors.Category) int {
	switch cat {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a go-errors body. Internal failures are logged
// and their message masked.
func respondError(c *gin.Context, logger logrus.FieldLogger, err error) {
	// errors kept by the store are shared; never mutate them in place
	gerr := goerrors.MapToError(err, goerrors.DefaultErrorMappers()).Clone()
	status := gerr.Code
	if status == 0 {
		status = statusFor(gerr.Category)
		gerr = gerr.WithCode(status)
	}
	if rid := requestID(c); rid != "" {
		gerr.RequestID = rid
	}

	if status >= http.StatusInternalServerError {
		logger.WithError(err).WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"status": status,
		}).Error("request failed")
	}

	c.AbortWithStatusJSON(status, gerr.ToErrorResponse(false, nil))
}

func notFound(c *gin.Context, logger logrus.FieldLogger, what, key string) {
	respondError(c, logger, goerrors.New(what+" not found: "+key, goerrors.CategoryNotFound).
		WithTextCode("CATEGORY_NOT_FOUND"))
}
