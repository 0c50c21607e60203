package httpapi

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"medirural/internal/repository"
	"medirural/internal/service"
)

func mapErrorToStatus(err error) int {
	var (
		validation *service.ValidationError
		stock      *service.StockError
		transition *service.InvalidTransitionError
		authz      *service.AuthorizationError
		authn      *service.AuthenticationError
		notFound   *service.NotFoundError
		conflict   *service.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &authn):
		return http.StatusUnauthorized
	case errors.As(err, &authz):
		return http.StatusForbidden
	case errors.As(err, &notFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &stock), errors.As(err, &transition), errors.As(err, &conflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		if hub := sentry.CurrentHub(); hub.Client() != nil {
			hub.CaptureException(err)
		}
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": err.Error()}
	var (
		validation *service.ValidationError
		stock      *service.StockError
		transition *service.InvalidTransitionError
	)
	switch {
	case errors.As(err, &validation):
		body["fields"] = validation.Fields
	case errors.As(err, &stock):
		body["medicine"] = stock.MedicineID
		body["requested"] = stock.Requested
		body["available"] = stock.Available
	case errors.As(err, &transition):
		body["current"] = transition.Current
		body["requested"] = transition.Requested
	}
	c.JSON(status, body)
}

func badJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
}
