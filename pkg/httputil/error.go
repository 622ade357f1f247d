package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/pocketledger/client/internal/types"
	"github.com/pocketledger/client/pkg/failure"
	"github.com/pocketledger/client/pkg/models"
	"github.com/pocketledger/client/pkg/preferences"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

var (
	ErrRequestBodyEmpty = errors.New("the request body must not be empty")
	ErrInvalidBody      = errors.New("the body of your request contains invalid or un-parseable data. Please check and try again")
	ErrInvalidUUID      = errors.New("the specified resource ID is not a valid UUID")
	ErrInvalidQuery     = errors.New("the query string contains unparseable data. Please check the values")
)

// HTTPError is used for error responses that contain a body.
type HTTPError struct {
	Error string `json:"error" example:"the specified resource ID is not a valid UUID"`
	Kind  string `json:"kind,omitempty" example:"no_connectivity"` // Failure kind if the finance server could not be used
}

// Status returns the HTTP status for err.
//
// Failures of the finance server are reported as gateway errors, except
// when the server did not find the resource. Unknown failures come from
// the local cache.
func Status(err error) int {
	var f *failure.Error
	if errors.As(err, &f) {
		switch f.Kind {
		case failure.NoConnectivity:
			return http.StatusServiceUnavailable
		case failure.Timeout:
			return http.StatusGatewayTimeout
		case failure.Unknown:
			return http.StatusInternalServerError
		case failure.ClientError:
			if f.Status == http.StatusNotFound {
				return http.StatusNotFound
			}
		}
		return http.StatusBadGateway
	}

	switch {
	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrCategoryUnknown),
		errors.Is(err, ErrRequestBodyEmpty),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrInvalidUUID),
		errors.Is(err, ErrInvalidQuery),
		errors.Is(err, types.ErrPeriodReversed),
		errors.Is(err, preferences.ErrInvalidLanguage),
		errors.Is(err, preferences.ErrInvalidTheme):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// Response returns the error body for err. Failures of the finance server
// get the message for the language, internal errors a generic message with
// the request ID.
func Response(c *gin.Context, err error, tag language.Tag) (int, HTTPError) {
	status := Status(err)

	var f *failure.Error
	if errors.As(err, &f) {
		log.Warn().Str("request-id", requestid.Get(c)).Err(err).Msg("finance server request failed")
		return status, HTTPError{Error: failure.Message(err, tag), Kind: f.Kind.String()}
	}

	if status == http.StatusInternalServerError {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		return status, HTTPError{Error: "an error occurred on the server during your request, please check the logs. The request id is '" + requestid.Get(c) + "'"}
	}

	return status, HTTPError{Error: err.Error()}
}

// ErrorHandler writes the error response for err and aborts the request.
func ErrorHandler(c *gin.Context, err error, tag language.Tag) {
	status, body := Response(c, err, tag)
	c.AbortWithStatusJSON(status, body)
}
