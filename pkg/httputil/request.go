package httputil

import (
	"errors"
	"io"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ContextURL is the gin context key holding the base URL of the local API.
const ContextURL = "baseURL"

// BindData decodes the JSON body of the request into data.
//
// An empty body is ErrRequestBodyEmpty. Any other decoding failure, including
// amounts that are not decimals, is ErrInvalidBody joined with its cause.
func BindData(c *gin.Context, data any) error {
	err := c.ShouldBindJSON(data)
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) {
		return ErrRequestBodyEmpty
	}

	log.Debug().Str("request-id", requestid.Get(c)).Err(err).Msg("invalid request body")
	return errors.Join(ErrInvalidBody, err)
}

// UUIDFromString parses a transaction's local ID from a path parameter.
func UUIDFromString(s string) (uuid.UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return u, nil
}
