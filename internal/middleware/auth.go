package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medops/clinic-api/internal/model"
	"github.com/medops/clinic-api/pkg/auth"
	apperrors "github.com/medops/clinic-api/pkg/errors"
)

const ContextActor = "actor"

// Auth extracts the acting identity from the bearer token and stores it as
// a model.Actor for handlers. Every write to a reservation records this
// identity in the event log.
func Auth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(401, ErrorResponse{
				Code:    int(apperrors.ErrUnauthorized),
				Message: "missing bearer token",
				TraceID: c.GetString(ContextRequestID),
			})
			return
		}

		claims, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(401, ErrorResponse{
				Code:    int(apperrors.ErrUnauthorized),
				Message: "invalid token",
				TraceID: c.GetString(ContextRequestID),
			})
			return
		}

		c.Set(ContextActor, &model.Actor{
			UserID:     claims.UserID,
			HospitalID: claims.HospitalID,
			AdminID:    claims.AdminID,
			Name:       claims.Name,
		})
		c.Next()
	}
}

// ActorFrom returns the authenticated actor stored by Auth.
func ActorFrom(c *gin.Context) (*model.Actor, bool) {
	v, ok := c.Get(ContextActor)
	if !ok {
		return nil, false
	}
	actor, ok := v.(*model.Actor)
	return actor, ok
}
