package middleware

import (
	"github.com/gin-gonic/gin"

	"freight/internal/domain"
)

const actorContextKey = "actor"

// ActorMiddleware resolves the acting user from request headers and stores it
// in the request context. Authentication itself happens upstream; this layer
// only carries the identity so operations never read ambient session state.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := domain.Actor{
			UserID:   c.GetHeader("X-User-ID"),
			Role:     domain.Role(c.GetHeader("X-User-Role")),
			BranchID: c.GetHeader("X-Branch-ID"),
		}

		if actor.UserID == "" {
			actor.UserID = "anonymous"
		}
		if actor.Role == "" {
			actor.Role = domain.RoleOperator
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// ActorFromContext returns the actor stored by ActorMiddleware.
func ActorFromContext(c *gin.Context) domain.Actor {
	if v, ok := c.Get(actorContextKey); ok {
		if actor, ok := v.(domain.Actor); ok {
			return actor
		}
	}
	return domain.Actor{UserID: "anonymous", Role: domain.RoleOperator}
}
