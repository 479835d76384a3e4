package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"startupconnect/pkg/policy"
	"startupconnect/pkg/response"
)

const actorKey = "auth.actor"

// RequireAuth rejects requests without a valid bearer token and stores the
// resolved actor on the context.
func RequireAuth(issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c.GetHeader("Authorization"))
		if tokenStr == "" {
			response.SendAPIResponse(c, http.StatusUnauthorized, false, "authorization header required", nil)
			c.Abort()
			return
		}

		actor, err := issuer.Parse(tokenStr)
		if err != nil {
			response.SendAPIResponse(c, http.StatusUnauthorized, false, err.Error(), nil)
			c.Abort()
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...policy.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		response.SendAPIResponse(c, http.StatusForbidden, false, "insufficient role", nil)
		c.Abort()
	}
}

// ActorFrom returns the actor stored by RequireAuth, or the zero Actor.
func ActorFrom(c *gin.Context) policy.Actor {
	v, ok := c.Get(actorKey)
	if !ok {
		return policy.Actor{}
	}
	actor, _ := v.(policy.Actor)
	return actor
}

// SetActor is used by tests to bypass token parsing.
func SetActor(c *gin.Context, actor policy.Actor) {
	c.Set(actorKey, actor)
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
