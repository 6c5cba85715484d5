package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/threadlog/internal/service"
)

const actorContextKey = "__actor"

// ActorResolver materializes the acting user from the session the
// surrounding platform writes (actor_id plus a comma-separated
// capability list). The X-Actor-ID / X-Actor-Capabilities headers are a
// fallback for internal callers behind the platform gateway; the engine
// itself never authenticates anyone.
func ActorResolver() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, ok := actorFromSession(c); ok {
			c.Set(actorContextKey, actor)
		} else if actor, ok := actorFromHeaders(c); ok {
			c.Set(actorContextKey, actor)
		}
		c.Next()
	}
}

func actorFromSession(c *gin.Context) (service.Actor, bool) {
	session := sessions.Default(c)
	rawID := session.Get("actor_id")
	if rawID == nil {
		return service.Actor{}, false
	}

	var id uint
	switch v := rawID.(type) {
	case uint:
		id = v
	case int:
		id = uint(v)
	case int64:
		id = uint(v)
	default:
		return service.Actor{}, false
	}

	caps, _ := session.Get("actor_caps").(string)
	return service.Actor{ID: id, Capabilities: parseCapabilities(caps)}, true
}

func actorFromHeaders(c *gin.Context) (service.Actor, bool) {
	raw := strings.TrimSpace(c.GetHeader("X-Actor-ID"))
	if raw == "" {
		return service.Actor{}, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return service.Actor{}, false
	}
	return service.Actor{
		ID:           uint(id),
		Capabilities: parseCapabilities(c.GetHeader("X-Actor-Capabilities")),
	}, true
}

func parseCapabilities(raw string) []service.Capability {
	var caps []service.Capability
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			caps = append(caps, service.Capability(entry))
		}
	}
	return caps
}

// RequireActor rejects requests that carry no resolved actor.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(actorContextKey); !exists {
			respondError(c, http.StatusUnauthorized, "actor required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentActor returns the resolved actor; the zero actor stands for an
// anonymous reader on public routes.
func currentActor(c *gin.Context) service.Actor {
	if raw, exists := c.Get(actorContextKey); exists {
		if actor, ok := raw.(service.Actor); ok {
			return actor
		}
	}
	return service.Actor{}
}
