package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eduflow/campus/internal/forum"
)

const (
	headerRequestID = "X-Request-ID"
	headerUserID    = "X-User-ID"
	headerRoleID    = "X-Role-ID"

	ctxIdentity = "identity"
)

// RequestID attaches a request id to every request, generating one when
// the caller did not supply it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(headerRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// IdentityResolver turns a request into the authenticated caller. The
// platform gateway terminates authentication upstream of this service.
type IdentityResolver interface {
	Resolve(r *http.Request) (forum.Identity, error)
}

// HeaderIdentity resolves identities from gateway-injected headers.
type HeaderIdentity struct{}

// Resolve reads the user and role ids from the request headers.
func (HeaderIdentity) Resolve(r *http.Request) (forum.Identity, error) {
	userID, err := strconv.ParseInt(r.Header.Get(headerUserID), 10, 64)
	if err != nil || userID <= 0 {
		return forum.Identity{}, forum.NewError(forum.KindForbidden, "missing caller identity")
	}
	roleID, _ := strconv.ParseInt(r.Header.Get(headerRoleID), 10, 64)
	return forum.Identity{UserID: userID, RoleID: roleID}, nil
}

// Authenticated rejects requests without a resolvable identity and
// parks the identity on the context for handlers.
func Authenticated(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := resolver.Resolve(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "authentication required",
			})
			return
		}
		c.Set(ctxIdentity, identity)
		c.Next()
	}
}

// callerIdentity reads the identity parked by Authenticated.
func callerIdentity(c *gin.Context) forum.Identity {
	if v, ok := c.Get(ctxIdentity); ok {
		if identity, ok := v.(forum.Identity); ok {
			return identity
		}
	}
	return forum.Identity{}
}
