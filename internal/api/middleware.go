package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kovalyov-valentin/trendwise/internal/auth"
	"github.com/kovalyov-valentin/trendwise/internal/model"
)

const identityKey = "identity"

// requireIdentity пропускает запрос дальше только с валидным bearer токеном
func requireIdentity(verifier IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			respondError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		identity, err := verifier.Verify(auth.BearerToken(c.GetHeader("Authorization")))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func identityFrom(c *gin.Context) model.Identity {
	v, _ := c.Get(identityKey)
	identity, _ := v.(model.Identity)
	return identity
}
