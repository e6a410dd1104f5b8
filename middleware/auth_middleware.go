package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/eventbackend/models"
	"github.com/princinho/eventbackend/validation"
)

const credentialKey = "credential"

// UserAuth admits requests whose Authorization header is {"token": <credential id>}
// naming a live user credential.
func UserAuth(credentials validation.CredentialValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential, ok := credentials.UserCredentialHeader(c.Request.Context(), c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Credential was invalid"})
			return
		}

		c.Set(credentialKey, credential)
		c.Next()
	}
}

// AdminAuth admits requests whose Authorization header is an administrator login.
func AdminAuth(credentials validation.CredentialValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !credentials.AdminLoginHeader(c.Request.Context(), c.GetHeader("Authorization")) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin login"})
			return
		}
		c.Next()
	}
}

// CurrentCredential returns the credential stored by UserAuth.
func CurrentCredential(c *gin.Context) (*models.Credential, bool) {
	value, ok := c.Get(credentialKey)
	if !ok {
		return nil, false
	}
	credential, ok := value.(*models.Credential)
	return credential, ok && credential != nil
}
