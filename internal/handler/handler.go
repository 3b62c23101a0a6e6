package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/brightsmile/scheduling-api/internal/clinic"
	"github.com/brightsmile/scheduling-api/pkg/errors"
)

// ContextCredentials is the gin context key the auth middleware stores the
// request-scoped credential provider under.
const ContextCredentials = "credentials"

// Credentials pulls the injected credential provider out of the request
// context. Missing credentials mean the auth middleware did not run or the
// request carried no token.
func Credentials(c *gin.Context) (clinic.CredentialProvider, error) {
	v, ok := c.Get(ContextCredentials)
	if !ok {
		return nil, errors.Unauthorized(nil)
	}
	creds, ok := v.(clinic.CredentialProvider)
	if !ok {
		return nil, errors.Unauthorized(nil)
	}
	return creds, nil
}
