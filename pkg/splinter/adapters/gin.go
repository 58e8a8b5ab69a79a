package adapters

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toyz/splinter/pkg/splinter"
)

// Gin returns a middleware opening a request scope. The scope binds *http.Request and
// *gin.Context and is closed once the handler chain returns. An injection failure in
// the chain aborts the request with a 500.
func (r *RequestScope) Gin() gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := r.open()
		defer scope.Close()

		splinter.BindInstance(scope, "", c.Request)
		splinter.BindInstance(scope, "", c)
		c.Set(scopeKey, scope)

		if err := splinter.Capture(c.Next); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
	}
}

// GinScope returns the request scope opened for c, or nil
func GinScope(c *gin.Context) *splinter.ScopeNode {
	value, ok := c.Get(scopeKey)
	if !ok {
		return nil
	}
	scope, _ := value.(*splinter.ScopeNode)
	return scope
}
