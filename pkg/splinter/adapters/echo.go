package adapters

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/toyz/splinter/pkg/splinter"
)

// Echo returns a middleware opening a request scope. The scope binds *http.Request and
// echo.Context and is closed once the handler returns.
func (r *RequestScope) Echo() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scope := r.open()
			defer scope.Close()

			splinter.BindInstance(scope, "", c.Request())
			splinter.BindInstance[echo.Context](scope, "", c)
			c.Set(scopeKey, scope)

			var handlerErr error
			if err := splinter.Capture(func() { handlerErr = next(c) }); err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
			}
			return handlerErr
		}
	}
}

// EchoScope returns the request scope opened for c, or nil
func EchoScope(c echo.Context) *splinter.ScopeNode {
	scope, _ := c.Get(scopeKey).(*splinter.ScopeNode)
	return scope
}
