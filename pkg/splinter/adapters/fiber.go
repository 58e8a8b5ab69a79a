package adapters

import (
	"github.com/gofiber/fiber/v2"

	"github.com/toyz/splinter/pkg/splinter"
)

// Fiber returns a handler opening a request scope. The scope binds *fiber.Ctx, which
// fiber recycles after the request, so request scoped classes must not keep it.
func (r *RequestScope) Fiber() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope := r.open()
		defer scope.Close()

		splinter.BindInstance(scope, "", c)
		c.Locals(scopeKey, scope)

		var handlerErr error
		if err := splinter.Capture(func() { handlerErr = c.Next() }); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return handlerErr
	}
}

// FiberScope returns the request scope opened for c, or nil
func FiberScope(c *fiber.Ctx) *splinter.ScopeNode {
	scope, _ := c.Locals(scopeKey).(*splinter.ScopeNode)
	return scope
}
