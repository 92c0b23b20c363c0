// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"pdv/internal/core/apperror"
	"pdv/pkg/logger"
)

// Recovery turns a handler panic into a 500 response. The stack is logged
// with the route and the caller's ids; the client only gets the request id.
// Register it after Trace and before Auth so both contexts reach the log.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			// c.Request carries whatever Trace and Auth attached before the panic.
			log := logger.FromContext(c.Request.Context()).With(
				"method", c.Request.Method,
				"route", c.FullPath(),
				"client_ip", c.ClientIP(),
			)
			if _, traced := c.Get("trace_id"); !traced {
				log = log.With("request_id", c.GetString("request_id"))
			}
			log.Errorw("panic recovered",
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			_ = c.Error(apperror.NewInternal(fmt.Errorf("panic in %s %s: %v", c.Request.Method, c.FullPath(), rec)).
				WithDetail("request_id", c.GetString("request_id")))
			c.Abort()
		}()
		c.Next()
	}
}
