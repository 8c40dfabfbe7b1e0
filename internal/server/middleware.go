package server

import (
	"net/http"
	"net/netip"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/buildtall-systems/bankid-mock/internal/commands"
)

// clientAddr is the peer address of the connection. Forwarding headers are
// ignored: origins group orders for operators, they are not trusted identity.
func clientAddr(c *gin.Context) netip.Addr {
	addr, err := netip.ParseAddr(c.RemoteIP())
	if err != nil {
		return netip.Addr{}
	}
	return addr.Unmap()
}

func (s *Server) adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := commands.CanExecute(clientAddr(c), s.opts.AdminAllow); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// tracing opens a server span per request. Without a registered provider the
// global tracer is a no-op.
func tracing() gin.HandlerFunc {
	tracer := otel.Tracer("github.com/buildtall-systems/bankid-mock/internal/server")
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.String("client.address", c.ClientIP()),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
