// Package transport exposes the dispatcher over HTTP and websocket. Both
// entry points share the envelope codec; the transport decodes, dispatches
// and encodes, nothing more.
package transport

import (
	"io"
	"net"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"matchmaking/dispatch"
	"matchmaking/message"
)

// Server wires the dispatcher into a gin engine.
type Server struct {
	dispatcher *dispatch.Dispatcher
	engine     *gin.Engine
}

func NewServer(dispatcher *dispatch.Dispatcher, allowedOrigins []string) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	if len(allowedOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowCredentials: true,
			AllowHeaders:     []string{"Content-Type", "Origin"},
		}))
	}

	s := &Server{dispatcher: dispatcher, engine: engine}

	engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.POST("/v1/messages", s.handleMessage)
	engine.GET("/v1/socket", s.handleSocket)

	return s
}

// Engine exposes the router for tests and for custom http.Server setups.
func (s *Server) Engine() *gin.Engine { return s.engine }

// handleMessage is the request/response entry point. Every outcome, error or
// not, is an envelope; the HTTP status mirrors the envelope's status field.
func (s *Server) handleMessage(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	req, err := message.DecodeRequest(body)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ipv4, ipv6 := clientAddresses(ctx.ClientIP())
	resp := s.dispatcher.DispatchOrCreateError(ctx.Request.Context(), req, ipv4, ipv6, nil)
	ctx.JSON(resp.Status(), resp)
}

// clientAddresses splits one remote address into its v4 and v6 views; one of
// the two is nil.
func clientAddresses(remote string) (ipv4, ipv6 net.IP) {
	ip := net.ParseIP(remote)
	if ip == nil {
		return nil, nil
	}
	if v4 := ip.To4(); v4 != nil {
		return v4, nil
	}
	return nil, ip
}
