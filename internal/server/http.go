package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lark-tools/lark-mcp-server/internal/lark"
)

// ServiceName and Version identify this server in status responses
const (
	ServiceName = "lark-mcp-server"
	Version     = "1.0.0"
)

// HTTPServer is the HTTP hosting shell: a status endpoint, a health endpoint
// for deployment monitoring, and the MCP transport mounted under /mcp.
type HTTPServer struct {
	router    *gin.Engine
	tokens    *lark.TokenManager
	startTime time.Time
}

// New creates the HTTP hosting shell. mcpHandler serves the MCP protocol
// framing and may be nil in tests.
func New(tokens *lark.TokenManager, mcpHandler http.Handler) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &HTTPServer{
		router:    router,
		tokens:    tokens,
		startTime: time.Now(),
	}

	router.GET("/", s.root)
	router.GET("/health", s.healthCheck)
	if mcpHandler != nil {
		router.Any("/mcp", gin.WrapH(mcpHandler))
	}

	return s
}

// Run starts the HTTP server on the given address (blocking)
func (s *HTTPServer) Run(addr string) error {
	return s.router.Run(addr)
}

// ServeHTTP makes the server usable with httptest
func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// root reports the service identity and available endpoints
func (s *HTTPServer) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": ServiceName,
		"status":  "running",
		"version": Version,
		"endpoints": gin.H{
			"health": "/health",
			"mcp":    "/mcp",
		},
	})
}

// healthCheck reports token manager state and configuration presence
// (without exposing values) for deployment monitoring
func (s *HTTPServer) healthCheck(c *gin.Context) {
	managerStatus := "not_initialized"
	if s.tokens != nil {
		managerStatus = "initialized"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"timestamp":     time.Now().Format(time.RFC3339),
		"uptime":        time.Since(s.startTime).String(),
		"token_manager": managerStatus,
		"environment_variables": gin.H{
			"lark_app_id_set":     os.Getenv("LARK_APP_ID") != "",
			"lark_app_secret_set": os.Getenv("LARK_APP_SECRET") != "",
		},
		"service": ServiceName,
		"version": Version,
	})
}
