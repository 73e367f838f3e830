package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/lark-tools/lark-mcp-server/internal/conf"
	"github.com/lark-tools/lark-mcp-server/internal/lark"
	"github.com/lark-tools/lark-mcp-server/internal/mcpserver"
	"github.com/lark-tools/lark-mcp-server/internal/server"
)

// HTTP-hosted entry point. Serves the same MCP tools as the stdio binary
// plus status and health endpoints for deployment monitoring.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	httpClient := &http.Client{Timeout: cfg.Lark.HTTPTimeout}
	store := lark.NewTokenStore(cfg.Lark.TokenSafetyMargin)
	tokens := lark.NewTokenManager(cfg.Lark.AppID, cfg.Lark.AppSecret, cfg.Lark.BaseURL, httpClient, store)
	client := lark.NewClient(tokens, cfg.Lark.BaseURL, httpClient)

	srv := mcpserver.NewServer(client)
	httpSrv := server.New(tokens, srv.Handler())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("Starting Lark MCP server on %s...\n", addr)
	if err := httpSrv.Run(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
