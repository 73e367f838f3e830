package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lark-tools/lark-mcp-server/internal/conf"
	"github.com/lark-tools/lark-mcp-server/internal/lark"
	"github.com/lark-tools/lark-mcp-server/internal/mcpserver"
)

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		cancel()
	}()

	fmt.Println("Starting Lark MCP server (stdio)...")
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
