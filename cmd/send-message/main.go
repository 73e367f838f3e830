package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/lark-tools/lark-mcp-server/internal/conf"
	"github.com/lark-tools/lark-mcp-server/internal/lark"
)

// Debug CLI: sends a single text message through the same client the MCP
// server uses.
func main() {
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Println("Error: LARK_APP_ID and LARK_APP_SECRET must be set")
		os.Exit(1)
	}

	if len(os.Args) < 3 {
		fmt.Println("Usage: send-message <receive_id> <message>")
		os.Exit(1)
	}

	receiveID := os.Args[1]
	message := os.Args[2]

	httpClient := &http.Client{Timeout: cfg.Lark.HTTPTimeout}
	store := lark.NewTokenStore(cfg.Lark.TokenSafetyMargin)
	tokens := lark.NewTokenManager(cfg.Lark.AppID, cfg.Lark.AppSecret, cfg.Lark.BaseURL, httpClient, store)
	client := lark.NewClient(tokens, cfg.Lark.BaseURL, httpClient)

	res := client.SendMessage(context.Background(), lark.SendMessageArgs{
		ReceiveID: receiveID,
		Content:   message,
	})
	if !res.Success {
		if res.Code != 0 {
			fmt.Printf("Error: %s (code %d)\n", res.Error, res.Code)
		} else {
			fmt.Printf("Error: %s\n", res.Error)
		}
		os.Exit(1)
	}

	fmt.Println("Message sent successfully!")
}
