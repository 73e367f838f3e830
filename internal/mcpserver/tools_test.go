package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lark-tools/lark-mcp-server/internal/lark"
)

// newTestServer wires a LarkMCPServer against an in-process fake vendor.
// Tests register the business endpoints they need on the returned mux.
func newTestServer(t *testing.T) (*LarkMCPServer, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v3/tenant_access_token/internal", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code":                0,
			"tenant_access_token": "TEST-TOKEN",
			"expire":              7200,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	store := lark.NewTokenStore(300 * time.Second)
	tokens := lark.NewTokenManager("id", "secret", srv.URL, srv.Client(), store)
	client := lark.NewClient(tokens, srv.URL, srv.Client())
	return NewServer(client), mux
}

func TestHandleSendMessageSuccess(t *testing.T) {
	s, mux := newTestServer(t)
	mux.HandleFunc("/im/v1/messages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{"message_id": "om_1"},
		})
	})

	_, out, err := s.handleSendMessage(context.Background(), nil, SendMessageInput{
		ReceiveID: "oc_123",
		Content:   "hi",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !out.Success {
		t.Fatalf("Expected success, got error: %s", out.Error)
	}
	if out.MessageID != "om_1" {
		t.Errorf("Expected message_id om_1, got %q", out.MessageID)
	}
	if out.Error != "" {
		t.Error("Success output must not carry an error")
	}
	if out.Data["message_id"] != "om_1" {
		t.Errorf("Raw data missing: %v", out.Data)
	}
}

func TestHandleSendMessageFailureShape(t *testing.T) {
	s, mux := newTestServer(t)
	mux.HandleFunc("/im/v1/messages", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code": 230002,
			"msg":  "bot not in chat",
		})
	})

	_, out, err := s.handleSendMessage(context.Background(), nil, SendMessageInput{
		ReceiveID: "oc_123",
		Content:   "hi",
	})
	if err != nil {
		t.Fatalf("Tool handlers must not return Go errors for vendor failures, got %v", err)
	}
	if out.Success {
		t.Fatal("Expected failure")
	}
	if out.Error != "bot not in chat" {
		t.Errorf("Expected vendor message, got %q", out.Error)
	}
	if out.Code != 230002 {
		t.Errorf("Expected vendor code, got %d", out.Code)
	}
	if out.MessageID != "" || out.Data != nil {
		t.Error("Failure output must not carry business payload fields")
	}
}

func TestHandleGetChatList(t *testing.T) {
	s, mux := newTestServer(t)
	mux.HandleFunc("/im/v1/chats", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"items":      []map[string]any{{"chat_id": "oc_1"}},
				"page_token": "next",
				"has_more":   true,
			},
		})
	})

	_, out, err := s.handleGetChatList(context.Background(), nil, GetChatListInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !out.Success {
		t.Fatalf("Expected success, got error: %s", out.Error)
	}
	if len(out.Chats) != 1 {
		t.Errorf("Expected 1 chat, got %d", len(out.Chats))
	}
	if out.PageToken != "next" || !out.HasMore {
		t.Errorf("Pagination fields wrong: token=%q has_more=%v", out.PageToken, out.HasMore)
	}
}

func TestHandleGetChatMembers(t *testing.T) {
	s, mux := newTestServer(t)
	mux.HandleFunc("/im/v1/chats/oc_9/members", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"items": []map[string]any{
					{"member_id": "u1", "name": "Alice"},
					{"member_id": "u2", "name": "Bob"},
				},
			},
		})
	})

	_, out, err := s.handleGetChatMembers(context.Background(), nil, GetChatMembersInput{ChatID: "oc_9"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !out.Success {
		t.Fatalf("Expected success, got error: %s", out.Error)
	}
	if len(out.Members) != 2 {
		t.Errorf("Expected 2 members, got %d", len(out.Members))
	}
}

func TestHandleCreateCalendarEvent(t *testing.T) {
	s, mux := newTestServer(t)
	mux.HandleFunc("/calendar/v4/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"event": map[string]any{"event_id": "ev_1"},
			},
		})
	})

	_, out, err := s.handleCreateCalendarEvent(context.Background(), nil, CreateCalendarEventInput{
		Summary:   "Standup",
		StartTime: "1700000000",
		EndTime:   "1700003600",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !out.Success || out.EventID != "ev_1" {
		t.Errorf("Expected event_id ev_1, got success=%v id=%q", out.Success, out.EventID)
	}
}

func TestHandleGetUserInfo(t *testing.T) {
	s, mux := newTestServer(t)
	mux.HandleFunc("/contact/v3/users/ou_1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"user": map[string]any{"user_id": "ou_1", "name": "Alice"},
			},
		})
	})

	_, out, err := s.handleGetUserInfo(context.Background(), nil, GetUserInfoInput{UserID: "ou_1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !out.Success {
		t.Fatalf("Expected success, got error: %s", out.Error)
	}
	if out.User["name"] != "Alice" {
		t.Errorf("Expected user Alice, got %v", out.User)
	}
}

func TestHandleCreateDocReportsAppendOutcome(t *testing.T) {
	s, mux := newTestServer(t)
	mux.HandleFunc("/docx/v1/documents", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"document": map[string]any{"document_id": "doc_1"},
			},
		})
	})
	mux.HandleFunc("/docx/v1/documents/doc_1/blocks/batch_update", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"code": 170001, "msg": "permission denied"})
	})

	_, out, err := s.handleCreateDoc(context.Background(), nil, CreateDocInput{Title: "T", Content: "body"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !out.Success {
		t.Fatal("Create must stay successful when only the append fails")
	}
	if out.DocumentID != "doc_1" {
		t.Errorf("Expected document_id doc_1, got %q", out.DocumentID)
	}
	if out.ContentAppended == nil {
		t.Fatal("content_appended should be reported when content was supplied")
	}
	if *out.ContentAppended {
		t.Error("content_appended should be false after a failed append")
	}
}

func TestHandleCreateDocWithoutContent(t *testing.T) {
	s, mux := newTestServer(t)
	mux.HandleFunc("/docx/v1/documents", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code": 0,
			"data": map[string]any{
				"document": map[string]any{"document_id": "doc_2"},
			},
		})
	})

	_, out, err := s.handleCreateDoc(context.Background(), nil, CreateDocInput{Title: "T"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !out.Success || out.DocumentID != "doc_2" {
		t.Fatalf("Expected created doc_2, got %+v", out)
	}
	if out.ContentAppended != nil {
		t.Error("content_appended should be absent when no content was supplied")
	}
}
