package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lark-tools/lark-mcp-server/internal/lark"
)

// Helpers for pulling typed fields out of a Result's data payload. The
// vendor may omit any of these; absence maps to the zero value.

func stringField(data map[string]any, key string) string {
	v, _ := data[key].(string)
	return v
}

func boolField(data map[string]any, key string) bool {
	v, _ := data[key].(bool)
	return v
}

func listField(data map[string]any, key string) []any {
	v, _ := data[key].([]any)
	return v
}

func mapField(data map[string]any, key string) map[string]any {
	v, _ := data[key].(map[string]any)
	return v
}

// SendMessageInput is the input for the send_message tool
type SendMessageInput struct {
	ReceiveID     string `json:"receive_id" jsonschema:"The ID of the chat or user to send to"`
	MsgType       string `json:"msg_type,omitempty" jsonschema:"Message type (default text)"`
	Content       string `json:"content,omitempty" jsonschema:"The message content"`
	ReceiveIDType string `json:"receive_id_type,omitempty" jsonschema:"Type of receive_id: chat_id, open_id, user_id, union_id or email (default chat_id)"`
}

// SendMessageOutput is the output for the send_message tool
type SendMessageOutput struct {
	Success   bool           `json:"success"`
	MessageID string         `json:"message_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
	Code      int64          `json:"code,omitempty"`
}

func (s *LarkMCPServer) handleSendMessage(ctx context.Context, req *mcp.CallToolRequest, input SendMessageInput) (*mcp.CallToolResult, SendMessageOutput, error) {
	res := s.client.SendMessage(ctx, lark.SendMessageArgs{
		ReceiveID:     input.ReceiveID,
		MsgType:       input.MsgType,
		Content:       input.Content,
		ReceiveIDType: input.ReceiveIDType,
	})
	if !res.Success {
		return nil, SendMessageOutput{Error: res.Error, Code: res.Code}, nil
	}

	return nil, SendMessageOutput{
		Success:   true,
		MessageID: stringField(res.Data, "message_id"),
		Data:      res.Data,
	}, nil
}

// GetChatListInput is the input for the get_chat_list tool
type GetChatListInput struct {
	PageSize  int    `json:"page_size,omitempty" jsonschema:"Number of chats per page (default 20)"`
	PageToken string `json:"page_token,omitempty" jsonschema:"Pagination token from a previous call"`
}

// GetChatListOutput is the output for the get_chat_list tool
type GetChatListOutput struct {
	Success   bool   `json:"success"`
	Chats     []any  `json:"chats,omitempty"`
	PageToken string `json:"page_token,omitempty"`
	HasMore   bool   `json:"has_more,omitempty"`
	Error     string `json:"error,omitempty"`
	Code      int64  `json:"code,omitempty"`
}

func (s *LarkMCPServer) handleGetChatList(ctx context.Context, req *mcp.CallToolRequest, input GetChatListInput) (*mcp.CallToolResult, GetChatListOutput, error) {
	res := s.client.GetChatList(ctx, lark.GetChatListArgs{
		PageSize:  input.PageSize,
		PageToken: input.PageToken,
	})
	if !res.Success {
		return nil, GetChatListOutput{Error: res.Error, Code: res.Code}, nil
	}

	return nil, GetChatListOutput{
		Success:   true,
		Chats:     listField(res.Data, "items"),
		PageToken: stringField(res.Data, "page_token"),
		HasMore:   boolField(res.Data, "has_more"),
	}, nil
}

// GetChatMembersInput is the input for the get_chat_members tool
type GetChatMembersInput struct {
	ChatID    string `json:"chat_id" jsonschema:"The ID of the chat"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"Number of members per page (default 20)"`
	PageToken string `json:"page_token,omitempty" jsonschema:"Pagination token from a previous call"`
}

// GetChatMembersOutput is the output for the get_chat_members tool
type GetChatMembersOutput struct {
	Success   bool   `json:"success"`
	Members   []any  `json:"members,omitempty"`
	PageToken string `json:"page_token,omitempty"`
	HasMore   bool   `json:"has_more,omitempty"`
	Error     string `json:"error,omitempty"`
	Code      int64  `json:"code,omitempty"`
}

func (s *LarkMCPServer) handleGetChatMembers(ctx context.Context, req *mcp.CallToolRequest, input GetChatMembersInput) (*mcp.CallToolResult, GetChatMembersOutput, error) {
	res := s.client.GetChatMembers(ctx, lark.GetChatMembersArgs{
		ChatID:    input.ChatID,
		PageSize:  input.PageSize,
		PageToken: input.PageToken,
	})
	if !res.Success {
		return nil, GetChatMembersOutput{Error: res.Error, Code: res.Code}, nil
	}

	return nil, GetChatMembersOutput{
		Success:   true,
		Members:   listField(res.Data, "items"),
		PageToken: stringField(res.Data, "page_token"),
		HasMore:   boolField(res.Data, "has_more"),
	}, nil
}

// CreateCalendarEventInput is the input for the create_calendar_event tool
type CreateCalendarEventInput struct {
	Summary     string   `json:"summary" jsonschema:"Event title"`
	StartTime   string   `json:"start_time" jsonschema:"Start time as a Unix timestamp in seconds"`
	EndTime     string   `json:"end_time" jsonschema:"End time as a Unix timestamp in seconds"`
	Description string   `json:"description,omitempty" jsonschema:"Event description"`
	Location    string   `json:"location,omitempty" jsonschema:"Event location name"`
	Attendees   []string `json:"attendees,omitempty" jsonschema:"User IDs to invite"`
}

// CreateCalendarEventOutput is the output for the create_calendar_event tool
type CreateCalendarEventOutput struct {
	Success bool           `json:"success"`
	EventID string         `json:"event_id,omitempty"`
	Event   map[string]any `json:"event,omitempty"`
	Error   string         `json:"error,omitempty"`
	Code    int64          `json:"code,omitempty"`
}

func (s *LarkMCPServer) handleCreateCalendarEvent(ctx context.Context, req *mcp.CallToolRequest, input CreateCalendarEventInput) (*mcp.CallToolResult, CreateCalendarEventOutput, error) {
	res := s.client.CreateCalendarEvent(ctx, lark.CreateCalendarEventArgs{
		Summary:     input.Summary,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Description: input.Description,
		Location:    input.Location,
		Attendees:   input.Attendees,
	})
	if !res.Success {
		return nil, CreateCalendarEventOutput{Error: res.Error, Code: res.Code}, nil
	}

	event := mapField(res.Data, "event")
	return nil, CreateCalendarEventOutput{
		Success: true,
		EventID: stringField(event, "event_id"),
		Event:   event,
	}, nil
}

// UploadFileInput is the input for the upload_file tool
type UploadFileInput struct {
	FilePath   string `json:"file_path" jsonschema:"Path of the local file to upload"`
	FileType   string `json:"file_type,omitempty" jsonschema:"File type (default stream)"`
	ParentType string `json:"parent_type,omitempty" jsonschema:"Parent type (default im)"`
	ParentNode string `json:"parent_node,omitempty" jsonschema:"Parent node token"`
}

// UploadFileOutput is the output for the upload_file tool
type UploadFileOutput struct {
	Success bool           `json:"success"`
	FileKey string         `json:"file_key,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	Code    int64          `json:"code,omitempty"`
}

func (s *LarkMCPServer) handleUploadFile(ctx context.Context, req *mcp.CallToolRequest, input UploadFileInput) (*mcp.CallToolResult, UploadFileOutput, error) {
	res := s.client.UploadFile(ctx, lark.UploadFileArgs{
		FilePath:   input.FilePath,
		FileType:   input.FileType,
		ParentType: input.ParentType,
		ParentNode: input.ParentNode,
	})
	if !res.Success {
		return nil, UploadFileOutput{Error: res.Error, Code: res.Code}, nil
	}

	return nil, UploadFileOutput{
		Success: true,
		FileKey: stringField(res.Data, "file_key"),
		Data:    res.Data,
	}, nil
}

// GetUserInfoInput is the input for the get_user_info tool
type GetUserInfoInput struct {
	UserID string `json:"user_id" jsonschema:"The ID of the user to look up"`
}

// GetUserInfoOutput is the output for the get_user_info tool
type GetUserInfoOutput struct {
	Success bool           `json:"success"`
	User    map[string]any `json:"user,omitempty"`
	Error   string         `json:"error,omitempty"`
	Code    int64          `json:"code,omitempty"`
}

func (s *LarkMCPServer) handleGetUserInfo(ctx context.Context, req *mcp.CallToolRequest, input GetUserInfoInput) (*mcp.CallToolResult, GetUserInfoOutput, error) {
	res := s.client.GetUserInfo(ctx, input.UserID)
	if !res.Success {
		return nil, GetUserInfoOutput{Error: res.Error, Code: res.Code}, nil
	}

	return nil, GetUserInfoOutput{
		Success: true,
		User:    mapField(res.Data, "user"),
	}, nil
}

// CreateDocInput is the input for the create_doc tool
type CreateDocInput struct {
	Title       string `json:"title" jsonschema:"Document title"`
	Content     string `json:"content,omitempty" jsonschema:"Initial text content to append after creation"`
	FolderToken string `json:"folder_token,omitempty" jsonschema:"Folder to create the document in"`
}

// CreateDocOutput is the output for the create_doc tool. ContentAppended is
// set only when initial content was supplied: the document is reported as
// created even if appending its content failed.
type CreateDocOutput struct {
	Success         bool           `json:"success"`
	DocumentID      string         `json:"document_id,omitempty"`
	Document        map[string]any `json:"document,omitempty"`
	ContentAppended *bool          `json:"content_appended,omitempty"`
	Error           string         `json:"error,omitempty"`
	Code            int64          `json:"code,omitempty"`
}

func (s *LarkMCPServer) handleCreateDoc(ctx context.Context, req *mcp.CallToolRequest, input CreateDocInput) (*mcp.CallToolResult, CreateDocOutput, error) {
	res, appended := s.client.CreateDoc(ctx, lark.CreateDocArgs{
		Title:       input.Title,
		Content:     input.Content,
		FolderToken: input.FolderToken,
	})
	if !res.Success {
		return nil, CreateDocOutput{Error: res.Error, Code: res.Code}, nil
	}

	doc := mapField(res.Data, "document")
	out := CreateDocOutput{
		Success:    true,
		DocumentID: stringField(doc, "document_id"),
		Document:   doc,
	}
	if input.Content != "" {
		out.ContentAppended = &appended
	}
	return nil, out, nil
}
