package lark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

// SendMessageArgs are the arguments for SendMessage
type SendMessageArgs struct {
	ReceiveID     string
	MsgType       string // default "text"
	Content       string
	ReceiveIDType string // default "chat_id"
}

// SendMessage sends a message to a chat or user. Text content is wrapped in
// the {"text": ...} JSON shape the API expects; other message types pass the
// content through as-is.
func (c *Client) SendMessage(ctx context.Context, args SendMessageArgs) Result {
	if args.MsgType == "" {
		args.MsgType = "text"
	}
	if args.ReceiveIDType == "" {
		args.ReceiveIDType = "chat_id"
	}

	content := args.Content
	if args.MsgType == "text" {
		contentJSON, _ := json.Marshal(map[string]string{"text": args.Content})
		content = string(contentJSON)
	}

	return c.invokeJSON(ctx, http.MethodPost, "/im/v1/messages",
		url.Values{"receive_id_type": {args.ReceiveIDType}},
		map[string]any{
			"receive_id": args.ReceiveID,
			"msg_type":   args.MsgType,
			"content":    content,
		})
}

// GetChatListArgs are the arguments for GetChatList
type GetChatListArgs struct {
	PageSize  int // default 20
	PageToken string
}

// GetChatList lists the chats the bot has access to
func (c *Client) GetChatList(ctx context.Context, args GetChatListArgs) Result {
	if args.PageSize <= 0 {
		args.PageSize = 20
	}

	query := url.Values{"page_size": {strconv.Itoa(args.PageSize)}}
	if args.PageToken != "" {
		query.Set("page_token", args.PageToken)
	}

	return c.invoke(ctx, apiRequest{
		method: http.MethodGet,
		path:   "/im/v1/chats",
		query:  query,
	})
}

// GetChatMembersArgs are the arguments for GetChatMembers
type GetChatMembersArgs struct {
	ChatID    string
	PageSize  int // default 20
	PageToken string
}

// GetChatMembers lists the members of a chat
func (c *Client) GetChatMembers(ctx context.Context, args GetChatMembersArgs) Result {
	if args.PageSize <= 0 {
		args.PageSize = 20
	}

	query := url.Values{"page_size": {strconv.Itoa(args.PageSize)}}
	if args.PageToken != "" {
		query.Set("page_token", args.PageToken)
	}

	return c.invoke(ctx, apiRequest{
		method: http.MethodGet,
		path:   "/im/v1/chats/" + url.PathEscape(args.ChatID) + "/members",
		query:  query,
	})
}

// CreateCalendarEventArgs are the arguments for CreateCalendarEvent
type CreateCalendarEventArgs struct {
	Summary     string
	StartTime   string // Unix timestamp (seconds) as string
	EndTime     string
	Description string
	Location    string
	Attendees   []string // user IDs
}

// CreateCalendarEvent creates an event on the primary calendar
func (c *Client) CreateCalendarEvent(ctx context.Context, args CreateCalendarEventArgs) Result {
	event := map[string]any{
		"summary":     args.Summary,
		"description": args.Description,
		"start_time":  map[string]any{"timestamp": args.StartTime},
		"end_time":    map[string]any{"timestamp": args.EndTime},
	}
	if args.Location != "" {
		event["location"] = map[string]any{"name": args.Location}
	}
	if len(args.Attendees) > 0 {
		attendees := make([]map[string]any, 0, len(args.Attendees))
		for _, userID := range args.Attendees {
			attendees = append(attendees, map[string]any{"type": "user", "user_id": userID})
		}
		event["attendees"] = attendees
	}

	return c.invokeJSON(ctx, http.MethodPost, "/calendar/v4/calendars/primary/events", nil, event)
}

// UploadFileArgs are the arguments for UploadFile
type UploadFileArgs struct {
	FilePath   string
	FileType   string // default "stream"
	ParentType string // default "im"
	ParentNode string
}

// UploadFile uploads a local file as a multipart request
func (c *Client) UploadFile(ctx context.Context, args UploadFileArgs) Result {
	if args.FileType == "" {
		args.FileType = "stream"
	}
	if args.ParentType == "" {
		args.ParentType = "im"
	}

	f, err := os.Open(args.FilePath)
	if err != nil {
		return failure(fmt.Sprintf("open file: %v", err))
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(args.FilePath))
	if err != nil {
		return failure(fmt.Sprintf("build upload: %v", err))
	}
	if _, err := io.Copy(part, f); err != nil {
		return failure(fmt.Sprintf("read file: %v", err))
	}
	w.WriteField("file_type", args.FileType)
	w.WriteField("parent_type", args.ParentType)
	if args.ParentNode != "" {
		w.WriteField("parent_node", args.ParentNode)
	}
	if err := w.Close(); err != nil {
		return failure(fmt.Sprintf("build upload: %v", err))
	}

	return c.invoke(ctx, apiRequest{
		method:      http.MethodPost,
		path:        "/im/v1/files",
		contentType: w.FormDataContentType(),
		body:        &buf,
	})
}

// GetUserInfo fetches information about a user
func (c *Client) GetUserInfo(ctx context.Context, userID string) Result {
	return c.invoke(ctx, apiRequest{
		method: http.MethodGet,
		path:   "/contact/v3/users/" + url.PathEscape(userID),
	})
}

// CreateDocArgs are the arguments for CreateDoc
type CreateDocArgs struct {
	Title       string
	Content     string
	FolderToken string
}

// CreateDoc creates a document and, when content is supplied, appends it in
// a second call. The append outcome is returned separately and never fails
// the create: a document that exists without its body is still a created
// document.
func (c *Client) CreateDoc(ctx context.Context, args CreateDocArgs) (Result, bool) {
	payload := map[string]any{"title": args.Title}
	if args.FolderToken != "" {
		payload["folder_token"] = args.FolderToken
	}

	res := c.invokeJSON(ctx, http.MethodPost, "/docx/v1/documents", nil, payload)
	if !res.Success || args.Content == "" {
		return res, false
	}

	doc, _ := res.Data["document"].(map[string]any)
	docID, _ := doc["document_id"].(string)
	if docID == "" {
		return res, false
	}

	return res, c.appendDocContent(ctx, docID, args.Content)
}

func (c *Client) appendDocContent(ctx context.Context, docID, content string) bool {
	payload := map[string]any{
		"requests": []map[string]any{
			{
				"insert_text": map[string]any{
					"location": map[string]any{"zone_id": "0"},
					"elements": []map[string]any{
						{"text_run": map[string]any{"content": content}},
					},
				},
			},
		},
	}

	res := c.invokeJSON(ctx, http.MethodPatch,
		"/docx/v1/documents/"+url.PathEscape(docID)+"/blocks/batch_update", nil, payload)
	if !res.Success {
		fmt.Printf("[Lark] Failed to append content to document %s: %s\n", docID, res.Error)
	}
	return res.Success
}
