package api

import (
	"context"
	"net/http"

	"github.com/edufinai/edufin/internal/models"
)

// Conversations lists the current user's AI chat conversations.
func (c *Client) Conversations(ctx context.Context) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/chat/conversations",
		out:    &conversations,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

// Messages lists the messages of one conversation, oldest first.
func (c *Client) Messages(ctx context.Context, conversationID string) ([]models.Message, error) {
	var messages []models.Message
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/chat/conversations/" + conversationID + "/messages",
		out:    &messages,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

type sendMessageRequest struct {
	ConversationID string `json:"conversationId,omitempty"`
	Content        string `json:"content"`
}

// SendMessage sends a chat message and returns the AI answer. An empty
// conversationID starts a new conversation; the answer carries the assigned
// ID. There is no streaming: the gateway answers when the AI service does,
// and a failed send is retried by resubmitting.
func (c *Client) SendMessage(ctx context.Context, conversationID, content string) (*models.Message, error) {
	var answer models.Message
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/chat/messages",
		body:   sendMessageRequest{ConversationID: conversationID, Content: content},
		out:    &answer,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

// Notifications lists the current user's notifications, newest first.
func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/api/notifications",
		out:    &notifications,
		authed: true,
	})
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/notifications/" + id + "/read",
		authed: true,
	})
}
