package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// ChatCmd talks to the AI tutor.
type ChatCmd struct {
	Send    ChatSendCmd    `cmd:"" help:"Send a message and print the answer"`
	List    ChatListCmd    `cmd:"" help:"List conversations"`
	History ChatHistoryCmd `cmd:"" help:"Show one conversation"`
}

type ChatSendCmd struct {
	Conversation string   `help:"Conversation ID; empty starts a new one"`
	Message      []string `arg:"" help:"Message text"`
}

func (c *ChatSendCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireUser(ctx, "/chat"); err != nil {
		return err
	}

	answer, err := app.Client.SendMessage(ctx, c.Conversation, strings.Join(c.Message, " "))
	if err != nil {
		// A failed send is retried by resubmitting; nothing is queued
		// locally.
		return fmt.Errorf("failed to send message: %w", err)
	}

	fmt.Println(answer.Content)
	if c.Conversation == "" {
		fmt.Printf("\n(conversation %s; continue with --conversation=%s)\n", answer.ConversationID, answer.ConversationID)
	}

	return nil
}

type ChatListCmd struct{}

func (c *ChatListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireUser(ctx, "/chat"); err != nil {
		return err
	}

	conversations, err := app.Client.Conversations(ctx)
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	if len(conversations) == 0 {
		fmt.Println("No conversations yet. Start one with 'edufin chat send ...'.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tUPDATED")
	for _, conversation := range conversations {
		title := conversation.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", conversation.ID, title, conversation.UpdatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()

	return nil
}

type ChatHistoryCmd struct {
	ID string `arg:"" help:"Conversation ID"`
}

func (c *ChatHistoryCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireUser(ctx, "/chat/"+c.ID); err != nil {
		return err
	}

	messages, err := app.Client.Messages(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch conversation: %w", err)
	}

	for _, message := range messages {
		fmt.Printf("[%s] %s\n", message.Sender, message.Content)
	}

	return nil
}

// NotificationsCmd manages the notification center.
type NotificationsCmd struct {
	List NotificationsListCmd `cmd:"" help:"List notifications"`
	Read NotificationsReadCmd `cmd:"" help:"Mark a notification as read"`
}

type NotificationsListCmd struct {
	Unread bool `help:"Show unread notifications only"`
}

func (n *NotificationsListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireUser(ctx, "/notifications"); err != nil {
		return err
	}

	notifications, err := app.Client.Notifications(ctx)
	if err != nil {
		return fmt.Errorf("failed to list notifications: %w", err)
	}

	shown := 0
	for _, notification := range notifications {
		if n.Unread && notification.Read {
			continue
		}
		marker := " "
		if !notification.Read {
			marker = "*"
		}
		fmt.Printf("%s %s  %s  %s\n", marker, notification.ID, notification.CreatedAt.Format("2006-01-02 15:04"), notification.Message)
		shown++
	}

	if shown == 0 {
		fmt.Println("No notifications.")
	}

	return nil
}

type NotificationsReadCmd struct {
	ID string `arg:"" help:"Notification ID"`
}

func (n *NotificationsReadCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := newApp(globals)
	if err != nil {
		return err
	}

	if _, err := app.requireUser(ctx, "/notifications"); err != nil {
		return err
	}

	if err := app.Client.MarkNotificationRead(ctx, n.ID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	fmt.Printf("Notification %s marked as read.\n", n.ID)
	return nil
}
