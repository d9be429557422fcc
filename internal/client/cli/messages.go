package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/messagely/messagely/internal/client/api"
)

func formatMessage(m api.Message) string {
	from := ""
	if m.FromUser != nil {
		from = m.FromUser.Username
	}
	to := ""
	if m.ToUser != nil {
		to = m.ToUser.Username
	}

	status := "unread"
	if m.ReadAt != nil {
		status = "read " + m.ReadAt.Format("2006-01-02 15:04")
	}

	return fmt.Sprintf("#%d %s -> %s [%s] %s: %s",
		m.ID, from, to, m.SentAt.Format("2006-01-02 15:04"), status, m.Body)
}

// promptMessageID asks the user for a message id.
func (a *App) promptMessageID() (int64, error) {
	text, err := getSimpleText(a.reader, "Enter message id", os.Stdout)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		printlnFn("Message id must be a number")
		return 0, err
	}
	return id, nil
}

// Send prompts for a recipient and a message body and sends the message.
func (a *App) Send(ctx context.Context) error {
	to, err := getSimpleText(a.reader, "Enter recipient username", os.Stdout)
	if err != nil {
		return err
	}

	body, err := GetMultiline(a.reader, "Enter message", os.Stdout)
	if err != nil {
		return err
	}

	msg, err := a.api.Send(ctx, to, body)
	if err != nil {
		log.Printf("Send unsuccessful: %s", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Sent #%d to %s", msg.ID, to))
	return nil
}

// Inbox lists messages received by the current user.
func (a *App) Inbox(ctx context.Context) error {
	msgs, err := a.api.Inbox(ctx, a.userName)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	if len(msgs) == 0 {
		printlnFn("Inbox is empty")
		return nil
	}
	for _, m := range msgs {
		printlnFn(formatMessage(m))
	}
	return nil
}

// Sent lists messages sent by the current user.
func (a *App) Sent(ctx context.Context) error {
	msgs, err := a.api.Sent(ctx, a.userName)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	if len(msgs) == 0 {
		printlnFn("No sent messages")
		return nil
	}
	for _, m := range msgs {
		printlnFn(formatMessage(m))
	}
	return nil
}

// Show fetches and prints a single message (interactive ID prompt).
func (a *App) Show(ctx context.Context) error {
	id, err := a.promptMessageID()
	if err != nil {
		return err
	}

	msg, err := a.api.GetMessage(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	printlnFn(formatMessage(*msg))
	return nil
}

// Read marks a received message read (interactive ID prompt).
func (a *App) Read(ctx context.Context) error {
	id, err := a.promptMessageID()
	if err != nil {
		return err
	}

	msg, err := a.api.MarkRead(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	if msg.ReadAt != nil {
		printlnFn(fmt.Sprintf("Message #%d read at %s", msg.ID, msg.ReadAt.Format("2006-01-02 15:04")))
	}
	return nil
}
