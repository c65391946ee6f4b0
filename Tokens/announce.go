package Tokens

import (
	"context"
	"fmt"
	"strconv"

	"MagicPlanner/Models"

	"firebase.google.com/go/v4/messaging"
	log "github.com/sirupsen/logrus"
)

// Sender is the part of the FCM client that delivers one message.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Announcer tells every device of an account that a task was finished.
type Announcer struct {
	sender Sender
}

func NewAnnouncer(sender Sender) *Announcer {
	return &Announcer{sender: sender}
}

// CompletionMessage builds the push sent when a task's checklist is done.
func CompletionMessage(accountID int64, task Models.Task) *messaging.Message {
	return &messaging.Message{
		Topic: Topic(accountID),
		Data: map[string]string{
			"task_id": strconv.FormatInt(task.ID, 10),
			"event":   "task_completed",
		},
		Notification: &messaging.Notification{
			Title: "Zadatak završen",
			Body:  fmt.Sprintf("%s je završen. Bravo!", task.Name),
		},
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				Color: "#4CAF50",
				Sound: "default",
			},
			Priority: "high",
		},
	}
}

func (a *Announcer) TaskCompleted(ctx context.Context, accountID int64, task Models.Task) error {
	id, err := a.sender.Send(ctx, CompletionMessage(accountID, task))
	if err != nil {
		return fmt.Errorf("error sending completion message: %w", err)
	}
	log.WithFields(log.Fields{"task_id": task.ID, "message": id}).Debug("Completion announced")
	return nil
}

// ChatNotice builds the push sent when the supervisor writes to the child.
func ChatNotice(accountID int64, msg Models.ChatMessage) *messaging.Message {
	return &messaging.Message{
		Topic: Topic(accountID),
		Data: map[string]string{
			"message_id": msg.ID,
			"event":      "chat_message",
		},
		Notification: &messaging.Notification{
			Title: "Nova poruka",
			Body:  msg.Text,
		},
		Android: &messaging.AndroidConfig{Priority: "high"},
	}
}

func (a *Announcer) ChatMessage(ctx context.Context, accountID int64, msg Models.ChatMessage) error {
	if _, err := a.sender.Send(ctx, ChatNotice(accountID, msg)); err != nil {
		return fmt.Errorf("error sending chat notice: %w", err)
	}
	return nil
}
