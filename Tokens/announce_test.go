package Tokens

import (
	"context"
	"errors"
	"testing"

	"MagicPlanner/Models"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []*messaging.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	r.sent = append(r.sent, m)
	return "projects/p/messages/1", r.err
}

func TestTaskCompletedTargetsAccountTopic(t *testing.T) {
	sender := &recordingSender{}
	a := NewAnnouncer(sender)

	require.NoError(t, a.TaskCompleted(context.Background(), 7, Models.Task{ID: 3, Name: "Pospremi sobu"}))
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "account-7", msg.Topic)
	assert.Equal(t, "3", msg.Data["task_id"])
	assert.Contains(t, msg.Notification.Body, "Pospremi sobu")
}

func TestTaskCompletedSendFailure(t *testing.T) {
	a := NewAnnouncer(&recordingSender{err: errors.New("quota")})
	assert.Error(t, a.TaskCompleted(context.Background(), 7, Models.Task{ID: 3}))
}

func TestChatMessageNotice(t *testing.T) {
	sender := &recordingSender{}
	a := NewAnnouncer(sender)

	require.NoError(t, a.ChatMessage(context.Background(), 7, Models.ChatMessage{ID: "m1", Text: "Bravo!"}))
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "account-7", msg.Topic)
	assert.Equal(t, "chat_message", msg.Data["event"])
	assert.Equal(t, "Bravo!", msg.Notification.Body)
}
