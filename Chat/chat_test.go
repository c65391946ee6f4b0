package Chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"MagicPlanner/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	channels map[string][]Models.ChatMessage
	err      error
}

func (m *memoryStore) List(_ context.Context, channel string, limit int) ([]Models.ChatMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	msgs := m.channels[channel]
	out := make([]Models.ChatMessage, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, msgs[i])
	}
	return out, nil
}

func (m *memoryStore) Add(_ context.Context, channel string, msg Models.ChatMessage) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.channels == nil {
		m.channels = map[string][]Models.ChatMessage{}
	}
	msg.ID = channel + "-" + string(rune('a'+len(m.channels[channel])))
	msg.CreatedAt = time.Now()
	m.channels[channel] = append(m.channels[channel], msg)
	return msg.ID, nil
}

var ana = Models.Account{ID: 4, Name: "Ana", Email: "ana@example.com"}

func TestSendAndHistory(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(store)
	ctx := context.Background()

	first, err := svc.Send(ctx, ana, "  Završila sam!  ")
	require.NoError(t, err)
	assert.Equal(t, "Završila sam!", first.Text)
	assert.Equal(t, int64(4), first.User.ID)
	assert.NotEmpty(t, first.ID)

	_, err = svc.Send(ctx, ana, "Evo slike")
	require.NoError(t, err)

	history, err := svc.History(ctx, ana)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Evo slike", history[0].Text)
	assert.Len(t, store.channels["ana@example.com"], 2)
}

func TestSendRejectsBlankText(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(store)

	_, err := svc.Send(context.Background(), ana, " \n\t ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, store.channels)
}

func TestNoChannel(t *testing.T) {
	svc := NewService(&memoryStore{})

	_, err := svc.Send(context.Background(), Models.Account{ID: 1}, "hi")
	assert.ErrorIs(t, err, ErrNoChannel)
	_, err = svc.History(context.Background(), Models.Account{ID: 1})
	assert.ErrorIs(t, err, ErrNoChannel)
}

func TestHistoryEmptyAndFailure(t *testing.T) {
	svc := NewService(&memoryStore{})
	history, err := svc.History(context.Background(), ana)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)

	boom := errors.New("unavailable")
	svc = NewService(&memoryStore{err: boom})
	_, err = svc.History(context.Background(), ana)
	assert.ErrorIs(t, err, boom)
}
