package Chat

import (
	"context"
	"sync"

	"MagicPlanner/Models"

	log "github.com/sirupsen/logrus"
)

// Listener streams the newest messages of a conversation until ctx ends.
type Listener interface {
	Listen(ctx context.Context, channel string, limit int, fn func([]Models.ChatMessage)) error
}

// Watcher follows the conversation of the logged-in child and reports every
// new message written by someone else. At most one conversation is followed.
type Watcher struct {
	listener Listener

	// OnMessage runs on the listener goroutine for each incoming message.
	OnMessage func(account Models.Account, msg Models.ChatMessage)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewWatcher(listener Listener) *Watcher {
	return &Watcher{listener: listener}
}

// Start follows the account's conversation, replacing the one followed before.
func (w *Watcher) Start(account Models.Account) error {
	if account.Email == "" {
		return ErrNoChannel
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	w.cancel, w.done = cancel, done
	go func() {
		defer close(done)
		w.follow(ctx, account)
	}()
	log.WithField("account_id", account.ID).Debug("Chat listener started")
	return nil
}

// Stop ends the current listener, if any, and waits for it.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
}

func (w *Watcher) stopLocked() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	w.cancel, w.done = nil, nil
}

// follow skips the message already present when listening starts.
func (w *Watcher) follow(ctx context.Context, account Models.Account) {
	first := true
	lastSeen := ""
	err := w.listener.Listen(ctx, account.Email, 1, func(msgs []Models.ChatMessage) {
		if len(msgs) == 0 {
			first = false
			return
		}
		newest := msgs[0]
		if first || newest.ID == lastSeen {
			first = false
			lastSeen = newest.ID
			return
		}
		lastSeen = newest.ID
		if newest.User.ID == account.ID {
			return
		}
		log.WithFields(log.Fields{"account_id": account.ID, "message_id": newest.ID}).Info("New chat message")
		if w.OnMessage != nil {
			w.OnMessage(account, newest)
		}
	})
	if err != nil {
		log.WithError(err).WithField("account_id", account.ID).Warn("Chat listener stopped")
	}
}
