package Models

import "time"

type ChatUser struct {
	ID     int64  `json:"_id" firestore:"_id"`
	Avatar string `json:"avatar" firestore:"avatar"`
}

// ChatMessage is one message in the conversation between a child and the supervisor.
type ChatMessage struct {
	ID        string    `json:"_id" firestore:"-"`
	Text      string    `json:"text" firestore:"text"`
	User      ChatUser  `json:"user" firestore:"user"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}
