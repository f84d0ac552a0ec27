package model

import "time"

// User local login flag stored under the user key
type User struct {
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ChatMessage one entry in the assistant transcript
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	Image     string    `json:"image,omitempty"`
}
