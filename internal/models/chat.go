package models

import "time"

// MaxChatHistory caps the per-session chat history length.
const MaxChatHistory = 50

// ChatEntry is one exchange in a session's chat history.
type ChatEntry struct {
	UserMessage string    `json:"userMessage"`
	BotResponse string    `json:"botResponse"`
	Timestamp   time.Time `json:"timestamp"`
}
