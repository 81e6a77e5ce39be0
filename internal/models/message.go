package models

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn.
type Message struct {
	Role    Role   `json:"role" bson:"role"`
	Content string `json:"content" bson:"content"`
}
