package model

import "time"

// ValidationQuestion is a personal question used to verify a caller's
// identity in emergency and voice flows. Only a bcrypt hash of the
// normalized answer is stored; the plaintext never persists and the hash is
// never serialized into responses.
type ValidationQuestion struct {
	ID         uint64    `json:"id"`
	UserID     string    `json:"user_id"`
	Question   string    `json:"question"`
	AnswerHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
