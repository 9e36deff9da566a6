package model

import "time"

// RegenerateRequest asks for a user's matches to be rebuilt in the background.
type RegenerateRequest struct {
	UserID      string    `json:"user_id"`
	RequestedAt time.Time `json:"requested_at"`
}
