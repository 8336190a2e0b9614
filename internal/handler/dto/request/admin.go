package request

import "github.com/google/uuid"

type CreateGrantRequest struct {
	UserID    uuid.UUID `json:"user_id" binding:"required"`
	EventYear int       `json:"event_year" binding:"required"`
	// ReplayID empty grants the whole event year.
	ReplayID *uuid.UUID `json:"replay_id"`
}
