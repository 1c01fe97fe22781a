package domain

import "time"

// Session agrupa los mensajes de una conversacion con el asesor.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
