package domain

import "time"

// Assessment guarda el ultimo resultado del cuestionario de un usuario.
type Assessment struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id,omitempty"`
	Scores    TraitScores `json:"scores"`
	Code      TraitCode   `json:"code"`
	Answered  int         `json:"answered"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
