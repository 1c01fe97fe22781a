package domain

import "time"

// Program es una entrada del catalogo canonico de carreras.
type Program struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	SchoolName  string    `json:"school_name"`
	Description string    `json:"description,omitempty"`
	RIASECTags  []string  `json:"riasec_tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Institution es una entrada del catalogo canonico de escuelas.
type Institution struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}
