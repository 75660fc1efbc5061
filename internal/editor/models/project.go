package models

import "encoding/json"

// ============================================================
// Project Record
// ============================================================

// ProjectRecord: именованный снимок проекта в репозитории.
// Payload содержит файл проекта {modules, props, environment}.
type ProjectRecord struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Modules   int             `json:"modules"`
	Props     int             `json:"props"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}
