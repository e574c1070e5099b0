package model

import "time"

// Metadata carries the record timestamps every table maintains.
type Metadata struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
