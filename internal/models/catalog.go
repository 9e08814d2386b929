package models

import (
	"database/sql"
	"time"
)

type Category struct {
	ID          uint64
	Name        string
	Description string
	CreatedAt   time.Time
}

type Product struct {
	ID          uint64
	CategoryID  sql.NullInt64
	Name        string
	Description string
	BasePrice   float64
	ImageURL    sql.NullString
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Supply is a production input tracked by staff (fabric, thread, packaging).
type Supply struct {
	ID                uint64
	Name              string
	Kind              string
	QuantityAvailable float64
	Unit              string
	UpdatedAt         time.Time
}
