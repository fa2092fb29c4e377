package model

import "time"

// BaseModel carries the surrogate integer key and audit timestamps shared by
// every table.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
