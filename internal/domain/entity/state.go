package entity

import "time"

// StateEntry is one key of the durable key-value store.
type StateEntry struct {
	Key       string    `gorm:"primaryKey;size:255"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for StateEntry
func (StateEntry) TableName() string {
	return "state_entries"
}
