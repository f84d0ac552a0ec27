package model

import (
	"time"
)

// KVEntry one key of the flat key-value namespace
type KVEntry struct {
	Key       string    `gorm:"primaryKey;column:entry_key;type:varchar(255)" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
