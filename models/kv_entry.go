package models

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry backs the key-value store when it lives in MySQL. Values that are
// not JSON documents (the theme string) are kept as a quoted JSON string with
// Raw set.
type KVEntry struct {
	Key       string         `gorm:"column:key;primaryKey;size:128" json:"key"`
	Value     datatypes.JSON `gorm:"column:value" json:"value"`
	Raw       bool           `gorm:"column:raw;default:false" json:"raw"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (KVEntry) TableName() string { return "kv_entries" }
