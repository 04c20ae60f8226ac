package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wiz-homes/models"
)

// Gorm keeps every key as one row of the kv_entries table.
type Gorm struct {
	DB *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{DB: db}
}

func (s *Gorm) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.KVEntry
	err := s.DB.WithContext(ctx).Where(&models.KVEntry{Key: key}).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load %s: %w", key, err)
	}
	if !entry.Raw {
		return string(entry.Value), true, nil
	}
	var raw string
	if err := json.Unmarshal(entry.Value, &raw); err != nil {
		return "", false, fmt.Errorf("decode raw %s: %w", key, err)
	}
	return raw, true, nil
}

func (s *Gorm) Set(ctx context.Context, key, value string) error {
	entry := models.KVEntry{Key: key, Value: datatypes.JSON(value)}
	if !json.Valid([]byte(value)) {
		quoted, err := json.Marshal(value)
		if err != nil {
			return err
		}
		entry.Value = datatypes.JSON(quoted)
		entry.Raw = true
	}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "raw", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *Gorm) Delete(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Delete(&models.KVEntry{Key: key}).Error
}
