package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"realty-cms/internal/models"
)

// propertyRow is the DB shape of a record. The record itself stays
// schema-light: everything but the id lives in a JSON blob, and position
// preserves insertion order across a full-collection rewrite.
type propertyRow struct {
	ID       string `gorm:"type:varchar(64);primaryKey"`
	Position int    `gorm:"index"`
	Data     []byte `gorm:"type:json;not null"`
}

func (propertyRow) TableName() string {
	return "properties"
}

// GormStore implements Store on MySQL through GORM. It keeps the flat-file
// semantics: SaveAll replaces the whole collection in one transaction.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore connects to MySQL and migrates the properties table.
func NewGormStore(host, port, user, password, dbname string) (*GormStore, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&propertyRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate properties table: %w", err)
	}

	return &GormStore{db: db}, nil
}

// NewGormStoreFromDB wraps an existing gorm.DB instance (used by tests).
func NewGormStoreFromDB(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (gs *GormStore) LoadAll() ([]models.Property, error) {
	var rows []propertyRow
	if err := gs.db.Order("position ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}

	properties := make([]models.Property, 0, len(rows))
	for _, row := range rows {
		var p models.Property
		if err := json.Unmarshal(row.Data, &p); err != nil {
			return nil, fmt.Errorf("failed to decode property %s: %w", row.ID, err)
		}
		properties = append(properties, p)
	}

	return properties, nil
}

func (gs *GormStore) SaveAll(properties []models.Property) error {
	rows := make([]propertyRow, 0, len(properties))
	for i, p := range properties {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to encode property %s: %w", p.ID, err)
		}
		rows = append(rows, propertyRow{ID: p.ID, Position: i, Data: data})
	}

	return gs.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&propertyRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear properties: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 200).Error; err != nil {
			return fmt.Errorf("failed to insert properties: %w", err)
		}
		return nil
	})
}

func (gs *GormStore) Close() error {
	sqlDB, err := gs.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
