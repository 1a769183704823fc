package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clique/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sqlDocumentRepository implements DocumentRepository on the documents table
type sqlDocumentRepository struct {
	db *gorm.DB
}

// NewSQLDocumentRepository creates a repository over any gorm dialect.
func NewSQLDocumentRepository(db *gorm.DB) DocumentRepository {
	return &sqlDocumentRepository{db: db}
}

func (r *sqlDocumentRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var record models.DocumentRecord
	err := r.db.WithContext(ctx).Where(&models.DocumentRecord{Key: key}).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", key, err)
	}
	return []byte(record.Body), nil
}

func (r *sqlDocumentRepository) Put(ctx context.Context, key string, schemaVersion int, body []byte) error {
	record := models.DocumentRecord{
		Key:           key,
		SchemaVersion: schemaVersion,
		Body:          string(body),
		UpdatedAt:     time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"schema_version", "body", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("save document %s: %w", key, err)
	}
	return nil
}

func (r *sqlDocumentRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *sqlDocumentRepository) Name() string {
	return r.db.Dialector.Name()
}
