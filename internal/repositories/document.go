package repositories

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"denisetiawan/ai-recruiter/internal/models"
)

type DocumentRepository interface {
	Upsert(document *models.Document) error
	FindBySource(source string) (*models.Document, error)
	FindAll() ([]models.Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Upsert implements DocumentRepository. A re-submission under the same
// source name replaces the previous row; the evaluation pipeline is
// overwrite-safe so this is not a conflict.
func (d *documentRepository) Upsert(document *models.Document) error {
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"filename", "original_file_name", "file_path", "updated_at"}),
	}).Create(document).Error
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	return nil
}

// FindBySource implements DocumentRepository.
func (d *documentRepository) FindBySource(source string) (*models.Document, error) {
	var doc models.Document
	if err := d.db.Where("source_name = ?", source).First(&doc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("document not found: %w", err)
		}

		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return &doc, nil
}

// FindAll implements DocumentRepository.
func (d *documentRepository) FindAll() ([]models.Document, error) {
	var docs []models.Document
	if err := d.db.Order("created_at ASC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return docs, nil
}
