package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-gallery-service/entity"
	"gorm.io/gorm"
)

type GormUploadedFileRepository struct {
	db *gorm.DB
}

func NewGormUploadedFileRepository(db *gorm.DB) *GormUploadedFileRepository {
	return &GormUploadedFileRepository{db: db}
}

// CreateMany inserts all files in one statement and assigns their ids.
func (r *GormUploadedFileRepository) CreateMany(ctx context.Context, files []*entity.UploadedFile) (int, error) {
	if len(files) == 0 {
		return 0, nil
	}
	for _, f := range files {
		f.ID = uuid.NewString()
	}
	result := r.db.WithContext(ctx).Create(&files)
	if result.Error != nil {
		return int(result.RowsAffected), result.Error
	}
	return int(result.RowsAffected), nil
}

func (r *GormUploadedFileRepository) FindByID(ctx context.Context, id string) (*entity.UploadedFile, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrRecordNotFound
	}

	var file entity.UploadedFile
	err = r.db.WithContext(ctx).Where("id = ?", uid.String()).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *GormUploadedFileRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrRecordNotFound
	}

	result := r.db.WithContext(ctx).Where("id = ?", uid.String()).Delete(&entity.UploadedFile{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
