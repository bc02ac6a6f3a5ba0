package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tire_shop_v1_202609/internal/model"
)

// DiskRepository 轮毂仓储接口
type DiskRepository interface {
	GetByArticle(ctx context.Context, article string) (*model.Disk, error)
	// GetByNaturalKey 按自然键查找：品牌 + 型号 + 宽度/直径/PCD/ET
	GetByNaturalKey(ctx context.Context, brandID int64, modelName string, width decimal.Decimal, diameter int, pcd decimal.Decimal, et int) (*model.Disk, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, disk *model.Disk) error
	Update(ctx context.Context, disk *model.Disk) error
	// DistinctImages 去重后的非空图片路径，用于批量下载
	DistinctImages(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

type diskRepo struct {
	db *gorm.DB
}

// NewDiskRepository 创建轮毂仓储
func NewDiskRepository(db *gorm.DB) DiskRepository {
	return &diskRepo{db: db}
}

func (r *diskRepo) GetByArticle(ctx context.Context, article string) (*model.Disk, error) {
	var disk model.Disk
	err := r.db.WithContext(ctx).Where("article = ?", article).First(&disk).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &disk, nil
}

func (r *diskRepo) GetByNaturalKey(ctx context.Context, brandID int64, modelName string, width decimal.Decimal, diameter int, pcd decimal.Decimal, et int) (*model.Disk, error) {
	var disk model.Disk
	err := r.db.WithContext(ctx).
		Where("brand_id = ? AND model_name = ? AND width = ? AND diameter = ? AND pcd = ? AND et = ?",
			brandID, modelName, width, diameter, pcd, et).
		First(&disk).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &disk, nil
}

func (r *diskRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Disk{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *diskRepo) Create(ctx context.Context, disk *model.Disk) error {
	return r.db.WithContext(ctx).Create(disk).Error
}

func (r *diskRepo) Update(ctx context.Context, disk *model.Disk) error {
	return r.db.WithContext(ctx).Save(disk).Error
}

func (r *diskRepo) DistinctImages(ctx context.Context) ([]string, error) {
	var images []string
	err := r.db.WithContext(ctx).
		Model(&model.Disk{}).
		Distinct("image").
		Where("image <> ''").
		Pluck("image", &images).Error
	return images, err
}

func (r *diskRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Disk{}).Count(&count).Error
	return count, err
}
