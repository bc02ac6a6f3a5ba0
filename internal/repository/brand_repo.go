package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tire_shop_v1_202609/internal/model"
)

// BrandRepository 品牌仓储接口
type BrandRepository interface {
	GetByName(ctx context.Context, name string) (*model.Brand, error)
	// GetOrCreate 按名称查找品牌，不存在时用给定 slug 创建
	GetOrCreate(ctx context.Context, name, slug string) (*model.Brand, error)
	Create(ctx context.Context, brand *model.Brand) error
}

type brandRepo struct {
	db *gorm.DB
}

// NewBrandRepository 创建品牌仓储
func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepo{db: db}
}

func (r *brandRepo) GetByName(ctx context.Context, name string) (*model.Brand, error) {
	var brand model.Brand
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&brand).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepo) GetOrCreate(ctx context.Context, name, slug string) (*model.Brand, error) {
	var brand model.Brand
	err := r.db.WithContext(ctx).
		Where(model.Brand{Name: name}).
		Attrs(model.Brand{Slug: slug}).
		FirstOrCreate(&brand).Error
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepo) Create(ctx context.Context, brand *model.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}
