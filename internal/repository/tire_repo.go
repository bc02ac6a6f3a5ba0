package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tire_shop_v1_202609/internal/model"
)

// TireRepository 轮胎仓储接口
type TireRepository interface {
	GetByArticle(ctx context.Context, article string) (*model.Tire, error)
	// GetByNaturalKey 按自然键查找：品牌 + 型号 + 宽度/扁平比/直径
	GetByNaturalKey(ctx context.Context, brandID int64, modelName string, width, profile, diameter int) (*model.Tire, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, tire *model.Tire) error
	Update(ctx context.Context, tire *model.Tire) error
	// ForEachWithBrand 按批遍历全表（预加载品牌），用于图片回填
	ForEachWithBrand(ctx context.Context, batchSize int, fn func(tires []model.Tire) error) error
	UpdateImage(ctx context.Context, id int64, image string) error
	Count(ctx context.Context) (int64, error)
}

type tireRepo struct {
	db *gorm.DB
}

// NewTireRepository 创建轮胎仓储
func NewTireRepository(db *gorm.DB) TireRepository {
	return &tireRepo{db: db}
}

func (r *tireRepo) GetByArticle(ctx context.Context, article string) (*model.Tire, error) {
	var tire model.Tire
	err := r.db.WithContext(ctx).Where("article = ?", article).First(&tire).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tire, nil
}

func (r *tireRepo) GetByNaturalKey(ctx context.Context, brandID int64, modelName string, width, profile, diameter int) (*model.Tire, error) {
	var tire model.Tire
	err := r.db.WithContext(ctx).
		Where("brand_id = ? AND model_name = ? AND width = ? AND profile = ? AND diameter = ?",
			brandID, modelName, width, profile, diameter).
		First(&tire).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tire, nil
}

func (r *tireRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Tire{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (r *tireRepo) Create(ctx context.Context, tire *model.Tire) error {
	return r.db.WithContext(ctx).Create(tire).Error
}

func (r *tireRepo) Update(ctx context.Context, tire *model.Tire) error {
	return r.db.WithContext(ctx).Save(tire).Error
}

func (r *tireRepo) ForEachWithBrand(ctx context.Context, batchSize int, fn func(tires []model.Tire) error) error {
	var batch []model.Tire
	return r.db.WithContext(ctx).
		Preload("Brand").
		FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
			return fn(batch)
		}).Error
}

func (r *tireRepo) UpdateImage(ctx context.Context, id int64, image string) error {
	return r.db.WithContext(ctx).
		Model(&model.Tire{}).
		Where("id = ?", id).
		Update("image", image).Error
}

func (r *tireRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Tire{}).Count(&count).Error
	return count, err
}
