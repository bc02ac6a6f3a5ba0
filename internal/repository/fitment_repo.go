package repository

import (
	"context"

	"gorm.io/gorm"

	"tire_shop_v1_202609/internal/model"
)

// FitmentRepository 整车适配数据仓储接口
// 全量导入是破坏性替换：DeleteAll + 分批 BatchCreate
type FitmentRepository interface {
	DeleteAll(ctx context.Context) error
	BatchCreate(ctx context.Context, fitments []model.CarFitment) error
	Count(ctx context.Context) (int64, error)
}

type fitmentRepo struct {
	db *gorm.DB
}

// NewFitmentRepository 创建适配数据仓储
func NewFitmentRepository(db *gorm.DB) FitmentRepository {
	return &fitmentRepo{db: db}
}

func (r *fitmentRepo) DeleteAll(ctx context.Context) error {
	// 硬删除整表，替换式导入不保留历史
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Unscoped().
		Delete(&model.CarFitment{}).Error
}

func (r *fitmentRepo) BatchCreate(ctx context.Context, fitments []model.CarFitment) error {
	if len(fitments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&fitments).Error
}

func (r *fitmentRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CarFitment{}).Count(&count).Error
	return count, err
}
