package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tire_shop_v1_202609/internal/model"
)

// SupplierRepository 供应商仓储接口
type SupplierRepository interface {
	GetByCode(ctx context.Context, code string) (*model.Supplier, error)
	Create(ctx context.Context, supplier *model.Supplier) error
	ListActive(ctx context.Context) ([]model.Supplier, error)
}

type supplierRepo struct {
	db *gorm.DB
}

// NewSupplierRepository 创建供应商仓储
func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db: db}
}

func (r *supplierRepo) GetByCode(ctx context.Context, code string) (*model.Supplier, error) {
	var supplier model.Supplier
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&supplier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepo) Create(ctx context.Context, supplier *model.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *supplierRepo) ListActive(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&suppliers).Error
	return suppliers, err
}
