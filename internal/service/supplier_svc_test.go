package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tire_shop_v1_202609/internal/model"
	"tire_shop_v1_202609/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&model.Brand{}, &model.Supplier{},
		&model.Tire{}, &model.Disk{}, &model.CarFitment{},
	)
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}

	return db
}

func TestSupplierResolveAutoCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSupplierService(repository.NewSupplierRepository(db))
	ctx := context.Background()

	supplier, err := svc.Resolve(ctx, "kiev_Склад Колёс")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if supplier == nil {
		t.Fatal("应自动建档, 实际返回 nil")
	}
	// 名称取首个下划线之后的部分
	if supplier.Name != "Склад Колёс" {
		t.Errorf("名称 = %q, 期望 %q", supplier.Name, "Склад Колёс")
	}
	if supplier.IsPreorder {
		t.Errorf("无预订关键词不应标记预订")
	}
	if supplier.DeliveryDays != "1-3 дні" {
		t.Errorf("交期 = %q, 期望 1-3 дні", supplier.DeliveryDays)
	}
	if !supplier.IsActive {
		t.Errorf("自动建档应默认启用")
	}
	if !supplier.MarkupPercent.IsZero() {
		t.Errorf("自动建档加价率应为 0, 实际 %s", supplier.MarkupPercent)
	}
}

func TestSupplierResolvePreorderKeywords(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSupplierService(repository.NewSupplierRepository(db))
	ctx := context.Background()

	codes := []string{
		"kh_DTW Харьков (21 день)",
		"odessa_Base (5 дней)",
		"lviv_Опт (3 дні)",
		"kiev_Центр (10 днів)",
	}
	for _, code := range codes {
		supplier, err := svc.Resolve(ctx, code)
		if err != nil {
			t.Fatalf("解析 %q 失败: %v", code, err)
		}
		if !supplier.IsPreorder {
			t.Errorf("%q 应标记为预订供应商", code)
		}
		if supplier.DeliveryDays != "10-14 днів" {
			t.Errorf("%q 交期 = %q, 期望 10-14 днів", code, supplier.DeliveryDays)
		}
	}
}

func TestSupplierResolveInactive(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewSupplierRepository(db)
	svc := NewSupplierService(repo)
	ctx := context.Background()

	blocked := &model.Supplier{Name: "Старый", Code: "old_Старый", IsActive: false}
	if err := repo.Create(ctx, blocked); err != nil {
		t.Fatalf("准备数据失败: %v", err)
	}

	_, err := svc.Resolve(ctx, "old_Старый")
	if !errors.Is(err, ErrSupplierInactive) {
		t.Errorf("期望 ErrSupplierInactive, 实际 %v", err)
	}

	// 缓存命中后仍然要拦截
	_, err = svc.Resolve(ctx, "old_Старый")
	if !errors.Is(err, ErrSupplierInactive) {
		t.Errorf("缓存路径期望 ErrSupplierInactive, 实际 %v", err)
	}
}

func TestSupplierResolveEmptyCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSupplierService(repository.NewSupplierRepository(db))

	supplier, err := svc.Resolve(context.Background(), "   ")
	if err != nil {
		t.Errorf("空代号不应报错: %v", err)
	}
	if supplier != nil {
		t.Errorf("空代号应返回 nil, 实际 %+v", supplier)
	}
}

func TestSupplierResolveCaching(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSupplierService(repository.NewSupplierRepository(db))
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "kiev_Опт")
	if err != nil {
		t.Fatalf("首次解析失败: %v", err)
	}
	second, err := svc.Resolve(ctx, "kiev_Опт")
	if err != nil {
		t.Fatalf("二次解析失败: %v", err)
	}
	if first != second {
		t.Errorf("同一次运行内应命中缓存返回同一实例")
	}

	var count int64
	db.Model(&model.Supplier{}).Count(&count)
	if count != 1 {
		t.Errorf("供应商数量 = %d, 期望 1", count)
	}
}

func TestResolvePrice(t *testing.T) {
	markup10 := &model.Supplier{MarkupPercent: decimal.NewFromInt(10)}
	markup0 := &model.Supplier{MarkupPercent: decimal.Zero}

	dec := func(v string) *decimal.Decimal {
		d, _ := decimal.NewFromString(v)
		return &d
	}

	tests := []struct {
		name     string
		selling  *decimal.Decimal
		purchase *decimal.Decimal
		supplier *model.Supplier
		want     string // 空串表示期望 nil
	}{
		{"销售价优先", dec("3500"), dec("100"), markup10, "3500"},
		{"无销售价按加价率上浮", nil, dec("100"), markup10, "110"},
		{"加价率为零原价", nil, dec("100"), markup0, "100"},
		{"无供应商进货价原样", nil, dec("50"), nil, "50"},
		{"两价皆缺返回 nil", nil, nil, markup10, ""},
		{"负销售价不生效", dec("-10"), dec("100"), nil, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePrice(tt.selling, tt.purchase, tt.supplier)
			if tt.want == "" {
				if got != nil {
					t.Errorf("期望 nil, 实际 %s", got)
				}
				return
			}
			if got == nil || got.String() != tt.want {
				t.Errorf("价格 = %v, 期望 %s", got, tt.want)
			}
		})
	}
}

func TestSupplierApplyMarkupRounding(t *testing.T) {
	s := &model.Supplier{MarkupPercent: decimal.NewFromInt(15)}
	got := s.ApplyMarkup(decimal.NewFromFloat(99.99))
	// 99.99 * 1.15 = 114.9885 -> 114.99
	if got.String() != "114.99" {
		t.Errorf("加价结果 = %s, 期望 114.99", got)
	}
}
