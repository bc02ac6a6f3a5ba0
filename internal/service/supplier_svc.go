package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"tire_shop_v1_202609/internal/model"
	"tire_shop_v1_202609/internal/repository"
)

// ErrSupplierInactive 供应商被手工停用，对应记录整条跳过
var ErrSupplierInactive = errors.New("supplier is inactive")

// 预订关键词：供应商代号里出现任意一个即视为预订供应商（俄语/乌克兰语的"天"）
var preorderKeywords = []string{"день", "дней", "дні", "днів"}

// SupplierService 供应商解析服务
// 同一次导入内按代号缓存，避免每行都打一次数据库
type SupplierService struct {
	repo  repository.SupplierRepository
	cache map[string]*model.Supplier
}

// NewSupplierService 创建供应商解析服务
func NewSupplierService(repo repository.SupplierRepository) *SupplierService {
	return &SupplierService{
		repo:  repo,
		cache: make(map[string]*model.Supplier),
	}
}

// Resolve 按原始供应商代号解析供应商
// 空代号返回 (nil, nil)；已停用返回 ErrSupplierInactive；未知代号自动建档
func (s *SupplierService) Resolve(ctx context.Context, code string) (*model.Supplier, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}

	if supplier, ok := s.cache[code]; ok {
		if !supplier.IsActive {
			return nil, fmt.Errorf("供应商 %s: %w", code, ErrSupplierInactive)
		}
		return supplier, nil
	}

	supplier, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("查询供应商 %s 失败: %w", code, err)
	}
	if supplier == nil {
		supplier = newSupplierFromCode(code)
		if err := s.repo.Create(ctx, supplier); err != nil {
			return nil, fmt.Errorf("创建供应商 %s 失败: %w", code, err)
		}
	}

	s.cache[code] = supplier
	if !supplier.IsActive {
		return nil, fmt.Errorf("供应商 %s: %w", code, ErrSupplierInactive)
	}
	return supplier, nil
}

// newSupplierFromCode 按代号自动建档：名称取首个下划线之后的部分，
// 代号含预订关键词则标记预订并给更长的交期，加价率默认 0
func newSupplierFromCode(code string) *model.Supplier {
	name := code
	if _, after, found := strings.Cut(code, "_"); found && after != "" {
		name = after
	}

	isPreorder := false
	lower := strings.ToLower(code)
	for _, kw := range preorderKeywords {
		if strings.Contains(lower, kw) {
			isPreorder = true
			break
		}
	}

	deliveryDays := "1-3 дні"
	if isPreorder {
		deliveryDays = "10-14 днів"
	}

	return &model.Supplier{
		Name:          name,
		Code:          code,
		IsPreorder:    isPreorder,
		MarkupPercent: decimal.Zero,
		DeliveryDays:  deliveryDays,
		IsActive:      true,
	}
}

// ResolvePrice 确定销售价：
//   - 价目表里有大于零的销售价，原样使用
//   - 否则用进货价；有供应商时按其加价率上浮，没有则原价
//   - 两个价都缺失返回 nil，调用方按跳过处理
func ResolvePrice(selling, purchase *decimal.Decimal, supplier *model.Supplier) *decimal.Decimal {
	if selling != nil && selling.IsPositive() {
		return selling
	}
	if purchase != nil && purchase.IsPositive() {
		if supplier != nil {
			price := supplier.ApplyMarkup(*purchase)
			return &price
		}
		return purchase
	}
	return nil
}
