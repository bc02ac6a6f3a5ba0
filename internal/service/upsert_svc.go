package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"tire_shop_v1_202609/internal/model"
	"tire_shop_v1_202609/internal/repository"
	"tire_shop_v1_202609/pkg/utils"
)

// Outcome 单条记录写入的结果
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeUpdated
)

const (
	slugMaxLen    = 250
	articleMaxLen = 50
)

// TireFields 上游映射好的一条轮胎记录
// Ref 是来源内的行标识（价格表行号或转储 product_id），
// 货号为空时用它合成 T<Ref>，slug 兜底时也用它
type TireFields struct {
	BrandName string
	ModelName string

	Width    int
	Profile  int
	Diameter int

	LoadIndex   int
	SpeedIndex  string
	Season      string
	VehicleType string
	Studded     bool

	PurchasePrice *decimal.Decimal
	Price         decimal.Decimal
	InStock       bool
	StockQuantity int

	Supplier *model.Supplier
	Article  string
	Image    string
	Ref      string
}

// DiskFields 上游映射好的一条轮毂记录
type DiskFields struct {
	BrandName string
	ModelName string

	Diameter int
	Width    decimal.Decimal
	Bolts    int
	Pcd      decimal.Decimal
	Dia      decimal.Decimal
	Et       int

	DiskType string
	Color    string

	PurchasePrice *decimal.Decimal
	Price         decimal.Decimal
	InStock       bool
	StockQuantity int

	Supplier *model.Supplier
	Article  string
	Image    string
	Ref      string

	// SlugBase 可选覆盖 slug 基串（转储来源只有品牌-型号-直径可用）
	SlugBase string
}

// UpsertService 商品写入引擎：按货号或自然键查重，
// 命中更新易变字段，未命中创建并分配唯一 slug
type UpsertService struct {
	brands repository.BrandRepository
	tires  repository.TireRepository
	disks  repository.DiskRepository
}

// NewUpsertService 创建商品写入引擎
func NewUpsertService(brands repository.BrandRepository, tires repository.TireRepository, disks repository.DiskRepository) *UpsertService {
	return &UpsertService{brands: brands, tires: tires, disks: disks}
}

// UpsertTire 写入一条轮胎记录
func (s *UpsertService) UpsertTire(ctx context.Context, f TireFields) (Outcome, error) {
	brand, err := s.resolveBrand(ctx, f.BrandName)
	if err != nil {
		return 0, err
	}

	var existing *model.Tire
	if f.Article != "" {
		existing, err = s.tires.GetByArticle(ctx, f.Article)
		if err != nil {
			return 0, fmt.Errorf("按货号查找轮胎失败: %w", err)
		}
	}
	if existing == nil {
		existing, err = s.tires.GetByNaturalKey(ctx, brand.ID, f.ModelName, f.Width, f.Profile, f.Diameter)
		if err != nil {
			return 0, fmt.Errorf("按自然键查找轮胎失败: %w", err)
		}
	}

	if existing != nil {
		// 已有记录只更新易变字段，规格与 slug 保持不动
		existing.Price = f.Price
		existing.StockQuantity = f.StockQuantity
		existing.InStock = f.InStock
		existing.SupplierID = supplierID(f.Supplier)
		if f.Image != "" {
			existing.Image = f.Image
		}
		if err := s.tires.Update(ctx, existing); err != nil {
			return 0, fmt.Errorf("更新轮胎 %s 失败: %w", existing.Article, err)
		}
		return OutcomeUpdated, nil
	}

	base := utils.Slugify(fmt.Sprintf("%s-%s-%d-%d-%d", f.BrandName, f.ModelName, f.Width, f.Profile, f.Diameter))
	if base == "" {
		base = "tire-" + f.Ref
	}
	slug, err := s.uniqueSlug(ctx, base, s.tires.SlugExists)
	if err != nil {
		return 0, err
	}

	article := f.Article
	if article == "" {
		article = "T" + f.Ref
	}

	tire := &model.Tire{
		BrandID:       brand.ID,
		SupplierID:    supplierID(f.Supplier),
		ModelName:     f.ModelName,
		Slug:          slug,
		Article:       utils.TruncateRunes(article, articleMaxLen),
		Width:         f.Width,
		Profile:       f.Profile,
		Diameter:      f.Diameter,
		LoadIndex:     f.LoadIndex,
		SpeedIndex:    f.SpeedIndex,
		Season:        f.Season,
		VehicleType:   f.VehicleType,
		Studded:       f.Studded,
		PurchasePrice: f.PurchasePrice,
		Price:         f.Price,
		InStock:       f.InStock,
		StockQuantity: f.StockQuantity,
		Image:         f.Image,
	}
	if err := s.tires.Create(ctx, tire); err != nil {
		return 0, fmt.Errorf("创建轮胎 %s 失败: %w", tire.Article, err)
	}
	return OutcomeCreated, nil
}

// UpsertDisk 写入一条轮毂记录
func (s *UpsertService) UpsertDisk(ctx context.Context, f DiskFields) (Outcome, error) {
	brand, err := s.resolveBrand(ctx, f.BrandName)
	if err != nil {
		return 0, err
	}

	var existing *model.Disk
	if f.Article != "" {
		existing, err = s.disks.GetByArticle(ctx, f.Article)
		if err != nil {
			return 0, fmt.Errorf("按货号查找轮毂失败: %w", err)
		}
	}
	if existing == nil {
		existing, err = s.disks.GetByNaturalKey(ctx, brand.ID, f.ModelName, f.Width, f.Diameter, f.Pcd, f.Et)
		if err != nil {
			return 0, fmt.Errorf("按自然键查找轮毂失败: %w", err)
		}
	}

	if existing != nil {
		existing.Price = f.Price
		existing.StockQuantity = f.StockQuantity
		existing.InStock = f.InStock
		existing.SupplierID = supplierID(f.Supplier)
		if f.Image != "" {
			existing.Image = f.Image
		}
		if f.Color != "" {
			existing.Color = f.Color
		}
		if err := s.disks.Update(ctx, existing); err != nil {
			return 0, fmt.Errorf("更新轮毂 %s 失败: %w", existing.Article, err)
		}
		return OutcomeUpdated, nil
	}

	base := f.SlugBase
	if base == "" {
		base = fmt.Sprintf("%s-%s-%sx%d-%dx%s-et%d",
			f.BrandName, f.ModelName, f.Width.String(), f.Diameter, f.Bolts, f.Pcd.String(), f.Et)
	}
	base = utils.Slugify(base)
	if base == "" {
		base = "disk-" + f.Ref
	}
	slug, err := s.uniqueSlug(ctx, base, s.disks.SlugExists)
	if err != nil {
		return 0, err
	}

	article := f.Article
	if article == "" {
		article = "D" + f.Ref
	}

	disk := &model.Disk{
		BrandID:       brand.ID,
		SupplierID:    supplierID(f.Supplier),
		ModelName:     f.ModelName,
		Slug:          slug,
		Article:       utils.TruncateRunes(article, articleMaxLen),
		Diameter:      f.Diameter,
		Width:         f.Width,
		Bolts:         f.Bolts,
		Pcd:           f.Pcd,
		Dia:           f.Dia,
		Et:            f.Et,
		DiskType:      f.DiskType,
		Color:         f.Color,
		PurchasePrice: f.PurchasePrice,
		Price:         f.Price,
		InStock:       f.InStock,
		StockQuantity: f.StockQuantity,
		Image:         f.Image,
	}
	if err := s.disks.Create(ctx, disk); err != nil {
		return 0, fmt.Errorf("创建轮毂 %s 失败: %w", disk.Article, err)
	}
	return OutcomeCreated, nil
}

func (s *UpsertService) resolveBrand(ctx context.Context, name string) (*model.Brand, error) {
	slug := utils.Slugify(name)
	if slug == "" {
		slug = strings.ReplaceAll(strings.ToLower(name), " ", "-")
	}
	brand, err := s.brands.GetOrCreate(ctx, name, slug)
	if err != nil {
		return nil, fmt.Errorf("获取品牌 %s 失败: %w", name, err)
	}
	return brand, nil
}

// uniqueSlug 为新记录分配唯一 slug：基串冲突时追加 -1、-2...
// 每个候选都先保证不超过 250 字符再查重；超长基串先让位给序号后缀，
// 避免截断把不同序号的候选截成同一个值
func (s *UpsertService) uniqueSlug(ctx context.Context, base string, exists func(context.Context, string) (bool, error)) (string, error) {
	slug := utils.TruncateRunes(base, slugMaxLen)
	for counter := 1; ; counter++ {
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("检查 slug %s 失败: %w", slug, err)
		}
		if !taken {
			return slug, nil
		}
		suffix := fmt.Sprintf("-%d", counter)
		slug = utils.TruncateRunes(base, slugMaxLen-len(suffix)) + suffix
	}
}

func supplierID(supplier *model.Supplier) *int64 {
	if supplier == nil {
		return nil
	}
	id := supplier.ID
	return &id
}
