package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tire_shop_v1_202609/internal/model"
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

func createTestBrand(t *testing.T, db *gorm.DB, name string) *model.Brand {
	brand := &model.Brand{Name: name, Slug: name}
	if err := db.Create(brand).Error; err != nil {
		t.Fatalf("创建测试品牌失败: %v", err)
	}
	return brand
}

func TestTireRepoGetByArticle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTireRepository(db)
	ctx := context.Background()

	brand := createTestBrand(t, db, "Nokian")
	tire := &model.Tire{
		BrandID:   brand.ID,
		ModelName: "Hakkapeliitta R5",
		Slug:      "nokian-hakkapeliitta-r5-205-55-16",
		Article:   "NK12345",
		Width:     205, Profile: 55, Diameter: 16,
		Price: decimal.NewFromInt(3200),
	}
	if err := repo.Create(ctx, tire); err != nil {
		t.Fatalf("创建轮胎失败: %v", err)
	}

	got, err := repo.GetByArticle(ctx, "NK12345")
	if err != nil {
		t.Fatalf("按货号查询失败: %v", err)
	}
	if got == nil || got.ModelName != "Hakkapeliitta R5" {
		t.Errorf("查询结果不符: %+v", got)
	}

	// 未命中应返回 (nil, nil) 而不是错误
	missing, err := repo.GetByArticle(ctx, "NOPE")
	if err != nil {
		t.Errorf("未命中不应报错: %v", err)
	}
	if missing != nil {
		t.Errorf("未命中应返回 nil, 实际 %+v", missing)
	}
}

func TestTireRepoGetByNaturalKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTireRepository(db)
	ctx := context.Background()

	brand := createTestBrand(t, db, "Michelin")
	tire := &model.Tire{
		BrandID:   brand.ID,
		ModelName: "Pilot Sport 4",
		Slug:      "michelin-pilot-sport-4-225-45-17",
		Article:   "MI001",
		Width:     225, Profile: 45, Diameter: 17,
		Price: decimal.NewFromInt(4500),
	}
	if err := repo.Create(ctx, tire); err != nil {
		t.Fatalf("创建轮胎失败: %v", err)
	}

	got, err := repo.GetByNaturalKey(ctx, brand.ID, "Pilot Sport 4", 225, 45, 17)
	if err != nil {
		t.Fatalf("按自然键查询失败: %v", err)
	}
	if got == nil || got.Article != "MI001" {
		t.Errorf("查询结果不符: %+v", got)
	}

	// 尺寸不同不算同一商品
	missing, err := repo.GetByNaturalKey(ctx, brand.ID, "Pilot Sport 4", 225, 45, 18)
	if err != nil {
		t.Errorf("未命中不应报错: %v", err)
	}
	if missing != nil {
		t.Errorf("不同尺寸不应命中: %+v", missing)
	}
}

func TestTireRepoSlugExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTireRepository(db)
	ctx := context.Background()

	brand := createTestBrand(t, db, "Rosava")
	tire := &model.Tire{
		BrandID:   brand.ID,
		ModelName: "Itegro",
		Slug:      "rosava-itegro-185-65-15",
		Article:   "RS1",
		Width:     185, Profile: 65, Diameter: 15,
		Price: decimal.NewFromInt(1500),
	}
	if err := repo.Create(ctx, tire); err != nil {
		t.Fatalf("创建轮胎失败: %v", err)
	}

	exists, err := repo.SlugExists(ctx, "rosava-itegro-185-65-15")
	if err != nil || !exists {
		t.Errorf("已占用 slug 应返回 true, exists=%v err=%v", exists, err)
	}
	exists, err = repo.SlugExists(ctx, "rosava-itegro-185-65-15-1")
	if err != nil || exists {
		t.Errorf("空闲 slug 应返回 false, exists=%v err=%v", exists, err)
	}
}

func TestTireRepoForEachWithBrand(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTireRepository(db)
	ctx := context.Background()

	brand := createTestBrand(t, db, "Debica")
	for i := 0; i < 5; i++ {
		tire := &model.Tire{
			BrandID:   brand.ID,
			ModelName: "Presto",
			Slug:      "debica-presto-" + string(rune('a'+i)),
			Article:   "DB" + string(rune('a'+i)),
			Width:     195, Profile: 65, Diameter: 15 + i,
			Price: decimal.NewFromInt(2000),
		}
		if err := repo.Create(ctx, tire); err != nil {
			t.Fatalf("创建轮胎失败: %v", err)
		}
	}

	seen := 0
	err := repo.ForEachWithBrand(ctx, 2, func(tires []model.Tire) error {
		for _, tire := range tires {
			// 预加载的品牌必须可用（图片回填按品牌名组 key）
			if tire.Brand.Name != "Debica" {
				t.Errorf("品牌未预加载: %+v", tire.Brand)
			}
			seen++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("遍历失败: %v", err)
	}
	if seen != 5 {
		t.Errorf("遍历数量 = %d, 期望 5", seen)
	}
}

func TestTireRepoUpdateImage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTireRepository(db)
	ctx := context.Background()

	brand := createTestBrand(t, db, "Goodyear")
	tire := &model.Tire{
		BrandID:   brand.ID,
		ModelName: "EfficientGrip",
		Slug:      "goodyear-efficientgrip-205-60-16",
		Article:   "GY1",
		Width:     205, Profile: 60, Diameter: 16,
		Price: decimal.NewFromInt(3000),
	}
	if err := repo.Create(ctx, tire); err != nil {
		t.Fatalf("创建轮胎失败: %v", err)
	}

	if err := repo.UpdateImage(ctx, tire.ID, "catalog/tires/gy1.jpg"); err != nil {
		t.Fatalf("更新图片失败: %v", err)
	}

	got, err := repo.GetByArticle(ctx, "GY1")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if got.Image != "catalog/tires/gy1.jpg" {
		t.Errorf("图片路径 = %q, 期望 catalog/tires/gy1.jpg", got.Image)
	}
}

func TestCatalogCounts(t *testing.T) {
	db := setupTestDB(t)
	tires := NewTireRepository(db)
	disks := NewDiskRepository(db)
	ctx := context.Background()

	brand := createTestBrand(t, db, "Rosava")
	for i := 0; i < 3; i++ {
		tire := &model.Tire{
			BrandID:   brand.ID,
			ModelName: "Itegro",
			Slug:      "rosava-itegro-" + string(rune('a'+i)),
			Article:   "RS" + string(rune('a'+i)),
			Width:     185, Profile: 65, Diameter: 14 + i,
			Price: decimal.NewFromInt(1500),
		}
		if err := tires.Create(ctx, tire); err != nil {
			t.Fatalf("创建轮胎失败: %v", err)
		}
	}
	disk := &model.Disk{
		BrandID: brand.ID, ModelName: "Wheel", Slug: "rosava-wheel-15", Article: "RW1",
		Diameter: 15, Width: decimal.NewFromFloat(6), Bolts: 4, Pcd: decimal.NewFromFloat(100),
		Price: decimal.NewFromInt(2000),
	}
	if err := disks.Create(ctx, disk); err != nil {
		t.Fatalf("创建轮毂失败: %v", err)
	}

	tireCount, err := tires.Count(ctx)
	if err != nil || tireCount != 3 {
		t.Errorf("轮胎计数 = %d (err=%v), 期望 3", tireCount, err)
	}
	diskCount, err := disks.Count(ctx)
	if err != nil || diskCount != 1 {
		t.Errorf("轮毂计数 = %d (err=%v), 期望 1", diskCount, err)
	}
}

func TestBrandRepoGetOrCreate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBrandRepository(db)
	ctx := context.Background()

	first, err := repo.GetOrCreate(ctx, "Nokian", "nokian")
	if err != nil {
		t.Fatalf("首次 GetOrCreate 失败: %v", err)
	}

	// 同名再取应命中同一条记录，不重复建档
	second, err := repo.GetOrCreate(ctx, "Nokian", "nokian-other")
	if err != nil {
		t.Fatalf("二次 GetOrCreate 失败: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("同名品牌应复用, 得到 %d 和 %d", first.ID, second.ID)
	}
	if second.Slug != "nokian" {
		t.Errorf("已有品牌的 slug 不应被覆盖: %q", second.Slug)
	}

	var count int64
	db.Model(&model.Brand{}).Count(&count)
	if count != 1 {
		t.Errorf("品牌数量 = %d, 期望 1", count)
	}
}

func TestDiskRepoDistinctImages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDiskRepository(db)
	ctx := context.Background()

	brand := createTestBrand(t, db, "K&K")
	disks := []model.Disk{
		{BrandID: brand.ID, ModelName: "Drakon", Slug: "kk-drakon-1", Article: "KK1",
			Diameter: 16, Width: decimal.NewFromFloat(6.5), Bolts: 5, Pcd: decimal.NewFromFloat(114.3),
			Price: decimal.NewFromInt(2800), Image: "catalog/disks/drakon.jpg"},
		{BrandID: brand.ID, ModelName: "Drakon", Slug: "kk-drakon-2", Article: "KK2",
			Diameter: 17, Width: decimal.NewFromFloat(7), Bolts: 5, Pcd: decimal.NewFromFloat(114.3),
			Price: decimal.NewFromInt(3100), Image: "catalog/disks/drakon.jpg"},
		{BrandID: brand.ID, ModelName: "Sever", Slug: "kk-sever-1", Article: "KK3",
			Diameter: 15, Width: decimal.NewFromFloat(6), Bolts: 4, Pcd: decimal.NewFromFloat(100),
			Price: decimal.NewFromInt(2200), Image: ""},
	}
	for i := range disks {
		if err := repo.Create(ctx, &disks[i]); err != nil {
			t.Fatalf("创建轮毂失败: %v", err)
		}
	}

	images, err := repo.DistinctImages(ctx)
	if err != nil {
		t.Fatalf("查询图片列表失败: %v", err)
	}
	// 重复路径去重，空路径排除
	if len(images) != 1 || images[0] != "catalog/disks/drakon.jpg" {
		t.Errorf("图片列表 = %v, 期望 [catalog/disks/drakon.jpg]", images)
	}
}
