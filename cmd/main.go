package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"tire_shop_v1_202609/internal/model"
	"tire_shop_v1_202609/internal/repository"
	"tire_shop_v1_202609/internal/service"
	"tire_shop_v1_202609/pkg/database"
)

func main() {
	app := &cli.App{
		Name:  "tire-shop-import",
		Usage: "轮胎/轮毂商品目录批量导入工具",
		Commands: []*cli.Command{
			importTiresCommand(),
			importDisksCommand(),
			importProductsCommand(),
			importFitmentCommand(),
			importFitmentCSVCommand(),
			updateImagesCommand(),
			downloadImagesCommand(),
			statsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("执行失败: %v", err)
	}
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB       *gorm.DB
	Repos    *Repositories
	Services *Services
}

// Repositories 仓库集合
type Repositories struct {
	Brand    repository.BrandRepository
	Supplier repository.SupplierRepository
	Tire     repository.TireRepository
	Disk     repository.DiskRepository
	Fitment  repository.FitmentRepository
}

// Services 服务集合
type Services struct {
	Supplier    *service.SupplierService
	Upsert      *service.UpsertService
	PriceImport *service.PriceImportService
	DumpImport  *service.DumpImportService
	Fitment     *service.FitmentService
	Image       *service.ImageService
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN", "")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "tire_shop"),
			getEnv("DB_PORT", "5432"),
		)
	}

	return database.InitDB(dsn,
		// 商品
		&model.Brand{}, &model.Supplier{},
		&model.Tire{}, &model.Disk{},
		// 选配
		&model.CarFitment{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies() *Dependencies {
	db := initDatabase()

	// -------- Repo 层 --------
	repos := &Repositories{
		Brand:    repository.NewBrandRepository(db),
		Supplier: repository.NewSupplierRepository(db),
		Tire:     repository.NewTireRepository(db),
		Disk:     repository.NewDiskRepository(db),
		Fitment:  repository.NewFitmentRepository(db),
	}

	// -------- 业务服务 --------
	supplierSvc := service.NewSupplierService(repos.Supplier)
	upsertSvc := service.NewUpsertService(repos.Brand, repos.Tire, repos.Disk)

	services := &Services{
		Supplier:    supplierSvc,
		Upsert:      upsertSvc,
		PriceImport: service.NewPriceImportService(supplierSvc, upsertSvc),
		DumpImport:  service.NewDumpImportService(upsertSvc),
		Fitment:     service.NewFitmentService(repos.Fitment),
		Image: service.NewImageService(
			repos.Tire, repos.Disk,
			getEnv("IMAGE_BASE_URL", "https://km120.com.ua/media/"),
			getEnv("MEDIA_ROOT", "media"),
		),
	}

	return &Dependencies{DB: db, Repos: repos, Services: services}
}

// ==================== 子命令 ====================

func importTiresCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-tires",
		Usage: "从 xlsx 价格表导入轮胎",
		Flags: []cli.Flag{fileFlag("价格表路径")},
		Action: func(c *cli.Context) error {
			deps := initDependencies()
			summary, err := deps.Services.PriceImport.ImportTiresFile(c.Context, c.String("file"))
			return report(summary, err)
		},
	}
}

func importDisksCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-disks",
		Usage: "从 xlsx 价格表导入轮毂",
		Flags: []cli.Flag{fileFlag("价格表路径")},
		Action: func(c *cli.Context) error {
			deps := initDependencies()
			summary, err := deps.Services.PriceImport.ImportDisksFile(c.Context, c.String("file"))
			return report(summary, err)
		},
	}
}

func importProductsCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-products",
		Usage: "从 OpenCart SQL 转储导入商品（轮胎+轮毂）",
		Flags: []cli.Flag{
			fileFlag("SQL 转储路径"),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "只处理前 N 个商品，0 表示全部",
			},
		},
		Action: func(c *cli.Context) error {
			deps := initDependencies()
			summary, err := deps.Services.DumpImport.ImportProducts(c.Context, c.String("file"), c.Int("limit"))
			return report(summary, err)
		},
	}
}

func importFitmentCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-fitment",
		Usage: "从 SQL 转储导入整车适配数据（替换式）",
		Flags: []cli.Flag{fileFlag("SQL 转储路径")},
		Action: func(c *cli.Context) error {
			deps := initDependencies()
			summary, err := deps.Services.Fitment.ImportDump(c.Context, c.String("file"))
			return report(summary, err)
		},
	}
}

func importFitmentCSVCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-fitment-csv",
		Usage: "从分号分隔 CSV 导入整车适配数据（替换式）",
		Flags: []cli.Flag{fileFlag("CSV 路径")},
		Action: func(c *cli.Context) error {
			deps := initDependencies()
			summary, err := deps.Services.Fitment.ImportCSV(c.Context, c.String("file"))
			return report(summary, err)
		},
	}
}

func updateImagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "update-images",
		Usage: "按价格表回填轮胎图片路径",
		Flags: []cli.Flag{fileFlag("价格表路径")},
		Action: func(c *cli.Context) error {
			deps := initDependencies()
			updated, notFound, err := deps.Services.Image.UpdateTireImagesFromFile(c.Context, c.String("file"))
			if err != nil {
				return err
			}
			log.Printf("图片回填完成: 更新 %d, 未匹配 %d", updated, notFound)
			return nil
		},
	}
}

func downloadImagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "download-images",
		Usage: "并发下载轮毂图片到本地 MEDIA_ROOT",
		Action: func(c *cli.Context) error {
			deps := initDependencies()
			summary, err := deps.Services.Image.DownloadDiskImages(c.Context)
			if err != nil {
				return err
			}
			log.Printf("下载完成: 新下载 %d, 已存在 %d, 失败 %d",
				summary.Downloaded, summary.Exists, summary.Errors)
			return nil
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "打印目录统计与启用中的供应商（导入前后核对用）",
		Action: func(c *cli.Context) error {
			deps := initDependencies()

			tires, err := deps.Repos.Tire.Count(c.Context)
			if err != nil {
				return err
			}
			disks, err := deps.Repos.Disk.Count(c.Context)
			if err != nil {
				return err
			}
			fitments, err := deps.Repos.Fitment.Count(c.Context)
			if err != nil {
				return err
			}
			log.Printf("目录统计: 轮胎 %d, 轮毂 %d, 适配 %d", tires, disks, fitments)

			suppliers, err := deps.Repos.Supplier.ListActive(c.Context)
			if err != nil {
				return err
			}
			log.Printf("启用中的供应商 %d 家:", len(suppliers))
			for _, s := range suppliers {
				log.Printf("  %s (%s): 加价 %s%%, 交期 %s, 预订=%v",
					s.Code, s.Name, s.MarkupPercent, s.DeliveryDays, s.IsPreorder)
			}
			return nil
		},
	}
}

// ==================== 工具函数 ====================

func fileFlag(usage string) cli.Flag {
	return &cli.StringFlag{
		Name:     "file",
		Usage:    usage,
		Required: true,
	}
}

// report 统一打印导入汇总，错误样本逐条输出
func report(summary service.ImportSummary, err error) error {
	if err != nil {
		return err
	}
	log.Printf("导入汇总: %s", summary.String())
	for _, sample := range summary.ErrorSamples {
		log.Printf("  错误样本: %s", sample)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
