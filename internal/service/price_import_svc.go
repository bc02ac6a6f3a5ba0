package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"tire_shop_v1_202609/internal/model"
	"tire_shop_v1_202609/pkg/parse"
)

// 价格表列布局（无表头，按固定列号取值）
var (
	tirePriceLayout = map[string]int{
		"brand":    0,
		"model":    1,
		"width":    2,
		"profile":  3,
		"diameter": 4,
		"load":     5,
		"speed":    6,
		"season":   12,
		"stock":    13,
		"purchase": 14,
		"selling":  15,
		"supplier": 18,
		"article":  20,
		"image":    21,
	}
	diskPriceLayout = map[string]int{
		"brand":     0,
		"model":     1,
		"width":     3,
		"diameter":  4,
		"pcd":       5,
		"et":        7,
		"dia":       8,
		"color":     9,
		"disk_type": 10,
		"bolts":     11,
		"stock":     13,
		"purchase":  14,
		"selling":   15,
		"supplier":  18,
		"article":   20,
		"image":     21,
	}
)

// PriceImportService 供应商价格表（xlsx）导入
type PriceImportService struct {
	suppliers *SupplierService
	upsert    *UpsertService
}

// NewPriceImportService 创建价格表导入服务
func NewPriceImportService(suppliers *SupplierService, upsert *UpsertService) *PriceImportService {
	return &PriceImportService{suppliers: suppliers, upsert: upsert}
}

// ImportTiresFile 从 xlsx 文件导入轮胎价格表
func (s *PriceImportService) ImportTiresFile(ctx context.Context, path string) (ImportSummary, error) {
	rows, err := readSheetRows(path)
	if err != nil {
		return ImportSummary{}, err
	}
	return s.ImportTireRows(ctx, rows), nil
}

// ImportDisksFile 从 xlsx 文件导入轮毂价格表
func (s *PriceImportService) ImportDisksFile(ctx context.Context, path string) (ImportSummary, error) {
	rows, err := readSheetRows(path)
	if err != nil {
		return ImportSummary{}, err
	}
	return s.ImportDiskRows(ctx, rows), nil
}

// ImportTireRows 逐行导入轮胎价格表，坏行跳过或记错误样本，不中断整批
func (s *PriceImportService) ImportTireRows(ctx context.Context, rows [][]string) ImportSummary {
	summary := ImportSummary{TotalRows: len(rows)}

	for i, row := range rows {
		brand := parse.Text(cell(row, tirePriceLayout, "brand"))
		modelName := parse.Text(cell(row, tirePriceLayout, "model"))
		if brand == "" || modelName == "" {
			summary.Skipped++
			continue
		}

		supplier, err := s.suppliers.Resolve(ctx, cell(row, tirePriceLayout, "supplier"))
		if errors.Is(err, ErrSupplierInactive) {
			summary.Skipped++
			continue
		}
		if err != nil {
			summary.AddRowError(i, err)
			continue
		}

		purchase := parse.Decimal(cell(row, tirePriceLayout, "purchase"))
		selling := parse.Decimal(cell(row, tirePriceLayout, "selling"))
		price := ResolvePrice(selling, purchase, supplier)
		if price == nil {
			summary.Skipped++
			continue
		}

		width := parse.Int(cell(row, tirePriceLayout, "width"))
		profile := parse.Int(cell(row, tirePriceLayout, "profile"))
		diameter := parse.Int(cell(row, tirePriceLayout, "diameter"))
		if width == nil || profile == nil || diameter == nil {
			summary.Skipped++
			continue
		}

		loadIndex := 0
		if v := parse.FirstOfSlash(cell(row, tirePriceLayout, "load")); v != nil {
			loadIndex = *v
		}
		stock := 0
		if v := parse.Int(cell(row, tirePriceLayout, "stock")); v != nil {
			stock = *v
		}
		inStock := stock > 0
		if supplier != nil && supplier.IsPreorder {
			// 预订供应商的货不算现货
			inStock = false
		}

		fields := TireFields{
			BrandName:     brand,
			ModelName:     modelName,
			Width:         *width,
			Profile:       *profile,
			Diameter:      *diameter,
			LoadIndex:     loadIndex,
			SpeedIndex:    speedIndex(cell(row, tirePriceLayout, "speed")),
			Season:        classifySeason(cell(row, tirePriceLayout, "season")),
			VehicleType:   model.VehiclePassenger,
			PurchasePrice: purchase,
			Price:         *price,
			InStock:       inStock,
			StockQuantity: stock,
			Supplier:      supplier,
			Article:       parse.Text(cell(row, tirePriceLayout, "article")),
			Image:         parse.Text(cell(row, tirePriceLayout, "image")),
			Ref:           strconv.Itoa(i),
		}

		outcome, err := s.upsert.UpsertTire(ctx, fields)
		if err != nil {
			summary.AddRowError(i, err)
			continue
		}
		if outcome == OutcomeCreated {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	log.Printf("[PriceImport] 轮胎价格表导入完成: %s", summary.String())
	return summary
}

// ImportDiskRows 逐行导入轮毂价格表
func (s *PriceImportService) ImportDiskRows(ctx context.Context, rows [][]string) ImportSummary {
	summary := ImportSummary{TotalRows: len(rows)}

	for i, row := range rows {
		brand := parse.Text(cell(row, diskPriceLayout, "brand"))
		modelName := parse.Text(cell(row, diskPriceLayout, "model"))
		if brand == "" || modelName == "" {
			summary.Skipped++
			continue
		}

		supplier, err := s.suppliers.Resolve(ctx, cell(row, diskPriceLayout, "supplier"))
		if errors.Is(err, ErrSupplierInactive) {
			summary.Skipped++
			continue
		}
		if err != nil {
			summary.AddRowError(i, err)
			continue
		}

		purchase := parse.Decimal(cell(row, diskPriceLayout, "purchase"))
		selling := parse.Decimal(cell(row, diskPriceLayout, "selling"))
		price := ResolvePrice(selling, purchase, supplier)
		if price == nil {
			summary.Skipped++
			continue
		}

		width := parse.Decimal(cell(row, diskPriceLayout, "width"))
		diameter := parse.Int(cell(row, diskPriceLayout, "diameter"))
		pcd := parse.Decimal(cell(row, diskPriceLayout, "pcd"))
		if width == nil || diameter == nil || pcd == nil {
			summary.Skipped++
			continue
		}

		et := 0
		if v := parse.Int(cell(row, diskPriceLayout, "et")); v != nil {
			et = *v
		}
		dia := decimal.Zero
		if v := parse.Decimal(cell(row, diskPriceLayout, "dia")); v != nil {
			dia = *v
		}
		bolts := 0
		if v := parse.Int(cell(row, diskPriceLayout, "bolts")); v != nil {
			bolts = *v
		}
		stock := 0
		if v := parse.Int(cell(row, diskPriceLayout, "stock")); v != nil {
			stock = *v
		}
		inStock := stock > 0
		if supplier != nil && supplier.IsPreorder {
			inStock = false
		}

		fields := DiskFields{
			BrandName:     brand,
			ModelName:     modelName,
			Diameter:      *diameter,
			Width:         *width,
			Bolts:         bolts,
			Pcd:           *pcd,
			Dia:           dia,
			Et:            et,
			DiskType:      classifyDiskType(cell(row, diskPriceLayout, "disk_type")),
			Color:         parse.Text(cell(row, diskPriceLayout, "color")),
			PurchasePrice: purchase,
			Price:         *price,
			InStock:       inStock,
			StockQuantity: stock,
			Supplier:      supplier,
			Article:       parse.Text(cell(row, diskPriceLayout, "article")),
			Image:         parse.Text(cell(row, diskPriceLayout, "image")),
			Ref:           strconv.Itoa(i),
		}

		outcome, err := s.upsert.UpsertDisk(ctx, fields)
		if err != nil {
			summary.AddRowError(i, err)
			continue
		}
		if outcome == OutcomeCreated {
			summary.Created++
		} else {
			summary.Updated++
		}
	}

	log.Printf("[PriceImport] 轮毂价格表导入完成: %s", summary.String())
	return summary
}

// readSheetRows 读取工作簿第一个表的全部行（价格表没有表头行）
func readSheetRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("打开价格表 %s 失败: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("价格表 %s 没有工作表", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("读取价格表 %s 失败: %w", path, err)
	}
	return rows, nil
}

// cell 按布局取单元格，行太短时返回空串
func cell(row []string, layout map[string]int, name string) string {
	idx := layout[name]
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// classifySeason 价格表季节列是自由文本，按子串归类，默认夏季
func classifySeason(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(lower, "зим"):
		return model.SeasonWinter
	// 全季节在价格表里有连写和分写两种拼法
	case strings.Contains(lower, "всесезон"), strings.Contains(lower, "все сезон"):
		return model.SeasonAllSeason
	default:
		return model.SeasonSummer
	}
}

// classifyDiskType 价格表轮毂类型列按子串归类，默认铸造
func classifyDiskType(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(lower, "штамп"):
		return model.DiskTypeSteel
	case strings.Contains(lower, "кован"):
		return model.DiskTypeForged
	default:
		return model.DiskTypeAlloy
	}
}

// speedIndex 速度级别只保留前两个字符（存储上限）
func speedIndex(raw string) string {
	s := parse.Text(raw)
	if len([]rune(s)) > 2 {
		return string([]rune(s)[:2])
	}
	return s
}
