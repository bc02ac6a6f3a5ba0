package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"tire_shop_v1_202609/internal/model"
	"tire_shop_v1_202609/pkg/parse"
	"tire_shop_v1_202609/pkg/sqldump"
	"tire_shop_v1_202609/pkg/utils"
)

// product_flat 转储的字段偏移（OpenCart 宽表，同一商品每个语言一行）
const (
	colSKU       = 1
	colName      = 3
	colPrice     = 10
	colLocale    = 21
	colProductID = 23

	// 轮胎块
	colTireRadius  = 38
	colTireWidth   = 40
	colTireProfile = 42
	colTireSeason  = 44
	colTireBrand   = 46
	colVehicle     = 48
	colTireSpeed   = 50
	colTireLoad    = 52
	colStudded     = 53
	colTireModel   = 55

	// 轮毂块
	colWheelRadius = 57
	colWheelWidth  = 59
	colWheelPcd    = 61
	colWheelDia    = 63
	colWheelEt     = 65
	colWheelType   = 67
	colWheelBrand  = 69
	colWheelModel  = 71
)

// 有效记录的最小字段数，短于它的行直接丢弃
const minProductFields = 70

const productTable = "product_flat"

// 转储里的标签是精确值而不是自由文本，用等值映射
var (
	dumpSeasonMap = map[string]string{
		"летняя":       model.SeasonSummer,
		"зимняя":       model.SeasonWinter,
		"всесезонная":  model.SeasonAllSeason,
		"всесезонка":   model.SeasonAllSeason,
	}
	dumpVehicleMap = map[string]string{
		"легковой":     model.VehiclePassenger,
		"внедорожник":  model.VehicleSUV,
		"suv":          model.VehicleSUV,
		"грузовой":     model.VehicleTruck,
		"микроавтобус": model.VehicleVan,
	}
	dumpDiskTypeMap = map[string]string{
		"литой":    model.DiskTypeAlloy,
		"литые":    model.DiskTypeAlloy,
		"стальной": model.DiskTypeSteel,
		"стальные": model.DiskTypeSteel,
		"кованый":  model.DiskTypeForged,
		"кованые":  model.DiskTypeForged,
	}
)

// PCD 标签形如 "5x114.3"：孔数 x 孔距
var pcdPattern = regexp.MustCompile(`^(\d+)[xX](\d+\.?\d*)`)

// DumpImportService 从 OpenCart SQL 转储导入商品
// 转储没有供应商和进货价信息，这类字段一律留空
type DumpImportService struct {
	upsert *UpsertService
}

// NewDumpImportService 创建转储导入服务
func NewDumpImportService(upsert *UpsertService) *DumpImportService {
	return &DumpImportService{upsert: upsert}
}

// ImportProducts 导入转储里的全部商品，limit > 0 时只处理前 limit 条
func (s *DumpImportService) ImportProducts(ctx context.Context, path string, limit int) (ImportSummary, error) {
	content, err := sqldump.ReadDumpFile(path)
	if err != nil {
		return ImportSummary{}, err
	}

	bodies := sqldump.ExtractInserts(content, productTable)
	if len(bodies) == 0 {
		return ImportSummary{}, fmt.Errorf("转储 %s 中没有 %s 数据", path, productTable)
	}
	log.Printf("[DumpImport] 找到 %d 条 INSERT 语句", len(bodies))

	summary := ImportSummary{}
	var records [][]string
	for i, body := range bodies {
		recs, err := sqldump.Tokenize(body)
		if err != nil {
			// 坏语句跳过，其余语句继续
			summary.AddStatementError(i, err)
			continue
		}
		records = append(records, recs...)
	}
	log.Printf("[DumpImport] 解析出 %d 条记录", len(records))

	products := dedupeByProductID(records)
	log.Printf("[DumpImport] 去重后 %d 个商品", len(products))
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	summary.TotalRows = len(products)

	for i, record := range products {
		if err := s.importProduct(ctx, record, &summary); err != nil {
			summary.AddRowError(i, err)
		}
		if (i+1)%1000 == 0 {
			log.Printf("[DumpImport] 已处理 %d 个商品", i+1)
		}
	}

	log.Printf("[DumpImport] 转储导入完成: %s", summary.String())
	return summary, nil
}

// dedupeByProductID 只保留乌克兰语行（每个商品每种语言各一行），
// 同一 product_id 重复出现时后者覆盖前者，顺序按首次出现
func dedupeByProductID(records [][]string) [][]string {
	byID := make(map[string][]string)
	var order []string
	for _, record := range records {
		if len(record) < minProductFields {
			continue
		}
		locale := dumpField(record, colLocale)
		productID := dumpField(record, colProductID)
		if locale != "ukr" || productID == "" {
			continue
		}
		if _, seen := byID[productID]; !seen {
			order = append(order, productID)
		}
		byID[productID] = record
	}

	products := make([][]string, 0, len(order))
	for _, id := range order {
		products = append(products, byID[id])
	}
	return products
}

// importProduct 按商品块分流：轮胎块有值走轮胎，轮毂块有值走轮毂，都没有跳过
func (s *DumpImportService) importProduct(ctx context.Context, record []string, summary *ImportSummary) error {
	name := dumpField(record, colName)
	sku := dumpField(record, colSKU)

	price, err := decimal.NewFromString(dumpField(record, colPrice))
	if err != nil {
		price = decimal.Zero
	}
	if !price.IsPositive() {
		summary.Skipped++
		return nil
	}

	switch {
	case dumpField(record, colTireRadius) != "" && dumpField(record, colTireBrand) != "":
		return s.importTire(ctx, record, name, sku, price, summary)
	case dumpField(record, colWheelRadius) != "" && dumpField(record, colWheelBrand) != "":
		return s.importDisk(ctx, record, name, sku, price, summary)
	default:
		summary.Skipped++
		return nil
	}
}

func (s *DumpImportService) importTire(ctx context.Context, record []string, name, sku string, price decimal.Decimal, summary *ImportSummary) error {
	brand := dumpField(record, colTireBrand)
	if brand == "" {
		brand = "Unknown"
	}

	diameter := intOrZero(dumpField(record, colTireRadius))
	width := intOrZero(dumpField(record, colTireWidth))
	profile := intOrZero(dumpField(record, colTireProfile))
	if diameter == 0 || width == 0 || profile == 0 {
		summary.Skipped++
		return nil
	}

	season := model.SeasonSummer
	if v, ok := dumpSeasonMap[strings.ToLower(dumpField(record, colTireSeason))]; ok {
		season = v
	}
	vehicleType := model.VehiclePassenger
	if v, ok := dumpVehicleMap[strings.ToLower(dumpField(record, colVehicle))]; ok {
		vehicleType = v
	}

	speed := dumpField(record, colTireSpeed)
	if speed == "" {
		speed = "H"
	}
	loadIndex := 91
	if v := parse.Int(dumpField(record, colTireLoad)); v != nil {
		loadIndex = *v
	}

	modelName := dumpField(record, colTireModel)
	if modelName == "" {
		modelName = name
	}

	fields := TireFields{
		BrandName:     brand,
		ModelName:     utils.TruncateRunes(modelName, 200),
		Width:         width,
		Profile:       profile,
		Diameter:      diameter,
		LoadIndex:     loadIndex,
		SpeedIndex:    speedIndex(speed),
		Season:        season,
		VehicleType:   vehicleType,
		Studded:       dumpField(record, colStudded) == "1",
		Price:         price,
		InStock:       true,
		StockQuantity: 4,
		Article:       sku,
		Ref:           dumpField(record, colProductID),
	}

	outcome, err := s.upsert.UpsertTire(ctx, fields)
	if err != nil {
		return err
	}
	if outcome == OutcomeCreated {
		summary.Created++
	} else {
		summary.Updated++
	}
	return nil
}

func (s *DumpImportService) importDisk(ctx context.Context, record []string, name, sku string, price decimal.Decimal, summary *ImportSummary) error {
	brand := dumpField(record, colWheelBrand)
	if brand == "" {
		brand = "Unknown"
	}

	diameter := intOrZero(dumpField(record, colWheelRadius))
	if diameter == 0 {
		summary.Skipped++
		return nil
	}

	width := decimal.NewFromFloat(6.5)
	if v := parse.Decimal(dumpField(record, colWheelWidth)); v != nil {
		width = *v
	}

	bolts, pcd := 5, decimal.NewFromFloat(114.3)
	if m := pcdPattern.FindStringSubmatch(dumpField(record, colWheelPcd)); m != nil {
		bolts = intOrZero(m[1])
		if v, err := decimal.NewFromString(m[2]); err == nil {
			pcd = v
		}
	}

	dia := decimal.NewFromFloat(67.1)
	if v := parse.Decimal(dumpField(record, colWheelDia)); v != nil {
		dia = *v
	}
	et := 45
	if v := parse.Int(dumpField(record, colWheelEt)); v != nil {
		et = *v
	}

	diskType := model.DiskTypeAlloy
	if v, ok := dumpDiskTypeMap[strings.ToLower(dumpField(record, colWheelType))]; ok {
		diskType = v
	}

	modelName := dumpField(record, colWheelModel)
	if modelName == "" {
		modelName = name
	}

	fields := DiskFields{
		BrandName:     brand,
		ModelName:     utils.TruncateRunes(modelName, 200),
		Diameter:      diameter,
		Width:         width,
		Bolts:         bolts,
		Pcd:           pcd,
		Dia:           dia,
		Et:            et,
		DiskType:      diskType,
		Price:         price,
		InStock:       true,
		StockQuantity: 4,
		Article:       sku,
		Ref:           dumpField(record, colProductID),
		// 转储只有这三项可组 slug
		SlugBase: fmt.Sprintf("%s-%s-%d", brand, modelName, diameter),
	}

	outcome, err := s.upsert.UpsertDisk(ctx, fields)
	if err != nil {
		return err
	}
	if outcome == OutcomeCreated {
		summary.Created++
	} else {
		summary.Updated++
	}
	return nil
}

// dumpField 取转储记录的一个字段并清洗，越界返回空串
func dumpField(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return sqldump.CleanValue(record[idx])
}

func intOrZero(s string) int {
	if v := parse.Int(s); v != nil {
		return *v
	}
	return 0
}
