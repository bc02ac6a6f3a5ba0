package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"tire_shop_v1_202609/internal/model"
	"tire_shop_v1_202609/internal/repository"
	"tire_shop_v1_202609/pkg/sqldump"
	"tire_shop_v1_202609/pkg/utils"
)

const (
	fitmentTable     = "podbor_shini_i_diski"
	fitmentBatchSize = 1000

	// 转储表结构：0 id, 1 vendor, 2 car, 3 year, 4 modification,
	// 5 pcd, 6 diametr, 7 gaika, 8-10 轮胎三档, 11-13 轮毂三档, 14 url
	fitmentMinFields = 14
)

// FitmentService 整车适配数据导入（SQL 转储或 CSV）
// 两种来源都是替换式：先清空整表再分批写入
type FitmentService struct {
	repo repository.FitmentRepository
}

// NewFitmentService 创建适配数据导入服务
func NewFitmentService(repo repository.FitmentRepository) *FitmentService {
	return &FitmentService{repo: repo}
}

// ImportDump 从 SQL 转储导入适配数据
func (s *FitmentService) ImportDump(ctx context.Context, path string) (ImportSummary, error) {
	content, err := sqldump.ReadDumpFile(path)
	if err != nil {
		return ImportSummary{}, err
	}

	bodies := sqldump.ExtractInserts(content, fitmentTable)
	if len(bodies) == 0 {
		return ImportSummary{}, fmt.Errorf("转储 %s 中没有 %s 数据", path, fitmentTable)
	}

	summary := ImportSummary{}
	var records [][]string
	for i, body := range bodies {
		recs, err := sqldump.Tokenize(body)
		if err != nil {
			summary.AddStatementError(i, err)
			continue
		}
		records = append(records, recs...)
	}
	summary.TotalRows = len(records)
	log.Printf("[Fitment] 解析出 %d 条适配记录", len(records))

	if err := s.repo.DeleteAll(ctx); err != nil {
		return summary, fmt.Errorf("清空适配数据失败: %w", err)
	}

	batch := make([]model.CarFitment, 0, fitmentBatchSize)
	for _, record := range records {
		fitment := fitmentFromDump(record)
		if fitment == nil {
			summary.Skipped++
			continue
		}
		batch = append(batch, *fitment)
		if len(batch) >= fitmentBatchSize {
			if err := s.repo.BatchCreate(ctx, batch); err != nil {
				return summary, fmt.Errorf("批量写入适配数据失败: %w", err)
			}
			summary.Created += len(batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := s.repo.BatchCreate(ctx, batch); err != nil {
			return summary, fmt.Errorf("批量写入适配数据失败: %w", err)
		}
		summary.Created += len(batch)
	}

	log.Printf("[Fitment] 转储导入完成: %s", summary.String())
	return summary, nil
}

// fitmentFromDump 把一条转储记录映射为适配实体，字段不足或缺厂商/车型返回 nil
func fitmentFromDump(record []string) *model.CarFitment {
	if len(record) < fitmentMinFields {
		return nil
	}

	field := func(idx, maxLen int) string {
		v := sqldump.CleanValue(record[idx])
		if maxLen > 0 {
			v = utils.TruncateRunes(v, maxLen)
		}
		return v
	}

	vendor := field(1, 100)
	car := field(2, 100)
	if vendor == "" || car == "" {
		return nil
	}

	return &model.CarFitment{
		Vendor:            vendor,
		Car:               car,
		Year:              field(3, 50),
		Modification:      field(4, 200),
		Pcd:               field(5, 50),
		CenterBore:        field(6, 50),
		BoltType:          field(7, 100),
		OemTires:          field(8, 0),
		ReplacementTires:  field(9, 0),
		TuningTires:       field(10, 0),
		OemWheels:         field(11, 0),
		ReplacementWheels: field(12, 0),
		TuningWheels:      field(13, 0),
	}
}

// ImportCSV 从分号分隔的 CSV 导入适配数据
// 来源文件编码不稳定，先探测 cp1251/utf-8/latin1 再解码
func (s *FitmentService) ImportCSV(ctx context.Context, path string) (ImportSummary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("读取 CSV %s 失败: %w", path, err)
	}

	reader := csv.NewReader(strings.NewReader(decodeFitmentCSV(raw)))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return ImportSummary{}, fmt.Errorf("读取 CSV 表头失败: %w", err)
	}
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}

	summary := ImportSummary{}
	if err := s.repo.DeleteAll(ctx); err != nil {
		return summary, fmt.Errorf("清空适配数据失败: %w", err)
	}

	batch := make([]model.CarFitment, 0, fitmentBatchSize)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			summary.AddRowError(summary.TotalRows, err)
			summary.TotalRows++
			continue
		}
		summary.TotalRows++

		col := func(name string) string {
			idx, ok := colIndex[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		batch = append(batch, model.CarFitment{
			Vendor:            utils.TruncateRunes(col("vendor"), 100),
			Car:               utils.TruncateRunes(col("car"), 100),
			Year:              utils.TruncateRunes(col("year"), 50),
			Modification:      utils.TruncateRunes(col("modification"), 200),
			Pcd:               utils.TruncateRunes(col("pcd"), 50),
			CenterBore:        utils.TruncateRunes(col("diametr"), 50),
			BoltType:          utils.TruncateRunes(col("gaika"), 100),
			OemTires:          col("zavod_shini"),
			ReplacementTires:  col("zamen_shini"),
			TuningTires:       col("tuning_shini"),
			OemWheels:         col("zavod_diskov"),
			ReplacementWheels: col("zamen_diskov"),
			TuningWheels:      col("tuning_diski"),
		})
		if len(batch) >= fitmentBatchSize {
			if err := s.repo.BatchCreate(ctx, batch); err != nil {
				return summary, fmt.Errorf("批量写入适配数据失败: %w", err)
			}
			summary.Created += len(batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := s.repo.BatchCreate(ctx, batch); err != nil {
			return summary, fmt.Errorf("批量写入适配数据失败: %w", err)
		}
		summary.Created += len(batch)
	}

	log.Printf("[Fitment] CSV 导入完成: %s", summary.String())
	return summary, nil
}

// decodeFitmentCSV 按候选编码逐个试解码首行，
// 首行出现表头关键词就用这个编码解整个文件，全部失败按 cp1251 处理
func decodeFitmentCSV(raw []byte) string {
	candidates := []*charmap.Charmap{charmap.Windows1251, nil, charmap.ISO8859_1}

	firstLine := raw
	if idx := strings.IndexByte(string(raw), '\n'); idx >= 0 {
		firstLine = raw[:idx]
	}

	for _, cm := range candidates {
		line, err := decodeBytes(firstLine, cm)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(line), "vendor") || strings.Contains(line, "Acura") {
			content, err := decodeBytes(raw, cm)
			if err == nil {
				return content
			}
		}
	}

	content, err := decodeBytes(raw, charmap.Windows1251)
	if err != nil {
		return string(raw)
	}
	return content
}

// decodeBytes 用给定编码解码，nil 表示按 UTF-8 原样校验
func decodeBytes(raw []byte, cm *charmap.Charmap) (string, error) {
	if cm == nil {
		return strings.ToValidUTF8(string(raw), "�"), nil
	}
	out, err := cm.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
