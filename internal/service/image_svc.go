package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"tire_shop_v1_202609/internal/model"
	"tire_shop_v1_202609/internal/repository"
	"tire_shop_v1_202609/pkg/parse"
	"tire_shop_v1_202609/pkg/utils"
)

const (
	imageBatchSize      = 1000
	downloadWorkerCount = 10
	downloadTimeout     = 10 * time.Second
)

// DownloadSummary 图片批量下载的结果
type DownloadSummary struct {
	Downloaded int `json:"downloaded"`
	Exists     int `json:"exists"`
	Errors     int `json:"errors"`
	Total      int `json:"total"`
}

// ImageService 商品图片维护：价格表回填 + 远端批量下载
type ImageService struct {
	tires   repository.TireRepository
	disks   repository.DiskRepository
	client  *resty.Client
	baseURL string
	// mediaRoot 下载文件的本地落盘根目录
	mediaRoot string
}

// NewImageService 创建图片服务
func NewImageService(tires repository.TireRepository, disks repository.DiskRepository, baseURL, mediaRoot string) *ImageService {
	client := utils.NewDownloadClient(downloadTimeout)
	return &ImageService{
		tires:     tires,
		disks:     disks,
		client:    client,
		baseURL:   baseURL,
		mediaRoot: mediaRoot,
	}
}

// UpdateTireImagesFromFile 按价格表回填轮胎图片路径
// 匹配键：品牌|型号|宽度|扁平比|直径（品牌型号小写）
func (s *ImageService) UpdateTireImagesFromFile(ctx context.Context, path string) (updated, notFound int, err error) {
	rows, err := readSheetRows(path)
	if err != nil {
		return 0, 0, err
	}
	if len(rows) > 0 {
		// 带表头的价格表变体，首行是列名
		rows = rows[1:]
	}
	return s.UpdateTireImages(ctx, rows)
}

// UpdateTireImages 用价格表行构建图片映射，再整表遍历回填
func (s *ImageService) UpdateTireImages(ctx context.Context, rows [][]string) (updated, notFound int, err error) {
	imageMap := buildImageMap(rows)
	log.Printf("[Image] 图片映射共 %d 条", len(imageMap))

	processed := 0
	err = s.tires.ForEachWithBrand(ctx, imageBatchSize, func(tires []model.Tire) error {
		for _, tire := range tires {
			key := tireImageKey(tire.Brand.Name, tire.ModelName, tire.Width, tire.Profile, tire.Diameter)
			image, ok := imageMap[key]
			if !ok {
				notFound++
				continue
			}
			if err := s.tires.UpdateImage(ctx, tire.ID, image); err != nil {
				return fmt.Errorf("更新轮胎 %d 图片失败: %w", tire.ID, err)
			}
			updated++
		}
		processed += len(tires)
		if processed%5000 == 0 {
			log.Printf("[Image] 已处理 %d 条轮胎 (更新 %d)", processed, updated)
		}
		return nil
	})
	if err != nil {
		return updated, notFound, err
	}

	log.Printf("[Image] 图片回填完成: 更新 %d, 未匹配 %d", updated, notFound)
	return updated, notFound, nil
}

// buildImageMap 从价格表行构建 匹配键 -> 图片路径 的映射
// 五个键字段或图片任一缺失的行丢弃
func buildImageMap(rows [][]string) map[string]string {
	imageMap := make(map[string]string)
	for _, row := range rows {
		brand := parse.Text(cell(row, tirePriceLayout, "brand"))
		modelName := parse.Text(cell(row, tirePriceLayout, "model"))
		width := parse.Int(cell(row, tirePriceLayout, "width"))
		profile := parse.Int(cell(row, tirePriceLayout, "profile"))
		diameter := parse.Int(cell(row, tirePriceLayout, "diameter"))
		image := parse.Text(cell(row, tirePriceLayout, "image"))

		if brand == "" || modelName == "" || width == nil || profile == nil || diameter == nil || image == "" {
			continue
		}
		imageMap[tireImageKey(brand, modelName, *width, *profile, *diameter)] = image
	}
	return imageMap
}

func tireImageKey(brand, modelName string, width, profile, diameter int) string {
	return fmt.Sprintf("%s|%s|%d|%d|%d",
		strings.ToLower(brand), strings.ToLower(modelName), width, profile, diameter)
}

// DownloadDiskImages 并发下载全部轮毂图片到本地
// 已存在的文件跳过，单张失败只计数不中断
func (s *ImageService) DownloadDiskImages(ctx context.Context) (DownloadSummary, error) {
	images, err := s.disks.DistinctImages(ctx)
	if err != nil {
		return DownloadSummary{}, fmt.Errorf("查询轮毂图片列表失败: %w", err)
	}
	log.Printf("[Image] 待下载轮毂图片 %d 张", len(images))

	summary := DownloadSummary{Total: len(images)}
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, downloadWorkerCount)
	)

	for _, image := range images {
		wg.Add(1)
		sem <- struct{}{}
		go func(imagePath string) {
			defer wg.Done()
			defer func() { <-sem }()

			status := s.downloadOne(ctx, imagePath)

			mu.Lock()
			switch status {
			case "downloaded":
				summary.Downloaded++
			case "exists":
				summary.Exists++
			default:
				summary.Errors++
			}
			done := summary.Downloaded + summary.Exists + summary.Errors
			if done%500 == 0 {
				log.Printf("[Image] 下载进度 %d/%d (新下载 %d, 已存在 %d, 失败 %d)",
					done, summary.Total, summary.Downloaded, summary.Exists, summary.Errors)
			}
			mu.Unlock()
		}(image)
	}
	wg.Wait()

	log.Printf("[Image] 下载完成: 新下载 %d, 已存在 %d, 失败 %d",
		summary.Downloaded, summary.Exists, summary.Errors)
	return summary, nil
}

// downloadOne 下载单张图片，返回 downloaded / exists / error
func (s *ImageService) downloadOne(ctx context.Context, imagePath string) string {
	localPath := filepath.Join(s.mediaRoot, imagePath)
	if _, err := os.Stat(localPath); err == nil {
		return "exists"
	}

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		log.Printf("[Image] 创建目录失败 %s: %v", filepath.Dir(localPath), err)
		return "error"
	}

	resp, err := s.client.R().SetContext(ctx).Get(s.baseURL + imagePath)
	if err != nil {
		log.Printf("[Image] 下载失败 %s: %v", imagePath, err)
		return "error"
	}
	if resp.StatusCode() != 200 {
		log.Printf("[Image] 下载失败 %s: HTTP %d", imagePath, resp.StatusCode())
		return "error"
	}

	if err := os.WriteFile(localPath, resp.Body(), 0o644); err != nil {
		log.Printf("[Image] 写入文件失败 %s: %v", localPath, err)
		return "error"
	}
	return "downloaded"
}
