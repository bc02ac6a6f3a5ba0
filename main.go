package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	fmt.Println(">>> 开始执行全链路测试...")

	// ------------------------------------------------
	// 1. 连接数据库
	// ------------------------------------------------
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=tire_shop port=5432 sslmode=disable"
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ 数据库连接失败: %v", err)
	}
	fmt.Println("✅ 数据库连接成功！")

	// ------------------------------------------------
	// 2. 检查目录表数据量
	// ------------------------------------------------
	var tires, disks, fitments int64
	db.Table("tires").Count(&tires)
	db.Table("disks").Count(&disks)
	db.Table("car_fitments").Count(&fitments)
	fmt.Printf("✅ 目录统计: 轮胎 %d, 轮毂 %d, 适配 %d\n", tires, disks, fitments)

	// ------------------------------------------------
	// 3. 探测媒体服务器 (图片下载源)
	// ------------------------------------------------
	baseURL := os.Getenv("IMAGE_BASE_URL")
	if baseURL == "" {
		baseURL = "https://km120.com.ua/media/"
	}

	client := resty.New()
	client.SetTimeout(10 * time.Second)
	client.SetRetryCount(3)

	fmt.Println(">>> 正在探测媒体服务器...")
	resp, err := client.R().Head(baseURL)
	if err != nil {
		log.Fatalf("❌ 请求失败 (可能是网络不通): %v", err)
	}

	if resp.StatusCode() < 500 {
		fmt.Println("🎉 测试成功！数据库与媒体源均可达！")
	} else {
		fmt.Printf("⚠️ 连接通了，但媒体服务器异常 (状态码 %d)\n", resp.StatusCode())
	}
}
