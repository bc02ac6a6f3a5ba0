package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// NewDownloadClient 创建统一配置的 Resty 客户端
// 它是全系统图片下载的统一网络入口
func NewDownloadClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout). // 媒体服务器偶发抖动，超时由调用方按场景给
		SetRetryCount(2).
		SetHeader("User-Agent", "TireShop-Import/1.0")
}
