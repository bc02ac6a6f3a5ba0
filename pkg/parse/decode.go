// Package parse 提供价格表/转储字段的本地化解码器
// 所有函数都是全函数：坏数据一律返回 nil/空串，跳过与否由上层映射逻辑决定
package parse

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// absent 判断单元格是否为缺失哨兵（空串、NaN、NULL）
func absent(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "nan", "NaN", "NULL":
		return true
	}
	return false
}

// Decimal 解析带逗号小数点的金额，"0,00"/"0.00" 等零值形式视为缺失
func Decimal(s string) *decimal.Decimal {
	if absent(s) {
		return nil
	}
	str := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, ",", "."), " ", ""))
	if str == "" || str == "0.00" {
		return nil
	}
	d, err := decimal.NewFromString(str)
	if err != nil {
		return nil
	}
	return &d
}

// Int 解析整数，先按浮点再截断（兼容 "91.0" 这类表格导出值）
func Int(s string) *int {
	if absent(s) {
		return nil
	}
	str := strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

// Float 解析带逗号小数点的浮点数
func Float(s string) *float64 {
	if absent(s) {
		return nil
	}
	str := strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return nil
	}
	return &f
}

// FirstOfSlash 解析 "104/102" 这类复合字段，取第一个 / 前的整数
func FirstOfSlash(s string) *int {
	if absent(s) {
		return nil
	}
	head, _, _ := strings.Cut(s, "/")
	return Int(head)
}

// Text 去掉首尾空白，缺失哨兵归一为空串
func Text(s string) string {
	if absent(s) {
		return ""
	}
	return strings.TrimSpace(s)
}
