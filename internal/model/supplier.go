package model

import "github.com/shopspring/decimal"

// Supplier 供应商
// 从价格表的复合编码（"kiev_Склад Колёс"、"kh_DTW Харьков (21 день)"）惰性创建
// is_active=false 的供应商是硬过滤：引用它的记录一律跳过不导入
type Supplier struct {
	BaseModel
	Name          string          `gorm:"size:200;not null" json:"name"`
	Code          string          `gorm:"size:200;uniqueIndex;not null" json:"code"`
	IsPreorder    bool            `gorm:"default:false" json:"is_preorder"`
	MarkupPercent decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"markup_percent"`
	DeliveryDays  string          `gorm:"size:50" json:"delivery_days"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// ApplyMarkup 按加价率换算售价：purchase * (1 + markup/100)，保留两位
func (s *Supplier) ApplyMarkup(purchase decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(s.MarkupPercent.Div(decimal.NewFromInt(100)))
	return purchase.Mul(factor).Round(2)
}
