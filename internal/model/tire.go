package model

import "github.com/shopspring/decimal"

// 轮胎季节
const (
	SeasonSummer    = "summer"
	SeasonWinter    = "winter"
	SeasonAllSeason = "all_season"
)

// 车辆类型
const (
	VehiclePassenger = "passenger"
	VehicleSUV       = "suv"
	VehicleTruck     = "truck"
	VehicleVan       = "van"
)

// Tire 轮胎商品
// 例：Bridgestone Turanza 6 265/60 R18 110V
// 自然键（无货号时的查重依据）：品牌 + 型号 + 宽度/扁平比/直径
type Tire struct {
	BaseModel

	BrandID int64 `gorm:"index;not null" json:"brand_id"`
	Brand   Brand `gorm:"foreignKey:BrandID" json:"brand"`

	SupplierID *int64    `gorm:"index" json:"supplier_id"`
	Supplier   *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`

	ModelName string `gorm:"size:200;not null" json:"model_name"`
	Slug      string `gorm:"size:250;uniqueIndex;not null" json:"slug"`
	Article   string `gorm:"size:50;uniqueIndex;not null" json:"article"`

	// --- 尺寸规格 ---
	Width    int `gorm:"not null" json:"width"`
	Profile  int `gorm:"not null" json:"profile"`
	Diameter int `gorm:"not null;index" json:"diameter"`

	// --- 性能参数 ---
	LoadIndex   int    `gorm:"default:0" json:"load_index"`
	SpeedIndex  string `gorm:"size:2" json:"speed_index"`
	Season      string `gorm:"size:20;index;default:summer" json:"season"`
	VehicleType string `gorm:"size:20;default:passenger" json:"vehicle_type"`
	Studded     bool   `gorm:"default:false" json:"studded"`

	// --- 价格与库存 ---
	PurchasePrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"purchase_price,omitempty"`
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	InStock       bool             `gorm:"default:true;index" json:"in_stock"`
	StockQuantity int              `gorm:"default:0" json:"stock_quantity"`

	Image string `gorm:"size:255" json:"image"`
}

func (Tire) TableName() string {
	return "tires"
}
