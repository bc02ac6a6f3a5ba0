package model

import "github.com/shopspring/decimal"

// 轮毂类型
const (
	DiskTypeAlloy  = "alloy"
	DiskTypeSteel  = "steel"
	DiskTypeForged = "forged"
)

// Disk 轮毂商品
// 例：K&K Drakon 6.5x16 5x114.3 ET45 DIA67.1
// 自然键：品牌 + 型号 + 宽度/直径/PCD/ET
type Disk struct {
	BaseModel

	BrandID int64 `gorm:"index;not null" json:"brand_id"`
	Brand   Brand `gorm:"foreignKey:BrandID" json:"brand"`

	SupplierID *int64    `gorm:"index" json:"supplier_id"`
	Supplier   *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`

	ModelName string `gorm:"size:200;not null" json:"model_name"`
	Slug      string `gorm:"size:250;uniqueIndex;not null" json:"slug"`
	Article   string `gorm:"size:50;uniqueIndex;not null" json:"article"`

	// --- 尺寸规格 ---
	Diameter int             `gorm:"not null;index" json:"diameter"`
	Width    decimal.Decimal `gorm:"type:decimal(3,1);not null" json:"width"`

	// --- 螺栓参数 (PCD) ---
	Bolts int             `gorm:"not null" json:"bolts"`
	Pcd   decimal.Decimal `gorm:"type:decimal(5,1);not null" json:"pcd"`

	// --- 其它规格 ---
	Dia      decimal.Decimal `gorm:"type:decimal(5,1)" json:"dia"`
	Et       int             `json:"et"` // 可为负
	DiskType string          `gorm:"size:20;default:alloy" json:"disk_type"`
	Color    string          `gorm:"size:100" json:"color"`

	// --- 价格与库存 ---
	PurchasePrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"purchase_price,omitempty"`
	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	InStock       bool             `gorm:"default:true;index" json:"in_stock"`
	StockQuantity int              `gorm:"default:0" json:"stock_quantity"`

	Image string `gorm:"size:255" json:"image"`
}

func (Disk) TableName() string {
	return "disks"
}
