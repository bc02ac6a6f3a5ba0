package model

// Brand 轮胎/轮毂品牌
// 导入时按名称惰性创建，slug 生成一次后不再变化
type Brand struct {
	BaseModel
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
}

func (Brand) TableName() string {
	return "brands"
}
