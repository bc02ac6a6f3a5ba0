package model

// CarFitment 整车适配数据（某车型年款可装的轮胎/轮毂规格）
// 尺寸字段保留原始分隔文本：'|' 分隔备选方案，'#' 分隔同方案的前/后轴
// 读取侧再解析，导入阶段不做数值化
//
// 全量导入采用破坏性替换：先清空整表再批量写入，不做增量合并
type CarFitment struct {
	BaseModel
	Vendor       string `gorm:"size:100;index;not null" json:"vendor"`
	Car          string `gorm:"size:100;index;not null" json:"car"`
	Year         string `gorm:"size:50" json:"year"`
	Modification string `gorm:"size:200" json:"modification"`

	// --- 螺栓/孔距参数 ---
	Pcd        string `gorm:"size:50" json:"pcd"`
	CenterBore string `gorm:"size:50" json:"center_bore"`
	BoltType   string `gorm:"size:100" json:"bolt_type"`

	// --- 轮胎方案 ---
	OemTires         string `gorm:"type:text" json:"oem_tires"`
	ReplacementTires string `gorm:"type:text" json:"replacement_tires"`
	TuningTires      string `gorm:"type:text" json:"tuning_tires"`

	// --- 轮毂方案 ---
	OemWheels         string `gorm:"type:text" json:"oem_wheels"`
	ReplacementWheels string `gorm:"type:text" json:"replacement_wheels"`
	TuningWheels      string `gorm:"type:text" json:"tuning_wheels"`
}

func (CarFitment) TableName() string {
	return "car_fitments"
}
