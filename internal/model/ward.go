package model

// Ward 行政选区模型
type Ward struct {
	BaseModel
	MunicipalityID  int64  `gorm:"not null;index:idx_wards_municipality;uniqueIndex:idx_wards_municipality_number" json:"municipality_id"`
	WardNumber      int    `gorm:"not null;uniqueIndex:idx_wards_municipality_number" json:"ward_number"`
	Name            string `gorm:"type:varchar(128);not null;default:''" json:"name"`
	CouncillorName  string `gorm:"type:varchar(64);not null;default:''" json:"councillor_name"`
	CouncillorPhone string `gorm:"type:varchar(32);not null;default:''" json:"councillor_phone"`
}

// TableName 指定表名
func (Ward) TableName() string {
	return "wards"
}

// WardsFromStepData 把向导 wards 步骤的草稿解析成选区行
// 期望结构 {"wards": [{"wardNumber": 1, "name": ..., "councillorName": ..., "councillorPhone": ...}]}
// 缺少有效 wardNumber 的条目直接丢弃
func WardsFromStepData(municipalityID int64, data map[string]interface{}) []Ward {
	if data == nil {
		return nil
	}

	raw, ok := data["wards"].([]interface{})
	if !ok {
		return nil
	}

	wards := make([]Ward, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		number := jsonInt(entry["wardNumber"])
		if number <= 0 {
			continue
		}

		name, _ := entry["name"].(string)
		councillorName, _ := entry["councillorName"].(string)
		councillorPhone, _ := entry["councillorPhone"].(string)

		wards = append(wards, Ward{
			MunicipalityID:  municipalityID,
			WardNumber:      number,
			Name:            name,
			CouncillorName:  councillorName,
			CouncillorPhone: councillorPhone,
		})
	}
	return wards
}

// jsonInt json 反序列化的数字是 float64
func jsonInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}
