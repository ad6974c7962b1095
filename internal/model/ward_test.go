package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWardsFromStepData(t *testing.T) {
	// json 反序列化后的形态：数字是 float64
	data := map[string]interface{}{
		"wards": []interface{}{
			map[string]interface{}{
				"wardNumber":      float64(1),
				"name":            "Krugersdorp Central",
				"councillorName":  "T. Nkosi",
				"councillorPhone": "+27110000001",
			},
			map[string]interface{}{
				"wardNumber": float64(12),
			},
		},
	}

	wards := WardsFromStepData(42, data)

	require.Len(t, wards, 2)
	assert.Equal(t, int64(42), wards[0].MunicipalityID)
	assert.Equal(t, 1, wards[0].WardNumber)
	assert.Equal(t, "Krugersdorp Central", wards[0].Name)
	assert.Equal(t, "T. Nkosi", wards[0].CouncillorName)
	assert.Equal(t, "+27110000001", wards[0].CouncillorPhone)

	// 选填字段缺省为空串
	assert.Equal(t, 12, wards[1].WardNumber)
	assert.Empty(t, wards[1].Name)
}

func TestWardsFromStepDataDropsInvalidEntries(t *testing.T) {
	data := map[string]interface{}{
		"wards": []interface{}{
			map[string]interface{}{"name": "no number"},
			map[string]interface{}{"wardNumber": float64(0)},
			map[string]interface{}{"wardNumber": float64(-3)},
			"not an object",
			map[string]interface{}{"wardNumber": float64(7)},
		},
	}

	wards := WardsFromStepData(1, data)

	require.Len(t, wards, 1)
	assert.Equal(t, 7, wards[0].WardNumber)
}

func TestWardsFromStepDataEmptyDraft(t *testing.T) {
	// wards 步骤被跳过时没有草稿
	assert.Nil(t, WardsFromStepData(1, nil))
	assert.Nil(t, WardsFromStepData(1, map[string]interface{}{}))
	assert.Nil(t, WardsFromStepData(1, map[string]interface{}{"wards": "oops"}))
}
