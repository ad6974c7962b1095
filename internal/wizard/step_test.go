package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepSequenceOrder(t *testing.T) {
	expected := []StepID{StepWelcome, StepProfile, StepTeam, StepWards, StepSLA, StepComplete}
	assert.Equal(t, expected, Sequence)

	steps := NewSteps()
	assert.Len(t, steps, len(Sequence))
	for i, s := range steps {
		assert.Equal(t, Sequence[i], s.ID)
		assert.False(t, s.Completed)
		assert.NotEmpty(t, s.Title)
	}
}

func TestStepIDValid(t *testing.T) {
	for _, id := range Sequence {
		assert.True(t, id.Valid(), "step %s should be valid", id)
	}
	assert.False(t, StepID("billing").Valid())
	assert.False(t, StepID("").Valid())
}

func TestStepSkippable(t *testing.T) {
	assert.True(t, StepTeam.Skippable())
	assert.True(t, StepWards.Skippable())
	assert.True(t, StepSLA.Skippable())

	assert.False(t, StepWelcome.Skippable())
	assert.False(t, StepProfile.Skippable())
	assert.False(t, StepComplete.Skippable())
}

func TestStepCarriesData(t *testing.T) {
	assert.False(t, StepWelcome.CarriesData())
	assert.False(t, StepComplete.CarriesData())

	assert.True(t, StepProfile.CarriesData())
	assert.True(t, StepTeam.CarriesData())
	assert.True(t, StepWards.CarriesData())
	assert.True(t, StepSLA.CarriesData())
}

func completeProfileData() StepData {
	return StepData{
		"municipalityName":  "Mogale City",
		"municipalityCode":  "GT481",
		"province":          "Gauteng",
		"contactEmail":      "info@mogalecity.gov.za",
		"contactPhone":      "0116684000",
		"contactPersonName": "T. Nkosi",
	}
}

func TestCanProceedProfileRequiresAllFields(t *testing.T) {
	assert.True(t, CanProceed(StepProfile, completeProfileData()))

	// 任意一个必填字段缺失都应阻塞
	for field := range completeProfileData() {
		data := completeProfileData()
		delete(data, field)
		assert.False(t, CanProceed(StepProfile, data), "missing %s should block", field)
	}

	// 空字符串等同于缺失
	data := completeProfileData()
	data["contactEmail"] = ""
	assert.False(t, CanProceed(StepProfile, data))

	// 非字符串值不算填写
	data = completeProfileData()
	data["contactPhone"] = 116684000
	assert.False(t, CanProceed(StepProfile, data))

	assert.False(t, CanProceed(StepProfile, nil))
}

func TestCanProceedOtherStepsAlwaysAllowed(t *testing.T) {
	for _, id := range []StepID{StepWelcome, StepTeam, StepWards, StepSLA, StepComplete} {
		assert.True(t, CanProceed(id, nil), "step %s should not block", id)
	}

	assert.False(t, CanProceed(StepID("unknown"), nil))
}
