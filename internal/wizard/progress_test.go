package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProgressFresh(t *testing.T) {
	p := RenderProgress(NewSteps(), 0)

	assert.Equal(t, 0, p.Percent)
	assert.Equal(t, StepWelcome, p.CurrentStep)
	require.Len(t, p.Steps, len(Sequence))

	assert.Equal(t, StateCurrent, p.Steps[0].State)
	for _, v := range p.Steps[1:] {
		assert.Equal(t, StateUpcoming, v.State)
	}
}

func TestRenderProgressMidway(t *testing.T) {
	steps := NewSteps()
	steps[indexOf(StepProfile)].Completed = true
	steps[indexOf(StepTeam)].Completed = true

	p := RenderProgress(steps, indexOf(StepWards))

	// 6 步中完成 2 步，整数截断
	assert.Equal(t, 33, p.Percent)
	assert.Equal(t, StepWards, p.CurrentStep)

	assert.Equal(t, StateCompleted, p.Steps[indexOf(StepProfile)].State)
	assert.Equal(t, StateCompleted, p.Steps[indexOf(StepTeam)].State)
	assert.Equal(t, StateCurrent, p.Steps[indexOf(StepWards)].State)
	assert.Equal(t, StateUpcoming, p.Steps[indexOf(StepSLA)].State)
}

func TestRenderProgressCurrentWinsOverCompleted(t *testing.T) {
	steps := NewSteps()
	steps[indexOf(StepProfile)].Completed = true

	// back 导航回到已完成的步骤：current 覆盖 completed
	p := RenderProgress(steps, indexOf(StepProfile))

	assert.Equal(t, StateCurrent, p.Steps[indexOf(StepProfile)].State)
	// 完成度不受游标位置影响
	assert.Equal(t, 16, p.Percent)
}

func TestRenderProgressClampsCursor(t *testing.T) {
	steps := NewSteps()

	p := RenderProgress(steps, 42)
	assert.Equal(t, StepComplete, p.CurrentStep)

	p = RenderProgress(steps, -1)
	assert.Equal(t, StepWelcome, p.CurrentStep)
}

func TestRenderProgressSkippedStepStaysUpcoming(t *testing.T) {
	steps := NewSteps()
	steps[indexOf(StepProfile)].Completed = true
	// team 被跳过：Completed=false

	p := RenderProgress(steps, indexOf(StepWards))

	// 跳过的步骤不算完成，渲染为 upcoming
	assert.Equal(t, StateUpcoming, p.Steps[indexOf(StepTeam)].State)
	assert.Equal(t, 16, p.Percent)
}
