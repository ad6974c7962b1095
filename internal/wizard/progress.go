package wizard

// StepState 步骤的三种互斥展示状态
type StepState string

const (
	StateCompleted StepState = "completed"
	StateCurrent   StepState = "current"
	StateUpcoming  StepState = "upcoming"
)

// StepView 单个步骤的渲染结果
type StepView struct {
	ID    StepID    `json:"id"`
	Title string    `json:"title"`
	State StepState `json:"state"`
}

// Progress 进度的派生视图，纯函数计算，无自身状态
type Progress struct {
	Percent     int        `json:"percent"`
	CurrentStep StepID     `json:"current_step"`
	Steps       []StepView `json:"steps"`
}

// RenderProgress 由 (steps, cursor) 派生进度
// 游标处的步骤永远是 current，即使它之前已经完成（back 导航回来的情况）
func RenderProgress(steps []Step, currentIndex int) Progress {
	currentIndex = clampIndex(currentIndex, len(steps))

	completed := 0
	views := make([]StepView, 0, len(steps))
	for i, step := range steps {
		if step.Completed {
			completed++
		}

		state := StateUpcoming
		switch {
		case i == currentIndex:
			state = StateCurrent
		case step.Completed:
			state = StateCompleted
		}

		views = append(views, StepView{ID: step.ID, Title: step.Title, State: state})
	}

	percent := 0
	if len(steps) > 0 {
		percent = completed * 100 / len(steps)
	}

	return Progress{
		Percent:     percent,
		CurrentStep: steps[currentIndex].ID,
		Steps:       views,
	}
}
