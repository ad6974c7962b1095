package wizard

// StepID 引导步骤的稳定标识，和前端约定的 wire token 保持一致
type StepID string

const (
	StepWelcome  StepID = "welcome"
	StepProfile  StepID = "profile"
	StepTeam     StepID = "team"
	StepWards    StepID = "wards"
	StepSLA      StepID = "sla"
	StepComplete StepID = "complete"
)

// Sequence 步骤的固定全序，线性推进，不存在分支
var Sequence = []StepID{
	StepWelcome,
	StepProfile,
	StepTeam,
	StepWards,
	StepSLA,
	StepComplete,
}

// StepData 单个步骤的表单数据，按步骤 id 归属
type StepData map[string]interface{}

// Step 步骤及其完成标记
type Step struct {
	ID        StepID `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"is_completed"`
}

// profileRequiredFields profile 步骤的必填字段，全部非空才允许推进
var profileRequiredFields = []string{
	"municipalityName",
	"municipalityCode",
	"province",
	"contactEmail",
	"contactPhone",
	"contactPersonName",
}

// NewSteps 构造规范步骤列表，controller 初始化时调用一次
func NewSteps() []Step {
	steps := make([]Step, 0, len(Sequence))
	for _, id := range Sequence {
		steps = append(steps, Step{ID: id, Title: id.Title()})
	}
	return steps
}

// Valid 判断是否是已知步骤 id
func (id StepID) Valid() bool {
	switch id {
	case StepWelcome, StepProfile, StepTeam, StepWards, StepSLA, StepComplete:
		return true
	}
	return false
}

// Skippable 只有 team、wards、sla 允许跳过
func (id StepID) Skippable() bool {
	switch id {
	case StepTeam, StepWards, StepSLA:
		return true
	case StepWelcome, StepProfile, StepComplete:
		return false
	}
	return false
}

// CarriesData welcome 和 complete 永远不携带持久化数据
func (id StepID) CarriesData() bool {
	switch id {
	case StepProfile, StepTeam, StepWards, StepSLA:
		return true
	case StepWelcome, StepComplete:
		return false
	}
	return false
}

// Title 步骤展示名
func (id StepID) Title() string {
	switch id {
	case StepWelcome:
		return "Welcome"
	case StepProfile:
		return "Municipality Profile"
	case StepTeam:
		return "Invite Your Team"
	case StepWards:
		return "Ward Setup"
	case StepSLA:
		return "Service Level Targets"
	case StepComplete:
		return "All Done"
	}
	return string(id)
}

// CanProceed 当前步骤的推进校验
// profile 要求必填字段全部为非空字符串，其余步骤不设阻塞校验
func CanProceed(id StepID, data StepData) bool {
	switch id {
	case StepProfile:
		for _, field := range profileRequiredFields {
			v, ok := data[field]
			if !ok {
				return false
			}
			s, ok := v.(string)
			if !ok || s == "" {
				return false
			}
		}
		return true
	case StepWelcome, StepTeam, StepWards, StepSLA, StepComplete:
		return true
	}
	return false
}

// indexOf 返回步骤在固定序列中的位置，未知步骤返回 -1
func indexOf(id StepID) int {
	for i, s := range Sequence {
		if s == id {
			return i
		}
	}
	return -1
}
