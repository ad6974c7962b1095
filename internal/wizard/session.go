package wizard

import (
	"context"

	"CivicLink/pkg/errors"
)

// PersistedStep 后端保存的步骤元组，顺序与保存时一致
type PersistedStep struct {
	StepID      StepID   `json:"step_id"`
	IsCompleted bool     `json:"is_completed"`
	StepData    StepData `json:"step_data"`
}

// CacheEntry 兜底缓存的值结构，与 wire 约定保持一致
type CacheEntry struct {
	Step int                 `json:"step"`
	Data map[StepID]StepData `json:"data"`
}

// ProgressStore 引导进度的持久化端口
// Load 返回空列表表示首次访问，SaveStep 按 step_id 幂等覆盖
type ProgressStore interface {
	Load(ctx context.Context) ([]PersistedStep, error)
	SaveStep(ctx context.Context, step PersistedStep) error
	Complete(ctx context.Context) error
}

// FallbackCache 兜底缓存端口，后端可达时只是 resume 提示，不是权威状态
type FallbackCache interface {
	Load(ctx context.Context) (*CacheEntry, error)
	Save(ctx context.Context, entry CacheEntry) error
	Delete(ctx context.Context) error
}

// Session 向导会话，持有步骤列表、游标和各步骤草稿
// 所有状态迁移都经过这里，load 完成前不对外暴露状态
type Session struct {
	steps  []Step
	index  int
	draft  map[StepID]StepData
	store  ProgressStore
	cache  FallbackCache
	loaded bool
}

func NewSession(store ProgressStore, cache FallbackCache) *Session {
	return &Session{
		steps: NewSteps(),
		draft: make(map[StepID]StepData),
		store: store,
		cache: cache,
	}
}

// Load 恢复进度
// 后端有记录则按 id 合并完成标记和数据，游标落在第一个未完成的数据步骤；
// 后端为空时读兜底缓存原样恢复；都没有则从头开始
func (s *Session) Load(ctx context.Context) error {
	persisted, err := s.store.Load(ctx)
	if err != nil {
		// 加载失败等同于空结果，退回缓存，不致命
		persisted = nil
	}

	if len(persisted) > 0 {
		for _, p := range persisted {
			i := indexOf(p.StepID)
			if i < 0 {
				continue
			}
			s.steps[i].Completed = p.IsCompleted
			if p.StepData != nil {
				s.draft[p.StepID] = p.StepData
			}
		}

		for i, step := range s.steps {
			if step.ID.CarriesData() && !step.Completed {
				s.index = i
				break
			}
		}
		// 所有数据步骤都已完成时保持默认游标，允许用户重新浏览
		s.loaded = true
		return nil
	}

	if s.cache != nil {
		entry, cacheErr := s.cache.Load(ctx)
		if cacheErr == nil && entry != nil {
			s.index = clampIndex(entry.Step, len(s.steps))
			for id, data := range entry.Data {
				if id.Valid() {
					s.draft[id] = data
				}
			}
		}
	}

	s.loaded = true
	return nil
}

// Loaded load 是否已完成，未完成前调用方不应渲染状态
func (s *Session) Loaded() bool {
	return s.loaded
}

// CurrentStep 游标所在步骤 id
func (s *Session) CurrentStep() StepID {
	return s.steps[s.index].ID
}

// Index 0 起始的游标
func (s *Session) Index() int {
	return s.index
}

// Steps 步骤列表快照
func (s *Session) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// StepData 某步骤当前草稿
func (s *Session) StepData(id StepID) StepData {
	return s.draft[id]
}

// SetStepData 步骤表单变更事件，controller 始终持有最新草稿
// 每次变更后兜底缓存写透
func (s *Session) SetStepData(ctx context.Context, id StepID, data StepData) error {
	if !id.Valid() {
		return errors.OnboardingStepInvalid
	}
	if !id.CarriesData() {
		return errors.OnboardingStepInvalid
	}

	s.draft[id] = data
	s.writeCache(ctx)
	return nil
}

// CanProceed 当前步骤是否允许推进
func (s *Session) CanProceed() bool {
	return CanProceed(s.CurrentStep(), s.draft[s.CurrentStep()])
}

// Advance 下一步
// 校验不通过时 no-op 返回错误；携带数据的步骤先持久化（等待落盘）再移动游标，
// 保存失败时游标不动，避免后端收到乱序的完成记录
func (s *Session) Advance(ctx context.Context) error {
	current := s.CurrentStep()

	if !CanProceed(current, s.draft[current]) {
		return errors.OnboardingStepIncomplete
	}

	if current.CarriesData() {
		if err := s.store.SaveStep(ctx, PersistedStep{
			StepID:      current,
			IsCompleted: true,
			StepData:    s.draft[current],
		}); err != nil {
			return err
		}
		s.steps[s.index].Completed = true
	}

	if s.index < len(s.steps)-1 {
		s.index++
	}

	s.writeCache(ctx)
	return nil
}

// Back 上一步，纯游标移动，不触发持久化，草稿保留
func (s *Session) Back(ctx context.Context) {
	if s.index > 0 {
		s.index--
		s.writeCache(ctx)
	}
}

// Skip 跳过当前步骤
// 明确记录 is_completed=false，与"填写后完成"区分；跳过不做校验，游标无条件前移
func (s *Session) Skip(ctx context.Context) error {
	current := s.CurrentStep()
	if !current.Skippable() {
		return errors.OnboardingStepNotSkippable
	}

	if err := s.store.SaveStep(ctx, PersistedStep{
		StepID:      current,
		IsCompleted: false,
		StepData:    nil,
	}); err != nil {
		return err
	}

	delete(s.draft, current)

	if s.index < len(s.steps)-1 {
		s.index++
	}

	s.writeCache(ctx)
	return nil
}

// Complete 标记整个引导完成
// 成功后删除兜底缓存；失败返回错误但调用方不应因此阻塞用户离开向导
func (s *Session) Complete(ctx context.Context) error {
	if err := s.store.Complete(ctx); err != nil {
		return err
	}

	if s.cache != nil {
		// 删除失败只能等 TTL 过期，不影响完成
		_ = s.cache.Delete(ctx)
	}
	return nil
}

// writeCache 兜底缓存写透，尽力而为
func (s *Session) writeCache(ctx context.Context) {
	if s.cache == nil || !s.loaded {
		return
	}

	data := make(map[StepID]StepData, len(s.draft))
	for id, d := range s.draft {
		data[id] = d
	}

	_ = s.cache.Save(ctx, CacheEntry{Step: s.index, Data: data})
}

func clampIndex(i, length int) int {
	if i < 0 {
		return 0
	}
	if i > length-1 {
		return length - 1
	}
	return i
}
