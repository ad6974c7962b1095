package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "CivicLink/pkg/errors"
)

// fakeStore 内存实现的进度持久化端口
type fakeStore struct {
	persisted []PersistedStep
	saved     []PersistedStep
	loadErr   error
	saveErr   error
	completed bool
}

func (f *fakeStore) Load(ctx context.Context) ([]PersistedStep, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.persisted, nil
}

func (f *fakeStore) SaveStep(ctx context.Context, step PersistedStep) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, step)
	return nil
}

func (f *fakeStore) Complete(ctx context.Context) error {
	f.completed = true
	return nil
}

// fakeCache 内存实现的兜底缓存端口
type fakeCache struct {
	entry   *CacheEntry
	saves   int
	deleted bool
	loadErr error
}

func (f *fakeCache) Load(ctx context.Context) (*CacheEntry, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.entry, nil
}

func (f *fakeCache) Save(ctx context.Context, entry CacheEntry) error {
	f.entry = &entry
	f.saves++
	return nil
}

func (f *fakeCache) Delete(ctx context.Context) error {
	f.entry = nil
	f.deleted = true
	return nil
}

func newLoadedSession(t *testing.T, store *fakeStore, cache *fakeCache) *Session {
	t.Helper()
	s := NewSession(store, cache)
	require.NoError(t, s.Load(context.Background()))
	require.True(t, s.Loaded())
	return s
}

func TestFreshSessionStartsAtWelcome(t *testing.T) {
	s := newLoadedSession(t, &fakeStore{}, &fakeCache{})

	assert.Equal(t, StepWelcome, s.CurrentStep())
	assert.Equal(t, 0, s.Index())
}

func TestAdvanceFromWelcomeNeedsNoData(t *testing.T) {
	store := &fakeStore{}
	s := newLoadedSession(t, store, &fakeCache{})

	require.NoError(t, s.Advance(context.Background()))

	assert.Equal(t, StepProfile, s.CurrentStep())
	// welcome 不携带数据，不应该产生持久化记录
	assert.Empty(t, store.saved)
}

func TestAdvanceBlockedOnIncompleteProfile(t *testing.T) {
	store := &fakeStore{}
	s := newLoadedSession(t, store, &fakeCache{})
	require.NoError(t, s.Advance(context.Background())) // welcome -> profile

	require.NoError(t, s.SetStepData(context.Background(), StepProfile, StepData{
		"municipalityName": "Mogale City",
	}))

	err := s.Advance(context.Background())
	assert.ErrorIs(t, err, pkgerrors.OnboardingStepIncomplete)

	// 校验失败必须是 no-op：游标不动，什么都没保存
	assert.Equal(t, StepProfile, s.CurrentStep())
	assert.Empty(t, store.saved)
}

func TestAdvancePersistsCompletedStep(t *testing.T) {
	store := &fakeStore{}
	s := newLoadedSession(t, store, &fakeCache{})
	require.NoError(t, s.Advance(context.Background()))

	require.NoError(t, s.SetStepData(context.Background(), StepProfile, completeProfileData()))
	require.NoError(t, s.Advance(context.Background()))

	assert.Equal(t, StepTeam, s.CurrentStep())
	require.Len(t, store.saved, 1)
	assert.Equal(t, StepProfile, store.saved[0].StepID)
	assert.True(t, store.saved[0].IsCompleted)
	assert.Equal(t, "GT481", store.saved[0].StepData["municipalityCode"])
}

func TestAdvanceSaveFailureKeepsCursor(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("db down")}
	s := newLoadedSession(t, store, &fakeCache{})
	require.NoError(t, s.Advance(context.Background()))
	require.NoError(t, s.SetStepData(context.Background(), StepProfile, completeProfileData()))

	err := s.Advance(context.Background())
	require.Error(t, err)

	// 保存失败时游标必须停在原地，避免后端收到乱序完成记录
	assert.Equal(t, StepProfile, s.CurrentStep())

	steps := s.Steps()
	assert.False(t, steps[indexOf(StepProfile)].Completed)
}

func TestSkipRecordsIncomplete(t *testing.T) {
	store := &fakeStore{}
	s := newLoadedSession(t, store, &fakeCache{})
	require.NoError(t, s.Advance(context.Background()))
	require.NoError(t, s.SetStepData(context.Background(), StepProfile, completeProfileData()))
	require.NoError(t, s.Advance(context.Background())) // -> team

	require.NoError(t, s.Skip(context.Background()))

	assert.Equal(t, StepWards, s.CurrentStep())
	require.Len(t, store.saved, 2)
	skipped := store.saved[1]
	assert.Equal(t, StepTeam, skipped.StepID)
	// 跳过与完成必须可区分
	assert.False(t, skipped.IsCompleted)
	assert.Nil(t, skipped.StepData)
}

func TestSkipRejectedOnNonSkippableSteps(t *testing.T) {
	store := &fakeStore{}
	s := newLoadedSession(t, store, &fakeCache{})

	err := s.Skip(context.Background())
	assert.ErrorIs(t, err, pkgerrors.OnboardingStepNotSkippable)
	assert.Equal(t, StepWelcome, s.CurrentStep())

	require.NoError(t, s.Advance(context.Background()))
	err = s.Skip(context.Background())
	assert.ErrorIs(t, err, pkgerrors.OnboardingStepNotSkippable)
	assert.Equal(t, StepProfile, s.CurrentStep())
	assert.Empty(t, store.saved)
}

func TestBackIsPureCursorMove(t *testing.T) {
	store := &fakeStore{}
	s := newLoadedSession(t, store, &fakeCache{})
	require.NoError(t, s.Advance(context.Background()))
	require.NoError(t, s.SetStepData(context.Background(), StepProfile, completeProfileData()))
	require.NoError(t, s.Advance(context.Background())) // -> team
	savedBefore := len(store.saved)

	s.Back(context.Background())

	assert.Equal(t, StepProfile, s.CurrentStep())
	// back 不触发持久化
	assert.Len(t, store.saved, savedBefore)
	// 草稿保留
	assert.Equal(t, "GT481", s.StepData(StepProfile)["municipalityCode"])

	// 到头了就不再动
	s.Back(context.Background())
	s.Back(context.Background())
	assert.Equal(t, StepWelcome, s.CurrentStep())
	s.Back(context.Background())
	assert.Equal(t, StepWelcome, s.CurrentStep())
}

func TestBackThenAdvanceRepersistsStep(t *testing.T) {
	store := &fakeStore{}
	s := newLoadedSession(t, store, &fakeCache{})
	require.NoError(t, s.Advance(context.Background()))
	require.NoError(t, s.SetStepData(context.Background(), StepProfile, completeProfileData()))
	require.NoError(t, s.Advance(context.Background())) // -> team

	s.Back(context.Background()) // -> profile

	data := completeProfileData()
	data["contactPersonName"] = "B. Dlamini"
	require.NoError(t, s.SetStepData(context.Background(), StepProfile, data))
	require.NoError(t, s.Advance(context.Background()))

	assert.Equal(t, StepTeam, s.CurrentStep())
	require.Len(t, store.saved, 2)
	assert.Equal(t, "B. Dlamini", store.saved[1].StepData["contactPersonName"])
}

func TestResumeLandsOnFirstIncompleteStep(t *testing.T) {
	store := &fakeStore{
		persisted: []PersistedStep{
			{StepID: StepProfile, IsCompleted: true, StepData: completeProfileData()},
			{StepID: StepTeam, IsCompleted: false}, // skipped
			{StepID: StepWards, IsCompleted: true, StepData: StepData{"wards": []interface{}{}}},
		},
	}
	s := newLoadedSession(t, store, &fakeCache{})

	// team 被跳过（未完成），恢复时落在 team
	assert.Equal(t, StepTeam, s.CurrentStep())
	// 已完成步骤的数据要合并回草稿
	assert.Equal(t, "GT481", s.StepData(StepProfile)["municipalityCode"])
}

func TestResumeSkipsWelcome(t *testing.T) {
	store := &fakeStore{
		persisted: []PersistedStep{
			{StepID: StepProfile, IsCompleted: true, StepData: completeProfileData()},
		},
	}
	s := newLoadedSession(t, store, &fakeCache{})

	// welcome 未完成但不是可恢复点，第一个未完成的非 welcome 步骤是 team
	assert.Equal(t, StepTeam, s.CurrentStep())
}

func TestResumeAllStepsCompleteStaysAtWelcome(t *testing.T) {
	store := &fakeStore{
		persisted: []PersistedStep{
			{StepID: StepProfile, IsCompleted: true, StepData: completeProfileData()},
			{StepID: StepTeam, IsCompleted: true, StepData: StepData{"invitations": []interface{}{}}},
			{StepID: StepWards, IsCompleted: true, StepData: StepData{"wards": []interface{}{}}},
			{StepID: StepSLA, IsCompleted: true, StepData: StepData{"policies": []interface{}{}}},
		},
	}
	s := newLoadedSession(t, store, &fakeCache{})

	// 全部数据步骤已完成：没有可恢复点，游标停在默认的 welcome 重新浏览
	assert.Equal(t, StepWelcome, s.CurrentStep())
	assert.Equal(t, 0, s.Index())
}

func TestResumeFromCacheWhenStoreEmpty(t *testing.T) {
	cache := &fakeCache{
		entry: &CacheEntry{
			Step: 3,
			Data: map[StepID]StepData{
				StepProfile: completeProfileData(),
				StepWards:   {"wards": []interface{}{map[string]interface{}{"wardNumber": float64(12)}}},
			},
		},
	}
	s := newLoadedSession(t, &fakeStore{}, cache)

	assert.Equal(t, StepWards, s.CurrentStep())
	assert.Equal(t, "GT481", s.StepData(StepProfile)["municipalityCode"])
}

func TestResumeFallsBackToCacheOnStoreError(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("backend unreachable")}
	cache := &fakeCache{
		entry: &CacheEntry{
			Step: 1,
			Data: map[StepID]StepData{StepProfile: {"municipalityName": "Mogale City"}},
		},
	}
	s := NewSession(store, cache)

	// 后端加载失败不致命，照样完成 load
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, StepProfile, s.CurrentStep())
	assert.Equal(t, "Mogale City", s.StepData(StepProfile)["municipalityName"])
}

func TestCacheEntryClampsOutOfRangeCursor(t *testing.T) {
	cache := &fakeCache{entry: &CacheEntry{Step: 99}}
	s := newLoadedSession(t, &fakeStore{}, cache)
	assert.Equal(t, StepComplete, s.CurrentStep())

	cache = &fakeCache{entry: &CacheEntry{Step: -4}}
	s = newLoadedSession(t, &fakeStore{}, cache)
	assert.Equal(t, StepWelcome, s.CurrentStep())
}

func TestCacheIgnoresUnknownStepData(t *testing.T) {
	cache := &fakeCache{
		entry: &CacheEntry{
			Step: 1,
			Data: map[StepID]StepData{
				StepID("billing"): {"plan": "gold"},
				StepProfile:       {"province": "Gauteng"},
			},
		},
	}
	s := newLoadedSession(t, &fakeStore{}, cache)

	assert.Nil(t, s.StepData(StepID("billing")))
	assert.Equal(t, "Gauteng", s.StepData(StepProfile)["province"])
}

func TestSetStepDataWritesThroughToCache(t *testing.T) {
	cache := &fakeCache{}
	s := newLoadedSession(t, &fakeStore{}, cache)

	require.NoError(t, s.SetStepData(context.Background(), StepProfile, completeProfileData()))

	require.NotNil(t, cache.entry)
	assert.Equal(t, 0, cache.entry.Step)
	assert.Equal(t, "GT481", cache.entry.Data[StepProfile]["municipalityCode"])
}

func TestSetStepDataRejectsInvalidSteps(t *testing.T) {
	s := newLoadedSession(t, &fakeStore{}, &fakeCache{})

	err := s.SetStepData(context.Background(), StepID("billing"), StepData{})
	assert.ErrorIs(t, err, pkgerrors.OnboardingStepInvalid)

	// welcome 不携带数据
	err = s.SetStepData(context.Background(), StepWelcome, StepData{})
	assert.ErrorIs(t, err, pkgerrors.OnboardingStepInvalid)
}

func TestCompleteDeletesFallbackCache(t *testing.T) {
	store := &fakeStore{}
	cache := &fakeCache{entry: &CacheEntry{Step: 5}}
	s := newLoadedSession(t, store, cache)

	require.NoError(t, s.Complete(context.Background()))

	assert.True(t, store.completed)
	assert.True(t, cache.deleted)
	assert.Nil(t, cache.entry)
}

func TestFullWalkthrough(t *testing.T) {
	store := &fakeStore{}
	cache := &fakeCache{}
	s := newLoadedSession(t, store, cache)

	ctx := context.Background()

	require.NoError(t, s.Advance(ctx)) // welcome -> profile
	require.NoError(t, s.SetStepData(ctx, StepProfile, completeProfileData()))
	require.NoError(t, s.Advance(ctx)) // profile -> team
	require.NoError(t, s.SetStepData(ctx, StepTeam, StepData{
		"invitations": []interface{}{map[string]interface{}{"email": "agent@mogalecity.gov.za", "role": "agent"}},
	}))
	require.NoError(t, s.Advance(ctx)) // team -> wards
	require.NoError(t, s.Skip(ctx))    // wards skipped
	require.NoError(t, s.SetStepData(ctx, StepSLA, StepData{
		"policies": []interface{}{map[string]interface{}{"category": "water", "resolutionHours": float64(72)}},
	}))
	require.NoError(t, s.Advance(ctx)) // sla -> complete

	assert.Equal(t, StepComplete, s.CurrentStep())

	require.Len(t, store.saved, 4)
	assert.Equal(t, StepProfile, store.saved[0].StepID)
	assert.Equal(t, StepTeam, store.saved[1].StepID)
	assert.Equal(t, StepWards, store.saved[2].StepID)
	assert.False(t, store.saved[2].IsCompleted)
	assert.Equal(t, StepSLA, store.saved[3].StepID)
	assert.True(t, store.saved[3].IsCompleted)

	require.NoError(t, s.Complete(ctx))
	assert.True(t, store.completed)
	assert.True(t, cache.deleted)
}
