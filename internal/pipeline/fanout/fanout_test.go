package fanout

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/narraforge/pipeline/internal/domain"
)

type recordedTask struct {
	stepID     string
	pipelineID string
	order      domain.Order
	payload    string
}

type fakeStore struct {
	mu    sync.Mutex
	tasks []recordedTask
}

func (f *fakeStore) CreateTask(_ context.Context, stepID, pipelineID string, order domain.Order, payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, recordedTask{stepID, pipelineID, order, payload})
	return nil
}

func genStepIDs(ids ...string) StepIDGenerator {
	i := 0
	return func() string {
		id := ids[i]
		i++
		return id
	}
}

func TestPlanEnqueuesThreeSuccessorsWithDisjointPayloads(t *testing.T) {
	store := &fakeStore{}
	sceneParseJSON := `{"scenes":[{"scene_number":1,"mood":"calm","story":"Emma woke up"},{"scene_number":2,"mood":"peaceful","story":"After breakfast"}]}`

	err := Plan(context.Background(), store, genStepIDs("img", "trans", "emo"), "pipe-1", domain.OrderSceneParse, sceneParseJSON)
	require.NoError(t, err)
	require.Len(t, store.tasks, 3)

	byOrder := map[domain.Order]recordedTask{}
	for _, tk := range store.tasks {
		byOrder[tk.order] = tk
	}

	require.Equal(t, sceneParseJSON, byOrder[domain.OrderPromptGenerate].payload)

	var translation []map[string]any
	require.NoError(t, json.Unmarshal([]byte(byOrder[domain.OrderSceneTranslateEn].payload), &translation))
	require.Len(t, translation, 2)
	require.Contains(t, translation[0], "story")
	require.NotContains(t, translation[0], "mood")

	var emotion []map[string]any
	require.NoError(t, json.Unmarshal([]byte(byOrder[domain.OrderEmotionClassify].payload), &emotion))
	require.Len(t, emotion, 2)
	require.Contains(t, emotion[0], "mood")
	require.NotContains(t, emotion[0], "story")
}

func TestPlanWithZeroScenesProducesEmptyArrayPayloads(t *testing.T) {
	store := &fakeStore{}
	sceneParseJSON := `{"scenes":[]}`

	err := Plan(context.Background(), store, genStepIDs("img", "trans", "emo"), "pipe-1", domain.OrderSceneParse, sceneParseJSON)
	require.NoError(t, err)
	require.Len(t, store.tasks, 3)

	byOrder := map[domain.Order]recordedTask{}
	for _, tk := range store.tasks {
		byOrder[tk.order] = tk
	}
	require.JSONEq(t, "[]", byOrder[domain.OrderSceneTranslateEn].payload)
	require.JSONEq(t, "[]", byOrder[domain.OrderEmotionClassify].payload)
}

func TestBranchOrderEncoding(t *testing.T) {
	require.Equal(t, domain.Order(31), branchOrder(domain.OrderSceneParse, 1))
	require.Equal(t, domain.Order(32), branchOrder(domain.OrderSceneParse, 2))
}

func TestPlanRejectsMalformedJSON(t *testing.T) {
	store := &fakeStore{}
	err := Plan(context.Background(), store, genStepIDs("a", "b", "c"), "pipe-1", domain.OrderSceneParse, "not json")
	require.Error(t, err)
	require.Empty(t, store.tasks)
}
