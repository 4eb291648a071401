package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/logger"
)

func newTestRepo(t *testing.T) TaskRepo {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	log, err := logger.New("test")
	require.NoError(t, err)

	return NewTaskRepo(rdb, log)
}

func TestCreateTaskThenClaimNext(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.CreateTask(ctx, "step-1", "pipe-1", domain.OrderTranslateKoEn, "안녕")
	require.NoError(t, err)

	claimed, err := repo.ClaimNext(ctx, time.Second)
	require.NoError(t, err)
	require.True(t, claimed.HasRequiredFields())
	require.Equal(t, "step-1", claimed.StepID)
	require.Equal(t, "pipe-1", claimed.PipelineID)
	require.Equal(t, domain.OrderTranslateKoEn, claimed.Order)
	require.Equal(t, "안녕", claimed.Payload)
	require.Equal(t, domain.TaskProcessing, claimed.Status)
}

func TestClaimNextBlocksUntilAvailable(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	done := make(chan *domain.ClaimedTask, 1)
	go func() {
		claimed, err := repo.ClaimNext(ctx, 2*time.Second)
		if err == nil {
			done <- claimed
		}
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, repo.CreateTask(ctx, "step-2", "pipe-1", domain.OrderStoryGenerate, "hello"))

	select {
	case claimed := <-done:
		require.Equal(t, "step-2", claimed.StepID)
	case <-time.After(2 * time.Second):
		t.Fatal("ClaimNext did not return after task became available")
	}
}

func TestCompleteRequiresTerminalStatus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTask(ctx, "step-3", "pipe-1", domain.OrderStoryGenerate, "x"))
	err := repo.Complete(ctx, "step-3", domain.TaskQueued, "nope")
	require.Error(t, err)

	require.NoError(t, repo.Complete(ctx, "step-3", domain.TaskDone, "the story"))
	got, err := repo.Read(ctx, "step-3")
	require.NoError(t, err)
	require.Equal(t, domain.TaskDone, got.Status)
	require.Equal(t, "the story", got.Result)
}

func TestReadMissingTaskHasNoRequiredFields(t *testing.T) {
	repo := newTestRepo(t)
	got, err := repo.Read(context.Background(), "no-such-step")
	require.NoError(t, err)
	require.False(t, got.HasRequiredFields())
}

func TestEmptyPayloadIsDistinctFromAbsentPayload(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateTask(ctx, "step-4", "pipe-1", domain.OrderSceneTranslateEn, ""))
	got, err := repo.Read(ctx, "step-4")
	require.NoError(t, err)
	require.True(t, got.HasPayload)
	require.Equal(t, "", got.Payload)
	require.True(t, got.HasRequiredFields())
}
