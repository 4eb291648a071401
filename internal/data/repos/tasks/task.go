package tasks

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/logger"
)

const (
	queueKey    = "task_queue"
	recordKeyFn = "task:%s"
)

// TaskRepo is the Task Store of record: a hash per step_id plus a single
// blocking list used as the dispatch queue. Both live in the same Redis
// instance; write-then-enqueue is not transactional (per spec, a dangling
// record with no queue entry is the acceptable failure mode if the two
// calls can't be made atomic).
type TaskRepo interface {
	CreateTask(ctx context.Context, stepID, pipelineID string, order domain.Order, payload string) error
	ClaimNext(ctx context.Context, blockFor time.Duration) (*domain.ClaimedTask, error)
	Complete(ctx context.Context, stepID string, status domain.TaskStatus, result string) error
	Read(ctx context.Context, stepID string) (*domain.ClaimedTask, error)
}

type taskRepo struct {
	rdb *goredis.Client
	log *logger.Logger
}

func NewTaskRepo(rdb *goredis.Client, baseLog *logger.Logger) TaskRepo {
	return &taskRepo{rdb: rdb, log: baseLog.With("repo", "TaskRepo")}
}

func recordKey(stepID string) string {
	return fmt.Sprintf(recordKeyFn, stepID)
}

func (r *taskRepo) CreateTask(ctx context.Context, stepID, pipelineID string, order domain.Order, payload string) error {
	key := recordKey(stepID)
	if err := r.rdb.HSet(ctx, key, map[string]interface{}{
		"status":      string(domain.TaskQueued),
		"payload":     payload,
		"pipeline_id": pipelineID,
		"order":       strconv.Itoa(int(order)),
	}).Err(); err != nil {
		return fmt.Errorf("write task record %s: %w", stepID, err)
	}
	if err := r.rdb.LPush(ctx, queueKey, stepID).Err(); err != nil {
		return fmt.Errorf("enqueue task %s: %w", stepID, err)
	}
	return nil
}

// ClaimNext blocks on the tail of task_queue for up to blockFor (0 means
// block indefinitely), then marks the popped record processing before
// returning it. The read-then-write here is not itself atomic, but
// the popped step_id has exactly one observer so no other worker can race
// the update.
func (r *taskRepo) ClaimNext(ctx context.Context, blockFor time.Duration) (*domain.ClaimedTask, error) {
	res, err := r.rdb.BRPop(ctx, blockFor, queueKey).Result()
	if err != nil {
		return nil, err
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply shape: %v", res)
	}
	stepID := res[1]

	key := recordKey(stepID)
	fields, err := r.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("read claimed task %s: %w", stepID, err)
	}
	claimed := decode(stepID, fields)

	if err := r.rdb.HSet(ctx, key, "status", string(domain.TaskProcessing)).Err(); err != nil {
		return nil, fmt.Errorf("mark task %s processing: %w", stepID, err)
	}
	claimed.Status = domain.TaskProcessing
	return claimed, nil
}

func (r *taskRepo) Complete(ctx context.Context, stepID string, status domain.TaskStatus, result string) error {
	if status != domain.TaskDone && status != domain.TaskFailed {
		return fmt.Errorf("complete requires a terminal status, got %q", status)
	}
	key := recordKey(stepID)
	return r.rdb.HSet(ctx, key, map[string]interface{}{
		"status": string(status),
		"result": result,
	}).Err()
}

func (r *taskRepo) Read(ctx context.Context, stepID string) (*domain.ClaimedTask, error) {
	fields, err := r.rdb.HGetAll(ctx, recordKey(stepID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read task %s: %w", stepID, err)
	}
	return decode(stepID, fields), nil
}

func decode(stepID string, fields map[string]string) *domain.ClaimedTask {
	c := &domain.ClaimedTask{Task: domain.Task{StepID: stepID}}
	if v, ok := fields["status"]; ok {
		c.Status = domain.TaskStatus(v)
		c.HasStatus = true
	}
	if v, ok := fields["payload"]; ok {
		c.Payload = v
		c.HasPayload = true
	}
	if v, ok := fields["pipeline_id"]; ok {
		c.PipelineID = v
		c.HasPipelineID = true
	}
	if v, ok := fields["order"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Order = domain.Order(n)
			c.HasOrder = true
		}
	}
	if v, ok := fields["result"]; ok {
		c.Result = v
	}
	return c
}
