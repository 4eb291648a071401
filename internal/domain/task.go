package domain

// TaskStatus is the lifecycle state of a Task. Transitions are monotonic:
// Queued -> Processing -> (Done|Failed).
type TaskStatus string

const (
	TaskQueued     TaskStatus = "queued"
	TaskProcessing TaskStatus = "processing"
	TaskDone       TaskStatus = "done"
	TaskFailed     TaskStatus = "failed"
)

// Order tags the processor a task is routed to. The fan-out point after
// scene parsing uses a two-digit encoding (int(fmt.Sprintf("%d%d", parent, n)))
// that keeps branch steps distinguishable from the main spine without a
// separate field.
type Order int

const (
	OrderTranslateKoEn    Order = 1
	OrderStoryGenerate    Order = 2
	OrderSceneParse       Order = 3
	OrderPromptGenerate   Order = 4
	OrderImageGenerate    Order = 5
	OrderNotify           Order = 6
	OrderSceneTranslateEn Order = 31
	OrderEmotionClassify  Order = 32
)

// Task is one scheduled step of a pipeline run. The Executor verifies
// Status, Payload, PipelineID, and Order are all present before
// invoking a processor.
type Task struct {
	StepID     string
	PipelineID string
	Order      Order
	Status     TaskStatus
	Payload    string
	Result     string
}

// ClaimedTask is what the Task Store hands back from ClaimNext: the
// decoded Task plus, separately, which of the four required hash
// fields were actually present on the record. Payload legitimately can
// be the empty string — a processor that produces no text still hands
// its successor a valid, empty payload — so "present" has to be tracked
// apart from the zero value rather than inferred from it.
type ClaimedTask struct {
	Task
	HasStatus     bool
	HasPayload    bool
	HasPipelineID bool
	HasOrder      bool
}

// HasRequiredFields reports whether the four fields the Executor must
// verify before dispatch (status, payload, pipeline_id, order) were all
// present on the underlying store record.
func (c ClaimedTask) HasRequiredFields() bool {
	return c.HasStatus && c.HasPayload && c.HasPipelineID && c.HasOrder
}
