package domain

import "time"

// SceneResult is one row of the pipeline_result table, keyed by the pair
// (PipelineID, SceneNumber). The row is created on first write of any
// field by any of the three branch processors and is never deleted by
// the core.
type SceneResult struct {
	PipelineID    string `gorm:"primaryKey;column:pipeline_id"`
	SceneNumber   int    `gorm:"primaryKey;column:scene_number"`
	Mood          *string
	SceneStory    *string `gorm:"column:scene_story"`
	SceneImageURL *string `gorm:"column:scene_image_url"`
	CreatedAt     time.Time
}

func (SceneResult) TableName() string { return "pipeline_result" }

// PageEntry is one element of a NotifyDocument's page list.
type PageEntry struct {
	PageIndex int     `json:"pageIndex"`
	Mood      *string `json:"mood"`
	Story     *string `json:"story"`
	ImageURL  *string `json:"imageUrl"`
}

// NotifyDocument is the payload the Terminal Notifier POSTs downstream,
// and the same shape the /pipelines/{pipelineId} read endpoint returns.
type NotifyDocument struct {
	PipelineID string      `json:"pipelineId"`
	Status     string      `json:"status"`
	PageList   []PageEntry `json:"pageList"`
}
