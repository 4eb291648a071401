package scenes

import (
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/dbctx"
	"github.com/narraforge/pipeline/internal/platform/logger"
)

// SceneResultRepo persists the per-scene branch results (mood, translated
// story, image URL) that the notifier assembles into a page list. A row
// is created on first write by whichever of the three branch processors
// runs first, and later writes only ever fill in the columns they own.
type SceneResultRepo interface {
	PutMood(dbc dbctx.Context, pipelineID string, sceneNumber int, mood string) error
	PutStory(dbc dbctx.Context, pipelineID string, sceneNumber int, story string) error
	PutImageURL(dbc dbctx.Context, pipelineID string, sceneNumber int, url string) error
	Assemble(dbc dbctx.Context, pipelineID string) ([]domain.PageEntry, error)
}

type sceneResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSceneResultRepo(db *gorm.DB, baseLog *logger.Logger) SceneResultRepo {
	return &sceneResultRepo{db: db, log: baseLog.With("repo", "SceneResultRepo")}
}

func (r *sceneResultRepo) upsert(dbc dbctx.Context, pipelineID string, sceneNumber int, col string, val string) error {
	tx := dbc.Tx
	if tx == nil {
		tx = r.db
	}
	row := domain.SceneResult{PipelineID: pipelineID, SceneNumber: sceneNumber}
	switch col {
	case "mood":
		row.Mood = &val
	case "scene_story":
		row.SceneStory = &val
	case "scene_image_url":
		row.SceneImageURL = &val
	}
	return tx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pipeline_id"}, {Name: "scene_number"}},
			DoUpdates: clause.AssignmentColumns([]string{col}),
		}).
		Create(&row).Error
}

func (r *sceneResultRepo) PutMood(dbc dbctx.Context, pipelineID string, sceneNumber int, mood string) error {
	return r.upsert(dbc, pipelineID, sceneNumber, "mood", mood)
}

func (r *sceneResultRepo) PutStory(dbc dbctx.Context, pipelineID string, sceneNumber int, story string) error {
	return r.upsert(dbc, pipelineID, sceneNumber, "scene_story", story)
}

func (r *sceneResultRepo) PutImageURL(dbc dbctx.Context, pipelineID string, sceneNumber int, url string) error {
	return r.upsert(dbc, pipelineID, sceneNumber, "scene_image_url", url)
}

func (r *sceneResultRepo) Assemble(dbc dbctx.Context, pipelineID string) ([]domain.PageEntry, error) {
	tx := dbc.Tx
	if tx == nil {
		tx = r.db
	}
	var rows []domain.SceneResult
	if err := tx.WithContext(dbc.Ctx).
		Where("pipeline_id = ?", pipelineID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.PageEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.PageEntry{
			PageIndex: row.SceneNumber,
			Mood:      row.Mood,
			Story:     row.SceneStory,
			ImageURL:  row.SceneImageURL,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PageIndex < out[j].PageIndex })
	return out, nil
}
