package launcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/narraforge/pipeline/internal/domain"
	"github.com/narraforge/pipeline/internal/platform/logger"
)

type fakeStore struct {
	stepID     string
	pipelineID string
	order      domain.Order
	payload    string
}

func (f *fakeStore) CreateTask(_ context.Context, stepID, pipelineID string, order domain.Order, payload string) error {
	f.stepID = stepID
	f.pipelineID = pipelineID
	f.order = order
	f.payload = payload
	return nil
}

func TestLaunchCreatesOrderOneTask(t *testing.T) {
	store := &fakeStore{}
	log, err := logger.New("test")
	require.NoError(t, err)
	l := New(store, log)

	stepID, err := l.Launch(context.Background(), "pipe-1", "안녕")
	require.NoError(t, err)
	require.NotEmpty(t, stepID)
	require.Equal(t, stepID, store.stepID)
	require.Equal(t, "pipe-1", store.pipelineID)
	require.Equal(t, domain.OrderTranslateKoEn, store.order)
	require.Equal(t, "안녕", store.payload)
}

func TestLaunchRequiresPipelineID(t *testing.T) {
	log, err := logger.New("test")
	require.NoError(t, err)
	l := New(&fakeStore{}, log)

	_, err = l.Launch(context.Background(), "", "payload")
	require.Error(t, err)
}
