package objectstore

import (
	"testing"

	"github.com/narraforge/pipeline/internal/platform/logger"
)

func TestSceneImageKey(t *testing.T) {
	got := SceneImageKey("pipe-1", 3)
	want := "pipe-1/scene_3.png"
	if got != want {
		t.Fatalf("SceneImageKey() = %q, want %q", got, want)
	}
}

func TestNewBucketServiceRequiresRegionAndBucket(t *testing.T) {
	t.Setenv("AWS_S3_REGION", "")
	t.Setenv("AWS_S3_BUCKET_NAME", "")
	log, err := logger.New("test")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewBucketService(log); err == nil {
		t.Fatal("expected error when AWS_S3_REGION/AWS_S3_BUCKET_NAME are unset")
	}
}
