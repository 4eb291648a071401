package objectstore

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/narraforge/pipeline/internal/platform/envutil"
	"github.com/narraforge/pipeline/internal/platform/logger"
)

// BucketService uploads generated scene images and returns a stable,
// publicly readable retrieval URL in the bucket's virtual-host form.
type BucketService interface {
	Upload(key string, body []byte) (string, error)
}

type bucketService struct {
	uploader *s3manager.Uploader
	bucket   string
	region   string
	log      *logger.Logger
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
	region := envutil.String("AWS_S3_REGION", "")
	bucket := envutil.String("AWS_S3_BUCKET_NAME", "")
	accessKey := envutil.String("AWS_S3_ACCESS_KEY", "")
	secretKey := envutil.String("AWS_S3_SECRET_KEY", "")
	if region == "" || bucket == "" {
		return nil, fmt.Errorf("AWS_S3_REGION and AWS_S3_BUCKET_NAME are required")
	}

	cfg := aws.NewConfig().WithRegion(region)
	if accessKey != "" && secretKey != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(accessKey, secretKey, ""))
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	return &bucketService{
		uploader: s3manager.NewUploader(sess),
		bucket:   bucket,
		region:   region,
		log:      log.With("service", "BucketService"),
	}, nil
}

// Upload stores body under key with a fixed image/png content type and a
// public-read ACL, then returns the bucket's virtual-host URL.
func (s *bucketService) Upload(key string, body []byte) (string, error) {
	_, err := s.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("image/png"),
		ACL:         aws.String(s3.BucketCannedACLPublicRead),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// SceneImageKey builds the deterministic object key for a scene image.
func SceneImageKey(pipelineID string, sceneNumber int) string {
	return fmt.Sprintf("%s/scene_%d.png", pipelineID, sceneNumber)
}
