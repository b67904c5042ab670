package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/yourname/wardwatch/internal"
)

// S3Config selects the bucket/object holding the record set. Endpoint and
// PathStyle allow S3-compatible servers such as MinIO.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	Key       string
	PathStyle bool
}

type objectClient interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps the whole record set as one JSON object.
type S3Store struct {
	client objectClient
	bucket string
	key    string
	logger internal.Logger
}

func NewS3Store(ctx context.Context, cfg S3Config, logger internal.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3Store(client, cfg.Bucket, cfg.Key, logger), nil
}

func newS3Store(client objectClient, bucket, key string, logger internal.Logger) *S3Store {
	if key == "" {
		key = "patients.json"
	}
	return &S3Store{client: client, bucket: bucket, key: key, logger: logger}
}

func (s *S3Store) Load(ctx context.Context) (internal.PatientSet, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isMissingObject(err) {
			return internal.PatientSet{}, nil
		}
		return nil, fmt.Errorf("s3 get %s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	patients, err := decodeSet(data)
	if err != nil {
		if !errors.Is(err, errEmptyDocument) {
			s.logger.Warnf("storage: s3://%s/%s is unreadable, starting with an empty set: %v", s.bucket, s.key, err)
		}
		return internal.PatientSet{}, nil
	}
	return patients, nil
}

func (s *S3Store) Save(ctx context.Context, patients internal.PatientSet) error {
	data, err := encodeSet(patients)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		s.logger.Errorf("storage: error saving s3://%s/%s: %v", s.bucket, s.key, err)
		return fmt.Errorf("s3 put %s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

func (s *S3Store) Close() error { return nil }

func isMissingObject(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

var _ PatientStore = (*S3Store)(nil)
