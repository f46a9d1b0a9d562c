package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/ashishkaushik/leazzy/internal/server/config"
)

func newPhotoService() *PhotoService {
	return NewPhotoService(&sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "leazzy-photos",
	})
}

func restoreSeams(t *testing.T) {
	t.Helper()
	origLoad, origNewS3, origNewPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origGet := presignPutObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})
}

func stubClientSeams(t *testing.T) {
	t.Helper()
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
}

func Test_getPresignClient_AppliesConfig(t *testing.T) {
	svc := newPhotoService()
	restoreSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}

	var capturedBaseEndpoint string
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint == nil {
			t.Fatalf("BaseEndpoint not set")
		}
		capturedBaseEndpoint = *opts.BaseEndpoint
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		if c == nil {
			t.Fatalf("nil client passed to presign")
		}
		return &s3.PresignClient{}
	}

	pc, err := svc.getPresignClient()
	if err != nil {
		t.Fatalf("getPresignClient err: %v", err)
	}
	if pc == nil {
		t.Fatalf("nil presign client")
	}
	if capturedBaseEndpoint != "http://127.0.0.1:9000" {
		t.Fatalf("BaseEndpoint mismatch: %q", capturedBaseEndpoint)
	}
}

func Test_getPresignClient_LoadError(t *testing.T) {
	svc := newPhotoService()
	restoreSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := svc.getPresignClient()
	if err == nil || err.Error() != "load-fail" {
		t.Fatalf("expected load-fail, got %v", err)
	}
}

func TestGetPresignedPutUrl(t *testing.T) {
	svc := newPhotoService()
	restoreSeams(t)
	stubClientSeams(t)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if *in.Bucket != "leazzy-photos" {
			t.Fatalf("bucket mismatch: %q", *in.Bucket)
		}
		return &v4.PresignedHTTPRequest{URL: "http://signed/" + *in.Key}, nil
	}

	key, url, err := svc.GetPresignedPutUrl(context.Background())
	if err != nil {
		t.Fatalf("GetPresignedPutUrl err: %v", err)
	}
	if !strings.HasPrefix(key, "photos/") {
		t.Fatalf("unexpected key %q", key)
	}
	if url != "http://signed/"+key {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestGetPresignedPutUrl_ErrorFromPresign(t *testing.T) {
	svc := newPhotoService()
	restoreSeams(t)
	stubClientSeams(t)

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-put-fail")
	}

	_, _, err := svc.GetPresignedPutUrl(context.Background())
	if err == nil || err.Error() != "presign-put-fail" {
		t.Fatalf("want presign-put-fail, got %v", err)
	}
}

func TestGetPresignedGetUrl(t *testing.T) {
	svc := newPhotoService()
	restoreSeams(t)
	stubClientSeams(t)

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "http://signed/" + *in.Key}, nil
	}

	url, err := svc.GetPresignedGetUrl(context.Background(), "photos/2026/8/29/abc")
	if err != nil {
		t.Fatalf("GetPresignedGetUrl err: %v", err)
	}
	if url != "http://signed/photos/2026/8/29/abc" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestGetRandomStorageKey_Unique(t *testing.T) {
	a, b := GetRandomStorageKey(), GetRandomStorageKey()
	if a == b {
		t.Fatalf("keys must be unique: %q", a)
	}
}
