package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/radarnarcisista/cartaselo/internal/common"
	sc "github.com/radarnarcisista/cartaselo/internal/server/config"
	"github.com/radarnarcisista/cartaselo/internal/server/models"
)

func newExportService(t *testing.T, rm *fakeRepoManager) *ExportService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })

	cfg := &sc.Config{
		S3Region:                  "us-east-1",
		S3RootUser:                "minioadmin",
		S3RootPassword:            "minioadmin",
		S3BaseEndpoint:            "http://127.0.0.1:9000",
		S3Bucket:                  "cartaselo",
		ExportURLValidityDuration: 15 * time.Minute,
	}
	return NewExportService(db, rm, cfg)
}

func stubAWS(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func TestRender_SealedLetter(t *testing.T) {
	draft := sampleDraft(models.StatusSealed)
	letter := &models.SealedLetter{
		SessionID:     "s-1",
		SourceDraftID: "d-1",
		ContentHash:   "abc123",
		SealedAt:      time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
		ClockSource:   models.ClockSourceServer,
	}
	rm := &fakeRepoManager{
		d: &fakeDraftsRepo{getOut: draft},
		l: &fakeLettersRepo{getOut: letter},
	}
	s := newExportService(t, rm)

	text, sealed, err := s.Render(context.Background(), "u-1", "d-1")
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !sealed {
		t.Fatal("expected sealed rendering")
	}
	if !strings.Contains(text, "abc123") || !strings.Contains(text, "CARTA COM SELO DE INTEGRIDADE") {
		t.Fatalf("unexpected rendering:\n%s", text)
	}
}

func TestRender_Draft(t *testing.T) {
	rm := &fakeRepoManager{d: &fakeDraftsRepo{getOut: sampleDraft(models.StatusDraft)}}
	s := newExportService(t, rm)

	text, sealed, err := s.Render(context.Background(), "u-1", "d-1")
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if sealed {
		t.Fatal("expected draft rendering")
	}
	if !strings.Contains(text, "RASCUNHO") {
		t.Fatalf("draft marker missing:\n%s", text)
	}
}

func TestRender_CrossUser(t *testing.T) {
	draft := sampleDraft(models.StatusDraft)
	draft.OwnerID = "someone-else"
	rm := &fakeRepoManager{d: &fakeDraftsRepo{getOut: draft}}
	s := newExportService(t, rm)

	_, _, err := s.Render(context.Background(), "u-1", "d-1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPublish_StoresAndPresigns(t *testing.T) {
	stubAWS(t)

	origPut := putObject
	origPresign := presignGetObject
	t.Cleanup(func() {
		putObject = origPut
		presignGetObject = origPresign
	})

	var storedKey, storedBody string
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		if *in.Bucket != "cartaselo" {
			t.Fatalf("bucket: %q", *in.Bucket)
		}
		storedKey = *in.Key
		data, err := io.ReadAll(in.Body)
		if err != nil {
			t.Fatal(err)
		}
		storedBody = string(data)
		return &s3.PutObjectOutput{}, nil
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if *in.Key != storedKey {
			t.Fatalf("presigned key %q differs from stored %q", *in.Key, storedKey)
		}
		return &v4.PresignedHTTPRequest{URL: "https://storage.example/" + *in.Key + "?sig=x"}, nil
	}

	rm := &fakeRepoManager{d: &fakeDraftsRepo{getOut: sampleDraft(models.StatusDraft)}}
	s := newExportService(t, rm)

	url, err := s.Publish(context.Background(), "u-1", "d-1")
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if !strings.HasPrefix(url, "https://storage.example/exports/") {
		t.Fatalf("unexpected url %q", url)
	}
	if !strings.Contains(storedKey, "d-1") || !strings.HasSuffix(storedKey, ".txt") {
		t.Fatalf("unexpected key %q", storedKey)
	}
	if !strings.Contains(storedBody, "RASCUNHO") {
		t.Fatal("stored body must be the rendering")
	}
}

func TestPublish_PutError(t *testing.T) {
	stubAWS(t)

	origPut := putObject
	t.Cleanup(func() { putObject = origPut })
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errBoom{}
	}

	rm := &fakeRepoManager{d: &fakeDraftsRepo{getOut: sampleDraft(models.StatusDraft)}}
	s := newExportService(t, rm)

	_, err := s.Publish(context.Background(), "u-1", "d-1")
	if err == nil || !strings.Contains(err.Error(), "error storing export") {
		t.Fatalf("expected wrapped put error, got %v", err)
	}
}

func TestPublish_RenderErrorShortCircuits(t *testing.T) {
	var putCalled bool
	origPut := putObject
	t.Cleanup(func() { putObject = origPut })
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		putCalled = true
		return &s3.PutObjectOutput{}, nil
	}

	rm := &fakeRepoManager{d: &fakeDraftsRepo{getErr: common.ErrNotFound}}
	s := newExportService(t, rm)

	_, err := s.Publish(context.Background(), "u-1", "d-1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if putCalled {
		t.Fatal("nothing may be uploaded when rendering fails")
	}
}
