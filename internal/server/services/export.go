package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/radarnarcisista/cartaselo/internal/common"
	"github.com/radarnarcisista/cartaselo/internal/sealing"
	sc "github.com/radarnarcisista/cartaselo/internal/server/config"
	"github.com/radarnarcisista/cartaselo/internal/server/repositories/repomanager"
)

// Seams for testing the AWS SDK calls without a live endpoint.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ExportService renders drafts and sealed letters to portable plain text,
// and optionally publishes the rendering to object storage behind a
// presigned, expiring download link.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewExportService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *ExportService {
	return &ExportService{db: db, repomanager: m, config: cfg}
}

// Render returns the plain-text export of the draft. Sealed drafts embed
// the seal metadata; unsealed ones carry the draft marker. The boolean
// reports whether the export is a sealed one.
func (s *ExportService) Render(ctx context.Context, ownerID, draftID string) (string, bool, error) {
	draft, err := s.repomanager.Drafts(s.db).GetByID(ctx, draftID)
	if err != nil {
		return "", false, err
	}
	if draft.OwnerID != ownerID {
		return "", false, common.ErrNotFound
	}

	if !draft.Sealed() {
		return sealing.Render(draft, nil), false, nil
	}

	letter, err := s.repomanager.Letters(s.db).GetByDraftID(ctx, draftID)
	if err != nil {
		return "", false, fmt.Errorf("error loading seal: %w", err)
	}
	return sealing.Render(draft, letter), true, nil
}

func exportStorageKey(draftID string) string {
	d := time.Now()
	return fmt.Sprintf("exports/%d/%d/%d/%s-%v.txt", d.Year(), d.Month(), d.Day(), draftID, uuid.New())
}

func (s *ExportService) getS3Client() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	}), nil
}

// Publish renders the draft, stores the text in the export bucket, and
// returns a presigned GET URL the owner can hand out. The link expires; the
// object itself carries no credentials.
func (s *ExportService) Publish(ctx context.Context, ownerID, draftID string) (string, error) {

	text, _, err := s.Render(ctx, ownerID, draftID)
	if err != nil {
		return "", err
	}

	client, err := s.getS3Client()
	if err != nil {
		return "", fmt.Errorf("error configuring object storage: %w", err)
	}

	bucket := s.config.S3Bucket
	key := exportStorageKey(draftID)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        strings.NewReader(text),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("error storing export: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.ExportURLValidityDuration))
	if err != nil {
		return "", fmt.Errorf("error presigning export link: %w", err)
	}

	return req.URL, nil
}
