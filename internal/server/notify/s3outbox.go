package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config addresses an S3-compatible bucket (AWS or MinIO).
type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) putObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Outbox writes each message as an RFC 5322 .eml object into a bucket,
// where a mail relay picks it up.
type S3Outbox struct {
	client putObjectAPI
	bucket string
	now    func() time.Time
}

// NewS3Outbox builds the S3 client from static credentials. An empty
// AccessKey falls back to the default AWS credential chain.
func NewS3Outbox(ctx context.Context, c S3Config) (*S3Outbox, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Outbox(client, c.Bucket), nil
}

func newS3Outbox(client putObjectAPI, bucket string) *S3Outbox {
	return &S3Outbox{client: client, bucket: bucket, now: time.Now}
}

func (o *S3Outbox) SendVerification(ctx context.Context, m Message) error {
	now := o.now().UTC()
	key := fmt.Sprintf("verification/%d/%02d/%02d/%s.eml", now.Year(), now.Month(), now.Day(), uuid.New())

	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(o.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(renderEML(m, now)),
		ContentType: aws.String("message/rfc822"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func renderEML(m Message, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", m.Email)
	b.WriteString("Subject: Your verification code\r\n")
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Hello %s,\r\n\r\n", m.Name)
	fmt.Fprintf(&b, "Your verification code is %s.\r\n", m.Code)
	fmt.Fprintf(&b, "It expires at %s.\r\n", m.ExpiresAt.UTC().Format("2006-01-02 15:04 MST"))
	return b.String()
}
