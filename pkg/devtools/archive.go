package devtools

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	rerrors "github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/observe"
)

// Archiver stores a recorded trace and returns the key it was stored under.
type Archiver interface {
	Archive(ctx context.Context, trace observe.Trace) (string, error)
}

// PutObjectAPI is the subset of *s3.Client used by S3Archiver.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver uploads traces to S3 as JSON objects named
// prefix + recording ID + ".json".
//
// Example usage:
//
//	client := devtools.NewS3Client(devtools.S3Options{Region: "us-east-1"})
//	archiver := devtools.NewS3Archiver(client, "my-bucket", "traces/")
type S3Archiver struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Archiver creates an archiver writing to bucket under prefix.
func NewS3Archiver(client PutObjectAPI, bucket, prefix string) *S3Archiver {
	return &S3Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Archive uploads trace and returns its object key.
func (a *S3Archiver) Archive(ctx context.Context, trace observe.Trace) (string, error) {
	body, err := json.Marshal(trace)
	if err != nil {
		return "", rerrors.New("D002").Wrap(err)
	}

	key := a.prefix + trace.ID + ".json"
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"recording-id": trace.ID,
			"records":      strconv.Itoa(len(trace.Records)),
			"archived-at":  time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", rerrors.New("D002").WithDetail("bucket " + a.bucket + ", key " + key).Wrap(err)
	}
	return key, nil
}

// S3Options configures NewS3Client.
type S3Options struct {
	Region string

	// Endpoint overrides the service endpoint, for S3-compatible stores.
	Endpoint string

	// UsePathStyle addresses buckets as endpoint/bucket instead of
	// bucket.endpoint.
	UsePathStyle bool

	// AccessKeyID and SecretAccessKey are static credentials. When empty
	// the client is anonymous.
	AccessKeyID     string
	SecretAccessKey string
}

// NewS3Client creates an S3 client from explicit options.
func NewS3Client(opts S3Options) *s3.Client {
	o := s3.Options{
		Region:       opts.Region,
		UsePathStyle: opts.UsePathStyle,
	}
	if opts.Endpoint != "" {
		o.BaseEndpoint = aws.String(opts.Endpoint)
	}
	if opts.AccessKeyID != "" {
		creds := aws.Credentials{
			AccessKeyID:     opts.AccessKeyID,
			SecretAccessKey: opts.SecretAccessKey,
			Source:          "reactive config",
		}
		o.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	} else {
		o.Credentials = aws.AnonymousCredentials{}
	}
	return s3.New(o)
}
