package devtools

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	rerrors "github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/observe"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func sampleTrace() observe.Trace {
	return observe.Trace{
		ID:    "0190f1c2-0000-7000-8000-000000000001",
		Stats: observe.Stats{Runs: 1},
		Records: []observe.Record{
			{Seq: 1, Kind: observe.KindStart, EffectID: 1},
			{Seq: 2, Kind: observe.KindEnd, EffectID: 1},
		},
	}
}

func TestS3ArchiverUploadsJSON(t *testing.T) {
	client := &fakePutter{}
	a := NewS3Archiver(client, "traces-bucket", "dev/")

	key, err := a.Archive(context.Background(), sampleTrace())
	if err != nil {
		t.Fatalf("Archive() error: %v", err)
	}
	if key != "dev/0190f1c2-0000-7000-8000-000000000001.json" {
		t.Errorf("key = %q", key)
	}

	in := client.input
	if aws.ToString(in.Bucket) != "traces-bucket" || aws.ToString(in.Key) != key {
		t.Errorf("PutObject bucket=%q key=%q", aws.ToString(in.Bucket), aws.ToString(in.Key))
	}
	if aws.ToString(in.ContentType) != "application/json" {
		t.Errorf("ContentType = %q", aws.ToString(in.ContentType))
	}
	if in.Metadata["recording-id"] != sampleTrace().ID || in.Metadata["records"] != "2" {
		t.Errorf("Metadata = %v", in.Metadata)
	}

	var got observe.Trace
	if err := json.Unmarshal(client.body, &got); err != nil {
		t.Fatalf("uploaded body is not JSON: %v", err)
	}
	if got.ID != sampleTrace().ID || len(got.Records) != 2 {
		t.Errorf("uploaded trace = %+v", got)
	}
}

func TestS3ArchiverWrapsErrors(t *testing.T) {
	cause := errors.New("access denied")
	a := NewS3Archiver(&fakePutter{err: cause}, "b", "")

	_, err := a.Archive(context.Background(), sampleTrace())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, rerrors.New("D002")) {
		t.Errorf("error %v should carry code D002", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error %v should wrap the client error", err)
	}
	if !strings.Contains(err.Error(), "access denied") {
		t.Errorf("error text = %q", err.Error())
	}
}

func TestNewS3Client(t *testing.T) {
	tests := []struct {
		name      string
		opts      S3Options
		anonymous bool
		endpoint  string
	}{
		{"anonymous", S3Options{Region: "us-east-1"}, true, ""},
		{"static keys", S3Options{Region: "eu-west-1", AccessKeyID: "AKID", SecretAccessKey: "secret"}, false, ""},
		{"custom endpoint", S3Options{Region: "us-east-1", Endpoint: "http://localhost:9000", UsePathStyle: true}, true, "http://localhost:9000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewS3Client(tt.opts).Options()
			if o.Region != tt.opts.Region {
				t.Errorf("Region = %q", o.Region)
			}
			if o.UsePathStyle != tt.opts.UsePathStyle {
				t.Errorf("UsePathStyle = %v", o.UsePathStyle)
			}
			if got := aws.ToString(o.BaseEndpoint); got != tt.endpoint {
				t.Errorf("BaseEndpoint = %q, want %q", got, tt.endpoint)
			}
			// s3.New drops anonymous credentials so requests go unsigned.
			anon := o.Credentials == nil
			if anon != tt.anonymous {
				t.Errorf("anonymous credentials = %v, want %v", anon, tt.anonymous)
			}
			if !tt.anonymous {
				creds, err := o.Credentials.Retrieve(context.Background())
				if err != nil || creds.AccessKeyID != "AKID" {
					t.Errorf("Retrieve() = %+v, %v", creds, err)
				}
			}
		})
	}
}
