package snapstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"driftwatch/internal/drift"
)

// S3Options configure the S3 snapshot store. Region, endpoint and
// static credentials are optional; when absent the SDK falls back to
// its usual environment and shared-config resolution. Endpoint is for
// S3-compatible services, which usually also need path-style addressing.
type S3Options struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store persists snapshot records as objects under a key prefix.
// Object puts are atomic on the service side, so there is no
// temp-and-rename step. Encryption works as in the filesystem store:
// sealed bodies and an extra ".age" name suffix.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
	enc      drift.Encryptor
	dctx     drift.DecryptionContext
}

// NewS3Store resolves AWS configuration and verifies nothing: the first
// Put or List surfaces connectivity problems.
func NewS3Store(opts S3Options) (*S3Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	prefix := opts.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   opts.Bucket,
		prefix:   prefix,
	}, nil
}

// WithEncryption attaches an encryptor and optional decryption context,
// mirroring FilesystemStore.WithEncryption.
func (s *S3Store) WithEncryption(enc drift.Encryptor, dctx drift.DecryptionContext) *S3Store {
	s.enc = enc
	s.dctx = dctx
	return s
}

// Put uploads the snapshot record and returns its name (without the key
// prefix).
func (s *S3Store) Put(snapshot *drift.Snapshot) (string, error) {
	data, err := snapshot.EncodeContents()
	if err != nil {
		return "", err
	}
	name := EncodeName(snapshot.Identifier, snapshot.Timestamp)

	if s.enc != nil {
		var sealed bytes.Buffer
		if err := s.enc.Encrypt(bytes.NewReader(data), &sealed); err != nil {
			return "", fmt.Errorf("encrypting snapshot record: %w", err)
		}
		data = sealed.Bytes()
		name += encSuffix
	}

	_, err = s.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + name),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("uploading snapshot record: %w", err)
	}
	return name, nil
}

// List pages through the objects for the identifier and loads each one,
// ordered by ascending timestamp.
func (s *S3Store) List(identifier string) ([]*drift.Snapshot, error) {
	ctx := context.Background()
	keyPrefix := s.prefix + namePrefix + identifier + "-"

	var snapshots []*drift.Snapshot
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(keyPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing snapshot records: %w", err)
		}
		for _, object := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(object.Key), s.prefix)
			encrypted := strings.HasSuffix(name, encSuffix)

			id, timestamp, err := ParseName(strings.TrimSuffix(name, encSuffix))
			if err != nil {
				return nil, fmt.Errorf("corrupt snapshot store: %w", err)
			}
			if id != identifier {
				continue
			}

			data, err := s.getObject(ctx, s.prefix+name)
			if err != nil {
				return nil, err
			}
			if encrypted {
				if s.dctx == nil {
					return nil, fmt.Errorf("snapshot record %s is encrypted and the store is locked", name)
				}
				var plain bytes.Buffer
				if err := s.dctx.Decrypt(bytes.NewReader(data), &plain); err != nil {
					return nil, fmt.Errorf("decrypting snapshot record %s: %w", name, err)
				}
				data = plain.Bytes()
			}

			contents, err := drift.DecodeContents(data)
			if err != nil {
				return nil, fmt.Errorf("corrupt snapshot record %s: %w", name, err)
			}
			snapshots = append(snapshots, &drift.Snapshot{
				Identifier: identifier,
				Timestamp:  timestamp,
				Contents:   contents,
			})
		}
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Timestamp < snapshots[j].Timestamp
	})
	return snapshots, nil
}

func (s *S3Store) getObject(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching snapshot record %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot record %s: %w", key, err)
	}
	return data, nil
}

var _ drift.Store = (*S3Store)(nil)
