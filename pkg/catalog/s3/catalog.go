package s3

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/openshelf/shelfctl/pkg/catalog"
)

// Catalog implements catalog.Catalog over S3-compatible storage.
//
// Buckets map to S3 buckets and the two count queries map to delimiter
// listings: direct objects come back as Contents, immediate subfolders as
// CommonPrefixes.
type Catalog struct {
	client  *s3.Client
	maxKeys int
}

// Compile-time check that Catalog implements the capability.
var _ catalog.Catalog = (*Catalog)(nil)

// New creates an S3 catalog with the given configuration.
func New(ctx context.Context, cfg Config) (*Catalog, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, &catalog.CatalogError{
			Op:      "New",
			Backend: catalog.BackendS3,
			Err:     err,
		}
	}

	s3Opts := []func(*s3.Options){
		func(o *s3.Options) {
			if cfg.ForcePathStyle {
				o.UsePathStyle = true
			}
		},
	}
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return &Catalog{
		client:  s3.NewFromConfig(awsCfg, s3Opts...),
		maxKeys: clampMaxKeys(cfg.MaxKeys),
	}, nil
}

// loadAWSConfig builds the AWS configuration with appropriate credentials.
func loadAWSConfig(ctx context.Context, cfg Config) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error

	// Let the SDK resolve region from env/profile unless explicitly set.
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		staticCreds := credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"", // session token (empty for long-term credentials)
		)
		opts = append(opts, config.WithCredentialsProvider(staticCreds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, err
	}

	awsCfg.Region = resolveRegion(cfg.Endpoint, awsCfg.Region)
	return awsCfg, nil
}

// resolveRegion applies the fallback default after SDK config loading.
// S3-compatible stores (endpoint set) get no default; the endpoint may not
// need one.
func resolveRegion(endpoint, sdkRegion string) string {
	if sdkRegion != "" {
		return sdkRegion
	}
	if endpoint == "" {
		return DefaultAWSRegion
	}
	return ""
}

// BucketExists reports whether the bucket exists via HeadBucket.
func (c *Catalog) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return true, nil
	}

	wrapped := c.wrapError("BucketExists", bucket, "", err)
	if catalog.IsBucketNotFound(wrapped) {
		return false, nil
	}
	return false, wrapped
}

// ListKeys returns the bucket's keys under prefix in lexicographic order.
//
// S3 already returns ListObjectsV2 results in UTF-8 binary order, so pages
// are concatenated without re-sorting.
func (c *Catalog) ListKeys(ctx context.Context, bucket, prefix string) ([]catalog.KeyInfo, error) {
	var keys []catalog.KeyInfo
	var token *string

	for {
		input := &s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			MaxKeys:           aws.Int32(int32(c.maxKeys)),
			ContinuationToken: token,
		}
		if prefix != "" {
			input.Prefix = aws.String(prefix)
		}

		output, err := c.client.ListObjectsV2(ctx, input)
		if err != nil {
			return nil, c.wrapError("ListKeys", bucket, prefix, err)
		}

		for _, obj := range output.Contents {
			size := aws.ToInt64(obj.Size)
			keys = append(keys, catalog.KeyInfo{
				Key:       aws.ToString(obj.Key),
				SizeBytes: &size,
			})
		}

		if !aws.ToBool(output.IsTruncated) || output.NextContinuationToken == nil {
			break
		}
		token = output.NextContinuationToken
	}

	return keys, nil
}

// CountDirect counts objects directly under folderPath via delimiter listing.
func (c *Catalog) CountDirect(ctx context.Context, bucket, folderPath string) (catalog.DirectCounts, error) {
	var counts catalog.DirectCounts

	err := c.listDelimited(ctx, bucket, folderPath, func(output *s3.ListObjectsV2Output) {
		for _, obj := range output.Contents {
			counts.FileCount++
			counts.TotalSize += aws.ToInt64(obj.Size)
		}
	})
	if err != nil {
		return catalog.DirectCounts{}, c.wrapError("CountDirect", bucket, folderPath, err)
	}

	return counts, nil
}

// CountImmediateSubfolders counts distinct common prefixes under folderPath.
func (c *Catalog) CountImmediateSubfolders(ctx context.Context, bucket, folderPath string) (int64, error) {
	children := make(map[string]struct{})

	err := c.listDelimited(ctx, bucket, folderPath, func(output *s3.ListObjectsV2Output) {
		for _, cp := range output.CommonPrefixes {
			children[aws.ToString(cp.Prefix)] = struct{}{}
		}
	})
	if err != nil {
		return 0, c.wrapError("CountImmediateSubfolders", bucket, folderPath, err)
	}

	return int64(len(children)), nil
}

// listDelimited pages through a delimiter listing, invoking visit per page.
func (c *Catalog) listDelimited(ctx context.Context, bucket, folderPath string, visit func(*s3.ListObjectsV2Output)) error {
	var token *string

	for {
		input := &s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			Delimiter:         aws.String("/"),
			MaxKeys:           aws.Int32(int32(c.maxKeys)),
			ContinuationToken: token,
		}
		if folderPath != "" {
			input.Prefix = aws.String(folderPath)
		}

		output, err := c.client.ListObjectsV2(ctx, input)
		if err != nil {
			return err
		}

		visit(output)

		if !aws.ToBool(output.IsTruncated) || output.NextContinuationToken == nil {
			return nil
		}
		token = output.NextContinuationToken
	}
}

// Close releases nothing; the S3 client needs no explicit cleanup.
func (c *Catalog) Close() error {
	return nil
}

// wrapError converts S3 errors to catalog errors with appropriate sentinels.
func (c *Catalog) wrapError(op, bucket, path string, err error) error {
	wrapped := &catalog.CatalogError{
		Op:      op,
		Backend: catalog.BackendS3,
		Bucket:  bucket,
		Path:    path,
		Err:     err,
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	switch {
	case errors.As(err, &noSuchBucket):
		wrapped.Err = catalog.ErrBucketNotFound
		return wrapped
	case errors.As(err, &notFound):
		wrapped.Err = catalog.ErrBucketNotFound
		return wrapped
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket", "NotFound":
			wrapped.Err = catalog.ErrBucketNotFound
		case "ServiceUnavailable", "InternalError", "SlowDown":
			wrapped.Err = catalog.ErrUnavailable
		}
		return wrapped
	}

	// Fallback: check error message for common cases
	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "NoSuchBucket") || strings.Contains(errMsg, "NotFound") || strings.Contains(errMsg, "404"):
		wrapped.Err = catalog.ErrBucketNotFound
	case strings.Contains(errMsg, "ServiceUnavailable") || strings.Contains(errMsg, "503"):
		wrapped.Err = catalog.ErrUnavailable
	}

	return wrapped
}
