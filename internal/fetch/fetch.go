// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	awsx "github.com/covctl/covctl/internal/aws"
	"github.com/covctl/covctl/internal/cacheutil"
	"github.com/covctl/covctl/internal/cobertura"
	"github.com/covctl/covctl/internal/config"
)

// s3Scheme prefixes coverage documents held in an S3 bucket, the usual home
// of CI artifacts.
const s3Scheme = "s3://"

// Snapshot fetches and parses the coverage document addressed by a local path
// or an s3:// URI. For local files the containing directory becomes the
// source-resolution fallback; sourceDir (when non-empty) overrides it either
// way.
func Snapshot(ctx context.Context, uri string, sourceDir string) (*cobertura.Snapshot, error) {
	log.Debugf(">> Snapshot(%s)", uri)

	data, err := Bytes(ctx, uri)
	if err != nil {
		return nil, err
	}

	var opts []cobertura.Option
	switch {
	case sourceDir != "":
		opts = append(opts, cobertura.WithSourceDir(sourceDir))
	case !strings.HasPrefix(uri, s3Scheme):
		opts = append(opts, cobertura.WithSourceDir(filepath.Dir(uri)))
	}

	snap, err := cobertura.Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", uri, err)
	}

	return snap, nil
}

// Bytes returns the raw bytes of the document addressed by uri.
func Bytes(ctx context.Context, uri string) ([]byte, error) {
	if strings.HasPrefix(uri, s3Scheme) {
		return s3Bytes(ctx, uri)
	}

	data, err := os.ReadFile(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to read coverage file: %w", err)
	}
	return data, nil
}

// s3Bytes fetches an s3://bucket/key object, consulting the on-disk cache
// first. Fetched bodies are cached keyed by the full URI.
func s3Bytes(ctx context.Context, uri string) ([]byte, error) {
	if err := purgeCache(); err != nil {
		log.WithError(err).Warn("failed to purge cache")
	}

	if entry, ok := cacheutil.Read([]string{"s3"}, uri); ok {
		return entry.Data, nil
	}

	bucket, key, err := splitS3URI(uri)
	if err != nil {
		return nil, err
	}

	// Build AWS config (inherit env; override profile/region if configured).
	var cfgOpts []awsx.Option
	if profile, err := config.GetString("aws.profile"); err == nil {
		cfgOpts = append(cfgOpts, awsx.WithProfile(profile))
	}
	if region, err := config.GetString("aws.region"); err == nil {
		cfgOpts = append(cfgOpts, awsx.WithRegion(region))
	}
	cfg, err := awsx.LoadAWSConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	svc := awsx.NewS3(cfg)
	result, err := svc.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	if err := cacheutil.Write([]string{"s3"}, uri, data); err != nil {
		log.WithError(err).Warn("error writing to cache")
	}

	return data, nil
}

// purgeCache evicts cache entries older than the configured cache.clean
// hours. An unset or non-positive cache.clean leaves the cache untouched.
func purgeCache() error {
	cleanHours, _ := config.GetInt("cache.clean")
	return cacheutil.Purge(cleanHours)
}

// splitS3URI breaks s3://bucket/key/path into bucket and key.
func splitS3URI(uri string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(uri, s3Scheme)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid s3 uri: %s", uri)
	}
	return parts[0], parts[1], nil
}

// FileInfo describes one candidate coverage document found on disk.
type FileInfo struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// ListCoverageFiles returns the XML documents in dir, newest first. This feeds
// the interactive picker.
func ListCoverageFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".xml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(dir, entry.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})

	return files, nil
}
