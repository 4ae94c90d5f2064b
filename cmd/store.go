package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/foomo/snapstore/pkg/gateway"
	"github.com/foomo/snapstore/pkg/snapstore"
)

// supportedBlobSchemes lists the URL schemes supported by the blob gateway
var supportedBlobSchemes = []string{"gs://", "s3://", "azblob://", "file://"}

// newGateway opens the configured bucket.
func newGateway(ctx context.Context, v *viper.Viper, l *zap.Logger) (*gateway.BlobStore, error) {
	bucket := bucketFlag(v)
	if bucket == "" {
		return nil, fmt.Errorf("bucket URL is required (supported schemes: %s)", strings.Join(supportedBlobSchemes, ", "))
	}
	if !isValidBlobScheme(bucket) {
		return nil, fmt.Errorf("unsupported bucket URL scheme in %q; supported schemes: %s", bucket, strings.Join(supportedBlobSchemes, ", "))
	}
	l.Info("opening bucket", zap.String("bucket", bucket))
	return gateway.NewBlobStore(ctx, bucket)
}

// newStore wires the snapshot store from the configuration.
func newStore(v *viper.Viper, l *zap.Logger, gw gateway.ObjectStore) (*snapstore.Store, error) {
	current := snapstore.Version(runtimeVersionFlag(v))
	cutoff, err := snapstore.CutoffBefore(current, keepVersionsFlag(v))
	if err != nil {
		return nil, err
	}
	return snapstore.New(l, gw, prefixFlag(v), current,
		snapstore.WithCutoffPolicy(cutoff),
		snapstore.WithConcurrency(concurrencyFlag(v)),
		snapstore.WithBaseURL(bucketFlag(v)),
	)
}

// isValidBlobScheme checks if the bucket URL has a supported scheme
func isValidBlobScheme(bucketURL string) bool {
	for _, scheme := range supportedBlobSchemes {
		if strings.HasPrefix(bucketURL, scheme) {
			return true
		}
	}
	return false
}
