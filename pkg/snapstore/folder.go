package snapstore

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/foomo/snapstore/pkg/executor"
	"github.com/foomo/snapstore/pkg/gateway"
	"github.com/foomo/snapstore/pkg/metrics"
	"github.com/foomo/snapstore/pkg/retry"
)

type (
	folderConfig struct {
		concurrency int
		retryOpts   []retry.Option
	}
	FolderOption func(*folderConfig)
)

// FolderWithConcurrency caps the number of in-flight deletions.
// The default is 1 (strictly serial).
func FolderWithConcurrency(v int) FolderOption {
	return func(o *folderConfig) {
		o.concurrency = v
	}
}

// FolderWithRetryOptions overrides the retry tuning of listing and deletion.
func FolderWithRetryOptions(v ...retry.Option) FolderOption {
	return func(o *folderConfig) {
		o.retryOpts = v
	}
}

// DeleteFolder removes every object under folder and returns how many were
// actually removed. The folder must end with the path separator; page
// fetches and per-object deletions are retried on transient errors, and an
// already-absent object is a no-op, not an error.
func DeleteFolder(ctx context.Context, l *zap.Logger, gw gateway.ObjectStore, folder string, opts ...FolderOption) (int, error) {
	if !strings.HasSuffix(folder, "/") {
		return 0, errors.Wrapf(ErrMissingSeparator, "invalid folder %q", folder)
	}

	config := folderConfig{
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(&config)
	}

	var (
		retryOpts = append([]retry.Option{retry.If(gateway.IsTransient)}, config.retryOpts...)
		exec      = executor.NewBounded(config.concurrency)
		deleted   atomic.Int64
		token     []byte
		listErr   error
	)

	l = l.Named("folderdelete")
	l.Debug("deleting folder", zap.String("folder", folder))

	for {
		p, err := retry.DoWithData(ctx, func() (page, error) {
			entries, next, err := gw.ListPage(ctx, folder, token, listPageSize)
			return page{entries: entries, next: next}, err
		}, retryOpts...)
		if err != nil {
			listErr = errors.Wrap(err, "failed to list folder")
			break
		}
		for _, entry := range p.entries {
			if entry.IsDir {
				continue
			}
			name := entry.Name
			exec.Schedule(func() error {
				removed, err := retry.DoWithData(ctx, func() (bool, error) {
					return gw.Delete(ctx, name)
				}, retryOpts...)
				if err != nil {
					return errors.Wrapf(err, "failed to delete %q", name)
				}
				if removed {
					deleted.Add(1)
					metrics.FolderObjectsDeletedCounter.WithLabelValues().Inc()
				}
				return nil
			})
		}
		if len(p.next) == 0 {
			break
		}
		token = p.next
	}

	// let in-flight deletions finish even when the listing failed
	err := multierr.Append(listErr, exec.Drain())
	count := int(deleted.Load())

	if err != nil {
		l.Error("folder deletion failed",
			zap.String("folder", folder),
			zap.Int("deleted", count),
			zap.Error(err),
		)
	} else {
		l.Debug("folder deleted",
			zap.String("folder", folder),
			zap.Int("deleted", count),
		)
	}
	return count, err
}
