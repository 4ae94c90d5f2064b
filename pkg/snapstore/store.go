// Package snapstore stores derived application state as gzip-compressed JSON
// snapshots in an object store, one object per runtime version, so server
// instances running different deployed versions can publish and consume
// compatible precomputed data without a shared database.
package snapstore

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/foomo/snapstore/pkg/executor"
	"github.com/foomo/snapstore/pkg/gateway"
	"github.com/foomo/snapstore/pkg/metrics"
	"github.com/foomo/snapstore/pkg/retry"
)

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	// ErrMissingSeparator marks a prefix or folder argument without a
	// trailing path separator. It is a configuration error and fails
	// before any I/O.
	ErrMissingSeparator = errors.New("path must end with /")
)

const (
	listPageSize = 100

	snapshotContentType = "application/gzip"
	metadataVersionKey  = "runtime-version"
)

// DeleteCounts summarizes one garbage collection pass.
type DeleteCounts struct {
	// Found counts objects under the prefix matching the snapshot naming
	// pattern, regardless of deletion outcome.
	Found int
	// Deleted counts objects that were actually removed.
	Deleted int
}

type (
	// Store manages the compressed JSON snapshots under one bucket prefix.
	// Its only state is the (gateway, prefix) pair plus injected
	// configuration; instances sharing a gateway need no coordination.
	Store struct {
		l           *zap.Logger
		gw          gateway.ObjectStore
		prefix      string
		current     Version
		cutoff      CutoffPolicy
		now         func() time.Time
		baseURL     string
		concurrency int
		retryOpts   []retry.Option
	}
	Option func(*Store)
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

// WithCutoffPolicy injects the garbage collection cutoff policy. Without one
// no version is ever considered eligible.
func WithCutoffPolicy(v CutoffPolicy) Option {
	return func(o *Store) {
		o.cutoff = v
	}
}

// WithClock replaces the clock used for age decisions.
func WithClock(v func() time.Time) Option {
	return func(o *Store) {
		o.now = v
	}
}

// WithConcurrency caps the number of in-flight deletions during garbage
// collection. The default is 1 (strictly serial).
func WithConcurrency(v int) Option {
	return func(o *Store) {
		o.concurrency = v
	}
}

// WithBaseURL sets the bucket locator used by BucketURI.
func WithBaseURL(v string) Option {
	return func(o *Store) {
		o.baseURL = strings.TrimSuffix(v, "/")
	}
}

// WithRetryOptions overrides the retry tuning of all gateway operations.
func WithRetryOptions(v ...retry.Option) Option {
	return func(o *Store) {
		o.retryOpts = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// New creates a store for the snapshots under prefix, publishing as the
// given current runtime version. The prefix must end with the path
// separator.
func New(l *zap.Logger, gw gateway.ObjectStore, prefix string, current Version, opts ...Option) (*Store, error) {
	if !strings.HasSuffix(prefix, "/") {
		return nil, errors.Wrapf(ErrMissingSeparator, "invalid prefix %q", prefix)
	}
	if !current.Valid() {
		return nil, errors.Errorf("invalid runtime version %q", string(current))
	}

	inst := &Store{
		l:           l.Named("snapstore"),
		gw:          gw,
		prefix:      prefix,
		current:     current,
		cutoff:      func(Version) bool { return false },
		now:         time.Now,
		concurrency: 1,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

// CurrentVersion returns the runtime version this store publishes as.
func (s *Store) CurrentVersion() Version {
	return s.current
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// HasCurrentData reports whether a snapshot exists for the current runtime
// version. With a non-zero maxAge, snapshots older than that do not count.
func (s *Store) HasCurrentData(ctx context.Context, maxAge time.Duration) (bool, error) {
	info, err := s.gw.Info(ctx, s.objectName(s.current))
	if gateway.IsNotFound(err) {
		return false, nil
	} else if err != nil {
		return false, errors.Wrap(err, "failed to fetch snapshot metadata")
	}
	if maxAge > 0 && s.now().Sub(info.Updated) > maxAge {
		return false, nil
	}
	return true, nil
}

// UploadJSONMap serializes data to JSON, compresses it, and uploads it as
// the current version's snapshot. The write is best-effort: failures are
// logged and counted but never propagated, so callers must not assume the
// write succeeded.
func (s *Store) UploadJSONMap(ctx context.Context, data map[string]any) {
	name := s.objectName(s.current)
	if err := s.upload(ctx, name, data); err != nil {
		metrics.UploadsFailedCounter.WithLabelValues().Inc()
		s.l.Error("snapshot upload failed",
			zap.String("name", name),
			zap.Error(err),
		)
		return
	}
	metrics.UploadsCompletedCounter.WithLabelValues().Inc()
	s.l.Info("snapshot uploaded", zap.String("name", name))
}

// ReadJSONMap reads, decompresses, and parses the snapshot of the given
// version, or of the current version if none is given. Unlike uploads this
// path is strict: absence, I/O failure, and malformed content all propagate.
func (s *Store) ReadJSONMap(ctx context.Context, version Version) (map[string]any, error) {
	if version == "" {
		version = s.current
	} else if !version.Valid() {
		return nil, errors.Errorf("invalid runtime version %q", string(version))
	}

	raw, err := s.gw.Read(ctx, s.objectName(version))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read snapshot")
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decompress snapshot")
	}
	decompressed, err := io.ReadAll(zr)
	if err == nil {
		err = zr.Close()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to decompress snapshot")
	}

	var data map[string]any
	if err := json.Unmarshal(decompressed, &data); err != nil {
		return nil, errors.Wrap(err, "failed to parse snapshot")
	}
	return data, nil
}

// DetectLatestVersion returns the newest stored version that is not newer
// than the current one, or the empty version if there is none.
func (s *Store) DetectLatestVersion(ctx context.Context) (Version, error) {
	var latest Version
	err := s.eachEntry(ctx, func(entry gateway.Entry) {
		version, ok := s.versionOf(entry)
		if !ok {
			return
		}
		// fixed-width versions sort lexicographically
		if version <= s.current && version > latest {
			latest = version
		}
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to detect latest version")
	}
	return latest, nil
}

// DeleteOldData removes every snapshot whose version the cutoff policy
// considers eligible and, with a non-zero minAge, that is additionally older
// than minAge. Versions the policy considers live are preserved regardless
// of age, since a live runtime keeps refreshing its own snapshot.
func (s *Store) DeleteOldData(ctx context.Context, minAge time.Duration) (DeleteCounts, error) {
	var (
		l       = s.l.With(zap.String("run_id", uuid.New().String()))
		start   = time.Now()
		counts  DeleteCounts
		deleted atomic.Int64
		exec    = executor.NewBounded(s.concurrency)
	)
	l.Info("gc pass started", zap.String("prefix", s.prefix))

	listErr := s.eachEntry(ctx, func(entry gateway.Entry) {
		version, ok := s.versionOf(entry)
		if !ok {
			return
		}
		counts.Found++
		if !s.cutoff(version) {
			return
		}
		if minAge > 0 && s.now().Sub(entry.Updated) <= minAge {
			return
		}
		name := entry.Name
		exec.Schedule(func() error {
			removed, err := s.deleteObject(ctx, name)
			if err != nil {
				metrics.GCFailedCounter.WithLabelValues().Inc()
				return errors.Wrapf(err, "failed to delete %q", name)
			}
			if removed {
				deleted.Add(1)
				metrics.GCDeletedCounter.WithLabelValues().Inc()
			}
			return nil
		})
	})

	// let in-flight deletions finish even when the listing failed
	err := multierr.Append(listErr, exec.Drain())
	counts.Deleted = int(deleted.Load())

	metrics.GCDuration.WithLabelValues().Observe(time.Since(start).Seconds())
	if err != nil {
		l.Error("gc pass failed",
			zap.Int("found", counts.Found),
			zap.Int("deleted", counts.Deleted),
			zap.Error(err),
		)
	} else {
		l.Info("gc pass complete",
			zap.Int("found", counts.Found),
			zap.Int("deleted", counts.Deleted),
		)
	}
	return counts, err
}

// BucketURI returns the canonical locator of the given version's snapshot,
// or of the current version if none is given. No I/O is performed.
func (s *Store) BucketURI(version Version) string {
	if version == "" {
		version = s.current
	}
	name := s.objectName(version)
	if s.baseURL == "" {
		return name
	}
	return s.baseURL + "/" + name
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (s *Store) objectName(version Version) string {
	return s.prefix + string(version) + SnapshotSuffix
}

// versionOf recovers the version token from a listing entry, or false if the
// entry is a directory marker or does not match the snapshot naming pattern.
func (s *Store) versionOf(entry gateway.Entry) (Version, bool) {
	if entry.IsDir {
		return "", false
	}
	name := strings.TrimPrefix(entry.Name, s.prefix)
	if !strings.HasSuffix(name, SnapshotSuffix) || strings.Contains(name, "/") {
		return "", false
	}
	version := Version(strings.TrimSuffix(name, SnapshotSuffix))
	if !version.Valid() {
		return "", false
	}
	return version, true
}

type page struct {
	entries []gateway.Entry
	next    []byte
}

// eachEntry paginates the listing under the store prefix, retrying each page
// fetch, and calls fn for every entry.
func (s *Store) eachEntry(ctx context.Context, fn func(gateway.Entry)) error {
	var token []byte
	for {
		p, err := retry.DoWithData(ctx, func() (page, error) {
			entries, next, err := s.gw.ListPage(ctx, s.prefix, token, listPageSize)
			return page{entries: entries, next: next}, err
		}, s.retry()...)
		if err != nil {
			return errors.Wrap(err, "failed to list snapshots")
		}
		for _, entry := range p.entries {
			fn(entry)
		}
		if len(p.next) == 0 {
			return nil
		}
		token = p.next
	}
}

func (s *Store) upload(ctx context.Context, name string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "failed to marshal snapshot")
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return errors.Wrap(err, "failed to compress snapshot")
	}
	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "failed to compress snapshot")
	}

	return retry.Do(ctx, func() error {
		return s.gw.Write(ctx, name, buf.Bytes(), &gateway.WriteOptions{
			ContentType: snapshotContentType,
			Metadata: map[string]string{
				metadataVersionKey: string(s.current),
			},
		})
	}, s.retry()...)
}

func (s *Store) deleteObject(ctx context.Context, name string) (bool, error) {
	return retry.DoWithData(ctx, func() (bool, error) {
		return s.gw.Delete(ctx, name)
	}, s.retry()...)
}

func (s *Store) retry() []retry.Option {
	return append([]retry.Option{retry.If(gateway.IsTransient)}, s.retryOpts...)
}
