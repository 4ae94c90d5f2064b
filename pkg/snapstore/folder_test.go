package snapstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/foomo/snapstore/pkg/gateway"
	"github.com/foomo/snapstore/pkg/gateway/mock"
	"github.com/foomo/snapstore/pkg/retry"
)

func fastFolderOpts(extra ...FolderOption) []FolderOption {
	return append([]FolderOption{
		FolderWithRetryOptions(retry.If(gateway.IsTransient), retry.Delay(time.Millisecond)),
	}, extra...)
}

func TestDeleteFolder_MissingSeparator(t *testing.T) {
	gw := mock.NewStore()
	_, err := DeleteFolder(context.Background(), zaptest.NewLogger(t), gw, "dumps")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSeparator)
	// the configuration error must fail fast, before any I/O
	assert.Equal(t, 0, gw.Calls("list"))
}

func TestDeleteFolder(t *testing.T) {
	for _, concurrency := range []int{1, 4, 8} {
		t.Run(fmt.Sprintf("concurrency-%d", concurrency), func(t *testing.T) {
			ctx := context.Background()
			gw := mock.NewStore()
			for i := 0; i < 250; i++ {
				require.NoError(t, gw.Write(ctx, fmt.Sprintf("dumps/object-%03d", i), []byte("x"), nil))
			}
			require.NoError(t, gw.Write(ctx, "keep/object", []byte("x"), nil))

			deleted, err := DeleteFolder(ctx, zaptest.NewLogger(t), gw, "dumps/",
				fastFolderOpts(FolderWithConcurrency(concurrency))...,
			)
			require.NoError(t, err)
			assert.Equal(t, 250, deleted)
			assert.Equal(t, []string{"keep/object"}, gw.Names())
		})
	}
}

func TestDeleteFolder_Empty(t *testing.T) {
	gw := mock.NewStore()
	deleted, err := DeleteFolder(context.Background(), zaptest.NewLogger(t), gw, "dumps/", fastFolderOpts()...)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}

func TestDeleteFolder_RetriesListing(t *testing.T) {
	ctx := context.Background()
	gw := mock.NewStore()
	for i := 0; i < 3; i++ {
		require.NoError(t, gw.Write(ctx, fmt.Sprintf("dumps/object-%d", i), []byte("x"), nil))
	}
	gw.FailNext("list", errOverloaded, errOverloaded)

	deleted, err := DeleteFolder(ctx, zaptest.NewLogger(t), gw, "dumps/", fastFolderOpts()...)
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
	assert.Equal(t, 3, gw.Calls("list"))
}

func TestDeleteFolder_ListingExhausted(t *testing.T) {
	ctx := context.Background()
	gw := mock.NewStore()
	require.NoError(t, gw.Write(ctx, "dumps/object", []byte("x"), nil))
	gw.FailNext("list", errOverloaded, errOverloaded, errOverloaded, errOverloaded)

	_, err := DeleteFolder(ctx, zaptest.NewLogger(t), gw, "dumps/", fastFolderOpts()...)
	require.Error(t, err)
	assert.Contains(t, gw.Names(), "dumps/object")
}

func TestDeleteFolder_PartialFailure(t *testing.T) {
	ctx := context.Background()
	gw := mock.NewStore()
	for i := 0; i < 5; i++ {
		require.NoError(t, gw.Write(ctx, fmt.Sprintf("dumps/object-%d", i), []byte("x"), nil))
	}
	// one fatal deletion must not keep the rest of the batch from running
	gw.FailNext("delete", assert.AnError)

	deleted, err := DeleteFolder(ctx, zaptest.NewLogger(t), gw, "dumps/", fastFolderOpts()...)
	require.Error(t, err)
	assert.Equal(t, 4, deleted)
}
