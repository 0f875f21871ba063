package testutil

import (
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	storemetrics "cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	sdkdb "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// TestStore is an in-memory commit multi-store with the given stores mounted.
type TestStore struct {
	DB   sdkdb.DB
	CMS  storetypes.CommitMultiStore
	Keys []*storetypes.KVStoreKey

	logger log.Logger
	now    time.Time
}

// NewTestStore mounts every key as an IAVL store over an in-memory database.
func NewTestStore(logger log.Logger, keys ...*storetypes.KVStoreKey) (*TestStore, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	db := sdkdb.NewMemDB()
	cms := store.NewCommitMultiStore(db, logger, storemetrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, err
	}

	return &TestStore{
		DB:     db,
		CMS:    cms,
		Keys:   keys,
		logger: logger,
		now:    time.Now().UTC(),
	}, nil
}

// NewContext returns a context of the given block height on top of the working state.
func (s *TestStore) NewContext(height int64) sdk.Context {
	header := cmtproto.Header{
		ChainID: "tstore_9000-1",
		Height:  height,
		Time:    s.now.Add(time.Duration(height) * time.Second),
	}
	return sdk.NewContext(s.CMS, header, false, s.logger)
}

// Commit persists the working state as a new version and returns the context of the next block.
func (s *TestStore) Commit(ctx sdk.Context) sdk.Context {
	s.CMS.Commit()
	return s.NewContext(ctx.BlockHeight() + 1)
}
