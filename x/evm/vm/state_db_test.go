package vm

import (
	"testing"

	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/EscanBE/tstore/testutil"
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

var _ EvmKeeper = storeKeeper{}

// storeKeeper is a minimal EvmKeeper over a KV store.
type storeKeeper struct {
	key storetypes.StoreKey
}

func (k storeKeeper) GetState(ctx sdk.Context, addr common.Address, key common.Hash) common.Hash {
	store := prefix.NewStore(ctx.KVStore(k.key), evmtypes.AddressStoragePrefix(addr))
	return common.BytesToHash(store.Get(key.Bytes()))
}

func (k storeKeeper) SetState(ctx sdk.Context, addr common.Address, key common.Hash, value []byte) {
	store := prefix.NewStore(ctx.KVStore(k.key), evmtypes.AddressStoragePrefix(addr))
	if len(value) == 0 {
		store.Delete(key.Bytes())
		return
	}
	store.Set(key.Bytes(), value)
}

func (k storeKeeper) GetCodeHash(ctx sdk.Context, addr common.Address) common.Hash {
	store := prefix.NewStore(ctx.KVStore(k.key), evmtypes.KeyPrefixCodeHash)
	return common.BytesToHash(store.Get(addr.Bytes()))
}

func (k storeKeeper) GetCode(ctx sdk.Context, codeHash common.Hash) []byte {
	store := prefix.NewStore(ctx.KVStore(k.key), evmtypes.KeyPrefixCode)
	return store.Get(codeHash.Bytes())
}

func setupPersistentState(t *testing.T) (sdk.Context, storeKeeper) {
	key := storetypes.NewKVStoreKey(evmtypes.StoreKey)
	testStore, err := testutil.NewTestStore(nil, key)
	require.NoError(t, err)

	return testStore.NewContext(1), storeKeeper{key: key}
}

func Test_PersistentState_Branches(t *testing.T) {
	ctx, keeper := setupPersistentState(t)
	addr := testutil.GenerateAddress()
	key := testutil.GenerateHash()
	value1 := testutil.GenerateHash()
	value2 := testutil.GenerateHash()

	state := newPersistentState(ctx, keeper)
	state.SetState(addr, key, value1)
	require.Equal(t, value1, state.GetState(addr, key))
	require.Equal(t, common.Hash{}, keeper.GetState(ctx, addr, key), "original context must not be changed before commit")

	id := state.Snapshot()
	require.Equal(t, 1, id)
	state.SetState(addr, key, value2)
	require.Equal(t, value2, state.GetState(addr, key))

	state.RevertToSnapshot(id)
	require.Equal(t, value1, state.GetState(addr, key), "revert must drop the branch")

	id = state.Snapshot()
	nested := state.Snapshot()
	state.SetState(addr, key, value2)
	state.Commit(nested)
	state.Commit(id)
	require.Equal(t, value2, state.GetState(addr, key))

	require.NoError(t, state.CommitMultiStore())
	require.Equal(t, value2, keeper.GetState(ctx, addr, key))

	require.Panics(t, func() {
		_ = state.CommitMultiStore()
	}, "commit twice")
}

func Test_PersistentState_ZeroValueDeletes(t *testing.T) {
	ctx, keeper := setupPersistentState(t)
	addr := testutil.GenerateAddress()
	key := testutil.GenerateHash()

	state := newPersistentState(ctx, keeper)
	state.SetState(addr, key, testutil.GenerateHash())
	state.SetState(addr, key, common.Hash{})
	require.NoError(t, state.CommitMultiStore())

	store := prefix.NewStore(ctx.KVStore(keeper.key), evmtypes.AddressStoragePrefix(addr))
	require.False(t, store.Has(key.Bytes()))
}

func Test_PersistentState_InvalidSnapshot(t *testing.T) {
	ctx, keeper := setupPersistentState(t)
	state := newPersistentState(ctx, keeper)

	require.Panics(t, func() {
		state.RevertToSnapshot(0)
	}, "root branch can not be reverted")

	id := state.Snapshot()
	state.Snapshot()
	require.Panics(t, func() {
		state.Commit(id)
	}, "only the most recent branch can be committed")

	require.Error(t, state.CommitMultiStore(), "frame branches still open")
}

func Test_PersistentState_AccessList(t *testing.T) {
	ctx, keeper := setupPersistentState(t)
	addr := testutil.GenerateAddress()
	key1 := testutil.GenerateHash()
	key2 := testutil.GenerateHash()

	state := newPersistentState(ctx, keeper)
	require.True(t, state.AccessSlot(addr, key1), "first access is cold")
	require.False(t, state.AccessSlot(addr, key1), "second access is warm")

	id := state.Snapshot()
	require.False(t, state.AccessSlot(addr, key1), "accesses of the parent are inherited")
	require.True(t, state.AccessSlot(addr, key2))
	state.RevertToSnapshot(id)
	require.True(t, state.AccessSlot(addr, key2), "accesses of a reverted branch are reverted")

	id = state.Snapshot()
	key3 := testutil.GenerateHash()
	require.True(t, state.AccessSlot(addr, key3))
	state.Commit(id)
	require.False(t, state.AccessSlot(addr, key3), "accesses of a committed branch are kept")
}

func Test_AccessList(t *testing.T) {
	al := newAccessList()
	addr1 := testutil.GenerateAddress()
	slot1 := testutil.GenerateHash()

	require.False(t, al.ContainsAddress(addr1))
	require.True(t, al.AddSlot(addr1, slot1))
	require.False(t, al.AddSlot(addr1, slot1))

	addressPresent, slotPresent := al.Contains(addr1, slot1)
	require.True(t, addressPresent)
	require.True(t, slotPresent)

	addressPresent, slotPresent = al.Contains(addr1, testutil.GenerateHash())
	require.True(t, addressPresent)
	require.False(t, slotPresent)

	copied := al.Copy()
	require.True(t, copied.AddSlot(addr1, testutil.GenerateHash()))
	require.Equal(t, 1, al.Size(), "copy must be independent")
	require.Equal(t, 2, copied.Size())
}
