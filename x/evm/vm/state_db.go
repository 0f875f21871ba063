package vm

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

// persistentBranch is a cache-multi-store branch of the context, one per entered frame.
type persistentBranch struct {
	ctx        sdk.Context
	writeFunc  func()
	accessList *AccessList
}

// persistentState is the Context-based persistent storage view used by the interpreter.
// Every frame works on its own branch, reverting a frame drops its branch.
type persistentState struct {
	originalCtx sdk.Context // the context passed to the constructor, receives the changes on commit
	keeper      EvmKeeper
	branches    []persistentBranch
	committed   bool
}

func newPersistentState(ctx sdk.Context, keeper EvmKeeper) *persistentState {
	cacheCtx, writeFunc := ctx.CacheContext()

	return &persistentState{
		originalCtx: ctx,
		keeper:      keeper,
		branches: []persistentBranch{{
			ctx:        cacheCtx,
			writeFunc:  writeFunc,
			accessList: newAccessList(),
		}},
	}
}

func (s *persistentState) currentCtx() sdk.Context {
	return s.branches[len(s.branches)-1].ctx
}

// AccessSlot marks the slot as accessed by the current branch, returns true on the first access.
func (s *persistentState) AccessSlot(address common.Address, key common.Hash) (cold bool) {
	return s.branches[len(s.branches)-1].accessList.AddSlot(address, key)
}

// GetState retrieves a value from the given account's storage.
func (s *persistentState) GetState(address common.Address, key common.Hash) common.Hash {
	return s.keeper.GetState(s.currentCtx(), address, key)
}

// SetState updates the given account's storage, the zero value removes the record.
func (s *persistentState) SetState(address common.Address, key, value common.Hash) {
	var bz []byte
	if value != (common.Hash{}) {
		bz = value.Bytes()
	}
	s.keeper.SetState(s.currentCtx(), address, key, bz)
}

// GetCode returns the code deployed at the address, nil if none.
func (s *persistentState) GetCode(address common.Address) []byte {
	codeHash := s.keeper.GetCodeHash(s.currentCtx(), address)
	if evmtypes.IsEmptyCodeHash(codeHash) {
		return nil
	}
	return s.keeper.GetCode(s.currentCtx(), codeHash)
}

// GetCodeHash returns the code hash of the address.
func (s *persistentState) GetCodeHash(address common.Address) common.Hash {
	return s.keeper.GetCodeHash(s.currentCtx(), address)
}

// Snapshot branches the current context and returns the identifier of the new branch.
func (s *persistentState) Snapshot() int {
	current := s.branches[len(s.branches)-1]
	cacheCtx, writeFunc := current.ctx.CacheContext()
	s.branches = append(s.branches, persistentBranch{
		ctx:        cacheCtx,
		writeFunc:  writeFunc,
		accessList: current.accessList.Copy(),
	})
	return len(s.branches) - 1
}

// Commit writes the most recent branch into its parent.
func (s *persistentState) Commit(id int) {
	s.requireTopBranch(id)

	s.branches[id].writeFunc()
	s.branches[id-1].accessList = s.branches[id].accessList
	s.branches = s.branches[:id]
}

// RevertToSnapshot drops the most recent branch and every change made on it.
func (s *persistentState) RevertToSnapshot(id int) {
	s.requireTopBranch(id)

	s.branches = s.branches[:id]
}

// CommitMultiStore writes the root branch into the original context.
// Every frame branch must have been committed or reverted before.
func (s *persistentState) CommitMultiStore() error {
	if s.committed {
		panic(evmtypes.ErrEngineFailure.Wrap("called commit twice"))
	}
	if len(s.branches) != 1 {
		return evmtypes.ErrEngineFailure.Wrapf("%d frame branches still open", len(s.branches)-1)
	}

	s.committed = true // prohibit further commit

	s.branches[0].writeFunc()

	return nil
}

func (s *persistentState) requireTopBranch(id int) {
	if id < 1 {
		panic(evmtypes.ErrEngineFailure.Wrapf("invalid snapshot id: %d, below 1", id))
	}
	if id != len(s.branches)-1 {
		panic(evmtypes.ErrEngineFailure.Wrapf("invalid snapshot id: %d, expected %d", id, len(s.branches)-1))
	}
}
