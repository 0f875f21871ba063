package vm

import (
	"cosmossdk.io/log"

	errorsmod "cosmossdk.io/errors"
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
	"github.com/ethereum/go-ethereum/common"
)

// TransactionState is the transient state handle of a single transaction.
// It owns the transient storage, the journal and the stack of entered frames.
//
// Not safe for concurrent use, every transaction must use its own handle.
type TransactionState struct {
	logger log.Logger
	tracer evmtypes.Tracer

	store   TransientStorage
	journal *Journal
	frames  []*Frame
	active  bool
}

// NewTransactionState creates an inactive transient state handle.
func NewTransactionState(logger log.Logger, tracer evmtypes.Tracer) *TransactionState {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if tracer == nil {
		tracer = evmtypes.NewNoOpTracer()
	}

	return &TransactionState{
		logger:  logger,
		tracer:  tracer,
		store:   newTransientStorage(),
		journal: NewJournal(),
	}
}

// BeginTransaction initializes an empty transient storage and journal.
func (s *TransactionState) BeginTransaction() error {
	if s.active {
		return errorsmod.Wrapf(evmtypes.ErrTransactionActive, "%d frames still open", len(s.frames))
	}

	s.store.Clear()
	s.journal.Reset()
	s.frames = nil
	s.active = true

	s.logger.Debug("transient state initialized")

	return nil
}

// EndTransaction discards the transient storage, the journal and every frame still open,
// regardless of the outcome of the transaction. Calling it on an inactive handle is a no-op.
func (s *TransactionState) EndTransaction() {
	if !s.active {
		return
	}

	abandoned := len(s.frames)
	for i := len(s.frames) - 1; i >= 0; i-- {
		s.frames[i].state = FrameStateRolledBack
	}

	slots := s.store.Size()
	s.store.Clear()
	s.journal.Reset()
	s.frames = nil
	s.active = false

	s.logger.Debug("transient state discarded", "slots", slots, "abandoned-frames", abandoned)
}

// EnterFrame pushes the frame on the call stack and opens its journal segment.
// The frame must be a root frame on an empty stack, or a child of the current frame.
func (s *TransactionState) EnterFrame(frame *Frame) error {
	if !s.active {
		return evmtypes.ErrTransactionNotActive
	}
	if frame == nil {
		return errorsmod.Wrap(evmtypes.ErrJournalConsistency, "nil frame")
	}
	if frame.entered || frame.state != FrameStateActive {
		return errorsmod.Wrapf(evmtypes.ErrJournalConsistency, "frame at depth %d was already entered", frame.depth)
	}

	current := s.CurrentFrame()
	if current == nil {
		if frame.parent != nil {
			return errorsmod.Wrapf(evmtypes.ErrJournalConsistency, "frame at depth %d entered without its parent", frame.depth)
		}
	} else if frame.parent != current {
		return errorsmod.Wrapf(
			evmtypes.ErrJournalConsistency, "frame at depth %d is not a child of the current frame at depth %d", frame.depth, current.depth,
		)
	}

	frame.marker = s.journal.Checkpoint()
	frame.entered = true
	s.frames = append(s.frames, frame)

	return nil
}

// ExitFrame pops the current frame and closes its journal segment.
// When reverted, every transient write performed by the frame and its descendants is undone.
func (s *TransactionState) ExitFrame(frame *Frame, reverted bool) error {
	if !s.active {
		return evmtypes.ErrTransactionNotActive
	}

	current := s.CurrentFrame()
	if current == nil || current != frame {
		return errorsmod.Wrap(evmtypes.ErrJournalConsistency, "exiting frame is not the current frame")
	}

	if reverted {
		entries, err := s.journal.Rollback(frame.marker, s.store)
		if err != nil {
			return err
		}
		frame.state = FrameStateRolledBack

		if entries > 0 {
			s.logger.Debug("transient writes rolled back", "owner", frame.owner.Hex(), "depth", frame.depth, "entries", entries)
		}
		s.tracer.OnTransientRollback(frame.depth, entries)
	} else {
		if err := s.journal.Commit(frame.marker); err != nil {
			return err
		}
		frame.state = FrameStateCommitted
	}

	s.frames = s.frames[:len(s.frames)-1]

	return nil
}

// Load returns the transient value of the key in the storage context of the frame.
// Reading is always permitted, also in static context.
func (s *TransactionState) Load(frame *Frame, key common.Hash) common.Hash {
	return s.store.Get(ResolveSlot(frame.owner, key))
}

// Store writes the transient value of the key in the storage context of the frame.
// A write in static context fails without mutating the storage.
func (s *TransactionState) Store(frame *Frame, key, value common.Hash) error {
	if !s.active {
		return evmtypes.ErrTransactionNotActive
	}
	if frame.static {
		return errorsmod.Wrapf(evmtypes.ErrStaticContextViolation, "owner %s key %s", frame.owner.Hex(), key.Hex())
	}
	if s.CurrentFrame() != frame {
		return errorsmod.Wrapf(evmtypes.ErrJournalConsistency, "write from frame at depth %d which is not the current frame", frame.depth)
	}

	slot := ResolveSlot(frame.owner, key)
	prev, existed := s.store.Lookup(slot)
	if _, err := s.journal.recordFirstWrite(slot, prev, existed); err != nil {
		return err
	}

	s.store.Set(slot, value)
	s.tracer.OnTransientStore(frame.owner, key, prev, value)

	return nil
}

// CurrentFrame returns the innermost entered frame, nil when the call stack is empty.
func (s *TransactionState) CurrentFrame() *Frame {
	if len(s.frames) < 1 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *TransactionState) IsActive() bool {
	return s.active
}

// Depth returns the number of entered frames.
func (s *TransactionState) Depth() int {
	return len(s.frames)
}

// Size returns the number of non-zero transient slots.
func (s *TransactionState) Size() int {
	return s.store.Size()
}
