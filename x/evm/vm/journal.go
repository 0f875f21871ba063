package vm

import (
	errorsmod "cosmossdk.io/errors"
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
	"github.com/ethereum/go-ethereum/common"
)

// journalEntry is the undo record of the first write to a slot inside a journal segment.
type journalEntry struct {
	slot    TransientSlot
	prev    common.Hash
	existed bool

	// prevSegment is the segment which had journaled the slot before this entry was appended, zero if none.
	prevSegment uint64
}

// checkpoint is an open journal segment.
type checkpoint struct {
	segment uint64
	marker  int
}

// Journal is the append-only undo log of the transient storage.
// Each call frame opens a segment with Checkpoint and closes it with either Commit or Rollback.
type Journal struct {
	entries     []journalEntry
	checkpoints []checkpoint

	// journaled holds, for each slot written within the open segments, the youngest segment that journaled it.
	journaled   map[TransientSlot]uint64
	nextSegment uint64
}

// NewJournal returns an empty journal.
func NewJournal() *Journal {
	return &Journal{
		journaled: make(map[TransientSlot]uint64),
	}
}

// Checkpoint opens a new segment and returns its marker, the current length of the journal.
func (j *Journal) Checkpoint() int {
	j.nextSegment++
	marker := len(j.entries)
	j.checkpoints = append(j.checkpoints, checkpoint{
		segment: j.nextSegment,
		marker:  marker,
	})
	return marker
}

// recordFirstWrite appends the undo record of the slot unless the innermost segment already holds one.
// Returns true when an entry was appended.
func (j *Journal) recordFirstWrite(slot TransientSlot, prev common.Hash, existed bool) (bool, error) {
	top, ok := j.top()
	if !ok {
		return false, errorsmod.Wrapf(evmtypes.ErrJournalConsistency, "write to %s outside of any checkpoint", slot)
	}

	prevSegment := j.journaled[slot]
	if prevSegment == top.segment {
		return false, nil
	}

	j.entries = append(j.entries, journalEntry{
		slot:        slot,
		prev:        prev,
		existed:     existed,
		prevSegment: prevSegment,
	})
	j.journaled[slot] = top.segment

	return true, nil
}

// Commit closes the innermost segment and merges it into its parent, the store is untouched.
func (j *Journal) Commit(marker int) error {
	top, err := j.validateMarker(marker)
	if err != nil {
		return err
	}

	j.checkpoints = j.checkpoints[:len(j.checkpoints)-1]

	parent, hasParent := j.top()
	for _, entry := range j.entries[marker:] {
		if j.journaled[entry.slot] != top.segment {
			continue
		}
		if hasParent {
			j.journaled[entry.slot] = parent.segment
		} else {
			delete(j.journaled, entry.slot)
		}
	}

	if !hasParent {
		// nothing can revert past the outermost segment
		j.entries = j.entries[:marker]
	}

	return nil
}

// Rollback closes the innermost segment and replays its entries in reverse order,
// restoring every written slot of the store to the value it had when the segment was opened.
// Returns the number of replayed entries.
func (j *Journal) Rollback(marker int, store TransientStorage) (int, error) {
	if _, err := j.validateMarker(marker); err != nil {
		return 0, err
	}

	for i := len(j.entries) - 1; i >= marker; i-- {
		entry := j.entries[i]

		if entry.existed {
			store.Set(entry.slot, entry.prev)
		} else {
			store.Delete(entry.slot)
		}

		if entry.prevSegment == 0 {
			delete(j.journaled, entry.slot)
		} else {
			j.journaled[entry.slot] = entry.prevSegment
		}
	}

	replayed := len(j.entries) - marker
	j.entries = j.entries[:marker]
	j.checkpoints = j.checkpoints[:len(j.checkpoints)-1]

	return replayed, nil
}

// Reset drops every entry and every open segment.
func (j *Journal) Reset() {
	j.entries = nil
	j.checkpoints = nil
	clear(j.journaled)
	j.nextSegment = 0
}

// Len returns the number of entries in the journal.
func (j *Journal) Len() int {
	return len(j.entries)
}

// Depth returns the number of open segments.
func (j *Journal) Depth() int {
	return len(j.checkpoints)
}

func (j *Journal) isJournaled(slot TransientSlot) bool {
	top, ok := j.top()
	return ok && j.journaled[slot] == top.segment
}

func (j *Journal) top() (checkpoint, bool) {
	if len(j.checkpoints) < 1 {
		return checkpoint{}, false
	}
	return j.checkpoints[len(j.checkpoints)-1], true
}

func (j *Journal) validateMarker(marker int) (checkpoint, error) {
	top, ok := j.top()
	if !ok {
		return checkpoint{}, errorsmod.Wrapf(evmtypes.ErrJournalConsistency, "no open checkpoint for marker %d", marker)
	}
	if marker > len(j.entries) {
		return checkpoint{}, errorsmod.Wrapf(
			evmtypes.ErrJournalConsistency, "marker %d beyond journal length %d", marker, len(j.entries),
		)
	}
	if marker != top.marker {
		return checkpoint{}, errorsmod.Wrapf(
			evmtypes.ErrJournalConsistency, "marker %d does not match the innermost checkpoint %d", marker, top.marker,
		)
	}
	return top, nil
}
