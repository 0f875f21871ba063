package vm

import "github.com/ethereum/go-ethereum/common"

// TransientStorage is the transaction-scoped key-value store accessed by TLOAD and TSTORE.
// It has no knowledge of frames, reverting is performed by the Journal.
type TransientStorage interface {
	// Get returns the value of the slot, zero when the slot was never written
	Get(slot TransientSlot) common.Hash
	// Lookup returns the value of the slot and whether the slot exists
	Lookup(slot TransientSlot) (common.Hash, bool)
	// Set updates the slot, writing the zero value removes the slot
	Set(slot TransientSlot, value common.Hash)
	// Delete removes the slot
	Delete(slot TransientSlot)
	// Clear drops every slot
	Clear()
	Clone() TransientStorage
	Size() int
}

var _ TransientStorage = transientStorage{}

type transientStorage map[TransientSlot]common.Hash

func newTransientStorage() transientStorage {
	return make(transientStorage)
}

func (t transientStorage) Get(slot TransientSlot) common.Hash {
	return t[slot]
}

func (t transientStorage) Lookup(slot TransientSlot) (common.Hash, bool) {
	value, found := t[slot]
	return value, found
}

func (t transientStorage) Set(slot TransientSlot, value common.Hash) {
	if value == (common.Hash{}) {
		delete(t, slot)
		return
	}
	t[slot] = value
}

func (t transientStorage) Delete(slot TransientSlot) {
	delete(t, slot)
}

func (t transientStorage) Clear() {
	clear(t)
}

func (t transientStorage) Clone() TransientStorage {
	cloned := make(transientStorage, len(t))
	for slot, value := range t {
		cloned[slot] = value
	}
	return cloned
}

func (t transientStorage) Size() int {
	return len(t)
}
