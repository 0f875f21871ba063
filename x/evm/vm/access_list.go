package vm

import "github.com/ethereum/go-ethereum/common"

// AccessList tracks the persistent storage slots accessed within a transaction.
// The first access to a slot is priced cold, any later access is warm.
// Each frame branch holds its own copy so that reverting a frame also reverts its accesses.
type AccessList struct {
	elements map[common.Address]map[common.Hash]bool
}

// newAccessList creates a new AccessList.
func newAccessList() *AccessList {
	return &AccessList{
		elements: make(map[common.Address]map[common.Hash]bool),
	}
}

// ContainsAddress returns true if the address is in the access list.
func (al *AccessList) ContainsAddress(address common.Address) bool {
	_, ok := al.elements[address]
	return ok
}

// Contains checks if a slot within an account is present in the access list, returning
// separate flags for the presence of the account and the slot respectively.
func (al *AccessList) Contains(address common.Address, slot common.Hash) (addressPresent bool, slotPresent bool) {
	slots, ok := al.elements[address]
	if !ok {
		return false, false
	}
	_, slotPresent = slots[slot]
	return true, slotPresent
}

// Copy creates an independent copy of an AccessList.
func (al *AccessList) Copy() *AccessList {
	elements := make(map[common.Address]map[common.Hash]bool, len(al.elements))
	for address, existingSlots := range al.elements {
		slots := make(map[common.Hash]bool, len(existingSlots))
		for slot := range existingSlots {
			slots[slot] = false // whatever value, not matter
		}
		elements[address] = slots
	}

	return &AccessList{
		elements: elements,
	}
}

// AddSlot adds the specified (addr, slot) combo to the access list.
// Returns true if the slot was not previously in the list.
func (al *AccessList) AddSlot(address common.Address, slot common.Hash) bool {
	existingSlots, addressExisting := al.elements[address]
	if !addressExisting {
		al.elements[address] = map[common.Hash]bool{
			slot: false, // whatever value, not matter
		}
		return true
	}

	if _, slotExisting := existingSlots[slot]; slotExisting {
		return false
	}

	existingSlots[slot] = false // whatever value, not matter
	return true
}

// Size returns the number of accessed slots.
func (al *AccessList) Size() int {
	var size int
	for _, slots := range al.elements {
		size += len(slots)
	}
	return size
}
