// Package layout resolves state variable declarations of a contract and its bases into storage locations.
// Persistent and transient variables are laid out with the same packing rule, each space with its own slot counter.
package layout

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

// WordSize is the size of a storage slot in bytes.
const WordSize = 32

// Variable is a state variable declaration.
type Variable struct {
	Name      string
	Size      int // in bytes, 1..32
	Transient bool
}

// Contract is a contract declaration, the bases are inherited in order.
type Contract struct {
	Name  string
	Bases []*Contract
	Vars  []Variable
}

// Location is the resolved storage location of a variable.
type Location struct {
	Slot      common.Hash
	Offset    int // in bytes, from the low-order end of the word
	Size      int
	Transient bool
}

func (l Location) String() string {
	space := "storage"
	if l.Transient {
		space = "transient"
	}
	return fmt.Sprintf("%s[%s]+%d:%d", space, new(uint256.Int).SetBytes(l.Slot.Bytes()).Hex(), l.Offset, l.Size)
}

// Layout is the resolved layout of a contract.
type Layout struct {
	Contract string
	// Order is the linearized inheritance chain, most base first, ending with the contract itself.
	Order     []string
	locations map[string]Location
	names     []string
}

// Lookup returns the location of the variable with the given name.
func (l *Layout) Lookup(name string) (Location, bool) {
	loc, found := l.locations[name]
	return loc, found
}

// MustLookup is like Lookup but panics when the variable is not declared.
func (l *Layout) MustLookup(name string) Location {
	loc, found := l.Lookup(name)
	if !found {
		panic(fmt.Sprintf("variable %s is not declared by %s", name, l.Contract))
	}
	return loc
}

// Names returns the variable names in declaration order.
func (l *Layout) Names() []string {
	return append([]string(nil), l.names...)
}

// slotCounter assigns locations within one storage space.
type slotCounter struct {
	slot   uint64
	offset int
}

func (c *slotCounter) next(size int) (slot uint64, offset int) {
	if c.offset+size > WordSize {
		c.slot++
		c.offset = 0
	}
	slot, offset = c.slot, c.offset
	c.offset += size
	return slot, offset
}

// Resolve linearizes the inheritance chain of the contract, bases first,
// then assigns a location to every variable.
func Resolve(contract *Contract) (*Layout, error) {
	if contract == nil {
		return nil, errorsmod.Wrap(evmtypes.ErrInvalidLayout, "nil contract")
	}

	order, err := linearize(contract)
	if err != nil {
		return nil, err
	}

	layout := &Layout{
		Contract:  contract.Name,
		locations: make(map[string]Location),
	}

	var persistent, transient slotCounter
	for _, c := range order {
		layout.Order = append(layout.Order, c.Name)

		for _, v := range c.Vars {
			if v.Name == "" {
				return nil, errorsmod.Wrapf(evmtypes.ErrInvalidLayout, "unnamed variable in %s", c.Name)
			}
			if v.Size < 1 || v.Size > WordSize {
				return nil, errorsmod.Wrapf(evmtypes.ErrInvalidLayout, "variable %s.%s has invalid size %d", c.Name, v.Name, v.Size)
			}
			if _, found := layout.locations[v.Name]; found {
				return nil, errorsmod.Wrapf(evmtypes.ErrInvalidLayout, "variable %s.%s declared twice", c.Name, v.Name)
			}

			counter := &persistent
			if v.Transient {
				counter = &transient
			}
			slot, offset := counter.next(v.Size)

			layout.locations[v.Name] = Location{
				Slot:      common.Hash(uint256.NewInt(slot).Bytes32()),
				Offset:    offset,
				Size:      v.Size,
				Transient: v.Transient,
			}
			layout.names = append(layout.names, v.Name)
		}
	}

	return layout, nil
}

// linearize visits the bases depth-first in declaration order, each contract once.
func linearize(contract *Contract) ([]*Contract, error) {
	var order []*Contract
	visited := make(map[*Contract]bool)
	onPath := make(map[*Contract]bool)
	names := make(map[string]*Contract)

	var visit func(c *Contract) error
	visit = func(c *Contract) error {
		if c == nil {
			return errorsmod.Wrap(evmtypes.ErrInvalidLayout, "unknown base contract")
		}
		if onPath[c] {
			return errorsmod.Wrapf(evmtypes.ErrInvalidLayout, "inheritance cycle through %s", c.Name)
		}
		if visited[c] {
			return nil
		}
		if other, found := names[c.Name]; found && other != c {
			return errorsmod.Wrapf(evmtypes.ErrInvalidLayout, "contract name %s declared twice", c.Name)
		}
		names[c.Name] = c

		onPath[c] = true
		for _, base := range c.Bases {
			if err := visit(base); err != nil {
				return err
			}
		}
		onPath[c] = false

		visited[c] = true
		order = append(order, c)
		return nil
	}

	if err := visit(contract); err != nil {
		return nil, err
	}
	return order, nil
}

// ExtractPacked reads the value of the given size at the byte offset of the word.
func ExtractPacked(word common.Hash, offset, size int) *uint256.Int {
	value := new(uint256.Int).SetBytes(word.Bytes())
	if !validRange(offset, size) {
		return value.Clear()
	}

	value.Rsh(value, uint(offset*8))
	return value.And(value, mask(size))
}

// InsertPacked replaces the value of the given size at the byte offset of the word with the value,
// truncated to the size. The other bytes of the word are kept.
func InsertPacked(word common.Hash, offset, size int, value *uint256.Int) common.Hash {
	if !validRange(offset, size) {
		return word
	}

	w := new(uint256.Int).SetBytes(word.Bytes())
	m := mask(size)

	cleared := new(uint256.Int).Lsh(m, uint(offset*8))
	cleared.Not(cleared)
	w.And(w, cleared)

	v := new(uint256.Int).And(value, m)
	v.Lsh(v, uint(offset*8))
	w.Or(w, v)

	return common.Hash(w.Bytes32())
}

func validRange(offset, size int) bool {
	return offset >= 0 && size >= 1 && offset+size <= WordSize
}

// mask returns a value with the low-order size bytes set.
func mask(size int) *uint256.Int {
	m := new(uint256.Int)
	if size >= WordSize {
		return m.Not(m)
	}
	m.SetOne()
	m.Lsh(m, uint(size*8))
	return m.Sub(m, uint256.NewInt(1))
}
