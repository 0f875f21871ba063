package types

import (
	"fmt"

	corevm "github.com/ethereum/go-ethereum/core/vm"
	ethparams "github.com/ethereum/go-ethereum/params"
)

// CostClass flags the pricing class of an instruction.
// The engine does not meter gas, it only reports how many operations of each class were executed.
type CostClass uint8

const (
	CostClassZero CostClass = iota
	CostClassCompute
	CostClassJump
	CostClassTransient
	CostClassPersistentLoad
	CostClassPersistentStore
	CostClassCall
	CostClassWarmStorage
)

var costClassNames = map[CostClass]string{
	CostClassZero:            "zero",
	CostClassCompute:         "compute",
	CostClassJump:            "jump",
	CostClassTransient:       "transient",
	CostClassPersistentLoad:  "persistent_load",
	CostClassPersistentStore: "persistent_store",
	CostClassCall:            "call",
	CostClassWarmStorage:     "warm_storage",
}

func (c CostClass) String() string {
	if name, found := costClassNames[c]; found {
		return name
	}
	return fmt.Sprintf("CostClass(%d)", uint8(c))
}

// MarshalText implements encoding.TextMarshaler so the class can be used as JSON map key.
func (c CostClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Gas returns the reference gas price of the class.
// Transient accesses are priced as warm storage reads, cheaper than any first access to persistent storage.
func (c CostClass) Gas() uint64 {
	switch c {
	case CostClassCompute:
		return corevm.GasFastestStep
	case CostClassJump:
		return corevm.GasMidStep
	case CostClassTransient, CostClassWarmStorage:
		return ethparams.WarmStorageReadCostEIP2929
	case CostClassPersistentLoad:
		return ethparams.ColdSloadCostEIP2929
	case CostClassPersistentStore:
		return ethparams.SstoreSetGasEIP2200
	case CostClassCall:
		return ethparams.ColdAccountAccessCostEIP2929
	default:
		return 0
	}
}

// Usage counts the executed operations per cost class.
type Usage map[CostClass]uint64

// Add records one operation of the given class.
func (u Usage) Add(class CostClass) {
	u[class]++
}

// GasEstimate sums the reference gas of all recorded operations.
func (u Usage) GasEstimate() uint64 {
	var total uint64
	for class, count := range u {
		total += class.Gas() * count
	}
	return total
}

// Copy returns a deep copy.
func (u Usage) Copy() Usage {
	copied := make(Usage, len(u))
	for class, count := range u {
		copied[class] = count
	}
	return copied
}
