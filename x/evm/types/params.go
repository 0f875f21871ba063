package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	ethparams "github.com/ethereum/go-ethereum/params"
)

const (
	// EIP1153 is the number of the transient storage EIP, enables TLOAD and TSTORE.
	EIP1153 = 1153
	// EIP3855 is the number of the PUSH0 EIP.
	EIP3855 = 3855
)

var (
	// DefaultExtraEIPs defines the list of all EIPs that are enabled by default
	DefaultExtraEIPs = []int64{EIP3855}
	// DefaultMaxCallDepth is the maximum depth of the call stack
	DefaultMaxCallDepth = uint64(ethparams.CallCreateDepth)
	// DefaultStepLimit is the maximum number of instructions executed within a single transaction, zero means unlimited
	DefaultStepLimit = uint64(10_000_000)

	activateableEIPs = map[int64]struct{}{
		EIP1153: {},
		EIP3855: {},
	}
)

// Params defines the engine configuration.
type Params struct {
	ChainConfig  ChainConfig `json:"chain_config" mapstructure:"chain-config"`
	ExtraEIPs    []int64     `json:"extra_eips,omitempty" mapstructure:"extra-eips"`
	MaxCallDepth uint64      `json:"max_call_depth" mapstructure:"max-call-depth"`
	StepLimit    uint64      `json:"step_limit" mapstructure:"step-limit"`
}

// NewParams creates a new Params instance
func NewParams(config ChainConfig, extraEIPs []int64, maxCallDepth, stepLimit uint64) Params {
	return Params{
		ChainConfig:  config,
		ExtraEIPs:    extraEIPs,
		MaxCallDepth: maxCallDepth,
		StepLimit:    stepLimit,
	}
}

// DefaultParams returns default engine parameters
func DefaultParams() Params {
	return Params{
		ChainConfig:  DefaultChainConfig(),
		ExtraEIPs:    DefaultExtraEIPs,
		MaxCallDepth: DefaultMaxCallDepth,
		StepLimit:    DefaultStepLimit,
	}
}

// Validate performs basic validation on engine parameters.
func (p Params) Validate() error {
	if err := validateEIPs(p.ExtraEIPs); err != nil {
		return err
	}

	if p.MaxCallDepth == 0 {
		return errorsmod.Wrap(ErrInvalidParams, "max call depth must be positive")
	}

	if err := p.ChainConfig.Validate(); err != nil {
		return errorsmod.Wrap(err, "chain config")
	}

	return nil
}

// HasEIP returns true if the EIP is part of ExtraEIPs.
func (p Params) HasEIP(eip int64) bool {
	for _, extraEIP := range p.ExtraEIPs {
		if extraEIP == eip {
			return true
		}
	}
	return false
}

// Rules computes the enabled feature set at the given height, taking the extra EIPs into account.
func (p Params) Rules(height int64) Rules {
	rules := p.ChainConfig.Rules(height)
	if p.HasEIP(EIP3855) {
		rules.HasPush0 = true
	}
	if p.HasEIP(EIP1153) {
		rules.HasTransientStorage = true
	}
	return rules
}

// IsTransientStorageEnabled returns true if TLOAD and TSTORE can be used at the given height.
func (p Params) IsTransientStorageEnabled(height int64) bool {
	return p.Rules(height).HasTransientStorage
}

func validateEIPs(eips []int64) error {
	seen := make(map[int64]struct{}, len(eips))
	for _, eip := range eips {
		if _, ok := activateableEIPs[eip]; !ok {
			return errorsmod.Wrapf(ErrInvalidParams, "EIP %d is not activateable, valid EIPs are: %d, %d", eip, EIP1153, EIP3855)
		}
		if _, duplicated := seen[eip]; duplicated {
			return errorsmod.Wrap(ErrInvalidParams, fmt.Sprintf("duplicated EIP %d", eip))
		}
		seen[eip] = struct{}{}
	}

	return nil
}
