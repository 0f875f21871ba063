package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

// ChainConfig holds the activation heights of the hard forks the engine knows about.
// A nil height means the fork is never activated.
type ChainConfig struct {
	BerlinBlock   *sdkmath.Int `json:"berlin_block,omitempty" mapstructure:"berlin-block"`
	LondonBlock   *sdkmath.Int `json:"london_block,omitempty" mapstructure:"london-block"`
	ShanghaiBlock *sdkmath.Int `json:"shanghai_block,omitempty" mapstructure:"shanghai-block"`
	CancunBlock   *sdkmath.Int `json:"cancun_block,omitempty" mapstructure:"cancun-block"`
}

// Rules is a one time interface meaning that it shouldn't be used in between transition
// phases. It is computed for a single block height.
type Rules struct {
	IsBerlin, IsLondon, IsShanghai, IsCancun bool

	// HasPush0 is true when the PUSH0 instruction is available (Shanghai or EIP-3855).
	HasPush0 bool
	// HasTransientStorage is true when TLOAD and TSTORE are available (Cancun or EIP-1153).
	HasTransientStorage bool
}

// DefaultChainConfig returns the default chain config, all forks activated from genesis.
func DefaultChainConfig() ChainConfig {
	zeroInt := sdkmath.ZeroInt()

	return ChainConfig{
		BerlinBlock:   &zeroInt,
		LondonBlock:   &zeroInt,
		ShanghaiBlock: &zeroInt,
		CancunBlock:   &zeroInt,
	}
}

// PreCancunChainConfig returns a chain config where every fork before Cancun is activated from genesis
// and Cancun is never activated.
func PreCancunChainConfig() ChainConfig {
	cfg := DefaultChainConfig()
	cfg.CancunBlock = nil
	return cfg
}

// Validate performs a basic validation of the ChainConfig. The function will return an error
// if any of the block values is negative or if the forks are not configured in order.
func (m ChainConfig) Validate() error {
	forks := []struct {
		name  string
		block *sdkmath.Int
	}{
		{name: "berlinBlock", block: m.BerlinBlock},
		{name: "londonBlock", block: m.LondonBlock},
		{name: "shanghaiBlock", block: m.ShanghaiBlock},
		{name: "cancunBlock", block: m.CancunBlock},
	}

	var last *sdkmath.Int
	var lastName string
	for _, fork := range forks {
		if fork.block == nil {
			last = nil
			lastName = fork.name
			continue
		}
		if err := validateBlock(fork.block); err != nil {
			return errorsmod.Wrap(err, fork.name)
		}
		if lastName != "" && last == nil {
			return errorsmod.Wrapf(
				ErrInvalidChainConfig, "unsupported fork ordering: %s not enabled, but %s enabled at %s", lastName, fork.name, fork.block,
			)
		}
		if last != nil && fork.block.LT(*last) {
			return errorsmod.Wrapf(
				ErrInvalidChainConfig, "unsupported fork ordering: %s enabled at %s, but %s enabled at %s", lastName, last, fork.name, fork.block,
			)
		}
		last = fork.block
		lastName = fork.name
	}

	return nil
}

func validateBlock(block *sdkmath.Int) error {
	if block.IsNegative() {
		return errorsmod.Wrapf(
			ErrInvalidChainConfig, "block value cannot be negative: %s", block,
		)
	}

	return nil
}

// IsCancun returns whether height is either equal to the Cancun fork block or greater.
func (m ChainConfig) IsCancun(height int64) bool {
	return isForked(m.CancunBlock, height)
}

// IsShanghai returns whether height is either equal to the Shanghai fork block or greater.
func (m ChainConfig) IsShanghai(height int64) bool {
	return isForked(m.ShanghaiBlock, height)
}

// Rules computes the fork flags for the given height.
func (m ChainConfig) Rules(height int64) Rules {
	rules := Rules{
		IsBerlin:   isForked(m.BerlinBlock, height),
		IsLondon:   isForked(m.LondonBlock, height),
		IsShanghai: isForked(m.ShanghaiBlock, height),
		IsCancun:   isForked(m.CancunBlock, height),
	}
	rules.HasPush0 = rules.IsShanghai
	rules.HasTransientStorage = rules.IsCancun
	return rules
}

func isForked(block *sdkmath.Int, height int64) bool {
	if block == nil {
		return false
	}
	return block.LTE(sdkmath.NewInt(height))
}
