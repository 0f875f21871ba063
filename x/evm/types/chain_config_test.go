package types

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func newIntPtr(i int64) *sdkmath.Int {
	v := sdkmath.NewInt(i)
	return &v
}

func TestChainConfigValidate(t *testing.T) {
	testCases := []struct {
		name     string
		config   ChainConfig
		expError bool
	}{
		{
			name:     "pass - default",
			config:   DefaultChainConfig(),
			expError: false,
		},
		{
			name:     "pass - pre-Cancun",
			config:   PreCancunChainConfig(),
			expError: false,
		},
		{
			name: "pass - valid",
			config: ChainConfig{
				BerlinBlock:   newIntPtr(0),
				LondonBlock:   newIntPtr(1),
				ShanghaiBlock: newIntPtr(1),
				CancunBlock:   newIntPtr(100),
			},
			expError: false,
		},
		{
			name:     "pass - empty",
			config:   ChainConfig{},
			expError: false,
		},
		{
			name: "fail - invalid BerlinBlock",
			config: ChainConfig{
				BerlinBlock: newIntPtr(-1),
			},
			expError: true,
		},
		{
			name: "fail - invalid CancunBlock",
			config: ChainConfig{
				BerlinBlock:   newIntPtr(0),
				LondonBlock:   newIntPtr(0),
				ShanghaiBlock: newIntPtr(0),
				CancunBlock:   newIntPtr(-1),
			},
			expError: true,
		},
		{
			name: "fail - CancunBlock before ShanghaiBlock",
			config: ChainConfig{
				BerlinBlock:   newIntPtr(0),
				LondonBlock:   newIntPtr(0),
				ShanghaiBlock: newIntPtr(10),
				CancunBlock:   newIntPtr(5),
			},
			expError: true,
		},
		{
			name: "fail - CancunBlock enabled without ShanghaiBlock",
			config: ChainConfig{
				BerlinBlock: newIntPtr(0),
				LondonBlock: newIntPtr(0),
				CancunBlock: newIntPtr(0),
			},
			expError: true,
		},
		{
			name: "fail - LondonBlock enabled without BerlinBlock",
			config: ChainConfig{
				LondonBlock: newIntPtr(0),
			},
			expError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()

			if tc.expError {
				require.ErrorIs(t, err, ErrInvalidChainConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestChainConfigRules(t *testing.T) {
	config := ChainConfig{
		BerlinBlock:   newIntPtr(0),
		LondonBlock:   newIntPtr(0),
		ShanghaiBlock: newIntPtr(5),
		CancunBlock:   newIntPtr(10),
	}

	rules := config.Rules(4)
	require.True(t, rules.IsBerlin)
	require.True(t, rules.IsLondon)
	require.False(t, rules.IsShanghai)
	require.False(t, rules.HasPush0)
	require.False(t, rules.HasTransientStorage)

	rules = config.Rules(9)
	require.True(t, rules.IsShanghai)
	require.True(t, rules.HasPush0)
	require.False(t, rules.IsCancun)
	require.False(t, rules.HasTransientStorage, "one block before the activation")
	require.False(t, config.IsCancun(9))

	rules = config.Rules(10)
	require.True(t, rules.IsCancun)
	require.True(t, rules.HasTransientStorage)
	require.True(t, config.IsCancun(10))
	require.True(t, config.IsShanghai(10))

	require.False(t, PreCancunChainConfig().Rules(1_000_000).HasTransientStorage, "never activated")
	require.True(t, DefaultChainConfig().Rules(0).HasTransientStorage, "activated from genesis")
}
