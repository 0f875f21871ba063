package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

const declarations = `[
	{"name": "A", "vars": [{"name": "x", "size": 32, "transient": true}, {"name": "y", "size": 32}]},
	{"name": "C", "bases": ["A"], "vars": [{"name": "w", "size": 32}, {"name": "z", "size": 32, "transient": true}]}
]`

func TestParseContracts(t *testing.T) {
	contract, err := ParseContracts([]byte(declarations), "C")
	require.NoError(t, err)
	require.Equal(t, "C", contract.Name)
	require.Len(t, contract.Bases, 1)
	require.Equal(t, "A", contract.Bases[0].Name)

	layout, err := Resolve(contract)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "C"}, layout.Order)
	require.Equal(t, []string{"x", "y", "w", "z"}, layout.Names())
	require.Equal(t, Location{Slot: slot(0), Size: 32, Transient: true}, layout.MustLookup("x"))
	require.Equal(t, Location{Slot: slot(0), Size: 32}, layout.MustLookup("y"))
	require.Equal(t, Location{Slot: slot(1), Size: 32}, layout.MustLookup("w"))
	require.Equal(t, Location{Slot: slot(1), Size: 32, Transient: true}, layout.MustLookup("z"))

	base, err := ParseContracts([]byte(declarations), "A")
	require.NoError(t, err)
	require.Empty(t, base.Bases)
}

func TestParseContracts_Errors(t *testing.T) {
	tests := []struct {
		name         string
		declarations string
		contract     string
	}{
		{name: "invalid json", declarations: `{`, contract: "A"},
		{name: "not declared", declarations: declarations, contract: "B"},
		{name: "declared twice", declarations: `[{"name": "A"}, {"name": "A"}]`, contract: "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseContracts([]byte(tt.declarations), tt.contract)
			require.ErrorIs(t, err, evmtypes.ErrInvalidLayout)
		})
	}

	t.Run("unknown base is reported by resolve", func(t *testing.T) {
		contract, err := ParseContracts([]byte(`[{"name": "A", "bases": ["B"]}]`), "A")
		require.NoError(t, err)

		_, err = Resolve(contract)
		require.ErrorIs(t, err, evmtypes.ErrInvalidLayout)
	})

	t.Run("inheritance cycle is reported by resolve", func(t *testing.T) {
		contract, err := ParseContracts([]byte(`[{"name": "A", "bases": ["B"]}, {"name": "B", "bases": ["A"]}]`), "A")
		require.NoError(t, err)

		_, err = Resolve(contract)
		require.ErrorIs(t, err, evmtypes.ErrInvalidLayout)
	})
}
