package vm

import (
	"testing"

	"github.com/EscanBE/tstore/testutil"
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func Test_NewRootFrame(t *testing.T) {
	origin := testutil.GenerateAddress()
	to := testutil.GenerateAddress()

	root := NewRootFrame(origin, to, false)
	require.Equal(t, evmtypes.CallTypeCall, root.CallType())
	require.Equal(t, origin, root.Caller())
	require.Equal(t, to, root.Address())
	require.Equal(t, to, root.Owner())
	require.False(t, root.IsStatic())
	require.Zero(t, root.Depth())
	require.Nil(t, root.Parent())
	require.Equal(t, FrameStateActive, root.State())

	staticRoot := NewRootFrame(origin, to, true)
	require.Equal(t, evmtypes.CallTypeStaticCall, staticRoot.CallType())
	require.True(t, staticRoot.IsStatic())
}

func Test_NewChildFrame_OwnerResolution(t *testing.T) {
	origin := testutil.GenerateAddress()
	parentAddr := testutil.GenerateAddress()
	target := testutil.GenerateAddress()

	tests := []struct {
		callType   evmtypes.CallType
		wantOwner  string
		wantCaller string
		wantStatic bool
	}{
		{callType: evmtypes.CallTypeCall, wantOwner: "target", wantCaller: "parent-owner"},
		{callType: evmtypes.CallTypeStaticCall, wantOwner: "target", wantCaller: "parent-owner", wantStatic: true},
		{callType: evmtypes.CallTypeDelegateCall, wantOwner: "parent-owner", wantCaller: "parent-caller"},
		{callType: evmtypes.CallTypeCallCode, wantOwner: "parent-owner", wantCaller: "parent-owner"},
	}

	resolve := func(name string) common.Address {
		switch name {
		case "target":
			return target
		case "parent-owner":
			return parentAddr
		case "parent-caller":
			return origin
		default:
			panic(name)
		}
	}

	for _, tt := range tests {
		t.Run(tt.callType.String(), func(t *testing.T) {
			parent := NewRootFrame(origin, parentAddr, false)

			child, err := NewChildFrame(parent, tt.callType, target)
			require.NoError(t, err)
			require.Equal(t, tt.callType, child.CallType())
			require.Equal(t, target, child.Address(), "code address is always the target")
			require.Equal(t, resolve(tt.wantOwner), child.Owner())
			require.Equal(t, resolve(tt.wantCaller), child.Caller())
			require.Equal(t, tt.wantStatic, child.IsStatic())
			require.Equal(t, 1, child.Depth())
			require.Same(t, parent, child.Parent())
		})
	}
}

func Test_NewChildFrame_NestedDelegation(t *testing.T) {
	origin := testutil.GenerateAddress()
	a := testutil.GenerateAddress()
	b := testutil.GenerateAddress()
	c := testutil.GenerateAddress()

	// origin -CALL-> a -DELEGATECALL-> b -DELEGATECALL-> c
	root := NewRootFrame(origin, a, false)
	inB, err := NewChildFrame(root, evmtypes.CallTypeDelegateCall, b)
	require.NoError(t, err)
	inC, err := NewChildFrame(inB, evmtypes.CallTypeDelegateCall, c)
	require.NoError(t, err)

	require.Equal(t, a, inC.Owner(), "owner is inherited through the whole delegation chain")
	require.Equal(t, origin, inC.Caller())
	require.Equal(t, c, inC.Address())

	// a -CALL-> c within the delegated context of a
	called, err := NewChildFrame(inC, evmtypes.CallTypeCall, c)
	require.NoError(t, err)
	require.Equal(t, c, called.Owner())
	require.Equal(t, a, called.Caller(), "caller of a regular call is the storage owner of the calling frame")
}

func Test_NewChildFrame_StaticIsSticky(t *testing.T) {
	root := NewRootFrame(testutil.GenerateAddress(), testutil.GenerateAddress(), false)

	static, err := NewChildFrame(root, evmtypes.CallTypeStaticCall, testutil.GenerateAddress())
	require.NoError(t, err)
	require.True(t, static.IsStatic())

	for _, callType := range []evmtypes.CallType{
		evmtypes.CallTypeCall,
		evmtypes.CallTypeDelegateCall,
		evmtypes.CallTypeCallCode,
		evmtypes.CallTypeStaticCall,
	} {
		child, err := NewChildFrame(static, callType, testutil.GenerateAddress())
		require.NoError(t, err)
		require.True(t, child.IsStatic(), "%s can not clear the static flag", callType)

		grandChild, err := NewChildFrame(child, evmtypes.CallTypeCall, testutil.GenerateAddress())
		require.NoError(t, err)
		require.True(t, grandChild.IsStatic())
	}
}

func Test_NewChildFrame_Errors(t *testing.T) {
	_, err := NewChildFrame(nil, evmtypes.CallTypeCall, testutil.GenerateAddress())
	require.ErrorIs(t, err, evmtypes.ErrJournalConsistency)

	root := NewRootFrame(testutil.GenerateAddress(), testutil.GenerateAddress(), false)
	_, err = NewChildFrame(root, evmtypes.CallType(0), testutil.GenerateAddress())
	require.ErrorIs(t, err, evmtypes.ErrInvalidCallType)

	root.state = FrameStateCommitted
	_, err = NewChildFrame(root, evmtypes.CallTypeCall, testutil.GenerateAddress())
	require.ErrorIs(t, err, evmtypes.ErrJournalConsistency)
}
