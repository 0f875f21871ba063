package vm

import (
	"cosmossdk.io/log"

	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

// EVMConfig contains the needed information to initialize the engine
type EVMConfig struct {
	Params evmtypes.Params
	Tracer evmtypes.Tracer
	Logger log.Logger
}
