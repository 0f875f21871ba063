package main

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/EscanBE/tstore/utils"
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

// defaultOrigin is the sender of the transactions when --from is not provided.
var defaultOrigin = common.HexToAddress("0x1000000000000000000000000000000000000001")

// config is the resolved configuration, flags take precedence over environment variables,
// which take precedence over the config file.
type config struct {
	LogLevel  zerolog.Level
	LogFormat string
	Height    int64
	From      *common.Address
	Params    evmtypes.Params
}

func readConfig(v *viper.Viper) (config, error) {
	var cfg config

	level, err := zerolog.ParseLevel(v.GetString(flagLogLevel))
	if err != nil {
		return cfg, errorsmod.Wrap(err, flagLogLevel)
	}
	cfg.LogLevel = level
	cfg.LogFormat = v.GetString(flagLogFormat)

	if cfg.Height, err = cast.ToInt64E(v.Get(flagHeight)); err != nil {
		return cfg, errorsmod.Wrap(err, flagHeight)
	}
	if cfg.Height < 0 {
		return cfg, errorsmod.Wrapf(evmtypes.ErrInvalidParams, "%s cannot be negative: %d", flagHeight, cfg.Height)
	}

	if from := v.GetString(flagFrom); from != "" {
		if !common.IsHexAddress(from) {
			return cfg, errorsmod.Wrapf(evmtypes.ErrInvalidParams, "%s is not a valid address: %s", flagFrom, from)
		}
		cfg.From = utils.Ptr(common.HexToAddress(from))
	}

	params := evmtypes.DefaultParams()

	cancunHeight, err := cast.ToInt64E(v.Get(flagCancunHeight))
	if err != nil {
		return cfg, errorsmod.Wrap(err, flagCancunHeight)
	}
	if cancunHeight < 0 {
		params.ChainConfig.CancunBlock = nil
	} else {
		params.ChainConfig.CancunBlock = utils.Ptr(sdkmath.NewInt(cancunHeight))
	}

	if params.ExtraEIPs, err = toInt64Slice(v.Get(flagExtraEIPs)); err != nil {
		return cfg, errorsmod.Wrap(err, flagExtraEIPs)
	}
	if params.MaxCallDepth, err = cast.ToUint64E(v.Get(flagMaxCallDepth)); err != nil {
		return cfg, errorsmod.Wrap(err, flagMaxCallDepth)
	}
	if params.StepLimit, err = cast.ToUint64E(v.Get(flagStepLimit)); err != nil {
		return cfg, errorsmod.Wrap(err, flagStepLimit)
	}

	if err := params.Validate(); err != nil {
		return cfg, err
	}
	cfg.Params = params

	return cfg, nil
}

// origin returns the sender of the transactions.
func (cfg config) origin() common.Address {
	return *utils.Coalesce(cfg.From, &defaultOrigin)
}

// toInt64Slice accepts a comma separated string (flags, environment variables) or a list (config file).
func toInt64Slice(value any) ([]int64, error) {
	if s, ok := value.(string); ok {
		value = strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ' '
		})
	}

	ints, err := cast.ToIntSliceE(value)
	if err != nil {
		return nil, err
	}

	res := make([]int64, 0, len(ints))
	for _, i := range ints {
		res = append(res, int64(i))
	}
	return res, nil
}
