package main

import (
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/EscanBE/tstore/x/evm/asm"
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

const (
	flagInput   = "input"
	flagStatic  = "static"
	flagRepeat  = "repeat"
	flagRetSize = "ret-size"
	flagNoTrace = "no-trace"
	flagGenesis = "genesis"
	flagExport  = "export-state"
)

// RunOutput is the JSON document printed by the run command.
type RunOutput struct {
	Contract    common.Address  `json:"contract"`
	Driver      *common.Address `json:"driver,omitempty"`
	Ret         hexutil.Bytes   `json:"ret"`
	Failed      bool            `json:"failed"`
	VmError     string          `json:"vmError,omitempty"`
	Usage       evmtypes.Usage  `json:"usage"`
	GasEstimate uint64          `json:"gasEstimate"`
	Steps       uint64          `json:"steps"`
	Trace       json.RawMessage `json:"trace,omitempty"`

	State *evmtypes.GenesisState `json:"state,omitempty"`
}

// NewRunCmd returns the command executing a contract within a single transaction.
func NewRunCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Deploy the code and execute it in a new transaction",
		Long: `Deploy the code into an in-memory state and execute it in a new transaction.

With --repeat n, a driver contract calls the code n times within the same transaction,
so the later calls observe the transient storage written by the earlier ones.
The outputs of the calls, each of --ret-size bytes, are concatenated into the return data.`,
		Example: `tstored run --asm counter.asm --repeat 2
tstored run --code 0x602a5f5d5f5c5f5260205ff3 --cancun-height=-1 --extra-eips=1153,3855`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			code, err := readCode(cmd)
			if err != nil {
				return err
			}

			inputHex, _ := cmd.Flags().GetString(flagInput)
			static, _ := cmd.Flags().GetBool(flagStatic)
			repeat, _ := cmd.Flags().GetInt(flagRepeat)
			retSize, _ := cmd.Flags().GetInt(flagRetSize)
			noTrace, _ := cmd.Flags().GetBool(flagNoTrace)
			genesisFile, _ := cmd.Flags().GetString(flagGenesis)
			exportState, _ := cmd.Flags().GetBool(flagExport)

			var input []byte
			if inputHex != "" {
				if input, err = decodeHex(flagInput, inputHex); err != nil {
					return err
				}
			}

			if repeat < 1 {
				return errorsmod.Wrapf(evmtypes.ErrInvalidParams, "--%s must be positive", flagRepeat)
			}
			if repeat > 1 && len(input) > 0 {
				return errorsmod.Wrapf(evmtypes.ErrInvalidParams, "--%s can not be combined with --%s", flagInput, flagRepeat)
			}
			if retSize < 0 {
				return errorsmod.Wrapf(evmtypes.ErrInvalidParams, "--%s cannot be negative", flagRetSize)
			}

			e, err := newEngine(c.logger, c.config)
			if err != nil {
				return err
			}

			if genesisFile != "" {
				if err := e.importGenesis(genesisFile, c.config.Params); err != nil {
					return err
				}
			}

			contract, err := e.deploy(code)
			if err != nil {
				return err
			}

			output := RunOutput{Contract: contract}

			to := contract
			if repeat > 1 {
				driverCode, err := asm.Assemble(asm.RepeatCallSource(contract, repeat, retSize))
				if err != nil {
					return err
				}
				driver, err := e.deploy(driverCode)
				if err != nil {
					return errorsmod.Wrap(err, "failed to deploy driver")
				}
				output.Driver = &driver
				to = driver
			}

			msg := evmtypes.NewMessage(e.origin, to, input)
			msg.Static = static

			res, tracer, err := e.execute(msg)
			if err != nil {
				return err
			}

			output.Ret = res.Ret
			output.Failed = res.Failed()
			output.VmError = res.VmError
			output.Usage = res.Usage
			output.GasEstimate = res.GasEstimate
			output.Steps = res.Steps

			if !noTrace {
				if trace, err := tracer.GetResult(); err == nil {
					output.Trace = trace
				} else {
					c.logger.Debug("no call trace recorded", "error", err.Error())
				}
			}

			if exportState {
				output.State = e.exportState()
			}

			bz, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}

	addCodeFlags(cmd)
	cmd.Flags().String(flagInput, "", "Hex encoded call data")
	cmd.Flags().Bool(flagStatic, false, "Execute the root frame as a static call")
	cmd.Flags().Int(flagRepeat, 1, "Number of calls to the code within the same transaction")
	cmd.Flags().Int(flagRetSize, 32, "Size of the output of each call when repeated")
	cmd.Flags().Bool(flagNoTrace, false, "Do not include the call trace in the output")
	cmd.Flags().String(flagGenesis, "", "Genesis file of the contracts deployed before the execution")
	cmd.Flags().Bool(flagExport, false, "Include the persistent state after the execution in the output")

	return cmd
}
