package main

import (
	"os"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/EscanBE/tstore/constants"
	evmtypes "github.com/EscanBE/tstore/x/evm/types"
)

const (
	flagLogLevel     = "log-level"
	flagLogFormat    = "log-format"
	flagConfig       = "config"
	flagCancunHeight = "cancun-height"
	flagExtraEIPs    = "extra-eips"
	flagHeight       = "height"
	flagMaxCallDepth = "max-call-depth"
	flagStepLimit    = "step-limit"
	flagFrom         = "from"
)

const (
	logFormatPlain = "plain"
	logFormatJSON  = "json"
)

// cli holds the state shared by the sub-commands, populated before any of them runs.
type cli struct {
	viper  *viper.Viper
	config config
	logger log.Logger
}

// NewRootCmd creates a new root command for our binary. It is called once in the
// main function.
func NewRootCmd() *cobra.Command {
	c := &cli{
		viper:  viper.New(),
		logger: log.NewNopLogger(),
	}

	rootCmd := &cobra.Command{
		Use:           constants.ApplicationBinaryName,
		Short:         "Transient storage (EIP-1153) execution engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// set the default command outputs
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			return c.init(cmd)
		},
	}

	defaultEIPs := make([]string, 0, len(evmtypes.DefaultExtraEIPs))
	for _, eip := range evmtypes.DefaultExtraEIPs {
		defaultEIPs = append(defaultEIPs, strconv.FormatInt(eip, 10))
	}

	flags := rootCmd.PersistentFlags()
	flags.String(flagLogLevel, "info", "The logging level (trace|debug|info|warn|error|fatal|panic|disabled)")
	flags.String(flagLogFormat, logFormatPlain, "The logging format (plain|json)")
	flags.String(flagConfig, "", "Config file, defaults to "+constants.DefaultConfigFileName+" in the working directory if exists")
	flags.Int64(flagCancunHeight, 0, "Activation height of the Cancun fork, negative means never activated")
	flags.String(flagExtraEIPs, strings.Join(defaultEIPs, ","), "Comma separated list of extra EIPs to activate")
	flags.Int64(flagHeight, 1, "Block height of the execution")
	flags.Uint64(flagMaxCallDepth, evmtypes.DefaultMaxCallDepth, "Maximum depth of the call stack")
	flags.Uint64(flagStepLimit, evmtypes.DefaultStepLimit, "Maximum number of instructions per transaction, zero means unlimited")
	flags.String(flagFrom, "", "Origin address of the transactions, a constant account if not provided")

	rootCmd.AddCommand(
		NewRunCmd(c),
		NewValidateCmd(c),
		NewDisasmCmd(c),
		NewLayoutCmd(c),
	)

	return rootCmd
}

// init binds flags, environment variables and the config file, then builds the logger.
func (c *cli) init(cmd *cobra.Command) error {
	v := c.viper
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	configFile := v.GetString(flagConfig)
	if configFile == "" {
		if _, err := os.Stat(constants.DefaultConfigFileName); err == nil {
			configFile = constants.DefaultConfigFileName
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errorsmod.Wrapf(err, "failed to read config file %s", configFile)
		}
	}

	cfg, err := readConfig(v)
	if err != nil {
		return err
	}
	c.config = cfg

	options := []log.Option{log.LevelOption(cfg.LogLevel)}
	switch cfg.LogFormat {
	case logFormatPlain:
		options = append(options, log.ColorOption(false))
	case logFormatJSON:
		options = append(options, log.OutputJSONOption())
	default:
		return errorsmod.Wrapf(evmtypes.ErrInvalidParams, "unknown log format %q", cfg.LogFormat)
	}
	c.logger = log.NewLogger(cmd.ErrOrStderr(), options...).With("module", constants.ApplicationName)

	if configFile != "" {
		c.logger.Debug("config file loaded", "file", configFile)
	}

	return nil
}

// bindFlags binds the flags and the environment variables of the same name, eg: --cancun-height and TSTORE_CANCUN_HEIGHT.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	v.SetEnvPrefix(constants.ViperEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return nil
}
