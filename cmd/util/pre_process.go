package util

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tranvictor/fundctl/config"
	"github.com/tranvictor/fundctl/logger"
	"github.com/tranvictor/fundctl/networks"
	"github.com/tranvictor/fundctl/ui"
	"github.com/tranvictor/fundctl/util/txsender"
)

// LoadNetwork loads the project file and custom networks and selects the
// network named by --network, or the project's default one.
func LoadNetwork(log *zap.Logger) (*config.Project, networks.Network, error) {
	configFile := config.ConfigFile
	if configFile == "" {
		configFile = config.DEFAULT_CONFIG_FILE
	}
	project, err := config.LoadProject(configFile)
	if err != nil {
		return nil, nil, err
	}

	if _, err := networks.LoadCustomNetworks(config.NetworksDir()); err != nil {
		log.Warn("failed to load some custom networks", zap.Error(err))
	}
	if err := networks.ApplyProject(project); err != nil {
		return nil, nil, err
	}

	name := config.Network
	if name == "" {
		name = project.Networks.Default
	}
	network, err := networks.SetNetwork(name)
	if err != nil {
		return nil, nil, fmt.Errorf("%w. Supported networks: %v", err, networks.GetSupportedNetworkNames())
	}
	return project, network, nil
}

var closeLoggers = func() {}

// NewLogger builds the diagnostics logger from --verbose and --log-file.
// CloseLoggers flushes it.
func NewLogger() *zap.Logger {
	log, closeLog := logger.New(logger.Config{
		Verbose: config.Verbose,
		File:    config.LogFile,
	})
	prev := closeLoggers
	closeLoggers = func() {
		prev()
		closeLog()
	}
	return log
}

// CloseLoggers flushes and closes every logger made by NewLogger.
func CloseLoggers() {
	closeLoggers()
	closeLoggers = func() {}
}

// CommonPreprocess attaches a Session for read only commands.
func CommonPreprocess(u ui.UI) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		log := NewLogger()
		project, network, err := LoadNetwork(log)
		if err != nil {
			return err
		}
		u.Info("Network: %s", network.GetName())
		s, err := NewSession(project, network, log)
		if err != nil {
			return err
		}
		setSession(cmd, s)
		return nil
	}
}

// CommonTxPreprocess is CommonPreprocess plus the signing account and the
// tx options from the gas flags.
func CommonTxPreprocess(u ui.UI) func(cmd *cobra.Command, args []string) error {
	read := CommonPreprocess(u)
	return func(cmd *cobra.Command, args []string) error {
		if err := read(cmd, args); err != nil {
			return err
		}
		s, _ := SessionFrom(cmd)
		opts, err := TxOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		s.TxOptions = opts
		return s.ResolveAccount(u)
	}
}

// TxOptionsFromFlags reads the gas and broadcast flags. The nonce is only
// overridden when --nonce was given.
func TxOptionsFromFlags(cmd *cobra.Command) (txsender.Options, error) {
	if config.GasPrice < 0 || config.ExtraGasPrice < 0 || config.TipGas < 0 || config.ExtraTipGas < 0 {
		return txsender.Options{}, fmt.Errorf("gas prices can't be negative")
	}
	if config.ForceLegacy && config.DynamicFee {
		return txsender.Options{}, fmt.Errorf("--legacy-tx and --dynamic-fee can't be used together")
	}
	opts := txsender.Options{
		GasPriceGwei:      config.GasPrice,
		ExtraGasPriceGwei: config.ExtraGasPrice,
		TipGwei:           config.TipGas,
		ExtraTipGwei:      config.ExtraTipGas,
		GasLimit:          config.GasLimit,
		ExtraGasLimit:     config.ExtraGasLimit,
		ForceLegacy:       config.ForceLegacy,
		ForceDynamic:      config.DynamicFee,
		DontBroadcast:     config.DontBroadcast,
		DontWait:          config.DontWaitToBeMined,
	}
	if f := cmd.Flags().Lookup("nonce"); f != nil && f.Changed {
		nonce := config.Nonce
		opts.Nonce = &nonce
	}
	return opts, nil
}

func setSession(cmd *cobra.Command, s *Session) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(WithSession(ctx, s))
}
