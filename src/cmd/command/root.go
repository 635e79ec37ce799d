// Package command implements the command line shared by the murmur binaries.
// Each binary runs a single workload; they only differ in the factory they
// pass to NewRootCmd.
package command

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mosaicnetworks/murmur/src/config"
	"github.com/mosaicnetworks/murmur/src/murmur"
	vers "github.com/mosaicnetworks/murmur/src/version"
	"github.com/mosaicnetworks/murmur/src/workload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables that set options, as
// in MURMUR_LOG=debug.
const EnvPrefix = "MURMUR"

type runner struct {
	name    string
	factory workload.Factory
	config  *config.Config
	viper   *viper.Viper
	version bool

	in  io.Reader
	out io.Writer
}

// NewRootCmd returns the command of a binary running the workload created by
// factory over standard input and output.
func NewRootCmd(name string, short string, factory workload.Factory) *cobra.Command {
	return newRootCmd(name, short, factory, os.Stdin, os.Stdout)
}

func newRootCmd(name string, short string, factory workload.Factory, in io.Reader, out io.Writer) *cobra.Command {
	return newRunner(name, factory, in, out).command(short)
}

func newRunner(name string, factory workload.Factory, in io.Reader, out io.Writer) *runner {
	return &runner{
		name:    name,
		factory: factory,
		config:  config.NewDefaultConfig(),
		viper:   viper.New(),
		in:      in,
		out:     out,
	}
}

func (r *runner) command(short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           r.name,
		Short:         short,
		PreRunE:       r.loadConfig,
		RunE:          r.run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	r.addFlags(cmd)

	return cmd
}

/*******************************************************************************
* RUN
*******************************************************************************/

func (r *runner) run(cmd *cobra.Command, args []string) error {
	if r.version {
		fmt.Fprintln(cmd.OutOrStdout(), vers.Version)
		return nil
	}

	engine := murmur.NewMurmur(r.config, r.factory)
	engine.In = r.in
	engine.Out = r.out

	if err := engine.Init(); err != nil {
		r.config.Logger().Error("Cannot initialize engine:", err)
		return err
	}

	return engine.Run()
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

func (r *runner) addFlags(cmd *cobra.Command) {
	cmd.Flags().String("datadir", r.config.DataDir, "Directory searched for an optional murmur.toml")
	cmd.Flags().String("log", r.config.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().String("log-file", r.config.LogFile, "Also write logs to this file")
	cmd.Flags().Duration("gossip-interval", r.config.GossipInterval, "Time between gossip rounds (0 = workload default)")
	cmd.Flags().StringP("service-listen", "s", r.config.ServiceAddr, "Listen IP:Port for HTTP service (disabled if empty)")

	cmd.Flags().BoolVarP(&r.version, "version", "v", false, "Show version and exit")
}

func (r *runner) loadConfig(cmd *cobra.Command, args []string) error {
	if r.version {
		return nil
	}

	configFile, err := r.bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	logger := r.config.Logger()

	if configFile != "" {
		logger.Debugf("Using config file: %s", configFile)
	} else {
		logger.Debugf("No config file found in: %s", r.config.DataDir)
	}

	logger.WithFields(logrus.Fields{
		"workload":        r.name,
		"datadir":         r.config.DataDir,
		"log":             r.config.LogLevel,
		"log-file":        r.config.LogFile,
		"gossip-interval": r.config.GossipInterval,
		"service-listen":  r.config.ServiceAddr,
	}).Debug("RUN")

	return nil
}

// Bind all flags and read the config into viper. Returns the config file used,
// if any.
func (r *runner) bindFlagsLoadViper(cmd *cobra.Command) (string, error) {
	// Register flags with viper
	if err := r.viper.BindPFlags(cmd.Flags()); err != nil {
		return "", err
	}

	r.viper.SetEnvPrefix(EnvPrefix)
	r.viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	r.viper.AutomaticEnv()

	// first unmarshal to read from CLI flags and environment
	if err := r.viper.Unmarshal(r.config); err != nil {
		return "", err
	}

	// look for config file in [datadir]/murmur.toml (.json, .yaml also work)
	r.viper.SetConfigName(config.DefaultConfigFile)
	r.viper.AddConfigPath(r.config.DataDir)

	configFile := ""
	if err := r.viper.ReadInConfig(); err == nil {
		configFile = r.viper.ConfigFileUsed()
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		return "", err
	}

	// second unmarshal to read from config file
	return configFile, r.viper.Unmarshal(r.config)
}

// Execute runs cmd and exits with status 1 if it fails.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		os.Exit(1)
	}
}
