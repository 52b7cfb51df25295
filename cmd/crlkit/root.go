package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/KilimcininKorOglu/crlkit/internal/config"
	"github.com/KilimcininKorOglu/crlkit/internal/logging"
	"github.com/KilimcininKorOglu/crlkit/internal/metrics"
)

// app is the state shared by all commands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Metrics
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		v:      config.NewViper(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	root := &cobra.Command{
		Use:   "crlkit",
		Short: "Inspect X.509 certificate revocation lists",
		Long: `crlkit reads X.509 CRLs in DER or PEM form without loading the
revoked certificate list into memory, prints what it found and optionally
verifies the signature against the issuing certificate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "path to configuration file")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (text, json)")
	mustBind(a.v, "logging.level", flags, "log-level")
	mustBind(a.v, "logging.format", flags, "log-format")

	root.AddCommand(
		newParseCmd(a),
		newAlgIDCmd(a),
		newVersionCmd(a),
	)
	return root
}

// mustBind binds a flag to a configuration key. The flag is defined right
// before, so a lookup failure is a programming error.
func mustBind(v *viper.Viper, key string, flags *pflag.FlagSet, name string) {
	if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(err)
	}
}

// setup loads and validates the configuration and creates the logger and
// metrics of this run.
func (a *app) setup() error {
	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	if errs := config.ValidateConfig(cfg); len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	a.cfg = cfg

	logCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	var logger logging.Logger
	switch cfg.Logging.Output {
	case "", "stderr":
		logger = logging.NewWithWriter(logCfg, a.stderr)
	case "stdout":
		logger = logging.NewWithWriter(logCfg, a.stdout)
	default:
		logger = logging.New(logCfg)
	}
	a.logger = logger.WithRunID(logging.NewRunID())
	a.metrics = metrics.New()
	return nil
}
