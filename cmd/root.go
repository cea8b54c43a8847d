package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/josephlewis42/simplesh/core"
	"github.com/josephlewis42/simplesh/core/config"
	"github.com/josephlewis42/simplesh/core/logger"
	"github.com/josephlewis42/simplesh/core/vos"
	"github.com/spf13/cobra"
)

var cfgPath string

// loadConfig reads the configuration, falling back to the built-in defaults
// if none was initialized.
func loadConfig(appLogger *log.Logger) (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		appLogger.Printf("No configuration in %s, using defaults. Run init to create one.", cfgPath)
		configuration = config.Default()
		// Nowhere to write the event log without a config directory.
		configuration.EventLog = ""
		return configuration, nil
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "simplesh",
	Short: "A small interactive command shell",
	Long: `An interactive shell with aliases, a persistent history and
history recall. Anything that isn't a builtin is run from PATH.`,
	Args:          cobra.ExactArgs(0),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		appLogger := log.New(cmd.ErrOrStderr(), "", 0)

		configuration, err := loadConfig(appLogger)
		if err != nil {
			return err
		}

		hostOS := vos.NewHostOS(vos.NewVIOAdapter(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()))
		shell, err := core.NewShell(hostOS, configuration)
		if err != nil {
			return err
		}
		shell.Logger = appLogger

		eventLog, err := configuration.OpenEventLog()
		switch {
		case err != nil:
			appLogger.Printf("Event log disabled: %v", err)
		case eventLog != nil:
			shell.Events = logger.NewJsonLinesLogRecorder(eventLog).NewSession()
			shell.AddCloser(eventLog)
		}

		shell.Init()
		runErr := shell.Run()
		closeErr := shell.Close()

		if runErr != nil {
			return runErr
		}
		return closeErr
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultDir(), "config path")
}
