package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/sellbot/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Lookup reads environment variables. Tests replace it; nil means
	// os.LookupEnv.
	Lookup config.LookupFunc

	// Connect opens the Telegram client for serve. nil means
	// tgbotapi.NewBotAPI.
	Connect func(token string) (TelegramAPI, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the sellbot command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sellbot",
		Short: "Telegram shop bot for digital credentials",
		Long: `sellbot sells account credentials over Telegram.

Buyers pick a product, send a payment receipt photo and, once the admin
approves it, receive the account username, password and a one-time
code on demand. Product data is kept in an encrypted JSON file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewKeygenCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewScenarioCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// configFlags are the configuration overrides shared by serve and dump.
type configFlags struct {
	Path      string
	DataFile  string
	JournalDB string
}

func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Path, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVar(&f.DataFile, "data-file", "", "encrypted data file (overrides DATA_FILE)")
	cmd.Flags().StringVar(&f.JournalDB, "journal-db", "", "SQLite audit journal (overrides JOURNAL_DB)")
}

// load reads defaults, the config file and the environment, then applies
// non-empty flag values on top.
func (f *configFlags) load(lookup config.LookupFunc) (config.Config, error) {
	cfg, err := config.Load(f.Path, lookup)
	if err != nil {
		return config.Config{}, err
	}
	if f.DataFile != "" {
		cfg.DataFile = f.DataFile
	}
	if f.JournalDB != "" {
		cfg.JournalDB = f.JournalDB
	}
	return cfg, nil
}
