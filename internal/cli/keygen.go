package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/sellbot/internal/vault"
)

// KeygenResult is the keygen command's JSON payload.
type KeygenResult struct {
	Key string `json:"key"`
}

func (r KeygenResult) String() string {
	return r.Key
}

// NewKeygenCommand creates the keygen command.
func NewKeygenCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate an ENCRYPTION_KEY",
		Long: `Print a fresh random key for ENCRYPTION_KEY.

The key encrypts product usernames, passwords and OTP secrets in the data
file. Losing it makes those fields unreadable.

Example:
  export ENCRYPTION_KEY=$(sellbot keygen)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			key, err := vault.GenerateKey()
			if err != nil {
				return out.Fail(ExitFailure, CodeKeygen, "failed to generate key", err)
			}
			return out.Success(KeygenResult{Key: key})
		},
	}
}
