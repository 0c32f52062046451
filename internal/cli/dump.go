package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/sellbot/internal/model"
	"github.com/roach88/sellbot/internal/store"
	"github.com/roach88/sellbot/internal/vault"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	configFlags
	Reveal bool
}

// DumpResult is the decrypted data file.
type DumpResult struct {
	Path     string         `json:"path"`
	Document model.Document `json:"document"`
	reveal   bool
}

// String renders the document as tables. Credentials are masked unless
// --reveal was given.
func (r DumpResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Data file: %s\n\n", r.Path)

	ids := make([]string, 0, len(r.Document.Products))
	for id := range r.Document.Products {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tPRICE\tUSERNAME\tPASSWORD\tSECRET\tBUYERS")
	for _, id := range ids {
		p := r.Document.Products[id]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			id, dash(p.Name), p.Price,
			r.mask(p.Username), r.mask(p.Password), r.mask(p.Secret),
			joinUserIDs(p.Buyers))
	}
	tw.Flush()

	fmt.Fprintf(&sb, "\nPending requests: %d\n", len(r.Document.Pending))
	if len(r.Document.Pending) > 0 {
		tw = tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "REQUEST\tUSER\tPRODUCT\tSUBMITTED")
		for _, req := range r.Document.Pending {
			submitted := "-"
			if !req.SubmittedAt.IsZero() {
				submitted = req.SubmittedAt.UTC().Format("2006-01-02 15:04")
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", dash(req.ID), req.UserID, req.ProductID, submitted)
		}
		tw.Flush()
	}

	fmt.Fprintf(&sb, "Language preferences: %d", len(r.Document.Languages))
	return sb.String()
}

func (r DumpResult) mask(s string) string {
	switch {
	case s == "":
		return "-"
	case r.reveal:
		return s
	default:
		return "****"
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinUserIDs(uids []int64) string {
	if len(uids) == 0 {
		return "-"
	}
	parts := make([]string, len(uids))
	for i, uid := range uids {
		parts[i] = strconv.FormatInt(uid, 10)
	}
	return strings.Join(parts, ",")
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Decrypt and print the data file",
		Long: `Decrypt the data file with ENCRYPTION_KEY and print its contents.

Text output masks usernames, passwords and OTP secrets unless --reveal is
given. JSON output always carries the decrypted document.

Examples:
  sellbot dump --data-file data.json
  sellbot dump --reveal
  sellbot dump --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, cmd)
		},
	}

	opts.configFlags.register(cmd)
	cmd.Flags().BoolVar(&opts.Reveal, "reveal", false, "show credentials in text output")

	return cmd
}

func runDump(opts *DumpOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := opts.load(opts.Lookup)
	if err != nil {
		return out.Fail(ExitCommandError, CodeConfig, "failed to load configuration", err)
	}
	v, err := vault.FromEncodedKey(cfg.EncryptionKey)
	if err != nil {
		return out.Fail(ExitCommandError, CodeConfig, "invalid ENCRYPTION_KEY", err)
	}

	out.VerboseLog("reading %s", cfg.DataFile)
	st := store.New(cfg.DataFile, v)
	doc, err := st.Read(cmd.Context())
	if err != nil {
		return out.Fail(ExitCommandError, CodeStorage, "cannot read data file", err)
	}

	return out.Success(DumpResult{Path: st.Path(), Document: doc, reveal: opts.Reveal})
}
