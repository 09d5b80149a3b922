package cli

import (
	"github.com/spf13/cobra"
)

// OutputFlags holds the output related flag values shared by the listing
// commands.
type OutputFlags struct {
	// OutputFormat specifies the desired output format (table, json, yaml)
	OutputFormat string
	// NoHeaders suppresses the header row in table output
	NoHeaders bool
	// Quiet suppresses progress indicators and non-essential output
	Quiet bool
}

// RegisterOutputFlags registers --output/-o, --no-headers and --quiet/-q on cmd.
func RegisterOutputFlags(cmd *cobra.Command, flags *OutputFlags) {
	cmd.Flags().StringVarP(&flags.OutputFormat, "output", "o", string(OutputFormatTable), "Output format (table, json, yaml)")
	cmd.Flags().BoolVar(&flags.NoHeaders, "no-headers", false, "Suppress header row in table output")
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
}

// Printer validates the flags and returns a printer writing to cmd's output.
func (f *OutputFlags) Printer(cmd *cobra.Command) (*Printer, error) {
	if err := ValidateOutputFormat(f.OutputFormat); err != nil {
		return nil, err
	}
	return &Printer{
		Format:    OutputFormat(f.OutputFormat),
		NoHeaders: f.NoHeaders,
		Quiet:     f.Quiet,
		Out:       cmd.OutOrStdout(),
		Err:       cmd.ErrOrStderr(),
	}, nil
}
