package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/max-longrun/bison-mcp/internal/tools"
)

var (
	callArgs     string
	callAccount  string
	callReadOnly bool
)

var callCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Run a single tool and print its result",
	Long: `Runs one tool through the same dispatcher the server uses and prints the
text blocks of the result to stdout.

Examples:
  bison-mcp call T_List_Tags
  bison-mcp call L_List_Leads --args '{"search":"acme","per_page":5}'
  bison-mcp call C_Get_Campaign --account Beta --args '{"campaign_id":12}'`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

// parseCallArguments decodes the --args object and applies --account.
func parseCallArguments(raw, account string) (map[string]any, error) {
	arguments := map[string]any{}
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &arguments); err != nil {
			return nil, fmt.Errorf("--args must be a JSON object: %w", err)
		}
		if arguments == nil {
			arguments = map[string]any{}
		}
	}
	if account != "" {
		arguments[tools.AccountArgument] = account
	}
	return arguments, nil
}

// resultText joins the text blocks of a tool result.
func resultText(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if tc, ok := mcp.AsTextContent(content); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func runCall(cmd *cobra.Command, args []string) error {
	name := args[0]
	if _, ok := tools.Lookup(name); !ok {
		return fmt.Errorf("unknown tool %q, run 'bison-mcp tools list' for the catalog", name)
	}
	arguments, err := parseCallArguments(callArgs, callAccount)
	if err != nil {
		return err
	}

	rt, err := newRuntime(callReadOnly)
	if err != nil {
		return err
	}
	defer rt.Close()

	result := rt.dispatcher.CallTool(cmd.Context(), name, arguments)
	text := resultText(result)
	if result.IsError {
		return errors.New(text)
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func init() {
	rootCmd.AddCommand(callCmd)

	callCmd.Flags().StringVar(&callArgs, "args", "", "Tool arguments as a JSON object")
	callCmd.Flags().StringVar(&callAccount, "account", "", "Account to run against (default: the configured default account)")
	callCmd.Flags().BoolVar(&callReadOnly, "read-only", false, "Refuse tools that change state")
}
