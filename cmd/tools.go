package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/max-longrun/bison-mcp/internal/cli"
	"github.com/max-longrun/bison-mcp/internal/tools"
	pkgstrings "github.com/max-longrun/bison-mcp/pkg/strings"
)

var (
	toolsListFlags cli.OutputFlags
	toolsPrefix    string
	toolsReadOnly  bool
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Inspect the tool catalog",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every tool the server exposes",
	Long: `Lists the tool catalog. Tool names carry a category prefix: A_ accounts,
C_ campaigns, L_ leads, M_ sender emails, R_ replies, T_ tags, W_ workspaces.`,
	Args: cobra.NoArgs,
	RunE: runToolsList,
}

// ToolInfo is one row of 'tools list'.
type ToolInfo struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	ReadOnly    bool     `json:"readOnly"`
	Paginated   bool     `json:"paginated"`
	Required    []string `json:"required,omitempty"`
	Description string   `json:"description"`
}

func toolInfos(prefix string, readOnlyOnly bool) []ToolInfo {
	var infos []ToolInfo
	for _, t := range tools.Catalog() {
		if prefix != "" && !strings.HasPrefix(strings.ToUpper(t.Name), strings.ToUpper(prefix)) {
			continue
		}
		if readOnlyOnly && !t.ReadOnly {
			continue
		}
		var required []string
		for _, p := range t.Parameters {
			if p.Required {
				required = append(required, p.Name)
			}
		}
		infos = append(infos, ToolInfo{
			Name:        t.Name,
			Title:       t.Title,
			ReadOnly:    t.ReadOnly,
			Paginated:   t.Paginated,
			Required:    required,
			Description: t.Description,
		})
	}
	return infos
}

func runToolsList(cmd *cobra.Command, args []string) error {
	printer, err := toolsListFlags.Printer(cmd)
	if err != nil {
		return err
	}
	infos := toolInfos(toolsPrefix, toolsReadOnly)
	return printer.Print(infos, func(tw *cli.PlainTableWriter) {
		tw.SetHeaders("name", "access", "paginated", "description")
		for _, info := range infos {
			access := "write"
			if info.ReadOnly {
				access = "read"
			}
			paginated := ""
			if info.Paginated {
				paginated = "yes"
			}
			tw.AppendRow(info.Name, access, paginated, pkgstrings.TruncateDescription(info.Description, pkgstrings.DefaultDescriptionMaxLen))
		}
	})
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.AddCommand(toolsListCmd)

	cli.RegisterOutputFlags(toolsListCmd, &toolsListFlags)
	toolsListCmd.Flags().StringVar(&toolsPrefix, "prefix", "", "Only list tools whose name starts with this prefix, e.g. L_")
	toolsListCmd.Flags().BoolVar(&toolsReadOnly, "read-only", false, "Only list tools that are available in read-only mode")
}
