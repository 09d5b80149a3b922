package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/max-longrun/bison-mcp/internal/cli"
	"github.com/max-longrun/bison-mcp/internal/config"
	"github.com/max-longrun/bison-mcp/internal/registry"
	"github.com/max-longrun/bison-mcp/pkg/logging"
)

var (
	accountsListFlags  cli.OutputFlags
	accountsCheckFlags cli.OutputFlags
	accountsShowKeys   bool
)

const accountCheckConcurrency = 4

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Inspect the configured EmailBison accounts",
}

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured accounts with masked API keys",
	Args:  cobra.NoArgs,
	RunE:  runAccountsList,
}

var accountsCheckCmd = &cobra.Command{
	Use:   "check [account...]",
	Short: "Verify that accounts can reach the API",
	Long: `Calls GET /users for every account (or the named ones) and reports the
user and team behind each API key. Exits with an error when any check fails.`,
	RunE: runAccountsCheck,
}

// AccountInfo is one row of 'accounts list'.
type AccountInfo struct {
	Name      string  `json:"name"`
	Default   bool    `json:"default"`
	BaseURL   string  `json:"baseUrl"`
	APIKey    string  `json:"apiKey"`
	Timeout   string  `json:"timeout"`
	RateLimit float64 `json:"rateLimit,omitempty"`
}

func accountInfos(cfg config.Config, showKeys bool) []AccountInfo {
	infos := make([]AccountInfo, 0, len(cfg.Accounts))
	for _, name := range cfg.Names() {
		acct := cfg.Accounts[name]
		key := logging.MaskSecret(acct.APIKey)
		if showKeys {
			key = acct.APIKey
		}
		infos = append(infos, AccountInfo{
			Name:      name,
			Default:   name == cfg.DefaultAccount,
			BaseURL:   acct.BaseURL,
			APIKey:    key,
			Timeout:   acct.Timeout.String(),
			RateLimit: acct.RateLimit,
		})
	}
	return infos
}

func runAccountsList(cmd *cobra.Command, args []string) error {
	printer, err := accountsListFlags.Printer(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(loadOptions())
	if err != nil {
		return err
	}

	infos := accountInfos(cfg, accountsShowKeys)
	return printer.Print(infos, func(tw *cli.PlainTableWriter) {
		tw.SetHeaders("name", "default", "base url", "api key", "timeout")
		for _, info := range infos {
			marker := ""
			if info.Default {
				marker = "*"
			}
			tw.AppendRow(info.Name, marker, info.BaseURL, info.APIKey, info.Timeout)
		}
	})
}

// AccountCheck is the outcome of checking one account.
type AccountCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	User    string `json:"user,omitempty"`
	Team    string `json:"team,omitempty"`
	Elapsed string `json:"elapsed"`
	Error   string `json:"error,omitempty"`
}

// checkAccounts calls GET /users for each name concurrently. Results keep
// the order of names.
func checkAccounts(ctx context.Context, reg *registry.Registry, names []string) []AccountCheck {
	results := make([]AccountCheck, len(names))
	var g errgroup.Group
	g.SetLimit(accountCheckConcurrency)
	for i, name := range names {
		g.Go(func() error {
			results[i] = checkAccount(ctx, reg, name)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func checkAccount(ctx context.Context, reg *registry.Registry, name string) AccountCheck {
	start := time.Now()
	check := AccountCheck{Name: name}

	client, err := reg.Resolve(name)
	if err != nil {
		check.Error = err.Error()
		check.Elapsed = time.Since(start).Round(time.Millisecond).String()
		return check
	}
	payload, err := client.AccountDetails(ctx)
	check.Elapsed = time.Since(start).Round(time.Millisecond).String()
	if err != nil {
		check.Error = err.Error()
		return check
	}
	check.OK = true
	check.User, check.Team = accountSummary(payload)
	return check
}

// accountSummary pulls "name <email>" and the team name out of a /users
// response.
func accountSummary(payload any) (user, team string) {
	root, _ := payload.(map[string]any)
	data, ok := root["data"].(map[string]any)
	if !ok {
		data = root
	}
	name, _ := data["name"].(string)
	email, _ := data["email"].(string)
	switch {
	case name != "" && email != "":
		user = fmt.Sprintf("%s <%s>", name, email)
	case email != "":
		user = email
	default:
		user = name
	}
	for _, key := range []string{"team", "current_team"} {
		if t, ok := data[key].(map[string]any); ok {
			team, _ = t["name"].(string)
			if team != "" {
				break
			}
		}
	}
	return user, team
}

func runAccountsCheck(cmd *cobra.Command, args []string) error {
	printer, err := accountsCheckFlags.Printer(cmd)
	if err != nil {
		return err
	}
	rt, err := newRuntime(true)
	if err != nil {
		return err
	}
	defer rt.Close()

	names := args
	if len(names) == 0 {
		names = rt.registry.Names()
	}

	var results []AccountCheck
	_ = printer.WithSpinner(fmt.Sprintf("Checking %d account(s)...", len(names)), func() error {
		results = checkAccounts(cmd.Context(), rt.registry, names)
		return nil
	})

	if err := printer.Print(results, func(tw *cli.PlainTableWriter) {
		tw.SetHeaders("name", "status", "user", "team", "elapsed", "error")
		for _, r := range results {
			status := cli.FormatSuccess("ok")
			if !r.OK {
				status = cli.FormatFailure("failed")
			}
			tw.AppendRow(r.Name, status, r.User, r.Team, r.Elapsed, r.Error)
		}
	}); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if !r.OK {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d account check(s) failed", failed, len(results))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(accountsListCmd, accountsCheckCmd)

	cli.RegisterOutputFlags(accountsListCmd, &accountsListFlags)
	accountsListCmd.Flags().BoolVar(&accountsShowKeys, "show-keys", false, "Print API keys unmasked")
	cli.RegisterOutputFlags(accountsCheckCmd, &accountsCheckFlags)
}
