package emailbison

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/max-longrun/bison-mcp/internal/normalize"
)

// SenderEmailsParams filters the sender email (mailbox) list.
type SenderEmailsParams struct {
	Search  string
	Filters map[string]any
}

// WarmupStatsParams lists mailboxes with warmup statistics for a date range.
type WarmupStatsParams struct {
	DateRange
	Search  string
	Filters map[string]any
}

// WarmupLimitsParams updates the daily warmup limits of several mailboxes.
type WarmupLimitsParams struct {
	SenderEmailIDs  []int
	DailyLimit      int
	DailyReplyLimit string
}

// SendEmailParams is the payload of the direct send endpoint, which uses
// camelCase field names.
type SendEmailParams struct {
	EmailAccountID string
	To             []string
	Subject        string
	HTMLBody       string
	CC             []string
	BCC            []string
	Tags           []string
}

// ListSenderEmails returns the mailboxes of the workspace; filters travel in
// the body of a GET request.
func (c *Client) ListSenderEmails(ctx context.Context, p SenderEmailsParams) (any, error) {
	body := normalize.NewBody().
		Set("search", p.Search).
		SetFilters(p.Filters)
	return c.Request(ctx, http.MethodGet, "/sender-emails", nil, body)
}

func (c *Client) ListSenderEmailsWithWarmupStats(ctx context.Context, p WarmupStatsParams) (any, error) {
	body := normalize.NewBody().
		Put("start_date", p.StartDate).
		Put("end_date", p.EndDate).
		Set("search", p.Search).
		SetFilters(p.Filters)
	return c.Request(ctx, http.MethodGet, "/warmup/sender-emails", nil, body)
}

func (c *Client) EnableWarmup(ctx context.Context, senderIDs []int) (any, error) {
	return c.Request(ctx, http.MethodPatch, "/warmup/sender-emails/enable", nil, map[string]any{"sender_email_ids": senderIDs})
}

func (c *Client) DisableWarmup(ctx context.Context, senderIDs []int) (any, error) {
	return c.Request(ctx, http.MethodPatch, "/warmup/sender-emails/disable", nil, map[string]any{"sender_email_ids": senderIDs})
}

func (c *Client) UpdateDailyWarmupLimits(ctx context.Context, p WarmupLimitsParams) (any, error) {
	body := normalize.NewBody().
		Put("sender_email_ids", p.SenderEmailIDs).
		Put("daily_limit", p.DailyLimit).
		Set("daily_reply_limit", p.DailyReplyLimit)
	return c.Request(ctx, http.MethodPatch, "/warmup/sender-emails/update-daily-warmup-limits", nil, body)
}

// GetSenderEmailWarmupDetails fetches one mailbox by ID or address.
func (c *Client) GetSenderEmailWarmupDetails(ctx context.Context, senderEmailID string, r DateRange) (any, error) {
	path := fmt.Sprintf("/warmup/sender-emails/%s", url.PathEscape(senderEmailID))
	return c.Request(ctx, http.MethodGet, path, normalize.Query(r.fields()), nil)
}

func (c *Client) SendEmail(ctx context.Context, p SendEmailParams) (any, error) {
	body := normalize.NewBody().
		Put("emailAccountId", p.EmailAccountID).
		Put("to", p.To).
		Put("subject", p.Subject).
		Put("htmlBody", p.HTMLBody).
		Set("cc", p.CC).
		Set("bcc", p.BCC).
		Set("tags", p.Tags)
	return c.Request(ctx, http.MethodPost, "/emails/send", nil, body)
}
