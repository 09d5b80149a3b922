package tools

import (
	"context"

	"github.com/max-longrun/bison-mcp/internal/emailbison"
	"github.com/max-longrun/bison-mcp/internal/normalize"
)

var senderFilterParams = []ParameterMetadata{
	str("search", "Search term."),
	array("tag_ids", "integer", "Only sender emails with these tag IDs."),
	array("excluded_tag_ids", "integer", "Exclude sender emails with these tag IDs."),
	boolean("without_tags", "Only sender emails without any tag."),
}

var senderTools = []ToolMetadata{
	{
		Name:  "M_List_Sender_Emails",
		Title: "M. List Sender Emails",
		Description: "List the sender emails (mailboxes) of the workspace. tag_ids, excluded_tag_ids and without_tags " +
			"are folded into filters unless filters already sets them.",
		Parameters: append(append([]ParameterMetadata{}, senderFilterParams...),
			object("filters", "Filters sent in the request body.")),
		ReadOnly: true,
	},
	{
		Name:  "M_List_Sender_Emails_With_Warmup_Stats",
		Title: "M. List Sender Emails With Warmup Stats",
		Description: "List sender emails with warmup statistics for a date range. Flat filter arguments are folded " +
			"into filters unless filters already sets them.",
		Parameters: append(append([]ParameterMetadata{startDateParam, endDateParam}, senderFilterParams...),
			enum("warmup_status", "Warmup status filter.", "enabled", "disabled"),
			enum("mx_records_status", "MX records status filter.", "records missing", "records valid"),
			object("filters", "Filters sent in the request body."),
		),
		ReadOnly: true,
	},
	{
		Name:        "M_Enable_Warmup_For_Sender_Emails",
		Title:       "M. Enable Warmup For Sender Emails",
		Description: "Enable warmup for sender emails.",
		Parameters:  []ParameterMetadata{required(array("sender_email_ids", "integer", "Sender email IDs."))},
	},
	{
		Name:        "M_Disable_Warmup_For_Sender_Emails",
		Title:       "M. Disable Warmup For Sender Emails",
		Description: "Disable warmup for sender emails.",
		Parameters:  []ParameterMetadata{required(array("sender_email_ids", "integer", "Sender email IDs."))},
	},
	{
		Name:        "M_Update_Daily_Warmup_Limits",
		Title:       "M. Update Daily Warmup Limits",
		Description: "Set the daily warmup limits of sender emails.",
		Parameters: []ParameterMetadata{
			required(array("sender_email_ids", "integer", "Sender email IDs.")),
			required(integer("daily_limit", "Warmup emails per day.")),
			str("daily_reply_limit", "Warmup replies per day, a number or \"auto\"."),
		},
	},
	{
		Name:        "M_Get_Sender_Email_With_Warmup_Details",
		Title:       "M. Get Sender Email With Warmup Details",
		Description: "Fetch one sender email, by ID or address, with warmup details for a date range.",
		Parameters: []ParameterMetadata{
			required(str("sender_email_id", "ID or email address of the sender email.")),
			startDateParam,
			endDateParam,
		},
		ReadOnly: true,
	},
	{
		Name:        "M_Send_Email",
		Title:       "M. Send Email",
		Description: "Send an email directly from a sender email account.",
		Parameters: []ParameterMetadata{
			required(str("email_account_id", "ID of the sending account.")),
			required(array("to", "string", "Recipient addresses.")),
			required(str("subject", "Subject line.")),
			required(str("html_body", "HTML body.")),
			array("cc", "string", "CC addresses."),
			array("bcc", "string", "BCC addresses."),
			array("tags", "string", "Tags for the email."),
		},
	},
}

var senderHandlers = map[string]handlerFunc{
	"M_List_Sender_Emails":                   listSenderEmails,
	"M_List_Sender_Emails_With_Warmup_Stats": listSenderEmailsWithWarmupStats,
	"M_Enable_Warmup_For_Sender_Emails":      withSenderIDs((*emailbison.Client).EnableWarmup),
	"M_Disable_Warmup_For_Sender_Emails":     withSenderIDs((*emailbison.Client).DisableWarmup),
	"M_Update_Daily_Warmup_Limits":           updateDailyWarmupLimits,
	"M_Get_Sender_Email_With_Warmup_Details": getSenderEmailWarmupDetails,
	"M_Send_Email":                           sendEmail,
}

// senderFilters folds the flat filter arguments named by keys into the
// filters object; entries already present in filters win.
func senderFilters(a args, keys ...string) (map[string]any, error) {
	filters, err := a.filters()
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		v, ok := a[key]
		if !ok || v == nil || hasFilter(filters, key) {
			continue
		}
		switch key {
		case "tag_ids", "excluded_tag_ids":
			ids, err := a.optIntList(key)
			if err != nil {
				return nil, err
			}
			v = intsToAny(ids)
		case "without_tags":
			b, err := a.optBool(key)
			if err != nil {
				return nil, err
			}
			v = *b
		}
		filters = normalize.FoldInto(filters, key, v)
	}
	return filters, nil
}

func listSenderEmails(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	filters, err := senderFilters(a, "tag_ids", "excluded_tag_ids", "without_tags")
	if err != nil {
		return nil, err
	}
	return c.ListSenderEmails(ctx, emailbison.SenderEmailsParams{Search: a.optString("search"), Filters: filters})
}

func listSenderEmailsWithWarmupStats(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	r, err := dateRange(a)
	if err != nil {
		return nil, err
	}
	filters, err := senderFilters(a, "tag_ids", "excluded_tag_ids", "without_tags", "warmup_status", "mx_records_status")
	if err != nil {
		return nil, err
	}
	return c.ListSenderEmailsWithWarmupStats(ctx, emailbison.WarmupStatsParams{
		DateRange: r,
		Search:    a.optString("search"),
		Filters:   filters,
	})
}

func withSenderIDs(call func(*emailbison.Client, context.Context, []int) (any, error)) handlerFunc {
	return func(ctx context.Context, c *emailbison.Client, a args) (any, error) {
		ids, err := a.requireIntList("sender_email_ids")
		if err != nil {
			return nil, err
		}
		return call(c, ctx, ids)
	}
}

func updateDailyWarmupLimits(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	ids, err := a.requireIntList("sender_email_ids")
	if err != nil {
		return nil, err
	}
	limit, err := a.requireInt("daily_limit")
	if err != nil {
		return nil, err
	}
	return c.UpdateDailyWarmupLimits(ctx, emailbison.WarmupLimitsParams{
		SenderEmailIDs:  ids,
		DailyLimit:      limit,
		DailyReplyLimit: a.optString("daily_reply_limit"),
	})
}

func getSenderEmailWarmupDetails(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	id, err := a.requireString("sender_email_id")
	if err != nil {
		return nil, err
	}
	r, err := dateRange(a)
	if err != nil {
		return nil, err
	}
	return c.GetSenderEmailWarmupDetails(ctx, id, r)
}

func sendEmail(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	var p emailbison.SendEmailParams
	var err error
	if p.EmailAccountID, err = a.requireString("email_account_id"); err != nil {
		return nil, err
	}
	if _, err = a.requireList("to"); err != nil {
		return nil, err
	}
	if p.To, err = a.optStringList("to"); err != nil {
		return nil, err
	}
	if p.Subject, err = a.requireString("subject"); err != nil {
		return nil, err
	}
	if p.HTMLBody, err = a.requireString("html_body"); err != nil {
		return nil, err
	}
	if p.CC, err = a.optStringList("cc"); err != nil {
		return nil, err
	}
	if p.BCC, err = a.optStringList("bcc"); err != nil {
		return nil, err
	}
	if p.Tags, err = a.optStringList("tags"); err != nil {
		return nil, err
	}
	return c.SendEmail(ctx, p)
}
