package tools

import (
	"context"

	"github.com/max-longrun/bison-mcp/internal/emailbison"
)

var recipientsSchema = map[string]interface{}{
	"type": "array",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name":          map[string]interface{}{"type": "string"},
			"email_address": map[string]interface{}{"type": "string"},
		},
		"required": []string{"email_address"},
	},
}

func recipients(name, desc string) ParameterMetadata {
	return ParameterMetadata{Name: name, Description: desc, Schema: recipientsSchema}
}

var replyFilterParams = []ParameterMetadata{
	str("search", "Search term."),
	enum("status", "Reply status filter.", "interested", "automated_reply", "not_automated_reply"),
	enum("folder", "Folder filter.", "inbox", "sent", "spam", "bounced", "all"),
	boolean("read", "Filter by read state."),
	integer("campaign_id", "Only replies to this campaign."),
	integer("sender_email_id", "Only replies received by this sender email."),
	array("tag_ids", "integer", "Only replies from leads with these tag IDs."),
}

var emailParams = []ParameterMetadata{
	required(integer("sender_email_id", "Sender email to send from.")),
	required(recipients("to_emails", "Recipients as {name, email_address} objects.")),
	str("message", "Body of the email."),
	enum("content_type", "Format of message.", "html", "text"),
	recipients("cc_emails", "CC recipients."),
	recipients("bcc_emails", "BCC recipients."),
	array("attachments", "object", "Attachments."),
	boolean("use_dedicated_ips", "Send through dedicated IPs."),
}

var replyTools = []ToolMetadata{
	{
		Name:  "R_List_Replies",
		Title: "R. List Replies",
		Description: "Retrieve replies across all campaigns (15 per page by default). All filters, tag_ids included, " +
			"are sent as top-level fields of the request body. Check meta.last_page or links.next and fetch every page " +
			"when all replies are needed.",
		Parameters: append([]ParameterMetadata{
			withDefault(integer("page", "Page number to retrieve."), 1),
			withDefault(integer("per_page", "Number of replies per page."), defaultRepliesPerPage),
			integer("lead_id", "Only replies from this lead."),
		}, replyFilterParams...),
		ReadOnly:  true,
		Paginated: true,
	},
	{
		Name:        "R_Get_Lead_Replies",
		Title:       "R. Get Lead Replies",
		Description: "List the replies of one lead. Filters are sent as query parameters.",
		Parameters:  append([]ParameterMetadata{leadIDParam}, replyFilterParams...),
		ReadOnly:    true,
	},
	{
		Name:        "R_Get_Reply",
		Title:       "R. Get Reply",
		Description: "Fetch one reply.",
		Parameters:  []ParameterMetadata{required(integer("reply_id", "ID of the reply."))},
		ReadOnly:    true,
	},
	{
		Name:        "R_Compose_New_Email",
		Title:       "R. Compose New Email",
		Description: "Send a new one-off email outside of any campaign sequence.",
		Parameters:  append([]ParameterMetadata{str("subject", "Subject line.")}, emailParams...),
	},
	{
		Name:        "R_Create_Reply",
		Title:       "R. Create Reply",
		Description: "Reply to an existing thread.",
		Parameters: append(append([]ParameterMetadata{
			required(integer("reply_id", "ID of the reply to answer.")),
		}, emailParams...),
			boolean("inject_previous_email_body", "Quote the previous email below the message."),
		),
	},
}

var replyHandlers = map[string]handlerFunc{
	"R_List_Replies":      listReplies,
	"R_Get_Lead_Replies":  getLeadReplies,
	"R_Get_Reply":         getReply,
	"R_Compose_New_Email": composeNewEmail,
	"R_Create_Reply":      createReply,
}

func replyFilter(a args) (emailbison.ReplyFilter, error) {
	f := emailbison.ReplyFilter{
		Search: a.optString("search"),
		Status: a.optString("status"),
		Folder: a.optString("folder"),
	}
	var err error
	if f.Read, err = a.optBool("read"); err != nil {
		return f, err
	}
	if f.CampaignID, err = a.optInt("campaign_id"); err != nil {
		return f, err
	}
	if f.SenderEmailID, err = a.optInt("sender_email_id"); err != nil {
		return f, err
	}
	if f.LeadID, err = a.optInt("lead_id"); err != nil {
		return f, err
	}
	if f.TagIDs, err = a.optIntList("tag_ids"); err != nil {
		return f, err
	}
	return f, nil
}

func listReplies(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	filter, err := replyFilter(a)
	if err != nil {
		return nil, err
	}
	page, err := a.intOr("page", 1)
	if err != nil {
		return nil, err
	}
	perPage, err := a.intOr("per_page", defaultRepliesPerPage)
	if err != nil {
		return nil, err
	}
	return c.ListReplies(ctx, emailbison.ListRepliesParams{Page: page, PerPage: perPage, ReplyFilter: filter})
}

func getLeadReplies(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	leadID, err := a.requireString("lead_id")
	if err != nil {
		return nil, err
	}
	filter, err := replyFilter(args(without(a, "lead_id")))
	if err != nil {
		return nil, err
	}
	return c.GetLeadReplies(ctx, leadID, filter)
}

func getReply(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	id, err := a.requireInt("reply_id")
	if err != nil {
		return nil, err
	}
	return c.GetReply(ctx, id)
}

func emailPayload(a args) (emailbison.EmailParams, error) {
	var p emailbison.EmailParams
	var err error
	if p.SenderEmailID, err = a.requireInt("sender_email_id"); err != nil {
		return p, err
	}
	if p.ToEmails, err = a.requireList("to_emails"); err != nil {
		return p, err
	}
	if p.CCEmails, err = a.optList("cc_emails"); err != nil {
		return p, err
	}
	if p.BCCEmails, err = a.optList("bcc_emails"); err != nil {
		return p, err
	}
	if p.Attachments, err = a.optList("attachments"); err != nil {
		return p, err
	}
	if p.UseDedicatedIPs, err = a.optBool("use_dedicated_ips"); err != nil {
		return p, err
	}
	p.Subject = a.optString("subject")
	p.Message = a.optString("message")
	p.ContentType = a.optString("content_type")
	return p, nil
}

func composeNewEmail(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	p, err := emailPayload(a)
	if err != nil {
		return nil, err
	}
	return c.ComposeNewEmail(ctx, p)
}

func createReply(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	id, err := a.requireInt("reply_id")
	if err != nil {
		return nil, err
	}
	p, err := emailPayload(a)
	if err != nil {
		return nil, err
	}
	if p.InjectPreviousEmailBody, err = a.optBool("inject_previous_email_body"); err != nil {
		return nil, err
	}
	return c.CreateReply(ctx, id, p)
}

// without returns a shallow copy of m minus the given keys.
func without(m map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
