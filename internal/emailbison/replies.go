package emailbison

import (
	"context"
	"fmt"
	"net/http"

	"github.com/max-longrun/bison-mcp/internal/normalize"
)

// ListRepliesParams pages through the inbox of the account.
type ListRepliesParams struct {
	Page    int
	PerPage int
	ReplyFilter
}

// EmailParams is the payload shared by new emails and replies. Recipient
// lists hold {"name", "email_address"} objects as documented by the API.
type EmailParams struct {
	SenderEmailID   int
	ToEmails        []any
	Subject         string
	Message         string
	ContentType     string
	CCEmails        []any
	BCCEmails       []any
	Attachments     []any
	UseDedicatedIPs *bool
	// InjectPreviousEmailBody only applies to replies.
	InjectPreviousEmailBody *bool
}

func (p EmailParams) body() normalize.Body {
	body := normalize.NewBody().
		Put("sender_email_id", p.SenderEmailID).
		Put("to_emails", p.ToEmails).
		Set("subject", p.Subject).
		Set("message", p.Message).
		Set("content_type", p.ContentType).
		Set("cc_emails", p.CCEmails).
		Set("bcc_emails", p.BCCEmails).
		Set("attachments", p.Attachments)
	if p.UseDedicatedIPs != nil {
		body.Put("use_dedicated_ips", *p.UseDedicatedIPs)
	}
	if p.InjectPreviousEmailBody != nil {
		body.Put("inject_previous_email_body", *p.InjectPreviousEmailBody)
	}
	return body
}

// ListReplies returns one page of replies. All filters, tag_ids included,
// travel as top-level fields of the JSON body.
func (c *Client) ListReplies(ctx context.Context, p ListRepliesParams) (any, error) {
	body := normalize.NewBody().
		Put("page", p.Page).
		Put("per_page", p.PerPage).
		Merge(p.ReplyFilter.fields())
	return c.Request(ctx, http.MethodGet, "/replies", nil, body)
}

func (c *Client) GetReply(ctx context.Context, replyID int) (any, error) {
	return c.Request(ctx, http.MethodGet, fmt.Sprintf("/replies/%d", replyID), nil, nil)
}

// ComposeNewEmail starts a new one-off thread.
func (c *Client) ComposeNewEmail(ctx context.Context, p EmailParams) (any, error) {
	p.InjectPreviousEmailBody = nil
	return c.Request(ctx, http.MethodPost, "/replies/new", nil, p.body())
}

// CreateReply answers an existing thread.
func (c *Client) CreateReply(ctx context.Context, replyID int, p EmailParams) (any, error) {
	body := p.body()
	delete(body, "subject")
	return c.Request(ctx, http.MethodPost, fmt.Sprintf("/replies/%d/reply", replyID), nil, body)
}
