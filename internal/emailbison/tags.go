package emailbison

import (
	"context"
	"fmt"
	"net/http"

	"github.com/max-longrun/bison-mcp/internal/normalize"
)

// TagTarget names the kind of entity tags are attached to or removed from.
type TagTarget string

const (
	TagTargetCampaigns    TagTarget = "campaigns"
	TagTargetLeads        TagTarget = "leads"
	TagTargetSenderEmails TagTarget = "sender-emails"
)

// idField is the body field that carries the entity IDs for the target.
func (t TagTarget) idField() string {
	switch t {
	case TagTargetCampaigns:
		return "campaign_ids"
	case TagTargetLeads:
		return "lead_ids"
	default:
		return "sender_email_ids"
	}
}

// TagLinkParams attaches or detaches tags.
type TagLinkParams struct {
	Target       TagTarget
	EntityIDs    []int
	TagIDs       []int
	SkipWebhooks *bool
}

func (c *Client) ListTags(ctx context.Context) (any, error) {
	return c.Request(ctx, http.MethodGet, "/tags", nil, nil)
}

func (c *Client) CreateTag(ctx context.Context, name string, isDefault *bool) (any, error) {
	body := normalize.NewBody().Put("name", name)
	if isDefault != nil {
		body.Put("default", *isDefault)
	}
	return c.Request(ctx, http.MethodPost, "/tags", nil, body)
}

func (c *Client) GetTag(ctx context.Context, tagID int) (any, error) {
	return c.Request(ctx, http.MethodGet, fmt.Sprintf("/tags/%d", tagID), nil, nil)
}

func (c *Client) DeleteTag(ctx context.Context, tagID int) (any, error) {
	return c.Request(ctx, http.MethodDelete, fmt.Sprintf("/tags/%d", tagID), nil, nil)
}

// AttachTags posts to /tags/attach-to-<target>.
func (c *Client) AttachTags(ctx context.Context, p TagLinkParams) (any, error) {
	return c.Request(ctx, http.MethodPost, "/tags/attach-to-"+string(p.Target), nil, p.body())
}

// RemoveTags posts to /tags/remove-from-<target>.
func (c *Client) RemoveTags(ctx context.Context, p TagLinkParams) (any, error) {
	return c.Request(ctx, http.MethodPost, "/tags/remove-from-"+string(p.Target), nil, p.body())
}

func (p TagLinkParams) body() normalize.Body {
	body := normalize.NewBody().
		Put(p.Target.idField(), p.EntityIDs).
		Put("tag_ids", p.TagIDs)
	if p.SkipWebhooks != nil {
		body.Put("skip_webhooks", *p.SkipWebhooks)
	}
	return body
}
