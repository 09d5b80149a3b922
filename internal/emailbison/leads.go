package emailbison

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/max-longrun/bison-mcp/internal/normalize"
)

// ListLeadsParams filters the lead list. Filters is sent as the nested
// "filters" object of the JSON body after pruning.
type ListLeadsParams struct {
	Page       int
	PerPage    int
	Search     string
	Status     string
	Interested *bool
	Filters    map[string]any
}

// LeadFields are the writable attributes of a lead.
type LeadFields struct {
	Email           string
	FirstName       string
	LastName        string
	Company         string
	Title           string
	Notes           string
	CustomVariables []any
	Tags            []string
}

func (f LeadFields) body() normalize.Body {
	return normalize.NewBody().
		Set("email", f.Email).
		Set("first_name", f.FirstName).
		Set("last_name", f.LastName).
		Set("company", f.Company).
		Set("title", f.Title).
		Set("notes", f.Notes).
		Set("custom_variables", f.CustomVariables)
}

// BulkCSVParams describes a CSV lead import.
type BulkCSVParams struct {
	Name       string
	CSVContent string
	// ColumnsToMap maps CSV headers to lead fields; it is JSON-encoded into
	// the columnsToMap form field.
	ColumnsToMap         []any
	ExistingLeadBehavior string
}

// ReplyFilter narrows reply listings.
type ReplyFilter struct {
	Search        string
	Status        string
	Folder        string
	Read          *bool
	CampaignID    *int
	SenderEmailID *int
	LeadID        *int
	TagIDs        []int
}

func (f ReplyFilter) fields() map[string]any {
	m := map[string]any{
		"search": f.Search,
		"status": f.Status,
		"folder": f.Folder,
	}
	if f.Read != nil {
		m["read"] = *f.Read
	}
	if f.CampaignID != nil {
		m["campaign_id"] = *f.CampaignID
	}
	if f.SenderEmailID != nil {
		m["sender_email_id"] = *f.SenderEmailID
	}
	if f.LeadID != nil {
		m["lead_id"] = *f.LeadID
	}
	if len(f.TagIDs) > 0 {
		m["tag_ids"] = f.TagIDs
	}
	return m
}

func leadPath(leadID string, suffix string) string {
	return fmt.Sprintf("/leads/%s%s", url.PathEscape(leadID), suffix)
}

// ListLeads returns one page of leads. The endpoint reads its filters from
// the body of a GET request.
func (c *Client) ListLeads(ctx context.Context, p ListLeadsParams) (any, error) {
	body := normalize.NewBody().
		Put("page", p.Page).
		Put("per_page", p.PerPage).
		Set("search", p.Search).
		Set("status", p.Status)
	if p.Interested != nil {
		body.Put("interested", *p.Interested)
	}
	body.SetFilters(p.Filters)
	return c.Request(ctx, http.MethodGet, "/leads", nil, body)
}

// CreateLead creates a single lead. Email, first and last name are required
// by the API.
func (c *Client) CreateLead(ctx context.Context, f LeadFields) (any, error) {
	body := f.body().
		Put("email", f.Email).
		Put("first_name", f.FirstName).
		Put("last_name", f.LastName).
		Set("tags", f.Tags)
	return c.Request(ctx, http.MethodPost, "/leads", nil, body)
}

// GetLead fetches a lead by ID or email address.
func (c *Client) GetLead(ctx context.Context, leadID string) (any, error) {
	return c.Request(ctx, http.MethodGet, leadPath(leadID, ""), nil, nil)
}

// UpdateLead patches the given fields; empty fields are left untouched.
func (c *Client) UpdateLead(ctx context.Context, leadID string, f LeadFields) (any, error) {
	return c.Request(ctx, http.MethodPatch, leadPath(leadID, ""), nil, f.body())
}

func (c *Client) UnsubscribeLead(ctx context.Context, leadID string) (any, error) {
	return c.Request(ctx, http.MethodPatch, leadPath(leadID, "/unsubscribe"), nil, nil)
}

// BulkCreateLeadsCSV uploads a CSV document as multipart/form-data.
func (c *Client) BulkCreateLeadsCSV(ctx context.Context, p BulkCSVParams) (any, error) {
	fields := normalize.Form(map[string]any{
		"name":                   p.Name,
		"csv":                    p.CSVContent,
		"existing_lead_behavior": p.ExistingLeadBehavior,
		"columnsToMap":           p.ColumnsToMap,
	})
	return c.PostMultipart(ctx, "/leads/bulk/csv", fields)
}

// GetLeadReplies lists the replies of one lead. Unlike the other reply
// listings this endpoint takes camelCase query parameters.
func (c *Client) GetLeadReplies(ctx context.Context, leadID string, f ReplyFilter) (any, error) {
	fields := f.fields()
	delete(fields, "lead_id")
	return c.Request(ctx, http.MethodGet, leadPath(leadID, "/replies"), normalize.Query(fields), nil)
}

func (c *Client) GetLeadScheduledEmails(ctx context.Context, leadID string) (any, error) {
	return c.Request(ctx, http.MethodGet, leadPath(leadID, "/scheduled-emails"), nil, nil)
}

func (c *Client) GetLeadSentEmails(ctx context.Context, leadID string) (any, error) {
	return c.Request(ctx, http.MethodGet, leadPath(leadID, "/sent-emails"), nil, nil)
}
