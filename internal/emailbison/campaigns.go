package emailbison

import (
	"context"
	"fmt"
	"net/http"

	"github.com/max-longrun/bison-mcp/internal/normalize"
)

// ListCampaignsParams filters the campaign list.
type ListCampaignsParams struct {
	Page    int
	PerPage int
	Search  string
	Status  string
	Filters map[string]any
}

// CampaignRepliesParams filters the replies of one campaign. QueryCampaignID
// is sent as the body field campaign_id.
type CampaignRepliesParams struct {
	Page            int
	PerPage         int
	Search          string
	Status          string
	Folder          string
	Read            *bool
	SenderEmailID   *int
	LeadID          *int
	QueryCampaignID *int
	Filters         map[string]any
}

// CampaignLeadsParams filters the leads attached to a campaign.
type CampaignLeadsParams struct {
	Page    int
	PerPage int
	Search  string
	Filters map[string]any
}

// ScheduledEmailsParams filters scheduled emails of a campaign.
type ScheduledEmailsParams struct {
	ScheduledDate      string
	ScheduledDateLocal string
	Status             string
}

// SequenceParams is the payload of sequence step create and update calls.
type SequenceParams struct {
	Title string
	Steps []any
}

// TestEmailParams sends a sequence step to a test recipient.
type TestEmailParams struct {
	SenderEmailID   int
	ToEmail         string
	UseDedicatedIPs *bool
}

// DateRange bounds statistics requests; dates use the YYYY-MM-DD format.
type DateRange struct {
	StartDate string
	EndDate   string
}

func (r DateRange) fields() map[string]any {
	return map[string]any{"start_date": r.StartDate, "end_date": r.EndDate}
}

func campaignPath(campaignID int, suffix string) string {
	return fmt.Sprintf("/campaigns/%d%s", campaignID, suffix)
}

// ListCampaigns returns one page of campaigns, filters in the GET body.
func (c *Client) ListCampaigns(ctx context.Context, p ListCampaignsParams) (any, error) {
	body := normalize.NewBody().
		Put("page", p.Page).
		Put("per_page", p.PerPage).
		Set("search", p.Search).
		Set("status", p.Status).
		SetFilters(p.Filters)
	return c.Request(ctx, http.MethodGet, "/campaigns", nil, body)
}

// CreateCampaign creates a campaign. Additional fields are merged into the
// body verbatim.
func (c *Client) CreateCampaign(ctx context.Context, name, campaignType string, additional map[string]any) (any, error) {
	body := normalize.NewBody().
		Merge(additional).
		Put("name", name).
		Set("type", campaignType)
	return c.Request(ctx, http.MethodPost, "/campaigns", nil, body)
}

func (c *Client) GetCampaignDetails(ctx context.Context, campaignID int) (any, error) {
	return c.Request(ctx, http.MethodGet, campaignPath(campaignID, ""), nil, nil)
}

func (c *Client) DuplicateCampaign(ctx context.Context, campaignID int) (any, error) {
	return c.Request(ctx, http.MethodPost, campaignPath(campaignID, "/duplicate"), nil, nil)
}

func (c *Client) PauseCampaign(ctx context.Context, campaignID int) (any, error) {
	return c.Request(ctx, http.MethodPatch, campaignPath(campaignID, "/pause"), nil, nil)
}

func (c *Client) ResumeCampaign(ctx context.Context, campaignID int) (any, error) {
	return c.Request(ctx, http.MethodPatch, campaignPath(campaignID, "/resume"), nil, nil)
}

func (c *Client) ArchiveCampaign(ctx context.Context, campaignID int) (any, error) {
	return c.Request(ctx, http.MethodPatch, campaignPath(campaignID, "/archive"), nil, nil)
}

// UpdateCampaignSettings patches the given settings; nil values are dropped.
func (c *Client) UpdateCampaignSettings(ctx context.Context, campaignID int, updates map[string]any) (any, error) {
	body := normalize.NewBody()
	for k, v := range updates {
		if v != nil {
			body.Put(k, v)
		}
	}
	return c.Request(ctx, http.MethodPatch, campaignPath(campaignID, "/update"), nil, body)
}

// CreateCampaignSchedule creates or replaces the schedule of a campaign.
func (c *Client) CreateCampaignSchedule(ctx context.Context, campaignID int, schedule map[string]any) (any, error) {
	return c.Request(ctx, http.MethodPost, campaignPath(campaignID, "/schedule"), nil, schedule)
}

func (c *Client) GetCampaignSchedule(ctx context.Context, campaignID int) (any, error) {
	return c.Request(ctx, http.MethodGet, campaignPath(campaignID, "/schedule"), nil, nil)
}

func (c *Client) UpdateCampaignSchedule(ctx context.Context, campaignID int, schedule map[string]any) (any, error) {
	return c.Request(ctx, http.MethodPut, campaignPath(campaignID, "/schedule"), nil, schedule)
}

func (c *Client) ListScheduleTemplates(ctx context.Context) (any, error) {
	return c.Request(ctx, http.MethodGet, "/campaigns/schedule/templates", nil, nil)
}

func (c *Client) ListScheduleTimezones(ctx context.Context) (any, error) {
	return c.Request(ctx, http.MethodGet, "/campaigns/schedule/available-timezones", nil, nil)
}

// GetSendingSchedules lists what every campaign sends on day (today,
// tomorrow or day_after_tomorrow).
func (c *Client) GetSendingSchedules(ctx context.Context, day string) (any, error) {
	return c.Request(ctx, http.MethodGet, "/campaigns/sending-schedules", nil, map[string]any{"day": day})
}

func (c *Client) GetCampaignSendingSchedule(ctx context.Context, campaignID int, day string) (any, error) {
	return c.Request(ctx, http.MethodGet, campaignPath(campaignID, "/sending-schedule"), nil, map[string]any{"day": day})
}

func (c *Client) CreateCampaignScheduleFromTemplate(ctx context.Context, campaignID, scheduleID int) (any, error) {
	return c.Request(ctx, http.MethodPost, campaignPath(campaignID, "/create-schedule-from-template"), nil,
		map[string]any{"schedule_id": scheduleID})
}

func (c *Client) GetCampaignSequenceSteps(ctx context.Context, campaignID int) (any, error) {
	return c.Request(ctx, http.MethodGet, fmt.Sprintf("/campaigns/v1.1/%d/sequence-steps", campaignID), nil, nil)
}

func (c *Client) CreateCampaignSequenceSteps(ctx context.Context, campaignID int, p SequenceParams) (any, error) {
	body := map[string]any{"title": p.Title, "sequence_steps": p.Steps}
	return c.Request(ctx, http.MethodPost, fmt.Sprintf("/campaigns/v1.1/%d/sequence-steps", campaignID), nil, body)
}

// UpdateCampaignSequenceSteps replaces the steps of a sequence. The sequence
// ID is found on the campaign object, it is not the campaign ID.
func (c *Client) UpdateCampaignSequenceSteps(ctx context.Context, sequenceID int, p SequenceParams) (any, error) {
	body := map[string]any{"title": p.Title, "sequence_steps": p.Steps}
	return c.Request(ctx, http.MethodPut, fmt.Sprintf("/campaigns/v1.1/sequence-steps/%d", sequenceID), nil, body)
}

func (c *Client) DeleteSequenceStep(ctx context.Context, stepID int) (any, error) {
	return c.Request(ctx, http.MethodDelete, fmt.Sprintf("/campaigns/sequence-steps/%d", stepID), nil, nil)
}

func (c *Client) SendSequenceStepTestEmail(ctx context.Context, stepID int, p TestEmailParams) (any, error) {
	body := normalize.NewBody().
		Put("sender_email_id", p.SenderEmailID).
		Put("to_email", p.ToEmail)
	if p.UseDedicatedIPs != nil {
		body.Put("use_dedicated_ips", *p.UseDedicatedIPs)
	}
	return c.Request(ctx, http.MethodPost, fmt.Sprintf("/campaigns/sequence-steps/%d/test-email", stepID), nil, body)
}

// GetCampaignReplies returns one page of campaign replies. Every filter is
// sent in the body.
func (c *Client) GetCampaignReplies(ctx context.Context, campaignID int, p CampaignRepliesParams) (any, error) {
	body := normalize.NewBody().
		Put("page", p.Page).
		Put("per_page", p.PerPage).
		Set("search", p.Search).
		Set("status", p.Status).
		Set("folder", p.Folder)
	if p.Read != nil {
		body.Put("read", *p.Read)
	}
	if p.SenderEmailID != nil {
		body.Put("sender_email_id", *p.SenderEmailID)
	}
	if p.LeadID != nil {
		body.Put("lead_id", *p.LeadID)
	}
	if p.QueryCampaignID != nil {
		body.Put("campaign_id", *p.QueryCampaignID)
	}
	body.SetFilters(p.Filters)
	return c.Request(ctx, http.MethodPost, campaignPath(campaignID, "/replies"), nil, body)
}

// GetCampaignLeads returns one page of leads attached to a campaign.
func (c *Client) GetCampaignLeads(ctx context.Context, campaignID int, p CampaignLeadsParams) (any, error) {
	body := normalize.NewBody().
		Put("page", p.Page).
		Put("per_page", p.PerPage).
		Set("search", p.Search).
		SetFilters(p.Filters)
	return c.Request(ctx, http.MethodGet, campaignPath(campaignID, "/leads"), nil, body)
}

func (c *Client) RemoveCampaignLeads(ctx context.Context, campaignID int, leadIDs []int) (any, error) {
	return c.Request(ctx, http.MethodDelete, campaignPath(campaignID, "/leads"), nil, map[string]any{"lead_ids": leadIDs})
}

func (c *Client) ImportLeadsFromList(ctx context.Context, campaignID, leadListID int, allowParallel *bool) (any, error) {
	body := normalize.NewBody().Put("lead_list_id", leadListID)
	if allowParallel != nil {
		body.Put("allow_parallel_sending", *allowParallel)
	}
	return c.Request(ctx, http.MethodPost, campaignPath(campaignID, "/leads/attach-lead-list"), nil, body)
}

func (c *Client) ImportLeadsByIDs(ctx context.Context, campaignID int, leadIDs []int, allowParallel *bool) (any, error) {
	body := normalize.NewBody().Put("lead_ids", leadIDs)
	if allowParallel != nil {
		body.Put("allow_parallel_sending", *allowParallel)
	}
	return c.Request(ctx, http.MethodPost, campaignPath(campaignID, "/leads/attach-leads"), nil, body)
}

func (c *Client) StopFutureEmailsForLeads(ctx context.Context, campaignID int, leadIDs []int) (any, error) {
	return c.Request(ctx, http.MethodPost, campaignPath(campaignID, "/leads/stop-future-emails"), nil,
		map[string]any{"lead_ids": leadIDs})
}

// GetCampaignScheduledEmails is documented as GET with a body; the API also
// accepts POST, which proxies do not strip bodies from.
func (c *Client) GetCampaignScheduledEmails(ctx context.Context, campaignID int, p ScheduledEmailsParams) (any, error) {
	body := normalize.NewBody().
		Set("scheduled_date", p.ScheduledDate).
		Set("scheduled_date_local", p.ScheduledDateLocal).
		Set("status", p.Status)
	return c.Request(ctx, http.MethodPost, campaignPath(campaignID, "/scheduled-emails"), nil, body.OrNil())
}

func (c *Client) GetCampaignSenderEmails(ctx context.Context, campaignID int) (any, error) {
	return c.Request(ctx, http.MethodGet, campaignPath(campaignID, "/sender-emails"), nil, nil)
}

func (c *Client) GetCampaignStats(ctx context.Context, campaignID int, r DateRange) (any, error) {
	return c.Request(ctx, http.MethodPost, campaignPath(campaignID, "/stats"), nil, r.fields())
}

func (c *Client) AttachSenderEmailsToCampaign(ctx context.Context, campaignID int, senderIDs []int) (any, error) {
	return c.Request(ctx, http.MethodPost, campaignPath(campaignID, "/attach-sender-emails"), nil,
		map[string]any{"sender_email_ids": senderIDs})
}

func (c *Client) RemoveSenderEmailsFromCampaign(ctx context.Context, campaignID int, senderIDs []int) (any, error) {
	return c.Request(ctx, http.MethodDelete, campaignPath(campaignID, "/remove-sender-emails"), nil,
		map[string]any{"sender_email_ids": senderIDs})
}

// GetCampaignLineAreaChartStats returns per-day event counts; the date range
// goes in the query string.
func (c *Client) GetCampaignLineAreaChartStats(ctx context.Context, campaignID int, r DateRange) (any, error) {
	return c.Request(ctx, http.MethodGet, campaignPath(campaignID, "/line-area-chart-stats"), normalize.Query(r.fields()), nil)
}
