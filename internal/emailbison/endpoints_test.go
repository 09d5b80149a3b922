package emailbison

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestEndpoints(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, "application/json", `{"data":[]}`)
	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	tests := []struct {
		name       string
		call       func() (any, error)
		wantMethod string
		wantPath   string
		wantQuery  string
		wantBody   string
	}{
		{
			name: "list leads sends filters in the body",
			call: func() (any, error) {
				return c.ListLeads(ctx, ListLeadsParams{
					Page: 2, PerPage: 15, Search: "acme", Interested: boolPtr(true),
					Filters: map[string]any{"tag_ids": []any{float64(3)}, "empty": ""},
				})
			},
			wantMethod: http.MethodGet,
			wantPath:   "/leads",
			wantBody:   `{"page":2,"per_page":15,"search":"acme","interested":true,"filters":{"tag_ids":[3]}}`,
		},
		{
			name: "create lead",
			call: func() (any, error) {
				return c.CreateLead(ctx, LeadFields{Email: "a@b.c", FirstName: "Ann", LastName: "Lee", Tags: []string{"vip"}})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/leads",
			wantBody:   `{"email":"a@b.c","first_name":"Ann","last_name":"Lee","tags":["vip"]}`,
		},
		{
			name:       "update lead only sends provided fields",
			call:       func() (any, error) { return c.UpdateLead(ctx, "42", LeadFields{Company: "Acme"}) },
			wantMethod: http.MethodPatch,
			wantPath:   "/leads/42",
			wantBody:   `{"company":"Acme"}`,
		},
		{
			name: "lead replies use camelCase query",
			call: func() (any, error) {
				return c.GetLeadReplies(ctx, "42", ReplyFilter{Folder: "inbox", Read: boolPtr(false), SenderEmailID: intPtr(5), TagIDs: []int{1, 2}})
			},
			wantMethod: http.MethodGet,
			wantPath:   "/leads/42/replies",
			wantQuery:  "folder=inbox&read=false&senderEmailId=5&tagIds=1%2C2",
		},
		{
			name: "list replies sends every filter in the body",
			call: func() (any, error) {
				return c.ListReplies(ctx, ListRepliesParams{Page: 1, PerPage: 15, ReplyFilter: ReplyFilter{Status: "interested", TagIDs: []int{4}}})
			},
			wantMethod: http.MethodGet,
			wantPath:   "/replies",
			wantBody:   `{"page":1,"per_page":15,"status":"interested","tag_ids":[4]}`,
		},
		{
			name: "campaign replies",
			call: func() (any, error) {
				return c.GetCampaignReplies(ctx, 9, CampaignRepliesParams{Page: 1, PerPage: 15, QueryCampaignID: intPtr(9), Filters: map[string]any{"tag_ids": []int{1}}})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/campaigns/9/replies",
			wantBody:   `{"page":1,"per_page":15,"campaign_id":9,"filters":{"tag_ids":[1]}}`,
		},
		{
			name:       "campaign chart stats use query",
			call:       func() (any, error) { return c.GetCampaignLineAreaChartStats(ctx, 9, DateRange{"2024-01-01", "2024-01-31"}) },
			wantMethod: http.MethodGet,
			wantPath:   "/campaigns/9/line-area-chart-stats",
			wantQuery:  "endDate=2024-01-31&startDate=2024-01-01",
		},
		{
			name:       "sending schedules send the day in the body",
			call:       func() (any, error) { return c.GetSendingSchedules(ctx, "tomorrow") },
			wantMethod: http.MethodGet,
			wantPath:   "/campaigns/sending-schedules",
			wantBody:   `{"day":"tomorrow"}`,
		},
		{
			name:       "scheduled emails without filters have no body",
			call:       func() (any, error) { return c.GetCampaignScheduledEmails(ctx, 3, ScheduledEmailsParams{}) },
			wantMethod: http.MethodPost,
			wantPath:   "/campaigns/3/scheduled-emails",
		},
		{
			name:       "remove campaign leads",
			call:       func() (any, error) { return c.RemoveCampaignLeads(ctx, 3, []int{1, 2}) },
			wantMethod: http.MethodDelete,
			wantPath:   "/campaigns/3/leads",
			wantBody:   `{"lead_ids":[1,2]}`,
		},
		{
			name: "update sequence steps",
			call: func() (any, error) {
				return c.UpdateCampaignSequenceSteps(ctx, 11, SequenceParams{Title: "Main", Steps: []any{map[string]any{"order": 1}}})
			},
			wantMethod: http.MethodPut,
			wantPath:   "/campaigns/v1.1/sequence-steps/11",
			wantBody:   `{"title":"Main","sequence_steps":[{"order":1}]}`,
		},
		{
			name: "sender emails with warmup",
			call: func() (any, error) {
				return c.ListSenderEmailsWithWarmupStats(ctx, WarmupStatsParams{DateRange: DateRange{"2024-01-01", "2024-01-07"}, Filters: map[string]any{"warmup_status": "enabled"}})
			},
			wantMethod: http.MethodGet,
			wantPath:   "/warmup/sender-emails",
			wantBody:   `{"start_date":"2024-01-01","end_date":"2024-01-07","filters":{"warmup_status":"enabled"}}`,
		},
		{
			name: "send email uses camelCase body",
			call: func() (any, error) {
				return c.SendEmail(ctx, SendEmailParams{EmailAccountID: "7", To: []string{"x@y.z"}, Subject: "Hi", HTMLBody: "<p>Hi</p>"})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/emails/send",
			wantBody:   `{"emailAccountId":"7","to":["x@y.z"],"subject":"Hi","htmlBody":"<p>Hi</p>"}`,
		},
		{
			name: "attach tags to leads",
			call: func() (any, error) {
				return c.AttachTags(ctx, TagLinkParams{Target: TagTargetLeads, EntityIDs: []int{1}, TagIDs: []int{2}, SkipWebhooks: boolPtr(true)})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/tags/attach-to-leads",
			wantBody:   `{"lead_ids":[1],"tag_ids":[2],"skip_webhooks":true}`,
		},
		{
			name:       "remove tags from sender emails",
			call:       func() (any, error) { return c.RemoveTags(ctx, TagLinkParams{Target: TagTargetSenderEmails, EntityIDs: []int{1}, TagIDs: []int{2}}) },
			wantMethod: http.MethodPost,
			wantPath:   "/tags/remove-from-sender-emails",
			wantBody:   `{"sender_email_ids":[1],"tag_ids":[2]}`,
		},
		{
			name:       "workspace stats",
			call:       func() (any, error) { return c.GetWorkspaceStats(ctx, DateRange{"2024-02-01", "2024-02-29"}) },
			wantMethod: http.MethodGet,
			wantPath:   "/workspaces/v1.1/stats",
			wantQuery:  "endDate=2024-02-29&startDate=2024-02-01",
		},
		{
			name:       "switch workspace",
			call:       func() (any, error) { return c.SwitchWorkspace(ctx, 12) },
			wantMethod: http.MethodPost,
			wantPath:   "/workspaces/v1.1/switch-workspace",
			wantBody:   `{"team_id":12}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.call()
			require.NoError(t, err)

			assert.Equal(t, tt.wantMethod, captured.Method)
			assert.Equal(t, tt.wantPath, captured.Path)
			assert.Equal(t, tt.wantQuery, captured.RawQuery)
			if tt.wantBody == "" {
				assert.Empty(t, captured.Body)
				return
			}
			assert.Equal(t, decodeBody(t, []byte(tt.wantBody)), decodeBody(t, captured.Body))
		})
	}
}
