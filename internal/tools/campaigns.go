package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/max-longrun/bison-mcp/internal/emailbison"
	"github.com/max-longrun/bison-mcp/internal/normalize"
)

const defaultCampaignsPerPage = 50

var (
	campaignIDParam = required(integer("campaign_id", "The ID of the campaign. Use C_List_Campaigns to find it."))
	dayParam        = required(enum("day", "Which day to report on.", validDays...))
	startDateParam  = required(str("start_date", "Start date, YYYY-MM-DD."))
	endDateParam    = required(str("end_date", "End date, YYYY-MM-DD."))
)

var validDays = []string{"today", "tomorrow", "day_after_tomorrow"}

var scheduleDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var sequenceStepsParam = ParameterMetadata{
	Name: "sequence_steps",
	Description: "Steps ordered from 1 without gaps. Each step has email_subject, email_body, wait_in_days and order; " +
		"a variant step also sets variant to true and names its parent with variant_from_step (order) or " +
		"variant_from_step_id.",
	Schema: map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id":                   map[string]interface{}{"type": "integer"},
				"email_subject":        map[string]interface{}{"type": "string"},
				"email_body":           map[string]interface{}{"type": "string"},
				"wait_in_days":         map[string]interface{}{"type": "integer"},
				"order":                map[string]interface{}{"type": "integer"},
				"variant":              map[string]interface{}{"type": "boolean"},
				"variant_from_step":    map[string]interface{}{"type": "integer"},
				"variant_from_step_id": map[string]interface{}{"type": "integer"},
				"thread_reply":         map[string]interface{}{"type": "boolean"},
			},
			"required": []string{"order"},
		},
	},
}

var scheduleParam = ParameterMetadata{
	Name: "schedule",
	Description: "Schedule object with boolean monday..sunday, start_time and end_time (HH:MM) and timezone. " +
		"Use the timezone id from C_List_Schedule_Timezones.",
	Schema: map[string]interface{}{"type": "object"},
}

var campaignTools = []ToolMetadata{
	{
		Name:  "C_List_Campaigns",
		Title: "C. List Campaigns",
		Description: "Retrieve a paginated list of campaigns (50 per page by default). Call this before using any " +
			"campaign_id. To filter by tags first call T_List_Tags and pass tag IDs. Check meta.last_page or links.next " +
			"and fetch every page when all campaigns are needed.",
		Parameters: []ParameterMetadata{
			str("search", "Search term for filtering campaigns."),
			enum("status", "Campaign status filter.", "draft", "launching", "active", "stopped", "completed", "paused", "failed", "queued", "archived"),
			array("tag_ids", "integer", "Tag IDs to filter by. Folded into filters.tag_ids unless filters already has tag_ids."),
			withDefault(integer("page", "Page number to retrieve."), 1),
			withDefault(integer("per_page", "Number of campaigns per page."), defaultCampaignsPerPage),
			object("filters", "Additional filters sent in the request body."),
		},
		ReadOnly:  true,
		Paginated: true,
	},
	{
		Name:        "C_Create_Campaign",
		Title:       "C. Create Campaign",
		Description: "Create a campaign. additional_fields are sent with the request unchanged.",
		Parameters: []ParameterMetadata{
			required(str("name", "Name of the campaign.")),
			enum("type", "Campaign type.", "outbound", "reply_followup"),
			object("additional_fields", "Extra campaign fields."),
		},
	},
	{
		Name:        "C_Get_Campaign_Details",
		Title:       "C. Get Campaign Details",
		Description: "Fetch one campaign including its settings and sequence ID.",
		Parameters:  []ParameterMetadata{campaignIDParam},
		ReadOnly:    true,
	},
	{
		Name:        "C_Duplicate_Campaign",
		Title:       "C. Duplicate Campaign",
		Description: "Create a copy of a campaign.",
		Parameters:  []ParameterMetadata{campaignIDParam},
	},
	{
		Name:        "C_Pause_Campaign",
		Title:       "C. Pause Campaign",
		Description: "Pause a running campaign.",
		Parameters:  []ParameterMetadata{campaignIDParam},
	},
	{
		Name:        "C_Resume_Campaign",
		Title:       "C. Resume Campaign",
		Description: "Resume a paused campaign.",
		Parameters:  []ParameterMetadata{campaignIDParam},
	},
	{
		Name:        "C_Archive_Campaign",
		Title:       "C. Archive Campaign",
		Description: "Archive a campaign.",
		Parameters:  []ParameterMetadata{campaignIDParam},
	},
	{
		Name:  "C_Update_Campaign_Settings",
		Title: "C. Update Campaign Settings",
		Description: "Update campaign settings such as name, max_emails_per_day, max_new_leads_per_day, plain_text, " +
			"open_tracking, can_unsubscribe or unsubscribe_text. Only the given fields change.",
		Parameters: []ParameterMetadata{
			campaignIDParam,
			required(object("updates", "Settings to change.")),
		},
	},
	{
		Name:        "C_Create_Campaign_Schedule",
		Title:       "C. Create Campaign Schedule",
		Description: "Create the sending schedule of a campaign. Requires monday..sunday, start_time, end_time and timezone.",
		Parameters:  []ParameterMetadata{campaignIDParam, required(scheduleParam)},
	},
	{
		Name:        "C_Get_Campaign_Schedule",
		Title:       "C. Get Campaign Schedule",
		Description: "Fetch the sending schedule of a campaign.",
		Parameters:  []ParameterMetadata{campaignIDParam},
		ReadOnly:    true,
	},
	{
		Name:  "C_Update_Campaign_Schedule",
		Title: "C. Update Campaign Schedule",
		Description: "Replace the sending schedule of a campaign. Requires monday..sunday, start_time, end_time, " +
			"timezone and save_as_template.",
		Parameters: []ParameterMetadata{campaignIDParam, required(scheduleParam)},
	},
	{
		Name:        "C_List_Schedule_Templates",
		Title:       "C. List Schedule Templates",
		Description: "List the saved schedule templates of the workspace.",
		ReadOnly:    true,
	},
	{
		Name:        "C_List_Schedule_Timezones",
		Title:       "C. List Schedule Timezones",
		Description: "List the timezones accepted by campaign schedules.",
		ReadOnly:    true,
		Notice: "Use the timezone 'id' field (e.g., 'America/New_York') when creating or updating campaign " +
			"schedules. Do not use the 'name' field.",
	},
	{
		Name:        "C_Get_Sending_Schedules",
		Title:       "C. Get Sending Schedules",
		Description: "Show what every campaign will send on the given day.",
		Parameters:  []ParameterMetadata{dayParam},
		ReadOnly:    true,
	},
	{
		Name:        "C_Get_Campaign_Sending_Schedule",
		Title:       "C. Get Campaign Sending Schedule",
		Description: "Show what one campaign will send on the given day.",
		Parameters:  []ParameterMetadata{campaignIDParam, dayParam},
		ReadOnly:    true,
	},
	{
		Name:        "C_Create_Campaign_Schedule_From_Template",
		Title:       "C. Create Campaign Schedule From Template",
		Description: "Apply a saved schedule template to a campaign.",
		Parameters: []ParameterMetadata{
			campaignIDParam,
			required(integer("schedule_id", "ID of the schedule template, see C_List_Schedule_Templates.")),
		},
	},
	{
		Name:        "C_Get_Campaign_Sequence_Steps",
		Title:       "C. Get Campaign Sequence Steps",
		Description: "List the sequence steps of a campaign.",
		Parameters:  []ParameterMetadata{campaignIDParam},
		ReadOnly:    true,
	},
	{
		Name:        "C_Create_Campaign_Sequence_Steps",
		Title:       "C. Create Campaign Sequence Steps",
		Description: "Create the email sequence of a campaign.",
		Parameters: []ParameterMetadata{
			campaignIDParam,
			required(str("title", "Title of the sequence.")),
			required(sequenceStepsParam),
		},
	},
	{
		Name:  "C_Update_Campaign_Sequence_Steps",
		Title: "C. Update Campaign Sequence Steps",
		Description: "Replace the steps of a sequence. sequence_id comes from C_Get_Campaign_Details and is not the " +
			"campaign ID. Variant steps must reference their parent by variant_from_step_id.",
		Parameters: []ParameterMetadata{
			required(integer("sequence_id", "ID of the sequence.")),
			required(str("title", "Title of the sequence.")),
			required(sequenceStepsParam),
		},
	},
	{
		Name:        "C_Delete_Sequence_Step",
		Title:       "C. Delete Sequence Step",
		Description: "Delete one sequence step.",
		Parameters:  []ParameterMetadata{required(integer("sequence_step_id", "ID of the sequence step."))},
	},
	{
		Name:        "C_Send_Sequence_Step_Test_Email",
		Title:       "C. Send Sequence Step Test Email",
		Description: "Send a sequence step to a test address.",
		Parameters: []ParameterMetadata{
			required(integer("sequence_step_id", "ID of the sequence step.")),
			required(integer("sender_email_id", "Sender email to send from.")),
			required(str("to_email", "Recipient of the test email.")),
			boolean("use_dedicated_ips", "Send through dedicated IPs."),
		},
	},
	{
		Name:  "C_Get_Campaign_Replies",
		Title: "C. Get Campaign Replies",
		Description: "Retrieve the replies of a campaign (15 per page by default). Filters are sent in the request body. " +
			"Check meta.last_page or links.next and fetch every page when all replies are needed.",
		Parameters: []ParameterMetadata{
			campaignIDParam,
			withDefault(integer("page", "Page number to retrieve."), 1),
			withDefault(integer("per_page", "Number of replies per page."), defaultRepliesPerPage),
			str("search", "Search term."),
			enum("status", "Reply status filter.", "interested", "automated_reply", "not_automated_reply"),
			enum("folder", "Folder filter.", "inbox", "sent", "spam", "bounced", "all"),
			boolean("read", "Filter by read state."),
			integer("sender_email_id", "Only replies received by this sender email."),
			integer("lead_id", "Only replies from this lead."),
			array("tag_ids", "integer", "Tag IDs to filter by. Folded into filters.tag_ids unless filters already has tag_ids."),
			integer("query_campaign_id", "Campaign ID sent as the campaign_id filter field."),
			object("filters", "Additional filters sent in the request body."),
		},
		ReadOnly:  true,
		Paginated: true,
	},
	{
		Name:  "C_Get_Campaign_Leads",
		Title: "C. Get Campaign Leads",
		Description: "Retrieve the leads of a campaign (15 per page by default). Filters such as lead_campaign_status, " +
			"emails_sent, opens, replies and tag_ids go into the filters object. Fetch every page when all leads are needed.",
		Parameters: []ParameterMetadata{
			campaignIDParam,
			withDefault(integer("page", "Page number to retrieve."), 1),
			withDefault(integer("per_page", "Number of leads per page."), defaultRepliesPerPage),
			str("search", "Search term."),
			object("filters", "Filters sent in the request body, see document:emailbison/filters."),
		},
		ReadOnly:  true,
		Paginated: true,
	},
	{
		Name:        "C_Remove_Campaign_Leads",
		Title:       "C. Remove Campaign Leads",
		Description: "Detach leads from a campaign.",
		Parameters:  []ParameterMetadata{campaignIDParam, required(array("lead_ids", "integer", "Lead IDs to remove."))},
	},
	{
		Name:        "C_Import_Leads_From_List",
		Title:       "C. Import Leads From List",
		Description: "Attach every lead of a lead list to a campaign.",
		Parameters: []ParameterMetadata{
			campaignIDParam,
			required(integer("lead_list_id", "ID of the lead list.")),
			boolean("allow_parallel_sending", "Allow leads that are already in other campaigns."),
		},
	},
	{
		Name:        "C_Import_Leads_By_IDs",
		Title:       "C. Import Leads By IDs",
		Description: "Attach leads to a campaign by ID.",
		Parameters: []ParameterMetadata{
			campaignIDParam,
			required(array("lead_ids", "integer", "Lead IDs to attach.")),
			boolean("allow_parallel_sending", "Allow leads that are already in other campaigns."),
		},
	},
	{
		Name:        "C_Stop_Future_Emails_For_Leads",
		Title:       "C. Stop Future Emails For Leads",
		Description: "Stop all future emails of a campaign for the given leads.",
		Parameters:  []ParameterMetadata{campaignIDParam, required(array("lead_ids", "integer", "Lead IDs."))},
	},
	{
		Name:        "C_Get_Campaign_Scheduled_Emails",
		Title:       "C. Get Campaign Scheduled Emails",
		Description: "List the scheduled emails of a campaign.",
		Parameters: []ParameterMetadata{
			campaignIDParam,
			str("scheduled_date", "Only emails scheduled on this date (YYYY-MM-DD, UTC)."),
			str("scheduled_date_local", "Only emails scheduled on this local date."),
			enum("status", "Status filter.", "scheduled", "sending", "paused", "stopped", "bounced", "unsubscribed", "replied"),
		},
		ReadOnly: true,
	},
	{
		Name:        "C_Get_Campaign_Sender_Emails",
		Title:       "C. Get Campaign Sender Emails",
		Description: "List the sender emails attached to a campaign.",
		Parameters:  []ParameterMetadata{campaignIDParam},
		ReadOnly:    true,
	},
	{
		Name:        "C_Get_Campaign_Stats",
		Title:       "C. Get Campaign Stats",
		Description: "Summary statistics of a campaign for a date range.",
		Parameters:  []ParameterMetadata{campaignIDParam, startDateParam, endDateParam},
		ReadOnly:    true,
	},
	{
		Name:        "C_Attach_Sender_Emails_To_Campaign",
		Title:       "C. Attach Sender Emails To Campaign",
		Description: "Attach sender emails to a campaign.",
		Parameters: []ParameterMetadata{
			campaignIDParam,
			required(array("sender_email_ids", "integer", "Sender email IDs, see M_List_Sender_Emails.")),
		},
	},
	{
		Name:        "C_Remove_Sender_Emails_From_Campaign",
		Title:       "C. Remove Sender Emails From Campaign",
		Description: "Detach sender emails from a campaign.",
		Parameters: []ParameterMetadata{
			campaignIDParam,
			required(array("sender_email_ids", "integer", "Sender email IDs.")),
		},
	},
	{
		Name:        "C_Get_Campaign_Line_Area_Chart_Stats",
		Title:       "C. Get Campaign Line Area Chart Stats",
		Description: "Per-day event counts of a campaign for a date range.",
		Parameters:  []ParameterMetadata{campaignIDParam, startDateParam, endDateParam},
		ReadOnly:    true,
	},
}

var campaignHandlers = map[string]handlerFunc{
	"C_List_Campaigns":                         listCampaigns,
	"C_Create_Campaign":                        createCampaign,
	"C_Get_Campaign_Details":                   withCampaignID((*emailbison.Client).GetCampaignDetails),
	"C_Duplicate_Campaign":                     withCampaignID((*emailbison.Client).DuplicateCampaign),
	"C_Pause_Campaign":                         withCampaignID((*emailbison.Client).PauseCampaign),
	"C_Resume_Campaign":                        withCampaignID((*emailbison.Client).ResumeCampaign),
	"C_Archive_Campaign":                       withCampaignID((*emailbison.Client).ArchiveCampaign),
	"C_Update_Campaign_Settings":               updateCampaignSettings,
	"C_Create_Campaign_Schedule":               campaignSchedule(false),
	"C_Get_Campaign_Schedule":                  withCampaignID((*emailbison.Client).GetCampaignSchedule),
	"C_Update_Campaign_Schedule":               campaignSchedule(true),
	"C_List_Schedule_Templates":                noArgs((*emailbison.Client).ListScheduleTemplates),
	"C_List_Schedule_Timezones":                noArgs((*emailbison.Client).ListScheduleTimezones),
	"C_Get_Sending_Schedules":                  getSendingSchedules,
	"C_Get_Campaign_Sending_Schedule":          getCampaignSendingSchedule,
	"C_Create_Campaign_Schedule_From_Template": createScheduleFromTemplate,
	"C_Get_Campaign_Sequence_Steps":            withCampaignID((*emailbison.Client).GetCampaignSequenceSteps),
	"C_Create_Campaign_Sequence_Steps":         createSequenceSteps,
	"C_Update_Campaign_Sequence_Steps":         updateSequenceSteps,
	"C_Delete_Sequence_Step":                   deleteSequenceStep,
	"C_Send_Sequence_Step_Test_Email":          sendSequenceStepTestEmail,
	"C_Get_Campaign_Replies":                   getCampaignReplies,
	"C_Get_Campaign_Leads":                     getCampaignLeads,
	"C_Remove_Campaign_Leads":                  withCampaignLeads((*emailbison.Client).RemoveCampaignLeads),
	"C_Import_Leads_From_List":                 importLeadsFromList,
	"C_Import_Leads_By_IDs":                    importLeadsByIDs,
	"C_Stop_Future_Emails_For_Leads":           withCampaignLeads((*emailbison.Client).StopFutureEmailsForLeads),
	"C_Get_Campaign_Scheduled_Emails":          getCampaignScheduledEmails,
	"C_Get_Campaign_Sender_Emails":             withCampaignID((*emailbison.Client).GetCampaignSenderEmails),
	"C_Get_Campaign_Stats":                     withCampaignRange((*emailbison.Client).GetCampaignStats),
	"C_Attach_Sender_Emails_To_Campaign":       withCampaignSenders((*emailbison.Client).AttachSenderEmailsToCampaign),
	"C_Remove_Sender_Emails_From_Campaign":     withCampaignSenders((*emailbison.Client).RemoveSenderEmailsFromCampaign),
	"C_Get_Campaign_Line_Area_Chart_Stats":     withCampaignRange((*emailbison.Client).GetCampaignLineAreaChartStats),
}

func noArgs(call func(*emailbison.Client, context.Context) (any, error)) handlerFunc {
	return func(ctx context.Context, c *emailbison.Client, _ args) (any, error) {
		return call(c, ctx)
	}
}

func withCampaignID(call func(*emailbison.Client, context.Context, int) (any, error)) handlerFunc {
	return func(ctx context.Context, c *emailbison.Client, a args) (any, error) {
		id, err := a.requireInt("campaign_id")
		if err != nil {
			return nil, err
		}
		return call(c, ctx, id)
	}
}

func withCampaignLeads(call func(*emailbison.Client, context.Context, int, []int) (any, error)) handlerFunc {
	return withCampaignIDs("lead_ids", call)
}

func withCampaignSenders(call func(*emailbison.Client, context.Context, int, []int) (any, error)) handlerFunc {
	return withCampaignIDs("sender_email_ids", call)
}

func withCampaignIDs(key string, call func(*emailbison.Client, context.Context, int, []int) (any, error)) handlerFunc {
	return func(ctx context.Context, c *emailbison.Client, a args) (any, error) {
		id, err := a.requireInt("campaign_id")
		if err != nil {
			return nil, err
		}
		ids, err := a.requireIntList(key)
		if err != nil {
			return nil, err
		}
		return call(c, ctx, id, ids)
	}
}

func withCampaignRange(call func(*emailbison.Client, context.Context, int, emailbison.DateRange) (any, error)) handlerFunc {
	return func(ctx context.Context, c *emailbison.Client, a args) (any, error) {
		id, err := a.requireInt("campaign_id")
		if err != nil {
			return nil, err
		}
		r, err := dateRange(a)
		if err != nil {
			return nil, err
		}
		return call(c, ctx, id, r)
	}
}

func dateRange(a args) (emailbison.DateRange, error) {
	start, err := a.requireString("start_date")
	if err != nil {
		return emailbison.DateRange{}, err
	}
	end, err := a.requireString("end_date")
	if err != nil {
		return emailbison.DateRange{}, err
	}
	return emailbison.DateRange{StartDate: start, EndDate: end}, nil
}

func listCampaigns(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	filters, err := a.filters()
	if err != nil {
		return nil, err
	}
	if filters, err = a.foldIntTagIDs(filters); err != nil {
		return nil, err
	}
	page, err := a.intOr("page", 1)
	if err != nil {
		return nil, err
	}
	perPage, err := a.intOr("per_page", defaultCampaignsPerPage)
	if err != nil {
		return nil, err
	}
	return c.ListCampaigns(ctx, emailbison.ListCampaignsParams{
		Page:    page,
		PerPage: perPage,
		Search:  a.optString("search"),
		Status:  a.optString("status"),
		Filters: filters,
	})
}

func createCampaign(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	name, err := a.requireString("name")
	if err != nil {
		return nil, err
	}
	var additional map[string]any
	if a.present("additional_fields") {
		if additional, err = a.requireObject("additional_fields"); err != nil {
			return nil, err
		}
	}
	return c.CreateCampaign(ctx, name, a.optString("type"), additional)
}

func updateCampaignSettings(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	id, err := a.requireInt("campaign_id")
	if err != nil {
		return nil, err
	}
	updates, err := a.requireObject("updates")
	if err != nil {
		return nil, err
	}
	return c.UpdateCampaignSettings(ctx, id, updates)
}

func campaignSchedule(update bool) handlerFunc {
	return func(ctx context.Context, c *emailbison.Client, a args) (any, error) {
		id, err := a.requireInt("campaign_id")
		if err != nil {
			return nil, err
		}
		schedule, err := a.requireObject("schedule")
		if err != nil {
			return nil, err
		}
		if err := validateSchedule(schedule, update); err != nil {
			return nil, err
		}
		if update {
			return c.UpdateCampaignSchedule(ctx, id, schedule)
		}
		return c.CreateCampaignSchedule(ctx, id, schedule)
	}
}

func validateSchedule(schedule map[string]any, update bool) error {
	keys := append(append([]string(nil), scheduleDays...), "start_time", "end_time", "timezone")
	if update {
		keys = append(keys, "save_as_template")
	}
	var absent []string
	for _, key := range keys {
		if _, ok := schedule[key]; !ok {
			absent = append(absent, key)
		}
	}
	if len(absent) > 0 {
		return &ValidationError{
			Field:   "schedule",
			Message: fmt.Sprintf("schedule is missing required field(s): %s.", strings.Join(absent, ", ")),
		}
	}
	return nil
}

func validateDay(a args) (string, error) {
	day, err := a.requireString("day")
	if err != nil {
		return "", err
	}
	for _, d := range validDays {
		if day == d {
			return day, nil
		}
	}
	return "", invalid("day", "must be one of %s.", strings.Join(validDays, ", "))
}

func getSendingSchedules(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	day, err := validateDay(a)
	if err != nil {
		return nil, err
	}
	return c.GetSendingSchedules(ctx, day)
}

func getCampaignSendingSchedule(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	id, err := a.requireInt("campaign_id")
	if err != nil {
		return nil, err
	}
	day, err := validateDay(a)
	if err != nil {
		return nil, err
	}
	return c.GetCampaignSendingSchedule(ctx, id, day)
}

func createScheduleFromTemplate(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	id, err := a.requireInt("campaign_id")
	if err != nil {
		return nil, err
	}
	scheduleID, err := a.requireInt("schedule_id")
	if err != nil {
		return nil, err
	}
	return c.CreateCampaignScheduleFromTemplate(ctx, id, scheduleID)
}

// validateSequenceSteps checks step ordering and variant references. On
// create a variant names its parent by variant_from_step or
// variant_from_step_id, never both; on update only variant_from_step_id is
// accepted.
func validateSequenceSteps(steps []any, update bool) error {
	orders := make([]int, 0, len(steps))
	for i, raw := range steps {
		step, ok := raw.(map[string]any)
		if !ok {
			return invalid("sequence_steps", "item %d must be an object.", i+1)
		}
		if normalize.IsEmpty(step["order"]) {
			return invalid("sequence_steps", "item %d is missing 'order'.", i+1)
		}
		order, err := toInt("sequence_steps", step["order"])
		if err != nil {
			return err
		}
		orders = append(orders, order)

		hasFromStep := step["variant_from_step"] != nil
		hasFromStepID := step["variant_from_step_id"] != nil
		if !update && hasFromStep && hasFromStepID {
			return invalid("sequence_steps", "item %d sets both variant_from_step and variant_from_step_id; use only one.", i+1)
		}
		if variant, _ := step["variant"].(bool); variant {
			switch {
			case update && !hasFromStepID:
				return invalid("sequence_steps", "item %d is a variant and needs variant_from_step_id.", i+1)
			case !update && !hasFromStep && !hasFromStepID:
				return invalid("sequence_steps", "item %d is a variant and needs variant_from_step or variant_from_step_id.", i+1)
			}
		}
	}

	sort.Ints(orders)
	for i, order := range orders {
		if order != i+1 {
			return invalid("sequence_steps", "orders must be sequential starting at 1, got %v.", orders)
		}
	}
	return nil
}

func sequenceParams(a args, update bool) (emailbison.SequenceParams, error) {
	title, err := a.requireString("title")
	if err != nil {
		return emailbison.SequenceParams{}, err
	}
	steps, err := a.requireList("sequence_steps")
	if err != nil {
		return emailbison.SequenceParams{}, err
	}
	if err := validateSequenceSteps(steps, update); err != nil {
		return emailbison.SequenceParams{}, err
	}
	return emailbison.SequenceParams{Title: title, Steps: steps}, nil
}

func createSequenceSteps(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	id, err := a.requireInt("campaign_id")
	if err != nil {
		return nil, err
	}
	p, err := sequenceParams(a, false)
	if err != nil {
		return nil, err
	}
	return c.CreateCampaignSequenceSteps(ctx, id, p)
}

func updateSequenceSteps(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	id, err := a.requireInt("sequence_id")
	if err != nil {
		return nil, err
	}
	p, err := sequenceParams(a, true)
	if err != nil {
		return nil, err
	}
	return c.UpdateCampaignSequenceSteps(ctx, id, p)
}

func deleteSequenceStep(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	id, err := a.requireInt("sequence_step_id")
	if err != nil {
		return nil, err
	}
	return c.DeleteSequenceStep(ctx, id)
}

func sendSequenceStepTestEmail(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	id, err := a.requireInt("sequence_step_id")
	if err != nil {
		return nil, err
	}
	senderID, err := a.requireInt("sender_email_id")
	if err != nil {
		return nil, err
	}
	to, err := a.requireString("to_email")
	if err != nil {
		return nil, err
	}
	dedicated, err := a.optBool("use_dedicated_ips")
	if err != nil {
		return nil, err
	}
	return c.SendSequenceStepTestEmail(ctx, id, emailbison.TestEmailParams{
		SenderEmailID:   senderID,
		ToEmail:         to,
		UseDedicatedIPs: dedicated,
	})
}

func getCampaignReplies(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	id, err := a.requireInt("campaign_id")
	if err != nil {
		return nil, err
	}
	filters, err := a.filters()
	if err != nil {
		return nil, err
	}
	if filters, err = a.foldIntTagIDs(filters); err != nil {
		return nil, err
	}
	p := emailbison.CampaignRepliesParams{
		Search:  a.optString("search"),
		Status:  a.optString("status"),
		Folder:  a.optString("folder"),
		Filters: filters,
	}
	if p.Page, err = a.intOr("page", 1); err != nil {
		return nil, err
	}
	if p.PerPage, err = a.intOr("per_page", defaultRepliesPerPage); err != nil {
		return nil, err
	}
	if p.Read, err = a.optBool("read"); err != nil {
		return nil, err
	}
	if p.SenderEmailID, err = a.optInt("sender_email_id"); err != nil {
		return nil, err
	}
	if p.LeadID, err = a.optInt("lead_id"); err != nil {
		return nil, err
	}
	if p.QueryCampaignID, err = a.optInt("query_campaign_id"); err != nil {
		return nil, err
	}
	return c.GetCampaignReplies(ctx, id, p)
}

func getCampaignLeads(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	id, err := a.requireInt("campaign_id")
	if err != nil {
		return nil, err
	}
	filters, err := a.filters()
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
	return c.GetCampaignLeads(ctx, id, emailbison.CampaignLeadsParams{
		Page:    page,
		PerPage: perPage,
		Search:  a.optString("search"),
		Filters: filters,
	})
}

func importLeadsFromList(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	id, err := a.requireInt("campaign_id")
	if err != nil {
		return nil, err
	}
	listID, err := a.requireInt("lead_list_id")
	if err != nil {
		return nil, err
	}
	parallel, err := a.optBool("allow_parallel_sending")
	if err != nil {
		return nil, err
	}
	return c.ImportLeadsFromList(ctx, id, listID, parallel)
}

func importLeadsByIDs(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	id, err := a.requireInt("campaign_id")
	if err != nil {
		return nil, err
	}
	leadIDs, err := a.requireIntList("lead_ids")
	if err != nil {
		return nil, err
	}
	parallel, err := a.optBool("allow_parallel_sending")
	if err != nil {
		return nil, err
	}
	return c.ImportLeadsByIDs(ctx, id, leadIDs, parallel)
}

func getCampaignScheduledEmails(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	id, err := a.requireInt("campaign_id")
	if err != nil {
		return nil, err
	}
	return c.GetCampaignScheduledEmails(ctx, id, emailbison.ScheduledEmailsParams{
		ScheduledDate:      a.optString("scheduled_date"),
		ScheduledDateLocal: a.optString("scheduled_date_local"),
		Status:             a.optString("status"),
	})
}
