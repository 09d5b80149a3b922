package tools

import (
	"context"

	"github.com/max-longrun/bison-mcp/internal/emailbison"
	"github.com/max-longrun/bison-mcp/internal/normalize"
)

const (
	defaultLeadsPerPage   = 50
	defaultRepliesPerPage = 15
)

var leadIDParam = required(str("lead_id", "The ID or email address of the lead."))

var customVariablesParam = ParameterMetadata{
	Name:        "custom_variables",
	Description: "Custom variables as {name, value} objects. Use W_List_Custom_Variables to see which exist.",
	Schema: map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name":  map[string]interface{}{"type": "string"},
				"value": map[string]interface{}{"type": "string"},
			},
		},
	},
}

var leadTools = []ToolMetadata{
	{
		Name:  "L_List_Leads",
		Title: "L. List Leads",
		Description: "Retrieve a paginated list of leads (50 per page by default). Call this before using any lead_id " +
			"in other operations. Filter by search, status, interest or the filters object; to filter by tags first call " +
			"T_List_Tags and pass tag IDs, never names. Results are paginated: check meta.last_page or links.next and fetch " +
			"every page before answering questions about all leads.",
		Parameters: []ParameterMetadata{
			str("search", "Search term for filtering leads."),
			str("status", "Lead status filter (e.g. active, paused, unsubscribed)."),
			withDefault(integer("page", "Page number to retrieve. Start with 1 and continue until meta.last_page."), 1),
			withDefault(integer("per_page", "Number of leads per page."), defaultLeadsPerPage),
			array("tag_ids", "string", "Tag IDs to filter by. Folded into filters.tag_ids unless filters already has tag_ids."),
			boolean("interested", "When true, only return leads flagged as interested."),
			object("filters", "Advanced filters sent in the request body, see document:emailbison/filters."),
		},
		ReadOnly:  true,
		Paginated: true,
	},
	{
		Name:        "L_Create_Lead",
		Title:       "L. Create Lead",
		Description: "Create a single lead. Email, first name and last name are required.",
		Parameters: []ParameterMetadata{
			required(str("email", "Email address of the contact.")),
			required(str("first_name", "First name of the contact.")),
			required(str("last_name", "Last name of the contact.")),
			str("company", "Company of the contact."),
			str("title", "Job title of the contact."),
			str("notes", "Additional notes about the contact."),
			customVariablesParam,
			array("tags", "string", "Tags to attach to the new lead."),
		},
	},
	{
		Name:        "L_Get_Lead",
		Title:       "L. Get Lead",
		Description: "Fetch one lead by ID or email address, including its campaign data and custom variables.",
		Parameters:  []ParameterMetadata{leadIDParam},
		ReadOnly:    true,
	},
	{
		Name:  "L_Update_Lead",
		Title: "L. Update Lead",
		Description: "Update a lead by ID or email address. Fields and custom variables that are not passed " +
			"remain unchanged.",
		Parameters: []ParameterMetadata{
			leadIDParam,
			str("email", "New email address."),
			str("first_name", "New first name."),
			str("last_name", "New last name."),
			str("company", "New company."),
			str("title", "New job title."),
			str("notes", "New notes."),
			customVariablesParam,
		},
	},
	{
		Name:        "L_Unsubscribe_Lead",
		Title:       "L. Unsubscribe Lead",
		Description: "Unsubscribe a lead; all of its future scheduled emails are stopped.",
		Parameters:  []ParameterMetadata{required(integer("lead_id", "The ID of the lead to unsubscribe."))},
	},
	{
		Name:  "L_Bulk_Create_Leads_CSV",
		Title: "L. Bulk Create Leads (CSV)",
		Description: "Import many leads from CSV text. columns_to_map maps CSV headers to lead fields; " +
			"existing_lead_behavior decides whether existing leads are replaced (put) or patched (patch).",
		Parameters: []ParameterMetadata{
			required(str("name", "Name of the import / lead list.")),
			required(str("csv_content", "The CSV document, header row included.")),
			required(ParameterMetadata{
				Name:        "columns_to_map",
				Description: "Column mappings, e.g. [{\"email\": \"Email\", \"first_name\": \"First Name\"}].",
				Schema:      map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "object"}},
			}),
			enum("existing_lead_behavior", "How to treat leads that already exist.", "put", "patch"),
		},
	},
	{
		Name:        "L_Get_Lead_Scheduled_Emails",
		Title:       "L. Get Lead Scheduled Emails",
		Description: "List the emails scheduled for a lead across its campaigns.",
		Parameters:  []ParameterMetadata{leadIDParam},
		ReadOnly:    true,
	},
	{
		Name:        "L_Get_Lead_Sent_Emails",
		Title:       "L. Get Lead Sent Emails",
		Description: "List the campaign emails already sent to a lead.",
		Parameters:  []ParameterMetadata{leadIDParam},
		ReadOnly:    true,
	},
}

var leadHandlers = map[string]handlerFunc{
	"L_List_Leads":                listLeads,
	"L_Create_Lead":               createLead,
	"L_Get_Lead":                  withLeadID((*emailbison.Client).GetLead),
	"L_Update_Lead":               updateLead,
	"L_Unsubscribe_Lead":          unsubscribeLead,
	"L_Bulk_Create_Leads_CSV":     bulkCreateLeadsCSV,
	"L_Get_Lead_Scheduled_Emails": withLeadID((*emailbison.Client).GetLeadScheduledEmails),
	"L_Get_Lead_Sent_Emails":      withLeadID((*emailbison.Client).GetLeadSentEmails),
}

func withLeadID(call func(*emailbison.Client, context.Context, string) (any, error)) handlerFunc {
	return func(ctx context.Context, c *emailbison.Client, a args) (any, error) {
		leadID, err := a.requireString("lead_id")
		if err != nil {
			return nil, err
		}
		return call(c, ctx, leadID)
	}
}

func listLeads(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	filters, err := a.filters()
	if err != nil {
		return nil, err
	}
	tagIDs, err := a.optList("tag_ids")
	if err != nil {
		return nil, err
	}
	page, err := a.intOr("page", 1)
	if err != nil {
		return nil, err
	}
	perPage, err := a.intOr("per_page", defaultLeadsPerPage)
	if err != nil {
		return nil, err
	}
	interested, err := a.optBool("interested")
	if err != nil {
		return nil, err
	}

	return c.ListLeads(ctx, emailbison.ListLeadsParams{
		Page:       page,
		PerPage:    perPage,
		Search:     a.optString("search"),
		Status:     a.optString("status"),
		Interested: interested,
		Filters:    normalize.FoldTagIDs(filters, tagIDs),
	})
}

func leadFields(a args) (emailbison.LeadFields, error) {
	customVars, err := a.optList("custom_variables")
	if err != nil {
		return emailbison.LeadFields{}, err
	}
	tags, err := a.optStringList("tags")
	if err != nil {
		return emailbison.LeadFields{}, err
	}
	return emailbison.LeadFields{
		Email:           a.optString("email"),
		FirstName:       a.optString("first_name"),
		LastName:        a.optString("last_name"),
		Company:         a.optString("company"),
		Title:           a.optString("title"),
		Notes:           a.optString("notes"),
		CustomVariables: customVars,
		Tags:            tags,
	}, nil
}

func createLead(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	for _, key := range []string{"email", "first_name", "last_name"} {
		if !a.present(key) {
			return nil, missing(key)
		}
	}
	fields, err := leadFields(a)
	if err != nil {
		return nil, err
	}
	return c.CreateLead(ctx, fields)
}

func updateLead(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	leadID, err := a.requireString("lead_id")
	if err != nil {
		return nil, err
	}
	fields, err := leadFields(a)
	if err != nil {
		return nil, err
	}
	fields.Tags = nil
	return c.UpdateLead(ctx, leadID, fields)
}

func unsubscribeLead(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	leadID, err := a.requireInt("lead_id")
	if err != nil {
		return nil, err
	}
	return c.UnsubscribeLead(ctx, normalize.FormatValue(leadID))
}

func bulkCreateLeadsCSV(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	name, err := a.requireString("name")
	if err != nil {
		return nil, err
	}
	csv, err := a.requireString("csv_content")
	if err != nil {
		return nil, err
	}
	columns, err := a.requireList("columns_to_map")
	if err != nil {
		return nil, err
	}
	return c.BulkCreateLeadsCSV(ctx, emailbison.BulkCSVParams{
		Name:                 name,
		CSVContent:           csv,
		ColumnsToMap:         columns,
		ExistingLeadBehavior: a.optString("existing_lead_behavior"),
	})
}
