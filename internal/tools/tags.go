package tools

import (
	"context"

	"github.com/max-longrun/bison-mcp/internal/emailbison"
)

var tagIDParam = required(integer("tag_id", "ID of the tag, see T_List_Tags."))

// tagLinkTool describes one attach/remove tool; the entity ID parameter
// depends on the target.
func tagLinkTool(name, title, desc string, target emailbison.TagTarget) ToolMetadata {
	return ToolMetadata{
		Name:        name,
		Title:       title,
		Description: desc,
		Parameters: []ParameterMetadata{
			required(array(tagEntityParam(target), "integer", "IDs of the entities.")),
			required(array("tag_ids", "integer", "Tag IDs, see T_List_Tags.")),
			boolean("skip_webhooks", "Do not fire webhooks for this change."),
		},
	}
}

func tagEntityParam(target emailbison.TagTarget) string {
	switch target {
	case emailbison.TagTargetCampaigns:
		return "campaign_ids"
	case emailbison.TagTargetLeads:
		return "lead_ids"
	}
	return "sender_email_ids"
}

var tagTools = []ToolMetadata{
	{
		Name:        "T_List_Tags",
		Title:       "T. List Tags",
		Description: "List all tags of the workspace. Call this before filtering by tag and use the returned IDs.",
		ReadOnly:    true,
		Notice:      "Always use tag IDs when filtering leads. For example, supply `tag_ids: [<tag_id>]` instead of names.",
	},
	{
		Name:        "T_Create_Tag",
		Title:       "T. Create Tag",
		Description: "Create a tag.",
		Parameters: []ParameterMetadata{
			required(str("name", "Name of the tag.")),
			boolean("default", "Mark the tag as a default tag."),
		},
	},
	{
		Name:        "T_Get_Tag",
		Title:       "T. Get Tag",
		Description: "Fetch one tag.",
		Parameters:  []ParameterMetadata{tagIDParam},
		ReadOnly:    true,
	},
	{
		Name:        "T_Delete_Tag",
		Title:       "T. Delete Tag",
		Description: "Delete a tag.",
		Parameters:  []ParameterMetadata{tagIDParam},
	},
	tagLinkTool("T_Attach_Tags_To_Campaigns", "T. Attach Tags To Campaigns", "Attach tags to campaigns.", emailbison.TagTargetCampaigns),
	tagLinkTool("T_Remove_Tags_From_Campaigns", "T. Remove Tags From Campaigns", "Remove tags from campaigns.", emailbison.TagTargetCampaigns),
	tagLinkTool("T_Attach_Tags_To_Leads", "T. Attach Tags To Leads", "Attach tags to leads.", emailbison.TagTargetLeads),
	tagLinkTool("T_Remove_Tags_From_Leads", "T. Remove Tags From Leads", "Remove tags from leads.", emailbison.TagTargetLeads),
	tagLinkTool("T_Attach_Tags_To_Sender_Emails", "T. Attach Tags To Sender Emails", "Attach tags to sender emails.", emailbison.TagTargetSenderEmails),
	tagLinkTool("T_Remove_Tags_From_Sender_Emails", "T. Remove Tags From Sender Emails", "Remove tags from sender emails.", emailbison.TagTargetSenderEmails),
}

var tagHandlers = map[string]handlerFunc{
	"T_List_Tags":                      noArgs((*emailbison.Client).ListTags),
	"T_Create_Tag":                     createTag,
	"T_Get_Tag":                        withTagID((*emailbison.Client).GetTag),
	"T_Delete_Tag":                     withTagID((*emailbison.Client).DeleteTag),
	"T_Attach_Tags_To_Campaigns":       linkTags(emailbison.TagTargetCampaigns, false),
	"T_Remove_Tags_From_Campaigns":     linkTags(emailbison.TagTargetCampaigns, true),
	"T_Attach_Tags_To_Leads":           linkTags(emailbison.TagTargetLeads, false),
	"T_Remove_Tags_From_Leads":         linkTags(emailbison.TagTargetLeads, true),
	"T_Attach_Tags_To_Sender_Emails":   linkTags(emailbison.TagTargetSenderEmails, false),
	"T_Remove_Tags_From_Sender_Emails": linkTags(emailbison.TagTargetSenderEmails, true),
}

func createTag(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	name, err := a.requireString("name")
	if err != nil {
		return nil, err
	}
	isDefault, err := a.optBool("default")
	if err != nil {
		return nil, err
	}
	return c.CreateTag(ctx, name, isDefault)
}

func withTagID(call func(*emailbison.Client, context.Context, int) (any, error)) handlerFunc {
	return func(ctx context.Context, c *emailbison.Client, a args) (any, error) {
		id, err := a.requireInt("tag_id")
		if err != nil {
			return nil, err
		}
		return call(c, ctx, id)
	}
}

func linkTags(target emailbison.TagTarget, remove bool) handlerFunc {
	return func(ctx context.Context, c *emailbison.Client, a args) (any, error) {
		entityIDs, err := a.requireIntList(tagEntityParam(target))
		if err != nil {
			return nil, err
		}
		tagIDs, err := a.requireIntList("tag_ids")
		if err != nil {
			return nil, err
		}
		skip, err := a.optBool("skip_webhooks")
		if err != nil {
			return nil, err
		}
		p := emailbison.TagLinkParams{Target: target, EntityIDs: entityIDs, TagIDs: tagIDs, SkipWebhooks: skip}
		if remove {
			return c.RemoveTags(ctx, p)
		}
		return c.AttachTags(ctx, p)
	}
}
