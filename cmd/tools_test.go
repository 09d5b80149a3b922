package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/max-longrun/bison-mcp/internal/tools"
)

func TestToolInfos(t *testing.T) {
	all := toolInfos("", false)
	assert.Len(t, all, len(tools.Catalog()))

	leads := toolInfos("l_", false)
	require.NotEmpty(t, leads)
	for _, info := range leads {
		assert.True(t, strings.HasPrefix(info.Name, "L_"), info.Name)
	}

	readOnly := toolInfos("", true)
	require.NotEmpty(t, readOnly)
	assert.Less(t, len(readOnly), len(all))
	for _, info := range readOnly {
		assert.True(t, info.ReadOnly, info.Name)
	}
}

func TestToolsList_JSON(t *testing.T) {
	stdout, _, err := executeCommand(t, "tools", "list", "--prefix", "T_", "-o", "json")
	require.NoError(t, err)

	var infos []ToolInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.Contains(t, names, "T_List_Tags")
	assert.Contains(t, names, "T_Create_Tag")
	assert.NotContains(t, names, "L_List_Leads")
}

func TestToolsList_Table(t *testing.T) {
	stdout, _, err := executeCommand(t, "tools", "list", "--read-only")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ACCESS")
	assert.Contains(t, stdout, "T_List_Tags")
	assert.NotContains(t, stdout, "T_Create_Tag")
}

func TestToolsList_RejectsUnknownFormat(t *testing.T) {
	_, _, err := executeCommand(t, "tools", "list", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid: table, json, yaml")
}
