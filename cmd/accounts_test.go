package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountSummary(t *testing.T) {
	tests := []struct {
		name     string
		payload  any
		wantUser string
		wantTeam string
	}{
		{
			name: "wrapped user with team",
			payload: map[string]any{"data": map[string]any{
				"name": "Ann Lee", "email": "ann@acme.test",
				"team": map[string]any{"name": "Acme Team"},
			}},
			wantUser: "Ann Lee <ann@acme.test>",
			wantTeam: "Acme Team",
		},
		{
			name:     "bare user with current_team",
			payload:  map[string]any{"email": "ann@acme.test", "current_team": map[string]any{"name": "Ops"}},
			wantUser: "ann@acme.test",
			wantTeam: "Ops",
		},
		{
			name:    "unexpected payload",
			payload: []any{1, 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, team := accountSummary(tt.payload)
			assert.Equal(t, tt.wantUser, user)
			assert.Equal(t, tt.wantTeam, team)
		})
	}
}

func TestAccountsList_MasksKeys(t *testing.T) {
	path := writeConfig(t, "https://api.example.test", "beta-secret-key")

	stdout, _, err := executeCommand(t, "accounts", "list", "--config", path, "-o", "json")
	require.NoError(t, err)

	var infos []AccountInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	require.Len(t, infos, 2)

	assert.Equal(t, "Acme", infos[0].Name)
	assert.True(t, infos[0].Default)
	assert.Equal(t, "****-key", infos[0].APIKey)
	assert.Equal(t, "https://api.example.test", infos[0].BaseURL)

	assert.Equal(t, "Beta", infos[1].Name)
	assert.False(t, infos[1].Default)
	assert.Equal(t, "10s", infos[1].Timeout)
	assert.NotContains(t, stdout, "beta-secret-key")
}

func TestAccountsList_ShowKeysAndTable(t *testing.T) {
	path := writeConfig(t, "https://api.example.test", "beta-secret-key")

	stdout, _, err := executeCommand(t, "accounts", "list", "--config", path, "--show-keys")
	require.NoError(t, err)
	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "beta-secret-key")
	assert.Contains(t, stdout, "acme-secret-key")
}

func TestAccountsCheck(t *testing.T) {
	api := fakeAPI(t)

	t.Run("all accounts reachable", func(t *testing.T) {
		path := writeConfig(t, api.URL, "beta-secret-key")
		stdout, _, err := executeCommand(t, "accounts", "check", "--config", path, "-o", "json", "-q")
		require.NoError(t, err)

		var results []AccountCheck
		require.NoError(t, json.Unmarshal([]byte(stdout), &results))
		require.Len(t, results, 2)
		for _, r := range results {
			assert.True(t, r.OK, r.Name)
			assert.Equal(t, "Ann Lee <ann@acme.test>", r.User)
			assert.Equal(t, "Acme Team", r.Team)
		}
	})

	t.Run("rejected key fails the command", func(t *testing.T) {
		path := writeConfig(t, api.URL, "bad-key")
		stdout, _, err := executeCommand(t, "accounts", "check", "--config", path, "-o", "json", "-q")
		require.Error(t, err)
		assert.Equal(t, "1 of 2 account check(s) failed", err.Error())

		var results []AccountCheck
		require.NoError(t, json.Unmarshal([]byte(stdout), &results))
		require.Len(t, results, 2)
		assert.True(t, results[0].OK)
		assert.False(t, results[1].OK)
		assert.Contains(t, results[1].Error, "401")
	})

	t.Run("unknown account name", func(t *testing.T) {
		path := writeConfig(t, api.URL, "beta-secret-key")
		stdout, _, err := executeCommand(t, "accounts", "check", "Gamma", "--config", path, "-o", "json", "-q")
		require.Error(t, err)

		var results []AccountCheck
		require.NoError(t, json.Unmarshal([]byte(stdout), &results))
		require.Len(t, results, 1)
		assert.Contains(t, results[0].Error, "Acme, Beta")
	})
}
