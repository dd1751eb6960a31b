package sharepoint

import (
	"bytes"
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workspace-mcp/internal/logging"
	"workspace-mcp/internal/registry"
)

type fixedRand int

func (f fixedRand) IntInRange(int, int) int { return int(f) }

type logEntry struct {
	Logger string `json:"logger"`
	Level  string `json:"level"`
	Msg    string `json:"msg"`
}

func setup(t *testing.T, src RandSource) (*registry.Registry, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Output: &buf})
	require.NoError(t, err)

	reg := registry.New()
	require.NoError(t, New(logger, src).Register(reg))
	return reg, &buf
}

func entries(t *testing.T, buf *bytes.Buffer) []logEntry {
	t.Helper()
	var out []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e logEntry
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		out = append(out, e)
	}
	return out
}

func TestRegisterOrder(t *testing.T) {
	reg, _ := setup(t, nil)
	var names []string
	for _, d := range reg.List() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{
		"check_permissions",
		"grant_permission",
		"create_site_request",
		"get_site_usage",
		"increase_site_quota",
	}, names)
}

func TestRegisterTwiceFails(t *testing.T) {
	reg, _ := setup(t, nil)
	err := New(nil, nil).Register(reg)
	assert.ErrorIs(t, err, registry.ErrDuplicateOperation)
}

func TestCheckPermissions(t *testing.T) {
	reg, buf := setup(t, nil)
	got, err := reg.Invoke(context.Background(), "check_permissions", map[string]any{
		"site_url":   "https://contoso.sharepoint.com/sites/hr",
		"user_email": "ana@contoso.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "User ana@contoso.com currently has 'Read' access to https://contoso.sharepoint.com/sites/hr.", got)

	logs := entries(t, buf)
	require.Len(t, logs, 1)
	assert.Equal(t, "Result: "+got, logs[0].Msg)
	assert.Equal(t, "sharepoint", logs[0].Logger)
	assert.Equal(t, "INFO", logs[0].Level)
}

func TestGrantPermissionDefaultsToRead(t *testing.T) {
	reg, _ := setup(t, nil)
	got, err := reg.Invoke(context.Background(), "grant_permission", map[string]any{
		"site_url":   "https://s",
		"user_email": "bo@contoso.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS: Granted Read to bo@contoso.com for https://s.", got)
}

func TestGrantPermissionEchoesUnvalidatedLevel(t *testing.T) {
	reg, buf := setup(t, nil)
	got, err := reg.Invoke(context.Background(), "grant_permission", map[string]any{
		"site_url":         "https://s",
		"user_email":       "bo@contoso.com",
		"permission_level": "Owner",
	})
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS: Granted Owner to bo@contoso.com for https://s.", got)
	assert.Len(t, entries(t, buf), 1)
}

func TestCreateSiteRequestUsesRandSource(t *testing.T) {
	reg, _ := setup(t, fixedRand(417))
	got, err := reg.Invoke(context.Background(), "create_site_request", map[string]any{
		"site_name":         "Finance Hub",
		"owner_alias":       "cfo",
		"sensitivity_label": "Secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "Provisioning request for 'Finance Hub' created (Ticket #SHP-417).", got)
}

func TestCreateSiteRequestTicketRange(t *testing.T) {
	reg, buf := setup(t, nil)
	re := regexp.MustCompile(`Ticket #SHP-(\d+)\)`)
	const calls = 500
	for i := 0; i < calls; i++ {
		got, err := reg.Invoke(context.Background(), "create_site_request", map[string]any{
			"site_name": "x", "owner_alias": "y", "sensitivity_label": "Public",
		})
		require.NoError(t, err)
		m := re.FindStringSubmatch(got)
		require.Len(t, m, 2, got)
		n, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100)
		assert.LessOrEqual(t, n, 999)
	}
	assert.Len(t, entries(t, buf), calls)
}

func TestDefaultRandBounds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		n := DefaultRand.IntInRange(1, 3)
		assert.True(t, n >= 1 && n <= 3, n)
	}
}

func TestGetSiteUsage(t *testing.T) {
	reg, _ := setup(t, nil)
	got, err := reg.Invoke(context.Background(), "get_site_usage", map[string]any{"site_url": "https://s"})
	require.NoError(t, err)
	assert.Equal(t, "Usage: 9.5GB / 10GB. Site is approaching its storage limit.", got)
}

func TestIncreaseSiteQuota(t *testing.T) {
	reg, buf := setup(t, nil)
	got, err := reg.Invoke(context.Background(), "increase_site_quota", map[string]any{
		"site_url":  "https://contoso.sharepoint.com/sites/hr",
		"amount_gb": 5,
	})
	require.NoError(t, err)
	assert.Contains(t, got, "https://contoso.sharepoint.com/sites/hr")
	assert.Contains(t, got, "5GB")

	logs := entries(t, buf)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Msg, got)
}

func TestIncreaseSiteQuotaAcceptsNegative(t *testing.T) {
	reg, _ := setup(t, nil)
	got, err := reg.Invoke(context.Background(), "increase_site_quota", map[string]any{
		"site_url":  "s",
		"amount_gb": float64(-2),
	})
	require.NoError(t, err)
	assert.Equal(t, "Quota for s increased by -2GB.", got)
}

func TestIncreaseSiteQuotaRejectsNonInteger(t *testing.T) {
	reg, buf := setup(t, nil)
	_, err := reg.Invoke(context.Background(), "increase_site_quota", map[string]any{
		"site_url":  "s",
		"amount_gb": "lots",
	})
	assert.ErrorIs(t, err, registry.ErrInvalidArgument)
	assert.Empty(t, entries(t, buf))
}

func TestResultsNeverEmpty(t *testing.T) {
	reg, _ := setup(t, nil)
	args := map[string]any{
		"site_url": "s", "user_email": "e", "site_name": "n",
		"owner_alias": "o", "sensitivity_label": "Public", "amount_gb": 1,
	}
	for _, d := range reg.List() {
		got, err := reg.Invoke(context.Background(), d.Name, args)
		require.NoError(t, err, d.Name)
		assert.NotEmpty(t, got, d.Name)
	}
}
