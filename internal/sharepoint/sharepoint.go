// Package sharepoint implements the site-management tool group: permission
// checks and grants, site provisioning requests, and storage quota.
//
// Every tool is a stub. Inputs such as permission levels and sensitivity
// labels are echoed without validation.
package sharepoint

import (
	"context"
	"fmt"
	"log/slog"

	"workspace-mcp/internal/logging"
	"workspace-mcp/internal/registry"
)

// ServerName is the MCP implementation name reported to clients.
const ServerName = "SharePoint-Server"

// DefaultPermissionLevel is granted when the caller omits permission_level.
const DefaultPermissionLevel = "Read"

// Service holds the dependencies shared by the tool handlers.
type Service struct {
	log  *slog.Logger
	rand RandSource
}

// New returns a Service logging to logger. A nil src uses DefaultRand.
func New(logger *slog.Logger, src RandSource) *Service {
	if src == nil {
		src = DefaultRand
	}
	return &Service{log: logging.Component(logger, "sharepoint"), rand: src}
}

type SiteUserInput struct {
	SiteURL   string `mapstructure:"site_url"`
	UserEmail string `mapstructure:"user_email"`
}

type GrantInput struct {
	SiteURL         string `mapstructure:"site_url"`
	UserEmail       string `mapstructure:"user_email"`
	PermissionLevel string `mapstructure:"permission_level"`
}

type SiteRequestInput struct {
	SiteName         string `mapstructure:"site_name"`
	OwnerAlias       string `mapstructure:"owner_alias"`
	SensitivityLabel string `mapstructure:"sensitivity_label"`
}

type SiteInput struct {
	SiteURL string `mapstructure:"site_url"`
}

type QuotaInput struct {
	SiteURL  string `mapstructure:"site_url"`
	AmountGB int    `mapstructure:"amount_gb"`
}

// CheckPermissions always reports Read access.
func (s *Service) CheckPermissions(ctx context.Context, in SiteUserInput) (string, error) {
	return s.result(ctx, fmt.Sprintf("User %s currently has 'Read' access to %s.", in.UserEmail, in.SiteURL)), nil
}

// GrantPermission echoes the requested level back. The level is not checked
// against Read, Contribute or Full Control.
func (s *Service) GrantPermission(ctx context.Context, in GrantInput) (string, error) {
	return s.result(ctx, fmt.Sprintf("SUCCESS: Granted %s to %s for %s.", in.PermissionLevel, in.UserEmail, in.SiteURL)), nil
}

// CreateSiteRequest files a provisioning request under a random ticket id.
func (s *Service) CreateSiteRequest(ctx context.Context, in SiteRequestInput) (string, error) {
	return s.result(ctx, fmt.Sprintf("Provisioning request for '%s' created (Ticket #%s).", in.SiteName, newTicket(s.rand))), nil
}

// GetSiteUsage returns canned storage metrics.
func (s *Service) GetSiteUsage(ctx context.Context, _ SiteInput) (string, error) {
	return s.result(ctx, "Usage: 9.5GB / 10GB. Site is approaching its storage limit."), nil
}

// IncreaseSiteQuota echoes the delta; it is not bounds checked.
func (s *Service) IncreaseSiteQuota(ctx context.Context, in QuotaInput) (string, error) {
	return s.result(ctx, fmt.Sprintf("Quota for %s increased by %dGB.", in.SiteURL, in.AmountGB)), nil
}

func (s *Service) result(ctx context.Context, res string) string {
	s.log.InfoContext(ctx, "Result: "+res)
	return res
}

// Register adds the site-management tools to reg.
func (s *Service) Register(reg *registry.Registry) error {
	siteURL := registry.Param{Name: "site_url", Type: registry.TypeString, Description: "The full URL of the target SharePoint site."}
	userEmail := registry.Param{Name: "user_email", Type: registry.TypeString, Description: "The corporate email address of the user."}

	tools := []struct {
		name    string
		handler registry.Handler
		params  []registry.Param
		desc    string
	}{
		{
			name:    "check_permissions",
			handler: registry.Bind(s.CheckPermissions),
			params:  []registry.Param{siteURL, userEmail},
			desc:    "Verify the current access level for a specific user on a SharePoint site.",
		},
		{
			name:    "grant_permission",
			handler: registry.Bind(s.GrantPermission),
			params: []registry.Param{
				siteURL,
				{Name: "user_email", Type: registry.TypeString, Description: "The corporate email address of the recipient."},
				{Name: "permission_level", Type: registry.TypeString, Default: DefaultPermissionLevel, Description: "The level of access to grant. Must be 'Read', 'Contribute', or 'Full Control'."},
			},
			desc: "Grant a user specific access permissions to a SharePoint site.",
		},
		{
			name:    "create_site_request",
			handler: registry.Bind(s.CreateSiteRequest),
			params: []registry.Param{
				{Name: "site_name", Type: registry.TypeString, Description: "The desired display name for the new site."},
				{Name: "owner_alias", Type: registry.TypeString, Description: "The email or username of the primary site owner."},
				{Name: "sensitivity_label", Type: registry.TypeString, Description: "The data classification. Must be 'Public', 'Internal', or 'Confidential'."},
			},
			desc: "Submit a formal request for a new SharePoint site provisioning.",
		},
		{
			name:    "get_site_usage",
			handler: registry.Bind(s.GetSiteUsage),
			params: []registry.Param{
				{Name: "site_url", Type: registry.TypeString, Description: "The full URL of the SharePoint site to analyze."},
			},
			desc: "Retrieve current storage metrics, quota limits, and health status for a site.",
		},
		{
			name:    "increase_site_quota",
			handler: registry.Bind(s.IncreaseSiteQuota),
			params: []registry.Param{
				{Name: "site_url", Type: registry.TypeString, Description: "The full URL of the site needing more space."},
				{Name: "amount_gb", Type: registry.TypeInteger, Description: "The number of Gigabytes to add to the current quota."},
			},
			desc: "Increase the storage limit for a SharePoint site to prevent read-only locking.",
		},
	}
	for _, t := range tools {
		if err := reg.Register(t.name, t.handler, t.params, t.desc); err != nil {
			return fmt.Errorf("sharepoint: %w", err)
		}
	}
	return nil
}
