// Command sharepoint-mcp-http serves the site-management tools.
package main

import (
	"log/slog"

	"workspace-mcp/internal/app"
	"workspace-mcp/internal/config"
	"workspace-mcp/internal/sharepoint"
)

var version = "dev"

func main() {
	app.Main(app.Definition{
		Name:      sharepoint.ServerName,
		Version:   version,
		EnvPrefix: "SHAREPOINT",
		Port:      "8080",
		Tools: func(logger *slog.Logger, _ config.Config) app.Group {
			return sharepoint.New(logger, sharepoint.DefaultRand)
		},
	})
}
