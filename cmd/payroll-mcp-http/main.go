// Command payroll-mcp-http serves the payroll tools.
package main

import (
	"log/slog"

	"workspace-mcp/internal/app"
	"workspace-mcp/internal/config"
	"workspace-mcp/internal/payroll"
	"workspace-mcp/internal/redact"
)

var version = "dev"

func main() {
	app.Main(app.Definition{
		Name:      payroll.ServerName,
		Version:   version,
		EnvPrefix: "PAYROLL",
		Port:      "8081",
		Tools: func(logger *slog.Logger, cfg config.Config) app.Group {
			return payroll.New(logger, redact.New(cfg.RedactFinancial))
		},
	})
}
