// Package payroll implements the payroll tool group: payslip breakdowns,
// direct-deposit updates and employment letters. All tools are stubs.
package payroll

import (
	"context"
	"fmt"
	"log/slog"

	"workspace-mcp/internal/logging"
	"workspace-mcp/internal/redact"
	"workspace-mcp/internal/registry"
)

// ServerName is the MCP implementation name reported to clients.
const ServerName = "Payroll-Server"

// Service holds the dependencies shared by the tool handlers.
type Service struct {
	log    *slog.Logger
	redact redact.Redactor
}

// New returns a Service logging to logger. Bank identifiers are logged
// verbatim unless r is enabled.
func New(logger *slog.Logger, r redact.Redactor) *Service {
	return &Service{log: logging.Component(logger, "payroll"), redact: r}
}

type PayslipInput struct {
	Date string `mapstructure:"date"`
}

// BankDetailsInput carries the direct-deposit identifiers. Their documented
// lengths (6, 4 and 3 digits) are not enforced.
type BankDetailsInput struct {
	AccountNumber string `mapstructure:"account_number"`
	RoutingNumber string `mapstructure:"routing_number"`
	TransitNumber string `mapstructure:"transit_number"`
}

type LetterInput struct {
	Addressee string `mapstructure:"addressee"`
}

// GetPayslipBreakdown returns fixed figures for the requested pay date.
func (s *Service) GetPayslipBreakdown(ctx context.Context, in PayslipInput) (string, error) {
	res := fmt.Sprintf("Gross: $4,500 | Taxes: -$900 | 401k: -$200 | Net: $3,400 for %s.", in.Date)
	s.log.InfoContext(ctx, "Result: "+res)
	return res, nil
}

// UpdateBankDetails logs the supplied identifiers and confirms the change.
func (s *Service) UpdateBankDetails(ctx context.Context, in BankDetailsInput) (string, error) {
	s.log.InfoContext(ctx, fmt.Sprintf("Account number: %s, Routing number: %s, Transit number: %s",
		s.redact.Mask(in.AccountNumber), s.redact.Mask(in.RoutingNumber), s.redact.Mask(in.TransitNumber)))
	return "Bank details updated. Changes will reflect in the next pay cycle.", nil
}

// GenerateEmploymentLetter confirms a salary verification letter.
func (s *Service) GenerateEmploymentLetter(ctx context.Context, in LetterInput) (string, error) {
	res := fmt.Sprintf("Letter generated for %s. Download available in your portal.", in.Addressee)
	s.log.InfoContext(ctx, "Result: "+res)
	return res, nil
}

// Register adds the payroll tools to reg.
func (s *Service) Register(reg *registry.Registry) error {
	str := func(name, desc string) registry.Param {
		return registry.Param{Name: name, Type: registry.TypeString, Description: desc}
	}
	if err := reg.Register("get_payslip_breakdown", registry.Bind(s.GetPayslipBreakdown),
		[]registry.Param{str("date", "The pay period date in YYYY-MM-DD format.")},
		"Retrieve a detailed breakdown of gross pay, taxes, and benefit deductions for a specific date."); err != nil {
		return fmt.Errorf("payroll: %w", err)
	}
	if err := reg.Register("update_bank_details", registry.Bind(s.UpdateBankDetails),
		[]registry.Param{
			str("account_number", "The 6-digit bank account number"),
			str("routing_number", "The 4-digit bank routing number."),
			str("transit_number", "The 3-digit bank transit number."),
		},
		"Update the direct deposit information for the employee's payroll."); err != nil {
		return fmt.Errorf("payroll: %w", err)
	}
	if err := reg.Register("generate_employment_letter", registry.Bind(s.GenerateEmploymentLetter),
		[]registry.Param{str("addressee", "The name of the organization or individual requesting the verification.")},
		"Generate an official salary verification PDF for third-party entities (e.g., banks, landlords)."); err != nil {
		return fmt.Errorf("payroll: %w", err)
	}
	return nil
}
