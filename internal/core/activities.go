package core

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/antifraudworks/schemefinder/internal/core/model"
	"github.com/antifraudworks/schemefinder/internal/gfo"
	"github.com/antifraudworks/schemefinder/internal/ontology"
)

// ErrUnknownActivity is returned when a search names a label outside
// the activity mapping.
var ErrUnknownActivity = errors.New("unknown fraud activity")

// ActivityMap is the ordered, immutable mapping from display labels to
// GFO class local names.
type ActivityMap struct {
	entries []model.Activity
	byLabel map[string]string
}

// NewActivityMap validates and indexes the given entries. Order is
// preserved for the dropdown.
func NewActivityMap(entries []model.Activity) (*ActivityMap, error) {
	if len(entries) == 0 {
		return nil, errors.New("activity mapping is empty")
	}
	byLabel := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.Label == "" || e.Class == "" {
			return nil, fmt.Errorf("activity entry %+v is missing a label or class", e)
		}
		if _, dup := byLabel[e.Label]; dup {
			return nil, fmt.Errorf("duplicate activity label %q", e.Label)
		}
		byLabel[e.Label] = e.Class
	}
	return &ActivityMap{entries: entries, byLabel: byLabel}, nil
}

// LoadActivities reads an activity mapping from a TOML file of
// [[activity]] tables, preserving file order.
func LoadActivities(path string) (*ActivityMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read activities file '%s': %w", path, err)
	}
	var file struct {
		Activity []model.Activity `toml:"activity"`
	}
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse activities TOML: %w", err)
	}
	return NewActivityMap(file.Activity)
}

// Labels returns the display labels in mapping order.
func (m *ActivityMap) Labels() []string {
	labels := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		labels = append(labels, e.Label)
	}
	return labels
}

// ClassFor resolves a label to its class local name.
func (m *ActivityMap) ClassFor(label string) (string, bool) {
	class, ok := m.byLabel[label]
	return class, ok
}

// Entries returns the mapping in order. Callers must not modify it.
func (m *ActivityMap) Entries() []model.Activity { return m.entries }

// Len returns the number of mapped activities.
func (m *ActivityMap) Len() int { return len(m.entries) }

// UnknownClasses returns the mapped class local names with no owl:Class
// declaration in the graph. The mapping-to-ontology correspondence is
// an external data contract, so callers treat mismatches as warnings.
func (m *ActivityMap) UnknownClasses(g *ontology.Graph) []string {
	declared := g.ClassIRIs()
	var unknown []string
	for _, e := range m.entries {
		if !declared[gfo.Namespace+e.Class] {
			unknown = append(unknown, e.Class)
		}
	}
	return unknown
}

// DefaultActivities is the built-in activity table, used when no
// activities file is configured.
func DefaultActivities() []model.Activity {
	return []model.Activity{
		{Label: "Public Emergency Fraud", Class: "public_emergency_fraud"},
		{Label: "Identity Fraud", Class: "IdentityFraud"},
		{Label: "Healthcare Fraud", Class: "HealthcareFraud"},
		{Label: "Tax Fraud", Class: "TaxFraud"},
		{Label: "Procurement Fraud", Class: "ProcurementFraud"},
		{Label: "Investment Fraud", Class: "InvestmentFraud"},
		{Label: "Wire Fraud", Class: "WireFraud"},
		{Label: "Mail Fraud", Class: "MailFraud"},
		{Label: "Financial Institution Fraud", Class: "FinancialInstitutionFraud"},
		{Label: "Corporate Fraud", Class: "CorporateFraud"},
		{Label: "Contract Fraud", Class: "ContractFraud"},
		{Label: "Grant Fraud", Class: "GrantFraud"},
		{Label: "Housing Fraud", Class: "HousingFraud"},
		{Label: "Insurance Fraud", Class: "InsuranceFraud"},
		{Label: "Loan Fraud", Class: "LoanFraud"},
		{Label: "Student Financial Aid Fraud", Class: "StudentFinancialAidFraud"},
		{Label: "Corruption", Class: "Corruption"},
		{Label: "Cyber Espionage", Class: "CyberEspionage"},
		{Label: "Cyberextortion", Class: "Cyberextortion"},
		{Label: "Bankruptcy Fraud", Class: "BankruptcyFraud"},
		{Label: "Benefits Fraud", Class: "BenefitsFraud"},
		{Label: "Charity Fraud", Class: "CharityFraud"},
		{Label: "Check Fraud", Class: "CheckFraud"},
		{Label: "Credit Card Fraud", Class: "CreditCardFraud"},
		{Label: "Customs Fraud", Class: "CustomsFraud"},
		{Label: "Disaster Relief Fraud", Class: "DisasterReliefFraud"},
		{Label: "Embezzlement", Class: "Embezzlement"},
		{Label: "Forgery", Class: "Forgery"},
		{Label: "Money Laundering", Class: "MoneyLaundering"},
		{Label: "Mortgage Fraud", Class: "MortgageFraud"},
		{Label: "Payroll Fraud", Class: "PayrollFraud"},
		{Label: "Pension Fraud", Class: "PensionFraud"},
		{Label: "Securities Fraud", Class: "SecuritiesFraud"},
		{Label: "Unemployment Insurance Fraud", Class: "UnemploymentInsuranceFraud"},
		{Label: "Workers Compensation Fraud", Class: "WorkersCompensationFraud"},
	}
}
