package providers

import (
	"testing"

	"github.com/dividup/dividup/internal/provider"
)

func TestRegisterAllTo(t *testing.T) {
	reg := provider.NewRegistry()
	if err := RegisterAllTo(reg); err != nil {
		t.Fatalf("RegisterAllTo: %v", err)
	}

	if _, err := reg.Get("yfinance"); err != nil {
		t.Fatalf("yfinance not registered: %v", err)
	}

	for _, m := range []provider.ModelType{
		provider.ModelEquityHistorical,
		provider.ModelEquityProfile,
		provider.ModelBalanceSheet,
		provider.ModelIncomeStatement,
		provider.ModelCashFlowStatement,
		provider.ModelCompanyNews,
	} {
		if def, ok := reg.DefaultProvider(m); !ok || def != "yfinance" {
			t.Errorf("default provider for %s = %q (ok=%v)", m, def, ok)
		}
	}
}
