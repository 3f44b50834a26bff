package provider

// ModelType identifies a standard data model. Each ModelType maps to a
// concrete structure in pkg/models, and fetchers are registered per model.
type ModelType string

const (
	// ModelEquityHistorical → models.History (price bars plus dividend events).
	ModelEquityHistorical ModelType = "EquityHistorical"

	// ModelEquityProfile → models.Profile (company info and headline stats).
	ModelEquityProfile ModelType = "EquityProfile"

	// Fundamental statements → []models.StatementPeriod.
	ModelBalanceSheet      ModelType = "BalanceSheet"
	ModelIncomeStatement   ModelType = "IncomeStatement"
	ModelCashFlowStatement ModelType = "CashFlowStatement"

	// ModelCompanyNews → []models.NewsItem.
	ModelCompanyNews ModelType = "CompanyNews"
)
