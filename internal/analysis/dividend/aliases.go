package dividend

// Ordered alias lists for statement line items. Providers rename fields
// across versions and issuers (yfinance-style "Total Current Liabilities" vs
// "Current Liabilities", quoteSummary camelCase vs display names), so every
// lookup goes through snapshot.Resolve with one of these lists. First match
// wins; no match means the dependent metrics come out unavailable.

// Balance sheet.
var (
	aliasTotalAssets = []string{"Total Assets", "totalAssets"}

	aliasTotalLiabilities = []string{
		"Total Liabilities Net Minority Interest",
		"Total Liabilities",
		"totalLiab",
	}

	aliasTotalEquity = []string{
		"Total Equity Gross Minority Interest",
		"Total Equity",
		"Stockholders Equity",
		"totalStockholderEquity",
	}

	aliasCurrentAssets = []string{
		"Current Assets",
		"Total Current Assets",
		"totalCurrentAssets",
	}

	aliasCurrentLiabilities = []string{
		"Current Liabilities",
		"Total Current Liabilities",
		"totalCurrentLiabilities",
	}

	aliasCash = []string{
		"Cash And Cash Equivalents",
		"Cash",
		"cash",
	}

	aliasReceivables = []string{
		"Net Receivables",
		"Accounts Receivable",
		"Accounts Receivables",
		"netReceivables",
	}

	aliasInventory = []string{"Inventory", "Total Inventory", "inventory"}

	aliasPayables = []string{"Accounts Payable", "Account Payables", "accountsPayable"}

	aliasTotalDebt = []string{"Total Debt", "Long Term Debt", "longTermDebt"}

	aliasNetDebt = []string{"Net Debt", "netDebt"}

	aliasPreferredShares = []string{"Preferred Stock", "Preferred Shares Number", "preferredStock"}

	aliasOrdinaryShares = []string{"Ordinary Shares Number", "Share Issued", "commonStock"}
)

// Income statement.
var (
	aliasRevenue = []string{"Total Revenue", "Revenue", "totalRevenue"}

	aliasCostOfRevenue = []string{
		"Cost Of Revenue",
		"Cost of Revenue",
		"Cost Of Goods Sold",
		"costOfRevenue",
	}

	aliasNetIncome = []string{
		"Net Income",
		"Net Income from Continuing Operation Net Minority Interest",
		"netIncome",
	}

	aliasGrossProfit = []string{"Gross Profit", "grossProfit"}

	aliasOperatingIncome = []string{"Operating Income", "operatingIncome"}

	aliasEBITDA = []string{"EBITDA", "Normalized EBITDA", "ebitda"}

	aliasBasicEPS = []string{"Basic EPS", "basicEPS"}

	aliasDilutedEPS = []string{"Diluted EPS", "dilutedEPS"}
)

// Cash flow statement.
var (
	aliasOperatingCashFlow = []string{
		"Operating Cash Flow",
		"Cash Flow From Continuing Operating Activities",
		"totalCashFromOperatingActivities",
	}

	aliasCapEx = []string{"Capital Expenditure", "capitalExpenditures"}

	aliasFreeCashFlow = []string{"Free Cash Flow", "freeCashFlow"}

	aliasDividendsPaid = []string{
		"Cash Dividends Paid",
		"Common Stock Dividend Paid",
		"dividendsPaid",
	}

	aliasDebtIssued = []string{"Issuance Of Debt", "Long Term Debt Issuance", "issuanceOfDebt"}

	aliasDebtRepaid = []string{"Repayment Of Debt", "Long Term Debt Payments", "repaymentOfDebt"}

	aliasBuybacks = []string{"Repurchase Of Capital Stock", "Common Stock Payments", "repurchaseOfStock"}
)
