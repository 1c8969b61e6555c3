package suggest

// Rule maps a description pattern to a default ledger account. Rules are
// evaluated in order; the first match wins.
type Rule struct {
	Name        string `yaml:"name"`
	Pattern     string `yaml:"pattern"`
	AccountCode string `yaml:"account_code"`
	AccountName string `yaml:"account_name"`
}

// Generic accounts used when no keyword rule matches.
const (
	MiscIncomeCode  = "4900"
	MiscIncomeName  = "Miscellaneous Income"
	MiscExpenseCode = "6900"
	MiscExpenseName = "Miscellaneous Expense"
)

// DefaultRules returns the built-in keyword rule table, ordered from most to
// least specific.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "salary", Pattern: `(?i)\b(salary|salaries|wages?|payroll)\b`, AccountCode: "6010", AccountName: "Salaries & Wages"},
		{Name: "rent", Pattern: `(?i)\b(rent|lease|rental)\b`, AccountCode: "6020", AccountName: "Rent & Lease"},
		{Name: "utilities", Pattern: `(?i)\b(electricity|electric|water|gas|utility|utilities|internet|broadband|telephone|mobile|telecom)\b`, AccountCode: "6030", AccountName: "Utilities"},
		{Name: "insurance", Pattern: `(?i)\b(insurance|premium|policy)\b`, AccountCode: "6040", AccountName: "Insurance"},
		{Name: "tax", Pattern: `(?i)\b(gst|tds|cgst|sgst|igst|tax|duty|cess)\b`, AccountCode: "6050", AccountName: "Taxes & Duties"},
		{Name: "bank_charges", Pattern: `(?i)\b(bank charges?|chgs|service charge|processing fee|commission|penal)\b`, AccountCode: "6060", AccountName: "Bank Charges"},
		{Name: "loan", Pattern: `(?i)\b(loan|emi|installment|repayment)\b`, AccountCode: "2510", AccountName: "Loan Repayment"},
		{Name: "interest", Pattern: `(?i)\b(interest|int\.? (paid|credited|earned))\b`, AccountCode: "7010", AccountName: "Interest"},
		{Name: "dividend", Pattern: `(?i)\b(dividend|div payout)\b`, AccountCode: "4030", AccountName: "Dividend Income"},
		{Name: "refund", Pattern: `(?i)\b(refund|reversal|chargeback)\b`, AccountCode: "4040", AccountName: "Refunds & Reversals"},
		{Name: "professional_fees", Pattern: `(?i)\b(consulting|professional|legal|audit|accounting)\b`, AccountCode: "6070", AccountName: "Professional Services"},
		{Name: "travel", Pattern: `(?i)\b(travel|flight|hotel|cab|fuel|petrol|diesel)\b`, AccountCode: "6080", AccountName: "Travel & Conveyance"},
	}
}
