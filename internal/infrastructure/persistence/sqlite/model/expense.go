package model

// Expense keeps an internal surrogate key; the upstream document ID is a
// distinct unique natural key used for idempotent matching.
type Expense struct {
	ID           uint64  `gorm:"column:id;primaryKey;autoIncrement"`
	ExtID        int64   `gorm:"column:ext_id;not null;uniqueIndex"`
	LegislatorID int64   `gorm:"column:legislator_id;not null;index"`
	CompanyTaxID *string `gorm:"column:company_tax_id;type:text;index"`
	Amount       string  `gorm:"column:amount;type:text;not null"`
	IssuedOn     *string `gorm:"column:issued_on;type:text"`
	ExpenseType  *string `gorm:"column:expense_type;type:text"`
	DocumentURL  *string `gorm:"column:document_url;type:text"`
	CreatedAt    string  `gorm:"column:created_at;type:text;not null"`
	UpdatedAt    string  `gorm:"column:updated_at;type:text;not null"`
}

func (Expense) TableName() string {
	return "expenses"
}
