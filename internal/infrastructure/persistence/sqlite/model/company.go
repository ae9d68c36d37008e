package model

// Company is keyed by the payee tax ID (CNPJ/CPF) embedded in expense
// payloads; rows exist only as a side effect of expense ingestion.
type Company struct {
	TaxID     string  `gorm:"column:tax_id;type:text;primaryKey"`
	TradeName *string `gorm:"column:trade_name;type:text"`
	CreatedAt string  `gorm:"column:created_at;type:text;not null"`
	UpdatedAt string  `gorm:"column:updated_at;type:text;not null"`
}

func (Company) TableName() string {
	return "companies"
}
