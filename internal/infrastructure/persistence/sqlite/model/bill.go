package model

type Bill struct {
	ID          int64   `gorm:"column:id;primaryKey"`
	TypeAcronym string  `gorm:"column:type_acronym;type:text;not null"`
	TypeCode    int64   `gorm:"column:type_code;not null"`
	Number      int64   `gorm:"column:number;not null"`
	Year        int64   `gorm:"column:year;not null;index"`
	Summary     string  `gorm:"column:summary;type:text;not null"`
	PresentedAt *string `gorm:"column:presented_at;type:text"`
	CreatedAt   string  `gorm:"column:created_at;type:text;not null"`
	UpdatedAt   string  `gorm:"column:updated_at;type:text;not null"`
}

func (Bill) TableName() string {
	return "bills"
}

// BillAuthor rows are replaced wholesale per bill on every (re-)ingestion.
type BillAuthor struct {
	ID           uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	BillID       int64  `gorm:"column:bill_id;not null;uniqueIndex:idx_bill_author,priority:1"`
	LegislatorID int64  `gorm:"column:legislator_id;not null;uniqueIndex:idx_bill_author,priority:2"`
	CreatedAt    string `gorm:"column:created_at;type:text;not null"`
}

func (BillAuthor) TableName() string {
	return "bill_authors"
}
