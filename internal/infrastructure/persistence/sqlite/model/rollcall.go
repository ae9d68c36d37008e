package model

// RollCall IDs are upstream strings such as "2270800-43".
type RollCall struct {
	ID          string `gorm:"column:id;type:text;primaryKey"`
	Timestamp   string `gorm:"column:timestamp;type:text;not null"`
	Body        string `gorm:"column:body;type:text;not null"`
	Approved    *bool  `gorm:"column:approved"`
	Description string `gorm:"column:description;type:text;not null"`
	BillID      *int64 `gorm:"column:bill_id;index"`
	CreatedAt   string `gorm:"column:created_at;type:text;not null"`
	UpdatedAt   string `gorm:"column:updated_at;type:text;not null"`
}

func (RollCall) TableName() string {
	return "roll_calls"
}

// Vote rows are replaced wholesale per roll call on every (re-)ingestion;
// uniqueness per (roll call, legislator) is realized by that replacement,
// not by a database constraint.
type Vote struct {
	ID           uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	RollCallID   string `gorm:"column:roll_call_id;type:text;not null;index"`
	LegislatorID int64  `gorm:"column:legislator_id;not null;index"`
	Value        string `gorm:"column:value;type:text;not null"`
	CreatedAt    string `gorm:"column:created_at;type:text;not null"`
}

func (Vote) TableName() string {
	return "votes"
}
