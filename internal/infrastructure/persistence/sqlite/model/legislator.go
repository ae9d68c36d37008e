package model

// Legislator is keyed by the upstream Câmara ID, stable across runs.
type Legislator struct {
	ID            int64   `gorm:"column:id;primaryKey"`
	Name          string  `gorm:"column:name;type:text;not null"`
	LegalName     string  `gorm:"column:legal_name;type:text;not null"`
	Region        string  `gorm:"column:region;type:text;not null"`
	PartyID       *int64  `gorm:"column:party_id;index"`
	LegislatureID *int64  `gorm:"column:legislature_id"`
	Email         *string `gorm:"column:email;type:text"`
	PhotoURL      *string `gorm:"column:photo_url;type:text"`
	CreatedAt     string  `gorm:"column:created_at;type:text;not null"`
	UpdatedAt     string  `gorm:"column:updated_at;type:text;not null"`
}

func (Legislator) TableName() string {
	return "legislators"
}
