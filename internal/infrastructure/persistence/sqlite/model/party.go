package model

type Party struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	Acronym   string `gorm:"column:acronym;type:text;not null;uniqueIndex"`
	Name      string `gorm:"column:name;type:text;not null"`
	CreatedAt string `gorm:"column:created_at;type:text;not null"`
	UpdatedAt string `gorm:"column:updated_at;type:text;not null"`
}

func (Party) TableName() string {
	return "parties"
}
