package model

// DeadLetter keeps rejected records with their full payload for diagnosis
// and replay. No foreign keys: the payload is opaque JSON.
type DeadLetter struct {
	ID           string `gorm:"column:id;type:text;primaryKey"`
	OriginSource string `gorm:"column:origin_source;type:text;not null;index"`
	Payload      string `gorm:"column:payload;type:text;not null"`
	ErrorMessage string `gorm:"column:error_message;type:text;not null"`
	ErrorType    string `gorm:"column:error_type;type:text;not null"`
	RetryCount   int    `gorm:"column:retry_count;not null;default:0"`
	Resolved     bool   `gorm:"column:resolved;not null;default:0"`
	CreatedAt    string `gorm:"column:created_at;type:text;not null"`
}

func (DeadLetter) TableName() string {
	return "ingestion_dead_letters"
}
