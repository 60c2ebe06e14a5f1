package appstate

import "time"

// AppStateRecord is one row of the app_states key-value table.
type AppStateRecord struct {
	StateKey  string    `gorm:"column:state_key;primaryKey"`
	Payload   string    `gorm:"column:payload;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (AppStateRecord) TableName() string {
	return "app_states"
}
