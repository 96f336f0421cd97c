package models

import "time"

const TableLocalSettings = "local_settings"

// LocalSettingModel is a key/value row for device-local state such as the device id.
type LocalSettingModel struct {
	Key       string `gorm:"column:setting_key;primaryKey;size:64"`
	Value     string `gorm:"not null;size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM.
func (LocalSettingModel) TableName() string {
	return TableLocalSettings
}
