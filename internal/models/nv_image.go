/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import "time"

// NVImage stores a controller's persisted schedule image in a database.
type NVImage struct {
	Name      string `gorm:"type:varchar(128);primaryKey"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (NVImage) TableName() string {
	return "nv_images"
}
