/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/friendsincode/grimnir_timer/internal/models"
)

// GormBackend keeps the image as one row of the nv_images table.
type GormBackend struct {
	db      *gorm.DB
	name    string
	closeFn func() error
}

// NewGormBackend stores the image under name. closeFn, if set, runs on Close.
func NewGormBackend(db *gorm.DB, name string, closeFn func() error) *GormBackend {
	return &GormBackend{db: db, name: name, closeFn: closeFn}
}

func (b *GormBackend) Name() string { return "database" }

func (b *GormBackend) Read(ctx context.Context) ([]byte, error) {
	var img models.NVImage
	err := b.db.WithContext(ctx).Where("name = ?", b.name).First(&img).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return img.Data, nil
}

func (b *GormBackend) Write(ctx context.Context, data []byte) error {
	img := models.NVImage{Name: b.name, Data: data, UpdatedAt: time.Now().UTC()}
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&img).Error
}

func (b *GormBackend) Close() error {
	if b.closeFn != nil {
		return b.closeFn()
	}
	return nil
}
