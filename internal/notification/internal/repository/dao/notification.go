// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dao

import (
	"context"
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

var ErrRecordNotFound = gorm.ErrRecordNotFound

type NotificationDAO interface {
	Create(ctx context.Context, n Notification) (int64, error)
	ListByRecipientID(ctx context.Context, recipientID int64, offset, limit int) ([]Notification, error)
	TotalByRecipientID(ctx context.Context, recipientID int64) (int64, error)
	// MarkRead 只允许收件人本人标记
	MarkRead(ctx context.Context, id, recipientID int64) error
}

func NewNotificationGORMDAO(db *egorm.Component) NotificationDAO {
	return &gormNotificationDAO{db: db}
}

type gormNotificationDAO struct {
	db *egorm.Component
}

func (g *gormNotificationDAO) Create(ctx context.Context, n Notification) (int64, error) {
	now := time.Now().UnixMilli()
	n.Ctime, n.Utime = now, now
	err := g.db.WithContext(ctx).Create(&n).Error
	return n.Id, err
}

func (g *gormNotificationDAO) ListByRecipientID(ctx context.Context, recipientID int64, offset, limit int) ([]Notification, error) {
	var res []Notification
	err := g.db.WithContext(ctx).Where("recipient_id = ?", recipientID).
		Order("id DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (g *gormNotificationDAO) TotalByRecipientID(ctx context.Context, recipientID int64) (int64, error) {
	var res int64
	err := g.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ?", recipientID).Count(&res).Error
	return res, err
}

func (g *gormNotificationDAO) MarkRead(ctx context.Context, id, recipientID int64) error {
	res := g.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Updates(map[string]any{
			"read":  true,
			"utime": time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

type Notification struct {
	Id          int64  `gorm:"primaryKey;autoIncrement;comment:通知自增ID"`
	RecipientId int64  `gorm:"not null;index:idx_recipient_id,comment:收件人ID"`
	Biz         string `gorm:"type:varchar(32);not null;comment:来源业务"`
	BizSN       string `gorm:"type:varchar(255);not null;comment:来源单据序列号"`
	Title       string `gorm:"type:varchar(255);not null;comment:标题"`
	Body        string `gorm:"type:varchar(1024);not null;comment:正文"`
	Link        string `gorm:"type:varchar(512);not null;default:'';comment:跳转链接"`
	Read        bool   `gorm:"not null;default:false;comment:是否已读"`
	Ctime       int64
	Utime       int64
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Notification{})
}
