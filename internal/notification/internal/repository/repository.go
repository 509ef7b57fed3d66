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

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/gemveil/gemveil/internal/notification/internal/domain"
	"github.com/gemveil/gemveil/internal/notification/internal/repository/dao"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var ErrNotificationNotFound = dao.ErrRecordNotFound

type NotificationRepository interface {
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)
	ListByRecipientID(ctx context.Context, recipientID int64, offset, limit int) ([]domain.Notification, int64, error)
	MarkRead(ctx context.Context, id, recipientID int64) error
}

func NewRepository(d dao.NotificationDAO) NotificationRepository {
	return &notificationRepository{d: d}
}

type notificationRepository struct {
	d dao.NotificationDAO
}

func (n *notificationRepository) Create(ctx context.Context, notification domain.Notification) (domain.Notification, error) {
	id, err := n.d.Create(ctx, n.toEntity(notification))
	if err != nil {
		return domain.Notification{}, errors.Wrap(err, "写入通知失败")
	}
	notification.ID = id
	return notification, nil
}

func (n *notificationRepository) ListByRecipientID(ctx context.Context, recipientID int64, offset, limit int) ([]domain.Notification, int64, error) {
	var (
		eg       errgroup.Group
		entities []dao.Notification
		total    int64
	)
	eg.Go(func() error {
		var err error
		entities, err = n.d.ListByRecipientID(ctx, recipientID, offset, limit)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = n.d.TotalByRecipientID(ctx, recipientID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}
	return slice.Map(entities, func(idx int, src dao.Notification) domain.Notification {
		return n.toDomain(src)
	}), total, nil
}

func (n *notificationRepository) MarkRead(ctx context.Context, id, recipientID int64) error {
	return n.d.MarkRead(ctx, id, recipientID)
}

func (n *notificationRepository) toEntity(src domain.Notification) dao.Notification {
	return dao.Notification{
		Id:          src.ID,
		RecipientId: src.RecipientID,
		Biz:         src.Biz,
		BizSN:       src.BizSN,
		Title:       src.Title,
		Body:        src.Body,
		Link:        src.Link,
		Read:        src.Read,
	}
}

func (n *notificationRepository) toDomain(src dao.Notification) domain.Notification {
	return domain.Notification{
		ID:          src.Id,
		RecipientID: src.RecipientId,
		Biz:         src.Biz,
		BizSN:       src.BizSN,
		Title:       src.Title,
		Body:        src.Body,
		Link:        src.Link,
		Read:        src.Read,
		Ctime:       src.Ctime,
		Utime:       src.Utime,
	}
}
