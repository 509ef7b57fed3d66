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

package service

import (
	"context"
	"errors"
	"time"

	"github.com/ecodeclub/ekit/retry"
	"github.com/gemveil/gemveil/internal/notification/internal/domain"
	"github.com/gemveil/gemveil/internal/notification/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

var ErrNotificationNotFound = errors.New("通知不存在")

const (
	initialRetryInterval = time.Second
	maxRetryInterval     = 10 * time.Second
	maxRetryTimes        = 3
)

// Sender 站外触达通道, 邮件/短信等实现挂在这里
type Sender interface {
	Send(ctx context.Context, n domain.Notification) error
}

type Service interface {
	// Send 先落库再外发, 外发带上限重试, 重试耗尽只记日志
	Send(ctx context.Context, n domain.Notification) (domain.Notification, error)
	List(ctx context.Context, recipientID int64, offset, limit int) ([]domain.Notification, int64, error)
	MarkRead(ctx context.Context, id, recipientID int64) error
}

func NewService(repo repository.NotificationRepository, sender Sender) Service {
	return &service{
		repo:   repo,
		sender: sender,
		logger: elog.DefaultLogger,
	}
}

type service struct {
	repo   repository.NotificationRepository
	sender Sender
	logger *elog.Component
}

func (s *service) Send(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return domain.Notification{}, err
	}
	s.dispatch(ctx, created)
	return created, nil
}

func (s *service) dispatch(ctx context.Context, n domain.Notification) {
	strategy, err := retry.NewExponentialBackoffRetryStrategy(initialRetryInterval, maxRetryInterval, maxRetryTimes)
	if err != nil {
		s.logger.Error("初始化重试策略失败", elog.FieldErr(err))
		return
	}
	for {
		err = s.sender.Send(ctx, n)
		if err == nil {
			return
		}
		d, ok := strategy.Next()
		if !ok {
			// 通知行已落库, 外发失败不向上传播
			s.logger.Warn("通知外发超过最大重试次数",
				elog.FieldErr(err),
				elog.Int64("notification_id", n.ID),
				elog.Int64("recipient_id", n.RecipientID))
			return
		}
		select {
		case <-ctx.Done():
			s.logger.Warn("通知外发被取消", elog.FieldErr(ctx.Err()),
				elog.Int64("notification_id", n.ID))
			return
		case <-time.After(d):
		}
	}
}

func (s *service) List(ctx context.Context, recipientID int64, offset, limit int) ([]domain.Notification, int64, error) {
	return s.repo.ListByRecipientID(ctx, recipientID, offset, limit)
}

func (s *service) MarkRead(ctx context.Context, id, recipientID int64) error {
	err := s.repo.MarkRead(ctx, id, recipientID)
	if errors.Is(err, repository.ErrNotificationNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
