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
	"sync"
	"testing"

	"github.com/gemveil/gemveil/internal/notification/internal/domain"
	"github.com/gemveil/gemveil/internal/notification/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func (f *fakeRepository) Create(_ context.Context, n domain.Notification) (domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = int64(len(f.notifications) + 1)
	f.notifications = append(f.notifications, n)
	return n, nil
}

func (f *fakeRepository) ListByRecipientID(_ context.Context, recipientID int64, _, _ int) ([]domain.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []domain.Notification
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			res = append(res, n)
		}
	}
	return res, int64(len(res)), nil
}

func (f *fakeRepository) MarkRead(_ context.Context, id, recipientID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			f.notifications[i].Read = true
			return nil
		}
	}
	return repository.ErrNotificationNotFound
}

type fakeSender struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (f *fakeSender) Send(_ context.Context, n domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, n)
	return nil
}

func TestService_Send(t *testing.T) {
	t.Parallel()
	repo := &fakeRepository{}
	sender := &fakeSender{}
	svc := NewService(repo, sender)

	n, err := svc.Send(context.Background(), domain.Notification{
		RecipientID: 100,
		Biz:         domain.BizOrder,
		BizSN:       "OR001",
		Title:       "订单已发货",
	})
	require.NoError(t, err)
	assert.NotZero(t, n.ID)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "OR001", sender.sent[0].BizSN)
}

func TestService_SendSurvivesSenderFailure(t *testing.T) {
	t.Parallel()
	repo := &fakeRepository{}
	sender := &fakeSender{err: errors.New("通道不可用")}
	svc := NewService(repo, sender)

	// 取消的上下文让重试立即放弃, 通知行仍然落库
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := svc.Send(ctx, domain.Notification{
		RecipientID: 100,
		Biz:         domain.BizSettlement,
		BizSN:       "ST001",
		Title:       "结算单已生成",
	})
	require.NoError(t, err)
	assert.NotZero(t, n.ID)

	notifications, total, err := svc.List(context.Background(), 100, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, notifications, 1)
}

func TestService_MarkRead(t *testing.T) {
	t.Parallel()
	repo := &fakeRepository{}
	svc := NewService(repo, &fakeSender{})
	n, err := svc.Send(context.Background(), domain.Notification{RecipientID: 100, Biz: domain.BizOrder, BizSN: "OR001"})
	require.NoError(t, err)

	// 别人标不了
	err = svc.MarkRead(context.Background(), n.ID, 999)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	require.NoError(t, svc.MarkRead(context.Background(), n.ID, 100))
	notifications, _, err := svc.List(context.Background(), 100, 0, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.True(t, notifications[0].Read)
}
