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
	"time"

	"github.com/gemveil/gemveil/internal/disclosure"
	"github.com/gemveil/gemveil/internal/order/internal/domain"
	"github.com/gemveil/gemveil/internal/order/internal/event"
	"github.com/gemveil/gemveil/internal/order/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	mu     sync.Mutex
	orders map[string]domain.Order
	// concurrentOnce 模拟一次并发流转竞争失败
	concurrentOnce bool
}

func newFakeRepository(orders ...domain.Order) *fakeRepository {
	f := &fakeRepository{orders: make(map[string]domain.Order, len(orders))}
	for _, o := range orders {
		f.orders[o.SN] = o
	}
	return f
}

func (f *fakeRepository) CreateOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order.ID = int64(len(f.orders) + 1)
	f.orders[order.SN] = order
	return order, nil
}

func (f *fakeRepository) UpdateStatus(_ context.Context, orderID int64, change domain.StatusChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.concurrentOnce {
		f.concurrentOnce = false
		return repository.ErrConcurrentStatusChange
	}
	for sn, o := range f.orders {
		if o.ID != orderID {
			continue
		}
		if o.Status != change.From {
			return repository.ErrConcurrentStatusChange
		}
		o.Status = change.To
		o.History = append(o.History, change)
		f.orders[sn] = o
		return nil
	}
	return repository.ErrOrderNotFound
}

func (f *fakeRepository) FindOrderBySN(_ context.Context, sn string) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[sn]
	if !ok {
		return domain.Order{}, repository.ErrOrderNotFound
	}
	return o, nil
}

func (f *fakeRepository) ListOrdersByBuyerID(_ context.Context, _, _ int, buyerID int64) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []domain.Order
	for _, o := range f.orders {
		if o.BuyerID == buyerID {
			res = append(res, o)
		}
	}
	return res, nil
}

func (f *fakeRepository) TotalOrdersByBuyerID(ctx context.Context, buyerID int64) (int64, error) {
	os, _ := f.ListOrdersByBuyerID(ctx, 0, 0, buyerID)
	return int64(len(os)), nil
}

func (f *fakeRepository) ListOrdersBySellerID(_ context.Context, _, _ int, sellerID int64) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []domain.Order
	for _, o := range f.orders {
		if o.SellerID == sellerID {
			res = append(res, o)
		}
	}
	return res, nil
}

func (f *fakeRepository) TotalOrdersBySellerID(ctx context.Context, sellerID int64) (int64, error) {
	os, _ := f.ListOrdersBySellerID(ctx, 0, 0, sellerID)
	return int64(len(os)), nil
}

func (f *fakeRepository) ListOrdersByStatus(_ context.Context, status domain.Status, _, _ int) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []domain.Order
	for _, o := range f.orders {
		if o.Status == status {
			res = append(res, o)
		}
	}
	return res, nil
}

func (f *fakeRepository) TotalOrdersByStatus(ctx context.Context, status domain.Status) (int64, error) {
	os, _ := f.ListOrdersByStatus(ctx, status, 0, 0)
	return int64(len(os)), nil
}

func (f *fakeRepository) ListExpiredOrders(_ context.Context, status domain.Status, ctime int64, _, _ int) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []domain.Order
	for _, o := range f.orders {
		if o.Status == status && o.Ctime < ctime {
			res = append(res, o)
		}
	}
	return res, nil
}

func (f *fakeRepository) ListOrders(_ context.Context, _, _ int) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make([]domain.Order, 0, len(f.orders))
	for _, o := range f.orders {
		res = append(res, o)
	}
	return res, nil
}

func (f *fakeRepository) TotalOrders(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.orders)), nil
}

func (f *fakeRepository) status(sn string) domain.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[sn].Status
}

type fakeProducer struct {
	events chan event.OrderStatusEvent
	err    error
}

func newFakeProducer() *fakeProducer {
	return &fakeProducer{events: make(chan event.OrderStatusEvent, 10)}
}

func (f *fakeProducer) Produce(_ context.Context, evt event.OrderStatusEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events <- evt
	return nil
}

func (f *fakeProducer) waitEvent(t *testing.T) event.OrderStatusEvent {
	t.Helper()
	select {
	case evt := <-f.events:
		return evt
	case <-time.After(time.Second):
		t.Fatal("等待事件超时")
		return event.OrderStatusEvent{}
	}
}

func (f *fakeProducer) assertNoEvent(t *testing.T) {
	t.Helper()
	select {
	case evt := <-f.events:
		t.Fatalf("不该有事件: %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

const (
	testBuyerID  = int64(100)
	testSellerID = int64(200)
)

func testOrder(sn string, status domain.Status) domain.Order {
	return domain.Order{
		ID:       1,
		SN:       sn,
		BuyerID:  testBuyerID,
		SellerID: testSellerID,
		Currency: "CNY",
		Country:  "CN",
		Subtotal: 99900,
		Total:    99900,
		Status:   status,
		Items: []domain.OrderItem{
			{
				ProductSN: "PGOLD001",
				Name:      "足金吊坠",
				Quantity:  1,
				UnitPrice: 99900,
				Weight:    3500,
				Purity:    "AU999",
				Seller: disclosure.SellerIdentity{
					ID:           testSellerID,
					ShopName:     "金玉堂",
					ContactName:  "张三",
					ContactEmail: "zhangsan@example.com",
					ContactPhone: "13800000000",
					Address:      "深圳市水贝",
					Certified:    true,
				},
				Internal: domain.InternalAttrs{
					Note:           "供应商直发",
					SupplierCost:   80000,
					CommissionRate: 1000,
				},
			},
		},
	}
}

func newTestService(repo repository.OrderRepository, producer event.OrderStatusEventProducer) Service {
	return NewService(repo, disclosure.NewEngine(), producer)
}

func buyer() domain.Actor {
	return domain.Actor{ID: testBuyerID, Role: disclosure.RoleBuyer, Country: "CN"}
}

func seller() domain.Actor {
	return domain.Actor{ID: testSellerID, Role: disclosure.RoleSeller, Country: "CN"}
}

func admin() domain.Actor {
	return domain.Actor{ID: 1, Role: disclosure.RoleAdmin, Country: "CN"}
}

func TestService_CreateOrder(t *testing.T) {
	t.Parallel()
	repo := newFakeRepository()
	svc := newTestService(repo, newFakeProducer())

	t.Run("创建后落在待支付", func(t *testing.T) {
		o, err := svc.CreateOrder(context.Background(), testOrder("OR001", 0))
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, o.Status)
		assert.NotZero(t, o.ID)
	})

	t.Run("金额对不上拒绝创建", func(t *testing.T) {
		o := testOrder("OR002", 0)
		o.Total = o.Subtotal + 1
		_, err := svc.CreateOrder(context.Background(), o)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("空明细拒绝创建", func(t *testing.T) {
		o := testOrder("OR003", 0)
		o.Items = nil
		_, err := svc.CreateOrder(context.Background(), o)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_Transitions(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		before  domain.Status
		actor   domain.Actor
		op      func(svc Service, actor domain.Actor) error
		after   domain.Status
		wantErr error
	}{
		{
			name:   "管理端确认支付",
			before: domain.StatusPending,
			actor:  admin(),
			op: func(svc Service, actor domain.Actor) error {
				return svc.Confirm(context.Background(), actor, "OR100")
			},
			after: domain.StatusConfirmed,
		},
		{
			name:   "买家无权确认支付",
			before: domain.StatusPending,
			actor:  buyer(),
			op: func(svc Service, actor domain.Actor) error {
				return svc.Confirm(context.Background(), actor, "OR100")
			},
			after:   domain.StatusPending,
			wantErr: ErrUnauthorized,
		},
		{
			name:   "卖家接单",
			before: domain.StatusConfirmed,
			actor:  seller(),
			op: func(svc Service, actor domain.Actor) error {
				return svc.MarkProcessing(context.Background(), actor, "OR100")
			},
			after: domain.StatusProcessing,
		},
		{
			name:   "卖家发货",
			before: domain.StatusProcessing,
			actor:  seller(),
			op: func(svc Service, actor domain.Actor) error {
				return svc.MarkShipped(context.Background(), actor, "OR100")
			},
			after: domain.StatusShipped,
		},
		{
			name:   "未发货不能签收",
			before: domain.StatusProcessing,
			actor:  seller(),
			op: func(svc Service, actor domain.Actor) error {
				return svc.MarkDelivered(context.Background(), actor, "OR100")
			},
			after:   domain.StatusProcessing,
			wantErr: ErrInvalidTransition,
		},
		{
			name:   "签收",
			before: domain.StatusShipped,
			actor:  seller(),
			op: func(svc Service, actor domain.Actor) error {
				return svc.MarkDelivered(context.Background(), actor, "OR100")
			},
			after: domain.StatusDelivered,
		},
		{
			name:   "买家取消待支付订单",
			before: domain.StatusPending,
			actor:  buyer(),
			op: func(svc Service, actor domain.Actor) error {
				return svc.Cancel(context.Background(), actor, "OR100", "不想要了")
			},
			after: domain.StatusCancelled,
		},
		{
			name:   "买家不能直接取消已支付订单",
			before: domain.StatusConfirmed,
			actor:  buyer(),
			op: func(svc Service, actor domain.Actor) error {
				return svc.Cancel(context.Background(), actor, "OR100", "不想要了")
			},
			after:   domain.StatusConfirmed,
			wantErr: ErrInvalidTransition,
		},
		{
			name:   "买家申请取消已支付订单",
			before: domain.StatusConfirmed,
			actor:  buyer(),
			op: func(svc Service, actor domain.Actor) error {
				return svc.RequestCancellation(context.Background(), actor, "OR100", "买错了")
			},
			after: domain.StatusCancellationRequested,
		},
		{
			name:   "卖家驳回取消申请回到处理中",
			before: domain.StatusCancellationRequested,
			actor:  seller(),
			op: func(svc Service, actor domain.Actor) error {
				return svc.RejectCancellation(context.Background(), actor, "OR100", "已备货")
			},
			after: domain.StatusProcessing,
		},
		{
			name:   "签收后申请退货",
			before: domain.StatusDelivered,
			actor:  buyer(),
			op: func(svc Service, actor domain.Actor) error {
				return svc.RequestReturn(context.Background(), actor, "OR100", "有瑕疵")
			},
			after: domain.StatusReturnRequested,
		},
		{
			name:   "卖家驳回退货申请回到已签收",
			before: domain.StatusReturnRequested,
			actor:  seller(),
			op: func(svc Service, actor domain.Actor) error {
				return svc.RejectReturn(context.Background(), actor, "OR100", "人为损坏")
			},
			after: domain.StatusDelivered,
		},
		{
			name:   "管理端退款",
			before: domain.StatusReturnRequested,
			actor:  admin(),
			op: func(svc Service, actor domain.Actor) error {
				return svc.Refund(context.Background(), actor, "OR100", "同意退货")
			},
			after: domain.StatusRefunded,
		},
		{
			name:   "退款是终态",
			before: domain.StatusRefunded,
			actor:  admin(),
			op: func(svc Service, actor domain.Actor) error {
				return svc.Refund(context.Background(), actor, "OR100", "")
			},
			after:   domain.StatusRefunded,
			wantErr: ErrInvalidTransition,
		},
		{
			name:   "别人的订单按不存在处理",
			before: domain.StatusConfirmed,
			actor:  domain.Actor{ID: 999, Role: disclosure.RoleBuyer},
			op: func(svc Service, actor domain.Actor) error {
				return svc.RequestCancellation(context.Background(), actor, "OR100", "")
			},
			after:   domain.StatusConfirmed,
			wantErr: ErrOrderNotFound,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			repo := newFakeRepository(testOrder("OR100", tc.before))
			svc := newTestService(repo, newFakeProducer())
			err := tc.op(svc, tc.actor)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.after, repo.status("OR100"))
		})
	}
}

func TestService_TransitionAppendsHistory(t *testing.T) {
	t.Parallel()
	repo := newFakeRepository(testOrder("OR200", domain.StatusPending))
	svc := newTestService(repo, newFakeProducer())

	require.NoError(t, svc.Confirm(context.Background(), admin(), "OR200"))
	o, err := repo.FindOrderBySN(context.Background(), "OR200")
	require.NoError(t, err)
	require.Len(t, o.History, 1)
	assert.Equal(t, domain.StatusPending, o.History[0].From)
	assert.Equal(t, domain.StatusConfirmed, o.History[0].To)
	assert.Equal(t, string(disclosure.RoleAdmin), o.History[0].ActorRole)
}

func TestService_ConcurrentTransitionLosesAsInvalid(t *testing.T) {
	t.Parallel()
	repo := newFakeRepository(testOrder("OR300", domain.StatusConfirmed))
	repo.concurrentOnce = true
	svc := newTestService(repo, newFakeProducer())

	err := svc.MarkProcessing(context.Background(), seller(), "OR300")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	// 再来一次就能成功
	err = svc.MarkProcessing(context.Background(), seller(), "OR300")
	assert.NoError(t, err)
}

func TestService_NotifyOnMilestones(t *testing.T) {
	t.Parallel()
	repo := newFakeRepository(testOrder("OR400", domain.StatusPending))
	producer := newFakeProducer()
	svc := newTestService(repo, producer)

	require.NoError(t, svc.Confirm(context.Background(), admin(), "OR400"))
	evt := producer.waitEvent(t)
	assert.Equal(t, "OR400", evt.OrderSN)
	assert.Equal(t, domain.StatusConfirmed.ToUint8(), evt.ToStatus)

	// 接单不是通知节点
	require.NoError(t, svc.MarkProcessing(context.Background(), seller(), "OR400"))
	producer.assertNoEvent(t)

	require.NoError(t, svc.MarkShipped(context.Background(), seller(), "OR400"))
	assert.Equal(t, domain.StatusShipped.ToUint8(), producer.waitEvent(t).ToStatus)

	require.NoError(t, svc.MarkDelivered(context.Background(), seller(), "OR400"))
	assert.Equal(t, domain.StatusDelivered.ToUint8(), producer.waitEvent(t).ToStatus)
}

func TestService_NotifyFailureDoesNotFailTransition(t *testing.T) {
	t.Parallel()
	repo := newFakeRepository(testOrder("OR500", domain.StatusPending))
	producer := newFakeProducer()
	producer.err = errors.New("mq 不可用")
	svc := newTestService(repo, producer)

	err := svc.Confirm(context.Background(), admin(), "OR500")
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, repo.status("OR500"))
}

func TestService_Get(t *testing.T) {
	t.Parallel()

	t.Run("外人查订单按不存在处理", func(t *testing.T) {
		t.Parallel()
		repo := newFakeRepository(testOrder("OR600", domain.StatusConfirmed))
		svc := newTestService(repo, newFakeProducer())
		_, err := svc.Get(context.Background(), domain.Actor{ID: 999, Role: disclosure.RoleBuyer}, "OR600")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("待支付订单买家只见部分卖家身份", func(t *testing.T) {
		t.Parallel()
		repo := newFakeRepository(testOrder("OR601", domain.StatusPending))
		svc := newTestService(repo, newFakeProducer())
		o, err := svc.Get(context.Background(), buyer(), "OR601")
		require.NoError(t, err)
		s := o.Items[0].Seller
		assert.Equal(t, "金玉堂", s.ShopName)
		assert.True(t, s.Certified)
		assert.Empty(t, s.ContactName)
		assert.Empty(t, s.ContactEmail)
		assert.Empty(t, s.ContactPhone)
		assert.Empty(t, s.Address)
	})

	t.Run("已支付订单买家可见完整卖家身份", func(t *testing.T) {
		t.Parallel()
		repo := newFakeRepository(testOrder("OR602", domain.StatusConfirmed))
		svc := newTestService(repo, newFakeProducer())
		o, err := svc.Get(context.Background(), buyer(), "OR602")
		require.NoError(t, err)
		assert.Equal(t, "张三", o.Items[0].Seller.ContactName)
		assert.Equal(t, "深圳市水贝", o.Items[0].Seller.Address)
	})

	t.Run("内部字段任何级别都不外泄", func(t *testing.T) {
		t.Parallel()
		repo := newFakeRepository(testOrder("OR603", domain.StatusConfirmed))
		svc := newTestService(repo, newFakeProducer())
		for _, actor := range []domain.Actor{buyer(), seller(), admin()} {
			o, err := svc.Get(context.Background(), actor, "OR603")
			require.NoError(t, err)
			assert.Zero(t, o.Items[0].Internal)
		}
	})

	t.Run("披露不改写存储数据", func(t *testing.T) {
		t.Parallel()
		repo := newFakeRepository(testOrder("OR604", domain.StatusPending))
		svc := newTestService(repo, newFakeProducer())
		_, err := svc.Get(context.Background(), buyer(), "OR604")
		require.NoError(t, err)
		stored, err := repo.FindOrderBySN(context.Background(), "OR604")
		require.NoError(t, err)
		assert.Equal(t, "张三", stored.Items[0].Seller.ContactName)
		assert.Equal(t, int64(80000), stored.Items[0].Internal.SupplierCost)
	})
}

func TestService_Lists(t *testing.T) {
	t.Parallel()
	o1 := testOrder("OR700", domain.StatusDelivered)
	o2 := testOrder("OR701", domain.StatusConfirmed)
	o2.ID = 2
	o3 := testOrder("OR702", domain.StatusDelivered)
	o3.ID = 3
	o3.BuyerID = 999
	repo := newFakeRepository(o1, o2, o3)
	svc := newTestService(repo, newFakeProducer())

	t.Run("买家列表只含自己的订单", func(t *testing.T) {
		os, total, err := svc.ListByBuyer(context.Background(), testBuyerID, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, os, 2)
	})

	t.Run("卖家只能看自己店铺", func(t *testing.T) {
		_, _, err := svc.ListBySeller(context.Background(), seller(), testSellerID+1, 0, 10)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("全量列表只对管理类角色开放", func(t *testing.T) {
		_, _, err := svc.ListAll(context.Background(), buyer(), 0, 10)
		assert.ErrorIs(t, err, ErrUnauthorized)
		os, total, err := svc.ListAll(context.Background(), admin(), 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, os, 3)
	})

	t.Run("按已签收筛选", func(t *testing.T) {
		os, total, err := svc.ListDelivered(context.Background(), 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, os, 2)
	})
}
