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
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/gemveil/gemveil/internal/disclosure"
	"github.com/gemveil/gemveil/internal/order"
	"github.com/gemveil/gemveil/internal/pkg/sequencenumber"
	"github.com/gemveil/gemveil/internal/settlement/internal/domain"
	"github.com/gemveil/gemveil/internal/settlement/internal/event"
	"github.com/gemveil/gemveil/internal/settlement/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRates = domain.Rates{CommissionRate: 1000, GatewayFeeRate: 200, TaxRate: 300}

type fakeRepository struct {
	mu          sync.Mutex
	settlements map[string]domain.Settlement
	nextID      int64
	// failSellers 指定哪些卖家的落库要失败
	failSellers map[int64]bool
	// beforeSettledOrderIDs 查询排除集前的回调, 用来模拟阻塞
	beforeSettledOrderIDs func()
	// afterCreate 每次落库成功后的回调
	afterCreate func()
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{settlements: make(map[string]domain.Settlement)}
}

func (f *fakeRepository) CreateSettlement(_ context.Context, st domain.Settlement) (domain.Settlement, error) {
	f.mu.Lock()
	if f.failSellers[st.SellerID] {
		f.mu.Unlock()
		return domain.Settlement{}, errors.New("落库失败")
	}
	f.nextID++
	st.ID = f.nextID
	f.settlements[st.SN] = st
	f.mu.Unlock()
	if f.afterCreate != nil {
		f.afterCreate()
	}
	return st, nil
}

func (f *fakeRepository) SettledOrderIDs(_ context.Context) (map[int64]struct{}, error) {
	if f.beforeSettledOrderIDs != nil {
		f.beforeSettledOrderIDs()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make(map[int64]struct{})
	for _, st := range f.settlements {
		for _, oid := range st.OrderIDs {
			res[oid] = struct{}{}
		}
	}
	return res, nil
}

func (f *fakeRepository) FindBySN(_ context.Context, sn string) (domain.Settlement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.settlements[sn]
	if !ok {
		return domain.Settlement{}, repository.ErrSettlementNotFound
	}
	return st, nil
}

func (f *fakeRepository) ListBySellerID(_ context.Context, sellerID int64, status domain.Status, _, _ int) ([]domain.Settlement, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []domain.Settlement
	for _, st := range f.settlements {
		if st.SellerID != sellerID {
			continue
		}
		if status > 0 && st.Status != status {
			continue
		}
		res = append(res, st)
	}
	return res, int64(len(res)), nil
}

func (f *fakeRepository) List(_ context.Context, _, _ int) ([]domain.Settlement, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make([]domain.Settlement, 0, len(f.settlements))
	for _, st := range f.settlements {
		res = append(res, st)
	}
	return res, int64(len(res)), nil
}

func (f *fakeRepository) MarkPaid(_ context.Context, id int64, ref, method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for sn, st := range f.settlements {
		if st.ID != id {
			continue
		}
		if st.Status != domain.StatusPending {
			return repository.ErrInvalidStatusChange
		}
		st.Status = domain.StatusCompleted
		st.PaymentRef = ref
		st.PaymentMethod = method
		st.PaidAt = time.Now().UnixMilli()
		f.settlements[sn] = st
		return nil
	}
	return repository.ErrSettlementNotFound
}

func (f *fakeRepository) bySeller(sellerID int64) []domain.Settlement {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []domain.Settlement
	for _, st := range f.settlements {
		if st.SellerID == sellerID {
			res = append(res, st)
		}
	}
	return res
}

// fakeOrderService 只实现结算用到的读取路径, 其余方法永不被调用
type fakeOrderService struct {
	order.Service
	orders []order.Order
}

func (f *fakeOrderService) ListDelivered(_ context.Context, offset, limit int) ([]order.Order, int64, error) {
	total := int64(len(f.orders))
	if offset >= len(f.orders) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(f.orders) {
		end = len(f.orders)
	}
	return f.orders[offset:end], total, nil
}

type fakeProducer struct {
	mu     sync.Mutex
	events []event.SettlementCreatedEvent
}

func (f *fakeProducer) Produce(_ context.Context, evt event.SettlementCreatedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return nil
}

func deliveredOrder(id, sellerID, total int64) order.Order {
	return order.Order{
		ID:       id,
		SN:       fmt.Sprintf("OR%03d", id),
		BuyerID:  1,
		SellerID: sellerID,
		Currency: "CNY",
		Total:    total,
		Status:   order.StatusDelivered,
	}
}

func newTestService(repo repository.SettlementRepository, orders ...order.Order) Service {
	return NewService(repo,
		&fakeOrderService{orders: orders},
		&fakeProducer{},
		sequencenumber.NewGenerator(),
		testRates)
}

func sellerActor(id int64) order.Actor {
	return order.Actor{ID: id, Role: disclosure.RoleSeller}
}

func adminActor() order.Actor {
	return order.Actor{ID: 1, Role: disclosure.RoleAdmin}
}

func TestService_Settle(t *testing.T) {
	t.Parallel()
	repo := newFakeRepository()
	svc := newTestService(repo,
		deliveredOrder(1, 200, 60000),
		deliveredOrder(2, 200, 40000),
		deliveredOrder(3, 300, 12345),
	)

	report, err := svc.Settle(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Created, 2)
	assert.Empty(t, report.Failed)
	assert.Zero(t, report.SkippedOrders)
	// 起止时间要回传给调用方, 管理端和定时任务都依赖它算耗时
	assert.Positive(t, report.StartedAt)
	assert.GreaterOrEqual(t, report.FinishedAt, report.StartedAt)

	// 卖家200: 毛额 100000, 佣金10% 通道费2% 税3%
	sts := repo.bySeller(200)
	require.Len(t, sts, 1)
	st := sts[0]
	assert.Equal(t, domain.Breakdown{
		Gross:       100000,
		Commission:  10000,
		GatewayFees: 2000,
		Taxes:       3000,
		Net:         85000,
	}, st.Breakdown)
	assert.ElementsMatch(t, []int64{1, 2}, st.OrderIDs)
	assert.Equal(t, domain.StatusPending, st.Status)
	assert.Equal(t, "CNY", st.Currency)
	assert.NotEmpty(t, st.SN)

	sts = repo.bySeller(300)
	require.Len(t, sts, 1)
	assert.Equal(t, []int64{3}, sts[0].OrderIDs)
	assert.Equal(t, int64(12345), sts[0].Breakdown.Gross)
}

func TestService_SettleIsIdempotent(t *testing.T) {
	t.Parallel()
	repo := newFakeRepository()
	svc := newTestService(repo,
		deliveredOrder(1, 200, 60000),
		deliveredOrder(2, 300, 40000),
	)

	report, err := svc.Settle(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Created, 2)

	// 第二次执行: 所有订单已被覆盖, 不产生新结算单
	report, err = svc.Settle(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Created)
	assert.Empty(t, report.Failed)
	assert.Equal(t, int64(2), report.SkippedOrders)
}

func TestService_SettleIsolatesSellerFailure(t *testing.T) {
	t.Parallel()
	repo := newFakeRepository()
	repo.failSellers = map[int64]bool{200: true}
	svc := newTestService(repo,
		deliveredOrder(1, 200, 60000),
		deliveredOrder(2, 300, 40000),
	)

	report, err := svc.Settle(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Created, 1)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, int64(200), report.Failed[0].SellerID)
	assert.Empty(t, repo.bySeller(200))
	assert.Len(t, repo.bySeller(300), 1)

	// 失败卖家的订单没有被覆盖, 下一次执行补上
	repo.failSellers = nil
	report, err = svc.Settle(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Created, 1)
	assert.Len(t, repo.bySeller(200), 1)
}

func TestService_SettleStopsBetweenSellersOnTimeout(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo := newFakeRepository()
	// 第一个卖家落库后超时, 执行在卖家之间停下
	repo.afterCreate = cancel
	svc := newTestService(repo,
		deliveredOrder(1, 200, 60000),
		deliveredOrder(2, 300, 40000),
	)

	report, err := svc.Settle(ctx)
	require.NoError(t, err)
	assert.Len(t, report.Created, 1)
	assert.Empty(t, report.Failed)
}

func TestService_SettleRejectsConcurrentRun(t *testing.T) {
	t.Parallel()
	repo := newFakeRepository()
	started := make(chan struct{})
	release := make(chan struct{})
	var blockOnce sync.Once
	repo.beforeSettledOrderIDs = func() {
		blockOnce.Do(func() {
			close(started)
			<-release
		})
	}
	svc := newTestService(repo, deliveredOrder(1, 200, 60000))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := svc.Settle(context.Background())
		assert.NoError(t, err)
	}()
	<-started
	_, err := svc.Settle(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)
	close(release)
	<-done
}

func TestService_MarkPaid(t *testing.T) {
	t.Parallel()
	repo := newFakeRepository()
	svc := newTestService(repo, deliveredOrder(1, 200, 60000))
	report, err := svc.Settle(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Created, 1)
	sn := report.Created[0]

	t.Run("卖家无权打款", func(t *testing.T) {
		err := svc.MarkPaid(context.Background(), sellerActor(200), sn, "PAY001", "bank_transfer")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("凭证不能为空", func(t *testing.T) {
		err := svc.MarkPaid(context.Background(), adminActor(), sn, "", "bank_transfer")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("待打款到已打款", func(t *testing.T) {
		err := svc.MarkPaid(context.Background(), adminActor(), sn, "PAY001", "bank_transfer")
		require.NoError(t, err)
		st, err := svc.GetSettlement(context.Background(), adminActor(), sn)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, st.Status)
		assert.Equal(t, "PAY001", st.PaymentRef)
	})

	t.Run("重复打款被拒", func(t *testing.T) {
		err := svc.MarkPaid(context.Background(), adminActor(), sn, "PAY002", "bank_transfer")
		assert.ErrorIs(t, err, ErrInvalidStatusChange)
	})

	t.Run("不存在的结算单", func(t *testing.T) {
		err := svc.MarkPaid(context.Background(), adminActor(), "NOPE", "PAY001", "bank_transfer")
		assert.ErrorIs(t, err, ErrSettlementNotFound)
	})
}

func TestService_Reads(t *testing.T) {
	t.Parallel()
	repo := newFakeRepository()
	svc := newTestService(repo,
		deliveredOrder(1, 200, 60000),
		deliveredOrder(2, 300, 40000),
	)
	report, err := svc.Settle(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Created, 2)

	var sn200 string
	for _, sn := range report.Created {
		st, err := svc.GetSettlement(context.Background(), adminActor(), sn)
		require.NoError(t, err)
		if st.SellerID == 200 {
			sn200 = sn
		}
	}
	require.NotEmpty(t, sn200)

	t.Run("别家的结算单按不存在处理", func(t *testing.T) {
		_, err := svc.GetSettlement(context.Background(), sellerActor(300), sn200)
		assert.ErrorIs(t, err, ErrSettlementNotFound)
	})

	t.Run("金额构成读的是存储值", func(t *testing.T) {
		b, err := svc.GetBreakdown(context.Background(), sellerActor(200), sn200)
		require.NoError(t, err)
		assert.Equal(t, b.Gross, b.Commission+b.GatewayFees+b.Taxes+b.Net)
		assert.Equal(t, int64(60000), b.Gross)
	})

	t.Run("卖家只能查自己的列表", func(t *testing.T) {
		_, _, err := svc.GetSettlements(context.Background(), sellerActor(200), 300, 0, 0, 10)
		assert.ErrorIs(t, err, ErrUnauthorized)
		sts, total, err := svc.GetSettlements(context.Background(), sellerActor(200), 200, 0, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, sts, 1)
	})

	t.Run("全量列表只对管理类角色开放", func(t *testing.T) {
		_, _, err := svc.ListAll(context.Background(), sellerActor(200), 0, 10)
		assert.ErrorIs(t, err, ErrUnauthorized)
		_, total, err := svc.ListAll(context.Background(), adminActor(), 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})
}

func TestService_GetPendingAmount(t *testing.T) {
	t.Parallel()
	repo := newFakeRepository()
	svc := newTestService(repo,
		deliveredOrder(1, 200, 60000),
		deliveredOrder(2, 200, 40000),
		deliveredOrder(3, 300, 12345),
	)

	net, err := svc.GetPendingAmount(context.Background(), sellerActor(200), 200)
	require.NoError(t, err)
	// 毛额 100000 扣 10%+2%+3%
	assert.Equal(t, int64(85000), net)

	_, err = svc.GetPendingAmount(context.Background(), sellerActor(200), 300)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// 结算后估算归零
	_, err = svc.Settle(context.Background())
	require.NoError(t, err)
	net, err = svc.GetPendingAmount(context.Background(), sellerActor(200), 200)
	require.NoError(t, err)
	assert.Zero(t, net)
}
