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
	"sort"
	"sync"
	"time"

	"github.com/gemveil/gemveil/internal/disclosure"
	"github.com/gemveil/gemveil/internal/order"
	"github.com/gemveil/gemveil/internal/pkg/sequencenumber"
	"github.com/gemveil/gemveil/internal/settlement/internal/domain"
	"github.com/gemveil/gemveil/internal/settlement/internal/event"
	"github.com/gemveil/gemveil/internal/settlement/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

var (
	ErrSettlementNotFound  = errors.New("结算单不存在")
	ErrInvalidStatusChange = errors.New("结算单状态不允许该操作")
	ErrUnauthorized        = errors.New("无权操作")
	ErrInvalidInput        = errors.New("参数非法")
	ErrRunInProgress       = errors.New("结算任务执行中")
)

// settlementPeriod 批次标记的结算窗口长度
const settlementPeriod = 7 * 24 * time.Hour

// batchSize 每次从订单模块拉取的已签收订单数
const batchSize = 100

type Service interface {
	// Settle 批量结算: 把所有未被结算过的已签收订单按卖家归并成结算单
	// 同一进程内同一时刻只允许一次执行, 重入返回 ErrRunInProgress
	Settle(ctx context.Context) (domain.RunReport, error)
	GetSettlements(ctx context.Context, actor order.Actor, sellerID int64, status domain.Status, offset, limit int) ([]domain.Settlement, int64, error)
	GetSettlement(ctx context.Context, actor order.Actor, sn string) (domain.Settlement, error)
	// GetBreakdown 只读存储值, 永不重算
	GetBreakdown(ctx context.Context, actor order.Actor, sn string) (domain.Breakdown, error)
	// GetPendingAmount 当前可结算订单的净额估计, 下次批量结算前随时可能变化
	GetPendingAmount(ctx context.Context, actor order.Actor, sellerID int64) (int64, error)
	MarkPaid(ctx context.Context, actor order.Actor, sn string, ref, method string) error
	ListAll(ctx context.Context, actor order.Actor, offset, limit int) ([]domain.Settlement, int64, error)
}

func NewService(repo repository.SettlementRepository,
	orderSvc order.Service,
	producer event.SettlementCreatedEventProducer,
	snGenerator *sequencenumber.Generator,
	rates domain.Rates) Service {
	return &service{
		repo:        repo,
		orderSvc:    orderSvc,
		producer:    producer,
		snGenerator: snGenerator,
		rates:       rates,
		logger:      elog.DefaultLogger,
	}
}

type service struct {
	repo        repository.SettlementRepository
	orderSvc    order.Service
	producer    event.SettlementCreatedEventProducer
	snGenerator *sequencenumber.Generator
	rates       domain.Rates
	logger      *elog.Component

	// runMu 进程内单写者保证, 跨进程的抢占协议有意不做
	runMu sync.Mutex
}

func (s *service) Settle(ctx context.Context) (report domain.RunReport, err error) {
	if !s.runMu.TryLock() {
		return domain.RunReport{}, ErrRunInProgress
	}
	defer s.runMu.Unlock()

	report.StartedAt = time.Now().UnixMilli()
	// 具名返回值, 提前返回时 FinishedAt 也会被回填
	defer func() {
		report.FinishedAt = time.Now().UnixMilli()
	}()

	// 排除集每次执行都从存储重建, 覆盖所有状态的结算单
	excluded, err := s.repo.SettledOrderIDs(ctx)
	if err != nil {
		return report, err
	}
	eligible, skipped, err := s.eligibleOrders(ctx, excluded)
	if err != nil {
		return report, err
	}
	report.SkippedOrders = skipped

	groups := groupBySeller(eligible)
	periodEnd := report.StartedAt
	periodStart := periodEnd - settlementPeriod.Milliseconds()
	for _, g := range groups {
		// 超时只在卖家之间停下, 绝不打断单个卖家的写入
		if ctx.Err() != nil {
			s.logger.Warn("结算超时, 剩余卖家留给下一批",
				elog.FieldErr(ctx.Err()),
				elog.Int("created", len(report.Created)))
			break
		}
		st, err := s.settleSeller(ctx, g, periodStart, periodEnd)
		if err != nil {
			// 单个卖家失败只记录, 不影响其他卖家
			s.logger.Error("卖家结算失败",
				elog.FieldErr(err),
				elog.Int64("seller_id", g.sellerID))
			report.Failed = append(report.Failed, domain.FailedSeller{
				SellerID: g.sellerID,
				Reason:   err.Error(),
			})
			continue
		}
		report.Created = append(report.Created, st.SN)
		s.notifyAsync(st)
	}
	return report, nil
}

type sellerGroup struct {
	sellerID int64
	currency string
	orderIDs []int64
	gross    int64
}

func (s *service) eligibleOrders(ctx context.Context, excluded map[int64]struct{}) ([]order.Order, int64, error) {
	var (
		eligible []order.Order
		skipped  int64
	)
	for offset := 0; ; offset += batchSize {
		orders, total, err := s.orderSvc.ListDelivered(ctx, offset, batchSize)
		if err != nil {
			return nil, 0, err
		}
		for _, o := range orders {
			if _, ok := excluded[o.ID]; ok {
				skipped++
				continue
			}
			eligible = append(eligible, o)
		}
		if len(orders) < batchSize || int64(offset+batchSize) >= total {
			return eligible, skipped, nil
		}
	}
}

func groupBySeller(orders []order.Order) []sellerGroup {
	index := make(map[int64]int)
	var groups []sellerGroup
	for _, o := range orders {
		i, ok := index[o.SellerID]
		if !ok {
			i = len(groups)
			index[o.SellerID] = i
			groups = append(groups, sellerGroup{sellerID: o.SellerID, currency: o.Currency})
		}
		groups[i].orderIDs = append(groups[i].orderIDs, o.ID)
		groups[i].gross += o.Total
	}
	// 固定处理顺序, 超时截断时结果可复现
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].sellerID < groups[j].sellerID
	})
	return groups
}

func (s *service) settleSeller(ctx context.Context, g sellerGroup, periodStart, periodEnd int64) (domain.Settlement, error) {
	sn, err := s.snGenerator.Generate(g.sellerID)
	if err != nil {
		return domain.Settlement{}, err
	}
	st := domain.Settlement{
		SN:          sn,
		SellerID:    g.sellerID,
		Currency:    g.currency,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Breakdown:   domain.ComputeBreakdown(g.gross, s.rates),
		OrderIDs:    g.orderIDs,
		Status:      domain.StatusPending,
	}
	return s.repo.CreateSettlement(ctx, st)
}

// notifyAsync 结算单落库后通知卖家, 尽力而为
func (s *service) notifyAsync(st domain.Settlement) {
	evt := event.SettlementCreatedEvent{
		SettlementSN: st.SN,
		SellerID:     st.SellerID,
		Currency:     st.Currency,
		Net:          st.Breakdown.Net,
		OrderCount:   int64(len(st.OrderIDs)),
		PeriodStart:  st.PeriodStart,
		PeriodEnd:    st.PeriodEnd,
		OccurredAt:   time.Now().UnixMilli(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.producer.Produce(ctx, evt); err != nil {
			s.logger.Warn("发送结算创建事件失败",
				elog.FieldErr(err),
				elog.String("settlement_sn", evt.SettlementSN))
		}
	}()
}

func (s *service) GetSettlements(ctx context.Context, actor order.Actor, sellerID int64, status domain.Status, offset, limit int) ([]domain.Settlement, int64, error) {
	if err := s.requireSellerOrAdministrative(actor, sellerID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListBySellerID(ctx, sellerID, status, offset, limit)
}

func (s *service) GetSettlement(ctx context.Context, actor order.Actor, sn string) (domain.Settlement, error) {
	st, err := s.repo.FindBySN(ctx, sn)
	if err != nil {
		if errors.Is(err, repository.ErrSettlementNotFound) {
			return domain.Settlement{}, ErrSettlementNotFound
		}
		return domain.Settlement{}, err
	}
	// 归属不符按不存在处理
	if err = s.requireSellerOrAdministrative(actor, st.SellerID); err != nil {
		return domain.Settlement{}, ErrSettlementNotFound
	}
	return st, nil
}

func (s *service) GetBreakdown(ctx context.Context, actor order.Actor, sn string) (domain.Breakdown, error) {
	st, err := s.GetSettlement(ctx, actor, sn)
	if err != nil {
		return domain.Breakdown{}, err
	}
	return st.Breakdown, nil
}

func (s *service) GetPendingAmount(ctx context.Context, actor order.Actor, sellerID int64) (int64, error) {
	if err := s.requireSellerOrAdministrative(actor, sellerID); err != nil {
		return 0, err
	}
	excluded, err := s.repo.SettledOrderIDs(ctx)
	if err != nil {
		return 0, err
	}
	eligible, _, err := s.eligibleOrders(ctx, excluded)
	if err != nil {
		return 0, err
	}
	var gross int64
	for _, o := range eligible {
		if o.SellerID == sellerID {
			gross += o.Total
		}
	}
	return domain.ComputeBreakdown(gross, s.rates).Net, nil
}

func (s *service) MarkPaid(ctx context.Context, actor order.Actor, sn string, ref, method string) error {
	if !actor.Role.IsAdministrative() {
		return ErrUnauthorized
	}
	if ref == "" || method == "" {
		return ErrInvalidInput
	}
	st, err := s.repo.FindBySN(ctx, sn)
	if err != nil {
		if errors.Is(err, repository.ErrSettlementNotFound) {
			return ErrSettlementNotFound
		}
		return err
	}
	err = s.repo.MarkPaid(ctx, st.ID, ref, method)
	if errors.Is(err, repository.ErrInvalidStatusChange) {
		return ErrInvalidStatusChange
	}
	return err
}

func (s *service) ListAll(ctx context.Context, actor order.Actor, offset, limit int) ([]domain.Settlement, int64, error) {
	if !actor.Role.IsAdministrative() {
		return nil, 0, ErrUnauthorized
	}
	return s.repo.List(ctx, offset, limit)
}

func (s *service) requireSellerOrAdministrative(actor order.Actor, sellerID int64) error {
	if actor.Role.IsAdministrative() {
		return nil
	}
	if actor.Role != disclosure.RoleSeller || actor.ID != sellerID {
		return ErrUnauthorized
	}
	return nil
}
