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

	"github.com/ecodeclub/ekit/slice"
	"github.com/gemveil/gemveil/internal/disclosure"
	"github.com/gemveil/gemveil/internal/order/internal/domain"
	"github.com/gemveil/gemveil/internal/order/internal/event"
	"github.com/gemveil/gemveil/internal/order/internal/repository"
	"github.com/gotomicro/ego/core/elog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrOrderNotFound     = errors.New("订单不存在")
	ErrInvalidTransition = errors.New("订单状态流转非法")
	ErrUnauthorized      = errors.New("无权操作")
	ErrInvalidInput      = errors.New("参数非法")
)

type Service interface {
	// CreateOrder 由结算确认流程调用, 订单一经创建不再删除
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	// Confirm 支付确认后调用, 仅管理类角色(含回调通道)可触发
	Confirm(ctx context.Context, actor domain.Actor, orderSN string) error
	MarkProcessing(ctx context.Context, actor domain.Actor, orderSN string) error
	MarkShipped(ctx context.Context, actor domain.Actor, orderSN string) error
	MarkDelivered(ctx context.Context, actor domain.Actor, orderSN string) error
	// Cancel 买家只能取消待支付订单, 管理类角色可走任何合法取消边
	Cancel(ctx context.Context, actor domain.Actor, orderSN string, reason string) error
	RequestCancellation(ctx context.Context, actor domain.Actor, orderSN string, reason string) error
	RejectCancellation(ctx context.Context, actor domain.Actor, orderSN string, note string) error
	RequestReturn(ctx context.Context, actor domain.Actor, orderSN string, reason string) error
	RejectReturn(ctx context.Context, actor domain.Actor, orderSN string, note string) error
	Refund(ctx context.Context, actor domain.Actor, orderSN string, note string) error
	// Get 所有权校验后的披露副本, 是订单数据唯一的对外读路径
	Get(ctx context.Context, actor domain.Actor, orderSN string) (domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID int64, offset, limit int) ([]domain.Order, int64, error)
	ListBySeller(ctx context.Context, actor domain.Actor, sellerID int64, offset, limit int) ([]domain.Order, int64, error)
	ListAll(ctx context.Context, actor domain.Actor, offset, limit int) ([]domain.Order, int64, error)
	// ListDelivered 结算模块的读取路径, 返回未披露处理的原始订单
	ListDelivered(ctx context.Context, offset, limit int) ([]domain.Order, int64, error)
	// ListExpiredPending 定时任务的读取路径, 返回创建时间早于 ctime 的待支付订单
	ListExpiredPending(ctx context.Context, ctime int64, offset, limit int) ([]domain.Order, error)
}

func NewService(repo repository.OrderRepository, engine *disclosure.Engine, producer event.OrderStatusEventProducer) Service {
	return &service{
		repo:     repo,
		engine:   engine,
		producer: producer,
		logger:   elog.DefaultLogger,
	}
}

type service struct {
	repo     repository.OrderRepository
	engine   *disclosure.Engine
	producer event.OrderStatusEventProducer
	logger   *elog.Component
}

func (s *service) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if order.SN == "" || order.BuyerID <= 0 || order.SellerID <= 0 || len(order.Items) == 0 {
		return domain.Order{}, ErrInvalidInput
	}
	for _, item := range order.Items {
		if item.Quantity < 1 || item.UnitPrice < 0 {
			return domain.Order{}, ErrInvalidInput
		}
	}
	if order.Total != order.Subtotal+order.ShippingFee+order.Tax-order.Discount {
		return domain.Order{}, ErrInvalidInput
	}
	order.Status = domain.StatusPending
	return s.repo.CreateOrder(ctx, order)
}

func (s *service) Confirm(ctx context.Context, actor domain.Actor, orderSN string) error {
	return s.transition(ctx, actor, orderSN, domain.StatusConfirmed, "", s.requireAdministrative)
}

func (s *service) MarkProcessing(ctx context.Context, actor domain.Actor, orderSN string) error {
	return s.transition(ctx, actor, orderSN, domain.StatusProcessing, "", s.requireSellerOrAdministrative)
}

func (s *service) MarkShipped(ctx context.Context, actor domain.Actor, orderSN string) error {
	return s.transition(ctx, actor, orderSN, domain.StatusShipped, "", s.requireSellerOrAdministrative)
}

func (s *service) MarkDelivered(ctx context.Context, actor domain.Actor, orderSN string) error {
	return s.transition(ctx, actor, orderSN, domain.StatusDelivered, "", s.requireSellerOrAdministrative)
}

func (s *service) Cancel(ctx context.Context, actor domain.Actor, orderSN string, reason string) error {
	return s.transition(ctx, actor, orderSN, domain.StatusCancelled, reason,
		func(actor domain.Actor, o domain.Order) error {
			if actor.Role.IsAdministrative() {
				return nil
			}
			if err := s.requireBuyer(actor, o); err != nil {
				return err
			}
			// 已支付订单买家只能走取消申请
			if o.Status != domain.StatusPending {
				return ErrInvalidTransition
			}
			return nil
		})
}

func (s *service) RequestCancellation(ctx context.Context, actor domain.Actor, orderSN string, reason string) error {
	return s.transition(ctx, actor, orderSN, domain.StatusCancellationRequested, reason, s.requireBuyer)
}

func (s *service) RejectCancellation(ctx context.Context, actor domain.Actor, orderSN string, note string) error {
	return s.transition(ctx, actor, orderSN, domain.StatusProcessing, note, s.requireSellerOrAdministrative)
}

func (s *service) RequestReturn(ctx context.Context, actor domain.Actor, orderSN string, reason string) error {
	return s.transition(ctx, actor, orderSN, domain.StatusReturnRequested, reason, s.requireBuyer)
}

func (s *service) RejectReturn(ctx context.Context, actor domain.Actor, orderSN string, note string) error {
	return s.transition(ctx, actor, orderSN, domain.StatusDelivered, note, s.requireSellerOrAdministrative)
}

func (s *service) Refund(ctx context.Context, actor domain.Actor, orderSN string, note string) error {
	return s.transition(ctx, actor, orderSN, domain.StatusRefunded, note, s.requireAdministrative)
}

type permission func(actor domain.Actor, o domain.Order) error

// requireBuyer 买家只能操作自己的订单, 归属不符按不存在处理, 不泄露订单存在性
func (s *service) requireBuyer(actor domain.Actor, o domain.Order) error {
	if actor.Role != disclosure.RoleBuyer {
		return ErrUnauthorized
	}
	if o.BuyerID != actor.ID {
		return ErrOrderNotFound
	}
	return nil
}

func (s *service) requireSellerOrAdministrative(actor domain.Actor, o domain.Order) error {
	if actor.Role.IsAdministrative() {
		return nil
	}
	if actor.Role != disclosure.RoleSeller {
		return ErrUnauthorized
	}
	if o.SellerID != actor.ID {
		return ErrOrderNotFound
	}
	return nil
}

func (s *service) requireAdministrative(actor domain.Actor, _ domain.Order) error {
	if !actor.Role.IsAdministrative() {
		return ErrUnauthorized
	}
	return nil
}

func (s *service) transition(ctx context.Context, actor domain.Actor, orderSN string,
	to domain.Status, note string, perm permission) error {
	o, err := s.repo.FindOrderBySN(ctx, orderSN)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if err = perm(actor, o); err != nil {
		return err
	}
	if !o.Status.CanTransitionTo(to) {
		return ErrInvalidTransition
	}
	err = s.repo.UpdateStatus(ctx, o.ID, domain.StatusChange{
		From:      o.Status,
		To:        to,
		ActorID:   actor.ID,
		ActorRole: string(actor.Role),
		Note:      note,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConcurrentStatusChange) {
			// 并发流转竞争失败, 对调用方等同于非法流转
			return ErrInvalidTransition
		}
		return err
	}
	s.notifyAsync(o, to)
	return nil
}

// notifyAsync 到达 confirmed/shipped/delivered 时发事件
// 尽力而为: 发送失败只记日志, 绝不影响已经落库的状态流转
func (s *service) notifyAsync(o domain.Order, to domain.Status) {
	switch to {
	case domain.StatusConfirmed, domain.StatusShipped, domain.StatusDelivered:
	default:
		return
	}
	evt := event.OrderStatusEvent{
		OrderSN:    o.SN,
		BuyerID:    o.BuyerID,
		SellerID:   o.SellerID,
		FromStatus: o.Status.ToUint8(),
		ToStatus:   to.ToUint8(),
		Total:      o.Total,
		OccurredAt: time.Now().UnixMilli(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.producer.Produce(ctx, evt); err != nil {
			s.logger.Warn("发送订单状态事件失败",
				elog.FieldErr(err),
				elog.String("order_sn", evt.OrderSN),
				elog.Any("to_status", evt.ToStatus))
		}
	}()
}

func (s *service) Get(ctx context.Context, actor domain.Actor, orderSN string) (domain.Order, error) {
	o, err := s.repo.FindOrderBySN(ctx, orderSN)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return domain.Order{}, ErrOrderNotFound
		}
		return domain.Order{}, err
	}
	ownSeller := actor.Role == disclosure.RoleSeller && o.SellerID == actor.ID
	visible := actor.Role.IsAdministrative() ||
		ownSeller ||
		(actor.Role == disclosure.RoleBuyer && o.BuyerID == actor.ID)
	if !visible {
		return domain.Order{}, ErrOrderNotFound
	}
	lvl := s.engine.Level(disclosure.Context{
		Role:      actor.Role,
		OwnSeller: ownSeller,
		Phase:     o.Status.DisclosurePhase(),
	})
	return s.redact(o, lvl), nil
}

// redact 返回披露处理后的副本, 内部字段在任何级别下都被清空
func (s *service) redact(o domain.Order, lvl disclosure.Level) domain.Order {
	o.Items = slice.Map(o.Items, func(idx int, src domain.OrderItem) domain.OrderItem {
		src.Seller = s.engine.RedactSeller(src.Seller, lvl)
		src.Internal = domain.InternalAttrs{}
		return src
	})
	return o
}

func (s *service) ListByBuyer(ctx context.Context, buyerID int64, offset, limit int) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListOrdersByBuyerID(ctx, offset, limit, buyerID)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalOrdersByBuyerID(ctx, buyerID)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) ListBySeller(ctx context.Context, actor domain.Actor, sellerID int64, offset, limit int) ([]domain.Order, int64, error) {
	if !actor.Role.IsAdministrative() &&
		!(actor.Role == disclosure.RoleSeller && actor.ID == sellerID) {
		return nil, 0, ErrUnauthorized
	}
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListOrdersBySellerID(ctx, offset, limit, sellerID)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalOrdersBySellerID(ctx, sellerID)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) ListAll(ctx context.Context, actor domain.Actor, offset, limit int) ([]domain.Order, int64, error) {
	if !actor.Role.IsAdministrative() {
		return nil, 0, ErrUnauthorized
	}
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListOrders(ctx, offset, limit)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalOrders(ctx)
		return err
	})
	return os, total, eg.Wait()
}

func (s *service) ListExpiredPending(ctx context.Context, ctime int64, offset, limit int) ([]domain.Order, error) {
	return s.repo.ListExpiredOrders(ctx, domain.StatusPending, ctime, offset, limit)
}

func (s *service) ListDelivered(ctx context.Context, offset, limit int) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListOrdersByStatus(ctx, domain.StatusDelivered, offset, limit)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalOrdersByStatus(ctx, domain.StatusDelivered)
		return err
	})
	return os, total, eg.Wait()
}
