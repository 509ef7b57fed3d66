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
	"github.com/gemveil/gemveil/internal/disclosure"
	"github.com/gemveil/gemveil/internal/order/internal/domain"
	"github.com/gemveil/gemveil/internal/order/internal/repository/dao"
	"golang.org/x/sync/errgroup"
)

var (
	ErrOrderNotFound          = dao.ErrRecordNotFound
	ErrConcurrentStatusChange = dao.ErrConcurrentStatusChange
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	// UpdateStatus 条件流转: 存储层状态必须仍等于 change.From, 否则返回 ErrConcurrentStatusChange
	UpdateStatus(ctx context.Context, orderID int64, change domain.StatusChange) error
	FindOrderBySN(ctx context.Context, sn string) (domain.Order, error)
	ListOrdersByBuyerID(ctx context.Context, offset, limit int, buyerID int64) ([]domain.Order, error)
	TotalOrdersByBuyerID(ctx context.Context, buyerID int64) (int64, error)
	ListOrdersBySellerID(ctx context.Context, offset, limit int, sellerID int64) ([]domain.Order, error)
	TotalOrdersBySellerID(ctx context.Context, sellerID int64) (int64, error)
	ListOrdersByStatus(ctx context.Context, status domain.Status, offset, limit int) ([]domain.Order, error)
	TotalOrdersByStatus(ctx context.Context, status domain.Status) (int64, error)
	ListExpiredOrders(ctx context.Context, status domain.Status, ctime int64, offset, limit int) ([]domain.Order, error)
	ListOrders(ctx context.Context, offset, limit int) ([]domain.Order, error)
	TotalOrders(ctx context.Context) (int64, error)
}

func NewRepository(d dao.OrderDAO) OrderRepository {
	return &orderRepository{d: d}
}

type orderRepository struct {
	d dao.OrderDAO
}

func (o *orderRepository) CreateOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	oid, err := o.d.CreateOrder(ctx, o.toOrderEntity(order), o.toOrderItemEntities(order.Items))
	if err != nil {
		return domain.Order{}, err
	}
	order.ID = oid
	return order, nil
}

// stageTimestampColumns 到达这些状态时要补落的时间戳列
var stageTimestampColumns = map[domain.Status]string{
	domain.StatusConfirmed: "confirmed_at",
	domain.StatusShipped:   "shipped_at",
	domain.StatusDelivered: "delivered_at",
	domain.StatusCancelled: "cancelled_at",
}

func (o *orderRepository) UpdateStatus(ctx context.Context, orderID int64, change domain.StatusChange) error {
	return o.d.UpdateOrderStatus(ctx, dao.UpdateStatus{
		OrderID:         orderID,
		FromStatus:      change.From.ToUint8(),
		ToStatus:        change.To.ToUint8(),
		TimestampColumn: stageTimestampColumns[change.To],
		History: dao.OrderStatusHistory{
			ActorId:   change.ActorID,
			ActorRole: change.ActorRole,
			Note:      change.Note,
		},
	})
}

func (o *orderRepository) FindOrderBySN(ctx context.Context, sn string) (domain.Order, error) {
	order, err := o.d.FindOrderBySN(ctx, sn)
	if err != nil {
		return domain.Order{}, err
	}
	var (
		eg      errgroup.Group
		items   []dao.OrderItem
		history []dao.OrderStatusHistory
	)
	eg.Go(func() error {
		var er error
		items, er = o.d.FindOrderItemsByOrderID(ctx, order.Id)
		return er
	})
	eg.Go(func() error {
		var er error
		history, er = o.d.FindStatusHistoryByOrderID(ctx, order.Id)
		return er
	})
	if err = eg.Wait(); err != nil {
		return domain.Order{}, err
	}
	return o.toOrderDomain(order, items, history), nil
}

func (o *orderRepository) ListOrdersByBuyerID(ctx context.Context, offset, limit int, buyerID int64) ([]domain.Order, error) {
	os, err := o.d.ListOrdersByBuyerID(ctx, offset, limit, buyerID)
	if err != nil {
		return nil, err
	}
	return o.toOrderDomains(os), nil
}

func (o *orderRepository) TotalOrdersByBuyerID(ctx context.Context, buyerID int64) (int64, error) {
	return o.d.TotalOrdersByBuyerID(ctx, buyerID)
}

func (o *orderRepository) ListOrdersBySellerID(ctx context.Context, offset, limit int, sellerID int64) ([]domain.Order, error) {
	os, err := o.d.ListOrdersBySellerID(ctx, offset, limit, sellerID)
	if err != nil {
		return nil, err
	}
	return o.toOrderDomains(os), nil
}

func (o *orderRepository) TotalOrdersBySellerID(ctx context.Context, sellerID int64) (int64, error) {
	return o.d.TotalOrdersBySellerID(ctx, sellerID)
}

func (o *orderRepository) ListOrdersByStatus(ctx context.Context, status domain.Status, offset, limit int) ([]domain.Order, error) {
	os, err := o.d.ListOrdersByStatus(ctx, status.ToUint8(), offset, limit)
	if err != nil {
		return nil, err
	}
	return o.toOrderDomains(os), nil
}

func (o *orderRepository) TotalOrdersByStatus(ctx context.Context, status domain.Status) (int64, error) {
	return o.d.TotalOrdersByStatus(ctx, status.ToUint8())
}

func (o *orderRepository) ListExpiredOrders(ctx context.Context, status domain.Status, ctime int64, offset, limit int) ([]domain.Order, error) {
	os, err := o.d.ListExpiredOrders(ctx, status.ToUint8(), ctime, offset, limit)
	if err != nil {
		return nil, err
	}
	return o.toOrderDomains(os), nil
}

func (o *orderRepository) ListOrders(ctx context.Context, offset, limit int) ([]domain.Order, error) {
	os, err := o.d.ListOrders(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return o.toOrderDomains(os), nil
}

func (o *orderRepository) TotalOrders(ctx context.Context) (int64, error) {
	return o.d.TotalOrders(ctx)
}

func (o *orderRepository) toOrderEntity(order domain.Order) dao.Order {
	return dao.Order{
		Id:          order.ID,
		SN:          order.SN,
		BuyerId:     order.BuyerID,
		SellerId:    order.SellerID,
		Currency:    order.Currency,
		Country:     order.Country,
		Subtotal:    order.Subtotal,
		ShippingFee: order.ShippingFee,
		Tax:         order.Tax,
		Discount:    order.Discount,
		Total:       order.Total,
		Status:      order.Status.ToUint8(),
	}
}

func (o *orderRepository) toOrderItemEntities(items []domain.OrderItem) []dao.OrderItem {
	return slice.Map(items, func(idx int, src domain.OrderItem) dao.OrderItem {
		return dao.OrderItem{
			ProductId:      src.ProductID,
			ProductSN:      src.ProductSN,
			Name:           src.Name,
			Quantity:       src.Quantity,
			UnitPrice:      src.UnitPrice,
			Weight:         src.Weight,
			Purity:         src.Purity,
			SellerId:       src.Seller.ID,
			ShopName:       src.Seller.ShopName,
			ContactName:    src.Seller.ContactName,
			ContactEmail:   src.Seller.ContactEmail,
			ContactPhone:   src.Seller.ContactPhone,
			SellerAddress:  src.Seller.Address,
			InternalNote:   src.Internal.Note,
			SupplierCost:   src.Internal.SupplierCost,
			CommissionRate: src.Internal.CommissionRate,
		}
	})
}

func (o *orderRepository) toOrderDomains(os []dao.Order) []domain.Order {
	return slice.Map(os, func(idx int, src dao.Order) domain.Order {
		return o.toOrderDomain(src, nil, nil)
	})
}

func (o *orderRepository) toOrderDomain(order dao.Order, items []dao.OrderItem, history []dao.OrderStatusHistory) domain.Order {
	return domain.Order{
		ID:          order.Id,
		SN:          order.SN,
		BuyerID:     order.BuyerId,
		SellerID:    order.SellerId,
		Currency:    order.Currency,
		Country:     order.Country,
		Subtotal:    order.Subtotal,
		ShippingFee: order.ShippingFee,
		Tax:         order.Tax,
		Discount:    order.Discount,
		Total:       order.Total,
		Status:      domain.Status(order.Status),
		ConfirmedAt: order.ConfirmedAt,
		ShippedAt:   order.ShippedAt,
		DeliveredAt: order.DeliveredAt,
		CancelledAt: order.CancelledAt,
		Ctime:       order.Ctime,
		Utime:       order.Utime,
		Items: slice.Map(items, func(idx int, src dao.OrderItem) domain.OrderItem {
			return domain.OrderItem{
				OrderID:   src.OrderId,
				ProductID: src.ProductId,
				ProductSN: src.ProductSN,
				Name:      src.Name,
				Quantity:  src.Quantity,
				UnitPrice: src.UnitPrice,
				Weight:    src.Weight,
				Purity:    src.Purity,
				Seller: disclosure.SellerIdentity{
					ID:           src.SellerId,
					ShopName:     src.ShopName,
					ContactName:  src.ContactName,
					ContactEmail: src.ContactEmail,
					ContactPhone: src.ContactPhone,
					Address:      src.SellerAddress,
				},
				Internal: domain.InternalAttrs{
					Note:           src.InternalNote,
					SupplierCost:   src.SupplierCost,
					CommissionRate: src.CommissionRate,
				},
			}
		}),
		History: slice.Map(history, func(idx int, src dao.OrderStatusHistory) domain.StatusChange {
			return domain.StatusChange{
				From:      domain.Status(src.FromStatus),
				To:        domain.Status(src.ToStatus),
				ActorID:   src.ActorId,
				ActorRole: src.ActorRole,
				Note:      src.Note,
				Ctime:     src.Ctime,
			}
		}),
	}
}
