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

package web

import (
	"context"
	"fmt"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/gemveil/gemveil/internal/disclosure"
	"github.com/gemveil/gemveil/internal/order/internal/domain"
	"github.com/gemveil/gemveil/internal/order/internal/service"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &Handler{}

// Handler 买家侧订单接口
type Handler struct {
	svc   service.Service
	cache ecache.Cache
}

func NewHandler(svc service.Service, cache ecache.Cache) *Handler {
	return &Handler{svc: svc, cache: cache}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/order")
	g.POST("/detail", ginx.BS[RetrieveOrderDetailReq](h.RetrieveOrderDetail))
	g.POST("/list", ginx.BS[ListOrdersReq](h.ListOrders))
	g.POST("/cancel", ginx.BS[TransitionReq](h.CancelOrder))
	g.POST("/cancel/request", ginx.BS[TransitionReq](h.RequestCancellation))
	g.POST("/return/request", ginx.BS[TransitionReq](h.RequestReturn))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

// RetrieveOrderDetail 查看订单详情, 响应已经过披露引擎
func (h *Handler) RetrieveOrderDetail(ctx *ginx.Context, req RetrieveOrderDetailReq, sess session.Session) (ginx.Result, error) {
	order, err := h.svc.Get(ctx.Request.Context(), actorFromSession(sess), req.OrderSN)
	if err != nil {
		return errResult(err), fmt.Errorf("查询订单失败: %w", err)
	}
	return ginx.Result{
		Data: RetrieveOrderDetailResp{Order: toOrderVO(order)},
	}, nil
}

// ListOrders 分页查询买家订单
func (h *Handler) ListOrders(ctx *ginx.Context, req ListOrdersReq, sess session.Session) (ginx.Result, error) {
	orders, total, err := h.svc.ListByBuyer(ctx.Request.Context(), sess.Claims().Uid, req.Offset, req.Limit)
	if err != nil {
		return errResult(err), err
	}
	return ginx.Result{
		Data: ListOrdersResp{
			Total: total,
			Orders: slice.Map(orders, func(idx int, src domain.Order) Order {
				return toOrderVO(src)
			}),
		},
	}, nil
}

// CancelOrder 买家取消待支付订单
func (h *Handler) CancelOrder(ctx *ginx.Context, req TransitionReq, sess session.Session) (ginx.Result, error) {
	if err := h.checkRequestID(ctx.Request.Context(), req.RequestID); err != nil {
		return invalidInputResult, fmt.Errorf("请求ID错误: %w", err)
	}
	err := h.svc.Cancel(ctx.Request.Context(), actorFromSession(sess), req.OrderSN, req.Reason)
	if err != nil {
		return errResult(err), fmt.Errorf("取消订单失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

// RequestCancellation 已支付订单的取消申请
func (h *Handler) RequestCancellation(ctx *ginx.Context, req TransitionReq, sess session.Session) (ginx.Result, error) {
	if err := h.checkRequestID(ctx.Request.Context(), req.RequestID); err != nil {
		return invalidInputResult, fmt.Errorf("请求ID错误: %w", err)
	}
	err := h.svc.RequestCancellation(ctx.Request.Context(), actorFromSession(sess), req.OrderSN, req.Reason)
	if err != nil {
		return errResult(err), fmt.Errorf("申请取消失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

// RequestReturn 签收后申请退货
func (h *Handler) RequestReturn(ctx *ginx.Context, req TransitionReq, sess session.Session) (ginx.Result, error) {
	if err := h.checkRequestID(ctx.Request.Context(), req.RequestID); err != nil {
		return invalidInputResult, fmt.Errorf("请求ID错误: %w", err)
	}
	err := h.svc.RequestReturn(ctx.Request.Context(), actorFromSession(sess), req.OrderSN, req.Reason)
	if err != nil {
		return errResult(err), fmt.Errorf("申请退货失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) checkRequestID(ctx context.Context, requestID string) error {
	if requestID == "" {
		return fmt.Errorf("请求ID为空")
	}
	key := fmt.Sprintf("order:transition:%s", requestID)
	val := h.cache.Get(ctx, key)
	if !val.KeyNotFound() {
		return fmt.Errorf("重复请求")
	}
	if err := h.cache.Set(ctx, key, requestID, 0); err != nil {
		return fmt.Errorf("缓存请求ID失败: %w", err)
	}
	return nil
}

func actorFromSession(sess session.Session) domain.Actor {
	claims := sess.Claims()
	return domain.Actor{
		ID:      claims.Uid,
		Role:    disclosure.Role(claims.Get("role").StringOrDefault("")),
		Country: claims.Get("country").StringOrDefault(""),
	}
}

func toOrderVO(order domain.Order) Order {
	return Order{
		SN:          order.SN,
		Currency:    order.Currency,
		Country:     order.Country,
		Subtotal:    order.Subtotal,
		ShippingFee: order.ShippingFee,
		Tax:         order.Tax,
		Discount:    order.Discount,
		Total:       order.Total,
		Status:      order.Status.ToUint8(),
		Items: slice.Map(order.Items, func(idx int, src domain.OrderItem) OrderItem {
			return OrderItem{
				ProductSN: src.ProductSN,
				Name:      src.Name,
				Quantity:  src.Quantity,
				UnitPrice: src.UnitPrice,
				Weight:    src.Weight,
				Purity:    src.Purity,
				Seller: Seller{
					ID:           src.Seller.ID,
					ShopName:     src.Seller.ShopName,
					ContactName:  src.Seller.ContactName,
					ContactEmail: src.Seller.ContactEmail,
					ContactPhone: src.Seller.ContactPhone,
					Address:      src.Seller.Address,
					Certified:    src.Seller.Certified,
				},
			}
		}),
		History: slice.Map(order.History, func(idx int, src domain.StatusChange) StatusChange {
			return StatusChange{
				From:      src.From.ToUint8(),
				To:        src.To.ToUint8(),
				ActorRole: src.ActorRole,
				Note:      src.Note,
				Ctime:     src.Ctime,
			}
		}),
		ConfirmedAt: order.ConfirmedAt,
		ShippedAt:   order.ShippedAt,
		DeliveredAt: order.DeliveredAt,
		CancelledAt: order.CancelledAt,
		Ctime:       order.Ctime,
		Utime:       order.Utime,
	}
}
