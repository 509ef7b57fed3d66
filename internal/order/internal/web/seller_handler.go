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
	"fmt"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/gemveil/gemveil/internal/order/internal/domain"
	"github.com/gemveil/gemveil/internal/order/internal/service"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &SellerHandler{}

// SellerHandler 卖家侧履约接口
type SellerHandler struct {
	svc service.Service
}

func NewSellerHandler(svc service.Service) *SellerHandler {
	return &SellerHandler{svc: svc}
}

func (h *SellerHandler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/seller/order")
	g.POST("/list", ginx.BS[ListOrdersReq](h.ListOrders))
	g.POST("/detail", ginx.BS[RetrieveOrderDetailReq](h.RetrieveOrderDetail))
	g.POST("/processing", ginx.BS[TransitionReq](h.MarkProcessing))
	g.POST("/ship", ginx.BS[TransitionReq](h.MarkShipped))
	g.POST("/deliver", ginx.BS[TransitionReq](h.MarkDelivered))
	g.POST("/cancel/reject", ginx.BS[TransitionReq](h.RejectCancellation))
	g.POST("/return/reject", ginx.BS[TransitionReq](h.RejectReturn))
}

func (h *SellerHandler) PublicRoutes(_ *gin.Engine) {}

// ListOrders 卖家查看自己店铺的订单
func (h *SellerHandler) ListOrders(ctx *ginx.Context, req ListOrdersReq, sess session.Session) (ginx.Result, error) {
	actor := actorFromSession(sess)
	orders, total, err := h.svc.ListBySeller(ctx.Request.Context(), actor, actor.ID, req.Offset, req.Limit)
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

func (h *SellerHandler) RetrieveOrderDetail(ctx *ginx.Context, req RetrieveOrderDetailReq, sess session.Session) (ginx.Result, error) {
	order, err := h.svc.Get(ctx.Request.Context(), actorFromSession(sess), req.OrderSN)
	if err != nil {
		return errResult(err), fmt.Errorf("查询订单失败: %w", err)
	}
	return ginx.Result{
		Data: RetrieveOrderDetailResp{Order: toOrderVO(order)},
	}, nil
}

func (h *SellerHandler) MarkProcessing(ctx *ginx.Context, req TransitionReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.MarkProcessing(ctx.Request.Context(), actorFromSession(sess), req.OrderSN)
	if err != nil {
		return errResult(err), fmt.Errorf("标记处理中失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *SellerHandler) MarkShipped(ctx *ginx.Context, req TransitionReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.MarkShipped(ctx.Request.Context(), actorFromSession(sess), req.OrderSN)
	if err != nil {
		return errResult(err), fmt.Errorf("标记发货失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *SellerHandler) MarkDelivered(ctx *ginx.Context, req TransitionReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.MarkDelivered(ctx.Request.Context(), actorFromSession(sess), req.OrderSN)
	if err != nil {
		return errResult(err), fmt.Errorf("标记签收失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *SellerHandler) RejectCancellation(ctx *ginx.Context, req TransitionReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.RejectCancellation(ctx.Request.Context(), actorFromSession(sess), req.OrderSN, req.Reason)
	if err != nil {
		return errResult(err), fmt.Errorf("驳回取消申请失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *SellerHandler) RejectReturn(ctx *ginx.Context, req TransitionReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.RejectReturn(ctx.Request.Context(), actorFromSession(sess), req.OrderSN, req.Reason)
	if err != nil {
		return errResult(err), fmt.Errorf("驳回退货申请失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}
