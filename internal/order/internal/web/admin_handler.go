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

// AdminHandler 管理端订单接口, 挂在 admin server 上, 角色与国别校验在中间件完成
type AdminHandler struct {
	svc service.Service
}

func NewAdminHandler(svc service.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/order")
	g.POST("/list", ginx.BS[ListOrdersReq](h.List))
	g.POST("/detail", ginx.BS[RetrieveOrderDetailReq](h.Detail))
	g.POST("/confirm", ginx.BS[TransitionReq](h.Confirm))
	g.POST("/cancel", ginx.BS[TransitionReq](h.Cancel))
	g.POST("/refund", ginx.BS[TransitionReq](h.Refund))
}

func (h *AdminHandler) PublicRoutes(_ *gin.Engine) {}

func (h *AdminHandler) List(ctx *ginx.Context, req ListOrdersReq, sess session.Session) (ginx.Result, error) {
	orders, total, err := h.svc.ListAll(ctx.Request.Context(), actorFromSession(sess), req.Offset, req.Limit)
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

func (h *AdminHandler) Detail(ctx *ginx.Context, req RetrieveOrderDetailReq, sess session.Session) (ginx.Result, error) {
	order, err := h.svc.Get(ctx.Request.Context(), actorFromSession(sess), req.OrderSN)
	if err != nil {
		return errResult(err), fmt.Errorf("查询订单失败: %w", err)
	}
	return ginx.Result{
		Data: RetrieveOrderDetailResp{Order: toOrderVO(order)},
	}, nil
}

// Confirm 支付确认, 由支付回调的管理通道触发
func (h *AdminHandler) Confirm(ctx *ginx.Context, req TransitionReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.Confirm(ctx.Request.Context(), actorFromSession(sess), req.OrderSN)
	if err != nil {
		return errResult(err), fmt.Errorf("确认订单失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

// Cancel 批准取消申请或直接取消
func (h *AdminHandler) Cancel(ctx *ginx.Context, req TransitionReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.Cancel(ctx.Request.Context(), actorFromSession(sess), req.OrderSN, req.Reason)
	if err != nil {
		return errResult(err), fmt.Errorf("取消订单失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

// Refund 批准退货申请或已取消订单的退款
func (h *AdminHandler) Refund(ctx *ginx.Context, req TransitionReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.Refund(ctx.Request.Context(), actorFromSession(sess), req.OrderSN, req.Reason)
	if err != nil {
		return errResult(err), fmt.Errorf("退款失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}
