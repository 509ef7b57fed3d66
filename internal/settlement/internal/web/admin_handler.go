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
	"github.com/gemveil/gemveil/internal/settlement/internal/domain"
	"github.com/gemveil/gemveil/internal/settlement/internal/service"
	"github.com/gin-gonic/gin"
)

// AdminHandler 管理端结算接口, 挂在 admin server 上
type AdminHandler struct {
	svc service.Service
}

func NewAdminHandler(svc service.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/settlement")
	g.POST("/run", ginx.S(h.Run))
	g.POST("/list", ginx.BS[ListSettlementsReq](h.List))
	g.POST("/detail", ginx.BS[RetrieveSettlementReq](h.Detail))
	g.POST("/paid", ginx.BS[MarkPaidReq](h.MarkPaid))
}

func (h *AdminHandler) PublicRoutes(_ *gin.Engine) {}

// Run 手工触发一次批量结算, 与定时任务互斥
func (h *AdminHandler) Run(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	report, err := h.svc.Settle(ctx.Request.Context())
	if err != nil {
		return errResult(err), fmt.Errorf("触发批量结算失败: %w", err)
	}
	return ginx.Result{
		Data: RunReport{
			Created: report.Created,
			Failed: slice.Map(report.Failed, func(idx int, src domain.FailedSeller) FailedSeller {
				return FailedSeller{SellerID: src.SellerID, Reason: src.Reason}
			}),
			SkippedOrders: report.SkippedOrders,
			StartedAt:     report.StartedAt,
			FinishedAt:    report.FinishedAt,
		},
	}, nil
}

func (h *AdminHandler) List(ctx *ginx.Context, req ListSettlementsReq, sess session.Session) (ginx.Result, error) {
	actor := actorFromSession(sess)
	var (
		settlements []domain.Settlement
		total       int64
		err         error
	)
	if req.SellerID > 0 {
		settlements, total, err = h.svc.GetSettlements(ctx.Request.Context(), actor,
			req.SellerID, domain.Status(req.Status), req.Offset, req.Limit)
	} else {
		settlements, total, err = h.svc.ListAll(ctx.Request.Context(), actor, req.Offset, req.Limit)
	}
	if err != nil {
		return errResult(err), err
	}
	return ginx.Result{
		Data: ListSettlementsResp{
			Total: total,
			Settlements: slice.Map(settlements, func(idx int, src domain.Settlement) Settlement {
				return toSettlementVO(src)
			}),
		},
	}, nil
}

func (h *AdminHandler) Detail(ctx *ginx.Context, req RetrieveSettlementReq, sess session.Session) (ginx.Result, error) {
	st, err := h.svc.GetSettlement(ctx.Request.Context(), actorFromSession(sess), req.SN)
	if err != nil {
		return errResult(err), fmt.Errorf("查询结算单失败: %w", err)
	}
	return ginx.Result{
		Data: RetrieveSettlementResp{Settlement: toSettlementVO(st)},
	}, nil
}

// MarkPaid 打款完成后回填凭证, 只允许从待打款状态流转
func (h *AdminHandler) MarkPaid(ctx *ginx.Context, req MarkPaidReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.MarkPaid(ctx.Request.Context(), actorFromSession(sess), req.SN, req.PaymentRef, req.PaymentMethod)
	if err != nil {
		return errResult(err), fmt.Errorf("标记打款失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}
