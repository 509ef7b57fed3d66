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
	"github.com/gemveil/gemveil/internal/disclosure"
	orderdomain "github.com/gemveil/gemveil/internal/order"
	"github.com/gemveil/gemveil/internal/settlement/internal/domain"
	"github.com/gemveil/gemveil/internal/settlement/internal/service"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &Handler{}

// Handler 卖家侧结算查询接口
type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/settlement")
	g.POST("/list", ginx.BS[ListSettlementsReq](h.ListSettlements))
	g.POST("/detail", ginx.BS[RetrieveSettlementReq](h.RetrieveSettlement))
	g.POST("/breakdown", ginx.BS[RetrieveSettlementReq](h.RetrieveBreakdown))
	g.POST("/pending", ginx.BS[PendingAmountReq](h.PendingAmount))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

func (h *Handler) ListSettlements(ctx *ginx.Context, req ListSettlementsReq, sess session.Session) (ginx.Result, error) {
	actor := actorFromSession(sess)
	sellerID := req.SellerID
	if sellerID == 0 {
		sellerID = actor.ID
	}
	settlements, total, err := h.svc.GetSettlements(ctx.Request.Context(), actor,
		sellerID, domain.Status(req.Status), req.Offset, req.Limit)
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

func (h *Handler) RetrieveSettlement(ctx *ginx.Context, req RetrieveSettlementReq, sess session.Session) (ginx.Result, error) {
	st, err := h.svc.GetSettlement(ctx.Request.Context(), actorFromSession(sess), req.SN)
	if err != nil {
		return errResult(err), fmt.Errorf("查询结算单失败: %w", err)
	}
	return ginx.Result{
		Data: RetrieveSettlementResp{Settlement: toSettlementVO(st)},
	}, nil
}

func (h *Handler) RetrieveBreakdown(ctx *ginx.Context, req RetrieveSettlementReq, sess session.Session) (ginx.Result, error) {
	b, err := h.svc.GetBreakdown(ctx.Request.Context(), actorFromSession(sess), req.SN)
	if err != nil {
		return errResult(err), fmt.Errorf("查询金额构成失败: %w", err)
	}
	return ginx.Result{
		Data: RetrieveBreakdownResp{Breakdown: toBreakdownVO(b)},
	}, nil
}

func (h *Handler) PendingAmount(ctx *ginx.Context, req PendingAmountReq, sess session.Session) (ginx.Result, error) {
	actor := actorFromSession(sess)
	sellerID := req.SellerID
	if sellerID == 0 {
		sellerID = actor.ID
	}
	net, err := h.svc.GetPendingAmount(ctx.Request.Context(), actor, sellerID)
	if err != nil {
		return errResult(err), fmt.Errorf("查询待结算金额失败: %w", err)
	}
	return ginx.Result{
		Data: PendingAmountResp{Net: net},
	}, nil
}

func actorFromSession(sess session.Session) orderdomain.Actor {
	claims := sess.Claims()
	return orderdomain.Actor{
		ID:      claims.Uid,
		Role:    disclosure.Role(claims.Get("role").StringOrDefault("")),
		Country: claims.Get("country").StringOrDefault(""),
	}
}

func toBreakdownVO(b domain.Breakdown) Breakdown {
	return Breakdown{
		Gross:       b.Gross,
		Commission:  b.Commission,
		GatewayFees: b.GatewayFees,
		Taxes:       b.Taxes,
		Net:         b.Net,
	}
}

func toSettlementVO(st domain.Settlement) Settlement {
	return Settlement{
		SN:            st.SN,
		SellerID:      st.SellerID,
		Currency:      st.Currency,
		PeriodStart:   st.PeriodStart,
		PeriodEnd:     st.PeriodEnd,
		Breakdown:     toBreakdownVO(st.Breakdown),
		OrderCount:    int64(len(st.OrderIDs)),
		OrderIDs:      st.OrderIDs,
		Status:        st.Status.ToUint8(),
		PaymentRef:    st.PaymentRef,
		PaymentMethod: st.PaymentMethod,
		PaidAt:        st.PaidAt,
		Ctime:         st.Ctime,
		Utime:         st.Utime,
	}
}
