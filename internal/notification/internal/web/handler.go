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
	"errors"
	"fmt"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/gemveil/gemveil/internal/notification/internal/domain"
	"github.com/gemveil/gemveil/internal/notification/internal/errs"
	"github.com/gemveil/gemveil/internal/notification/internal/service"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/notification")
	g.POST("/list", ginx.BS[ListNotificationsReq](h.List))
	g.POST("/read", ginx.BS[MarkReadReq](h.MarkRead))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

func (h *Handler) List(ctx *ginx.Context, req ListNotificationsReq, sess session.Session) (ginx.Result, error) {
	notifications, total, err := h.svc.List(ctx.Request.Context(), sess.Claims().Uid, req.Offset, req.Limit)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ListNotificationsResp{
			Total: total,
			Notifications: slice.Map(notifications, func(idx int, src domain.Notification) Notification {
				return Notification{
					ID:    src.ID,
					Biz:   src.Biz,
					BizSN: src.BizSN,
					Title: src.Title,
					Body:  src.Body,
					Link:  src.Link,
					Read:  src.Read,
					Ctime: src.Ctime,
				}
			}),
		},
	}, nil
}

func (h *Handler) MarkRead(ctx *ginx.Context, req MarkReadReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.MarkRead(ctx.Request.Context(), req.ID, sess.Claims().Uid)
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			return notFoundResult, fmt.Errorf("标记已读失败: %w", err)
		}
		return systemErrorResult, fmt.Errorf("标记已读失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	notFoundResult = ginx.Result{
		Code: errs.NotificationNotFound.Code,
		Msg:  errs.NotificationNotFound.Msg,
	}
)

type Notification struct {
	ID    int64  `json:"id"`
	Biz   string `json:"biz"`
	BizSN string `json:"bizSN"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Link  string `json:"link,omitempty"`
	Read  bool   `json:"read"`
	Ctime int64  `json:"ctime"`
}

type ListNotificationsReq struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

type ListNotificationsResp struct {
	Total         int64          `json:"total,omitempty"`
	Notifications []Notification `json:"notifications,omitempty"`
}

type MarkReadReq struct {
	ID int64 `json:"id"`
}
