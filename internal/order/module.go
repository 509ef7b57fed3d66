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

package order

import (
	"github.com/gemveil/gemveil/internal/order/internal/domain"
	"github.com/gemveil/gemveil/internal/order/internal/job"
	"github.com/gemveil/gemveil/internal/order/internal/service"
	"github.com/gemveil/gemveil/internal/order/internal/web"
)

type (
	Handler                = web.Handler
	SellerHandler          = web.SellerHandler
	AdminHandler           = web.AdminHandler
	Service                = service.Service
	Order                  = domain.Order
	OrderItem              = domain.OrderItem
	Status                 = domain.Status
	Actor                  = domain.Actor
	CancelExpiredOrdersJob = job.CancelExpiredOrdersJob
)

const (
	StatusPending               = domain.StatusPending
	StatusConfirmed             = domain.StatusConfirmed
	StatusProcessing            = domain.StatusProcessing
	StatusShipped               = domain.StatusShipped
	StatusDelivered             = domain.StatusDelivered
	StatusCancellationRequested = domain.StatusCancellationRequested
	StatusCancelled             = domain.StatusCancelled
	StatusReturnRequested       = domain.StatusReturnRequested
	StatusRefunded              = domain.StatusRefunded
)

type Module struct {
	Hdl       *Handler
	SellerHdl *SellerHandler
	AdminHdl  *AdminHandler
	Svc       Service
	CancelJob *CancelExpiredOrdersJob
}
