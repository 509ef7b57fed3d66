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

package settlement

import (
	"github.com/gemveil/gemveil/internal/settlement/internal/domain"
	"github.com/gemveil/gemveil/internal/settlement/internal/job"
	"github.com/gemveil/gemveil/internal/settlement/internal/service"
	"github.com/gemveil/gemveil/internal/settlement/internal/web"
)

type (
	Handler                  = web.Handler
	AdminHandler             = web.AdminHandler
	Service                  = service.Service
	Settlement               = domain.Settlement
	Breakdown                = domain.Breakdown
	Rates                    = domain.Rates
	RunReport                = domain.RunReport
	Status                   = domain.Status
	SettleDeliveredOrdersJob = job.SettleDeliveredOrdersJob
)

const (
	StatusPending   = domain.StatusPending
	StatusCompleted = domain.StatusCompleted
)

type Module struct {
	Hdl       *Handler
	AdminHdl  *AdminHandler
	Svc       Service
	SettleJob *SettleDeliveredOrdersJob
}
