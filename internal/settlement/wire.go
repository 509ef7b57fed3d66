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

//go:build wireinject

package settlement

import (
	"sync"
	"time"

	"github.com/ecodeclub/mq-api"
	"github.com/gemveil/gemveil/internal/order"
	"github.com/gemveil/gemveil/internal/pkg/sequencenumber"
	"github.com/gemveil/gemveil/internal/settlement/internal/event"
	"github.com/gemveil/gemveil/internal/settlement/internal/job"
	"github.com/gemveil/gemveil/internal/settlement/internal/repository"
	"github.com/gemveil/gemveil/internal/settlement/internal/repository/dao"
	"github.com/gemveil/gemveil/internal/settlement/internal/service"
	"github.com/gemveil/gemveil/internal/settlement/internal/web"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
)

func InitModule(db *egorm.Component, q mq.MQ, orderSvc order.Service, rates Rates) (*Module, error) {
	wire.Build(wire.Struct(
		new(Module), "*"),
		InitService,
		initSettleJob,
		web.NewHandler,
		web.NewAdminHandler,
	)
	return new(Module), nil
}

var (
	once = &sync.Once{}
	svc  service.Service
)

func InitService(db *egorm.Component, q mq.MQ, orderSvc order.Service, rates Rates) service.Service {
	once.Do(func() {
		_ = dao.InitTables(db)
		d := dao.NewSettlementGORMDAO(db)
		r := repository.NewRepository(d)
		p, err := event.NewSettlementCreatedEventProducer(q)
		if err != nil {
			panic(err)
		}
		svc = service.NewService(r, orderSvc, p, sequencenumber.NewGenerator(), rates)
	})
	return svc
}

func initSettleJob(svc service.Service) *job.SettleDeliveredOrdersJob {
	return job.NewSettleDeliveredOrdersJob(svc, 10*time.Minute)
}
