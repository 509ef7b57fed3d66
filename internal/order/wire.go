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

package order

import (
	"sync"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/mq-api"
	"github.com/gemveil/gemveil/internal/disclosure"
	"github.com/gemveil/gemveil/internal/order/internal/event"
	"github.com/gemveil/gemveil/internal/order/internal/job"
	"github.com/gemveil/gemveil/internal/order/internal/repository"
	"github.com/gemveil/gemveil/internal/order/internal/repository/dao"
	"github.com/gemveil/gemveil/internal/order/internal/service"
	"github.com/gemveil/gemveil/internal/order/internal/web"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
)

func InitModule(db *egorm.Component, q mq.MQ, cache ecache.Cache, engine *disclosure.Engine) (*Module, error) {
	wire.Build(wire.Struct(
		new(Module), "*"),
		InitService,
		initCancelExpiredOrdersJob,
		web.NewHandler,
		web.NewSellerHandler,
		web.NewAdminHandler,
	)
	return new(Module), nil
}

func initCancelExpiredOrdersJob(svc service.Service) *job.CancelExpiredOrdersJob {
	const (
		limit   = 100
		minute  = 30
		timeout = 5 * time.Minute
	)
	return job.NewCancelExpiredOrdersJob(svc, limit, minute, timeout)
}

var (
	once = &sync.Once{}
	svc  service.Service
)

func InitService(db *egorm.Component, q mq.MQ, engine *disclosure.Engine) service.Service {
	once.Do(func() {
		_ = dao.InitTables(db)
		d := dao.NewOrderGORMDAO(db)
		r := repository.NewRepository(d)
		p, err := event.NewOrderStatusEventProducer(q)
		if err != nil {
			panic(err)
		}
		svc = service.NewService(r, engine, p)
	})
	return svc
}
