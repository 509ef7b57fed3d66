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

package notification

import (
	"sync"

	"github.com/ecodeclub/mq-api"
	"github.com/gemveil/gemveil/internal/notification/internal/event"
	"github.com/gemveil/gemveil/internal/notification/internal/repository"
	"github.com/gemveil/gemveil/internal/notification/internal/repository/dao"
	"github.com/gemveil/gemveil/internal/notification/internal/service"
	"github.com/gemveil/gemveil/internal/notification/internal/web"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
)

func InitModule(db *egorm.Component, q mq.MQ) (*Module, error) {
	wire.Build(wire.Struct(
		new(Module), "*"),
		InitService,
		web.NewHandler,
		initOrderStatusConsumer,
		initSettlementCreatedConsumer,
	)
	return new(Module), nil
}

var (
	once = &sync.Once{}
	svc  service.Service
)

func InitService(db *egorm.Component) service.Service {
	once.Do(func() {
		_ = dao.InitTables(db)
		d := dao.NewNotificationGORMDAO(db)
		r := repository.NewRepository(d)
		svc = service.NewService(r, service.NewLogSender())
	})
	return svc
}

func initOrderStatusConsumer(svc service.Service, q mq.MQ) *event.OrderStatusConsumer {
	c, err := event.NewOrderStatusConsumer(svc, q)
	if err != nil {
		panic(err)
	}
	return c
}

func initSettlementCreatedConsumer(svc service.Service, q mq.MQ) *event.SettlementCreatedConsumer {
	c, err := event.NewSettlementCreatedConsumer(svc, q)
	if err != nil {
		panic(err)
	}
	return c
}
