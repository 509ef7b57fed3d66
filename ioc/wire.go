//go:build wireinject

package ioc

import (
	"github.com/gemveil/gemveil/internal/disclosure"
	"github.com/gemveil/gemveil/internal/notification"
	"github.com/gemveil/gemveil/internal/order"
	"github.com/gemveil/gemveil/internal/settlement"
	"github.com/google/wire"
)

var BaseSet = wire.NewSet(InitDB, InitCache, InitRedis, InitMQ)

func InitApp() (*App, error) {
	wire.Build(wire.Struct(new(App), "*"),
		BaseSet,
		disclosure.NewEngine,
		order.InitModule,
		wire.FieldsOf(new(*order.Module), "Hdl", "SellerHdl", "AdminHdl", "Svc", "CancelJob"),
		initSettlementRates,
		settlement.InitModule,
		wire.FieldsOf(new(*settlement.Module), "Hdl", "AdminHdl", "SettleJob"),
		notification.InitModule,
		wire.FieldsOf(new(*notification.Module), "Hdl"),
		initMQConsumers,
		InitSession,
		initGinxServer,
		InitAdminServer,
		initCronJobs)
	return new(App), nil
}
