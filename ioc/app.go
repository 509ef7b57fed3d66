package ioc

import (
	"context"

	"github.com/gotomicro/ego/server/egin"
	"github.com/gotomicro/ego/task/ecron"
)

type App struct {
	Web       *egin.Component
	Admin     AdminServer
	Crons     []*ecron.Component
	Consumers []Consumer
}

// Consumer 常驻的 mq 消费者, main 里统一启动
type Consumer interface {
	Start(ctx context.Context)
}
