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

package job

import (
	"context"
	"fmt"
	"time"

	"github.com/gemveil/gemveil/internal/disclosure"
	"github.com/gemveil/gemveil/internal/order/internal/domain"
	"github.com/gemveil/gemveil/internal/order/internal/service"
	"github.com/gotomicro/ego/core/elog"
)

// CancelExpiredOrdersJob 超时未支付的订单自动取消
type CancelExpiredOrdersJob struct {
	svc     service.Service
	limit   int
	minute  int64
	timeout time.Duration
	logger  *elog.Component
}

func NewCancelExpiredOrdersJob(svc service.Service, limit int, minute int64, timeout time.Duration) *CancelExpiredOrdersJob {
	return &CancelExpiredOrdersJob{
		svc:     svc,
		limit:   limit,
		minute:  minute,
		timeout: timeout,
		logger:  elog.DefaultLogger,
	}
}

func (c *CancelExpiredOrdersJob) Name() string {
	return "CancelExpiredOrdersJob"
}

func (c *CancelExpiredOrdersJob) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithTimeout(ctx, c.timeout)
	defer cancelFunc()
	// 冗余10秒
	ctime := time.Now().Add(time.Duration(-c.minute)*time.Minute + 10*time.Second).UnixMilli()
	// 以运维身份落审计记录
	actor := domain.Actor{Role: disclosure.RoleOperator}

	var cancelled int
	for {
		// 取消后订单离开待支付集合, 始终从头开始取
		orders, err := c.svc.ListExpiredPending(ctx, ctime, 0, c.limit)
		if err != nil {
			return fmt.Errorf("获取超时订单失败: %w", err)
		}
		var done int
		for _, o := range orders {
			err = c.svc.Cancel(ctx, actor, o.SN, "支付超时自动取消")
			if err != nil {
				// 单个订单失败不阻塞本轮, 下一轮调度还会扫到
				c.logger.Error("取消超时订单失败",
					elog.FieldErr(err),
					elog.String("order_sn", o.SN))
				continue
			}
			done++
		}
		cancelled += done
		if len(orders) < c.limit || done == 0 {
			break
		}
	}
	c.logger.Info("超时订单处理完成", elog.Int("cancelled", cancelled))
	return nil
}
