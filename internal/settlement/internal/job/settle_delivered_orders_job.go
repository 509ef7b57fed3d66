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

	"github.com/gemveil/gemveil/internal/settlement/internal/service"
	"github.com/gotomicro/ego/core/elog"
)

// SettleDeliveredOrdersJob 定时批量结算, 整个系统里唯一的周期性写入口
type SettleDeliveredOrdersJob struct {
	svc     service.Service
	timeout time.Duration
	logger  *elog.Component
}

func NewSettleDeliveredOrdersJob(svc service.Service, timeout time.Duration) *SettleDeliveredOrdersJob {
	return &SettleDeliveredOrdersJob{
		svc:     svc,
		timeout: timeout,
		logger:  elog.DefaultLogger,
	}
}

func (s *SettleDeliveredOrdersJob) Name() string {
	return "SettleDeliveredOrdersJob"
}

func (s *SettleDeliveredOrdersJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	report, err := s.svc.Settle(ctx)
	if err != nil {
		return fmt.Errorf("批量结算失败: %w", err)
	}
	s.logger.Info("批量结算完成",
		elog.Int("created", len(report.Created)),
		elog.Int("failed", len(report.Failed)),
		elog.Int64("skipped_orders", report.SkippedOrders),
		elog.Int64("cost_ms", report.FinishedAt-report.StartedAt))
	return nil
}
