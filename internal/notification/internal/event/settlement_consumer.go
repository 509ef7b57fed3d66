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

package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecodeclub/mq-api"
	"github.com/gemveil/gemveil/internal/notification/internal/domain"
	"github.com/gemveil/gemveil/internal/notification/internal/service"
	"github.com/gotomicro/ego/core/elog"
)

type SettlementCreatedConsumer struct {
	svc      service.Service
	consumer mq.Consumer
	logger   *elog.Component
}

func NewSettlementCreatedConsumer(svc service.Service, q mq.MQ) (*SettlementCreatedConsumer, error) {
	groupID := "notification"
	consumer, err := q.Consumer(settlementCreatedEvents, groupID)
	if err != nil {
		return nil, err
	}
	return &SettlementCreatedConsumer{
		svc:      svc,
		consumer: consumer,
		logger:   elog.DefaultLogger,
	}, nil
}

func (c *SettlementCreatedConsumer) Start(ctx context.Context) {
	go func() {
		for {
			err := c.Consume(ctx)
			if err != nil {
				c.logger.Error("消费结算创建事件失败", elog.FieldErr(err))
			}
		}
	}()
}

func (c *SettlementCreatedConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}

	var evt SettlementCreatedEvent
	err = json.Unmarshal(msg.Value, &evt)
	if err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}

	_, err = c.svc.Send(ctx, domain.Notification{
		RecipientID: evt.SellerID,
		Biz:         domain.BizSettlement,
		BizSN:       evt.SettlementSN,
		Title:       "结算单已生成",
		Body: fmt.Sprintf("结算单 %s 已生成, 覆盖 %d 笔订单, 待打款净额 %d.%02d 元",
			evt.SettlementSN, evt.OrderCount, evt.Net/100, evt.Net%100),
		Link: fmt.Sprintf("/settlement/%s", evt.SettlementSN),
	})
	if err != nil {
		c.logger.Error("写入结算通知失败",
			elog.FieldErr(err),
			elog.Any("消息体", evt))
	}
	return nil
}

func (c *SettlementCreatedConsumer) Stop(_ context.Context) error {
	return c.consumer.Close()
}
