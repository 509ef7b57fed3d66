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

// 订单状态的线上值, 与订单模块的枚举一致
const (
	statusConfirmed uint8 = 2
	statusShipped   uint8 = 4
	statusDelivered uint8 = 5
)

type OrderStatusConsumer struct {
	svc      service.Service
	consumer mq.Consumer
	logger   *elog.Component
}

func NewOrderStatusConsumer(svc service.Service, q mq.MQ) (*OrderStatusConsumer, error) {
	groupID := "notification"
	consumer, err := q.Consumer(orderStatusEvents, groupID)
	if err != nil {
		return nil, err
	}
	return &OrderStatusConsumer{
		svc:      svc,
		consumer: consumer,
		logger:   elog.DefaultLogger,
	}, nil
}

func (c *OrderStatusConsumer) Start(ctx context.Context) {
	go func() {
		for {
			err := c.Consume(ctx)
			if err != nil {
				c.logger.Error("消费订单状态事件失败", elog.FieldErr(err))
			}
		}
	}()
}

func (c *OrderStatusConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("获取消息失败: %w", err)
	}

	var evt OrderStatusEvent
	err = json.Unmarshal(msg.Value, &evt)
	if err != nil {
		return fmt.Errorf("解析消息失败: %w", err)
	}

	for _, n := range c.render(evt) {
		if _, err = c.svc.Send(ctx, n); err != nil {
			c.logger.Error("写入订单通知失败",
				elog.FieldErr(err),
				elog.Any("消息体", evt))
		}
	}
	return nil
}

// render 一条状态事件可能产生买卖双方各一条通知
func (c *OrderStatusConsumer) render(evt OrderStatusEvent) []domain.Notification {
	link := fmt.Sprintf("/order/%s", evt.OrderSN)
	var res []domain.Notification
	switch evt.ToStatus {
	case statusConfirmed:
		res = append(res,
			domain.Notification{
				RecipientID: evt.BuyerID,
				Biz:         domain.BizOrder,
				BizSN:       evt.OrderSN,
				Title:       "订单支付成功",
				Body:        fmt.Sprintf("订单 %s 已确认, 卖家将尽快发货", evt.OrderSN),
				Link:        link,
			},
			domain.Notification{
				RecipientID: evt.SellerID,
				Biz:         domain.BizOrder,
				BizSN:       evt.OrderSN,
				Title:       "有新订单待处理",
				Body:        fmt.Sprintf("订单 %s 已支付, 请及时备货发货", evt.OrderSN),
				Link:        link,
			})
	case statusShipped:
		res = append(res, domain.Notification{
			RecipientID: evt.BuyerID,
			Biz:         domain.BizOrder,
			BizSN:       evt.OrderSN,
			Title:       "订单已发货",
			Body:        fmt.Sprintf("订单 %s 已发货, 请留意物流信息", evt.OrderSN),
			Link:        link,
		})
	case statusDelivered:
		res = append(res,
			domain.Notification{
				RecipientID: evt.BuyerID,
				Biz:         domain.BizOrder,
				BizSN:       evt.OrderSN,
				Title:       "订单已签收",
				Body:        fmt.Sprintf("订单 %s 已签收, 欢迎再次选购", evt.OrderSN),
				Link:        link,
			},
			domain.Notification{
				RecipientID: evt.SellerID,
				Biz:         domain.BizOrder,
				BizSN:       evt.OrderSN,
				Title:       "订单已完成",
				Body:        fmt.Sprintf("订单 %s 买家已签收, 货款将进入结算", evt.OrderSN),
				Link:        link,
			})
	}
	return res
}

func (c *OrderStatusConsumer) Stop(_ context.Context) error {
	return c.consumer.Close()
}
