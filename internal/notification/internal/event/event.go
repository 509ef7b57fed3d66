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

const (
	orderStatusEvents       = "order_status_events"
	settlementCreatedEvents = "settlement_created_events"
)

// OrderStatusEvent 与订单模块发出的消息体对应
type OrderStatusEvent struct {
	OrderSN    string `json:"orderSN"`
	BuyerID    int64  `json:"buyerID"`
	SellerID   int64  `json:"sellerID"`
	FromStatus uint8  `json:"fromStatus"`
	ToStatus   uint8  `json:"toStatus"`
	Total      int64  `json:"total"`
	OccurredAt int64  `json:"occurredAt"`
}

// SettlementCreatedEvent 与结算模块发出的消息体对应
type SettlementCreatedEvent struct {
	SettlementSN string `json:"settlementSN"`
	SellerID     int64  `json:"sellerID"`
	Currency     string `json:"currency"`
	Net          int64  `json:"net"`
	OrderCount   int64  `json:"orderCount"`
	PeriodStart  int64  `json:"periodStart"`
	PeriodEnd    int64  `json:"periodEnd"`
	OccurredAt   int64  `json:"occurredAt"`
}
