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

const OrderStatusEventName = "order_status_events"

// OrderStatusEvent 订单到达 confirmed/shipped/delivered 时发出
// 仅用于通知等旁路消费, 消费失败不影响订单状态
type OrderStatusEvent struct {
	OrderSN    string `json:"orderSN"`
	BuyerID    int64  `json:"buyerID"`
	SellerID   int64  `json:"sellerID"`
	FromStatus uint8  `json:"fromStatus"`
	ToStatus   uint8  `json:"toStatus"`
	Total      int64  `json:"total"`
	OccurredAt int64  `json:"occurredAt"`
}
