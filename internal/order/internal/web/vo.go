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

package web

// Seller 披露引擎处理后的卖家身份
// certified 为 true 表示身份被"认证商家"标识替代
type Seller struct {
	ID           int64  `json:"id,omitempty"`
	ShopName     string `json:"shopName,omitempty"`
	ContactName  string `json:"contactName,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`
	Address      string `json:"address,omitempty"`
	Certified    bool   `json:"certified,omitempty"`
}

type OrderItem struct {
	ProductSN string `json:"productSN"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	Weight    int64  `json:"weight,omitempty"`
	Purity    string `json:"purity,omitempty"`
	Seller    Seller `json:"seller"`
}

type StatusChange struct {
	From      uint8  `json:"from"`
	To        uint8  `json:"to"`
	ActorRole string `json:"actorRole"`
	Note      string `json:"note,omitempty"`
	Ctime     int64  `json:"ctime"`
}

type Order struct {
	SN          string         `json:"sn"`
	Currency    string         `json:"currency"`
	Country     string         `json:"country"`
	Subtotal    int64          `json:"subtotal"`
	ShippingFee int64          `json:"shippingFee"`
	Tax         int64          `json:"tax"`
	Discount    int64          `json:"discount"`
	Total       int64          `json:"total"`
	Status      uint8          `json:"status"`
	Items       []OrderItem    `json:"items,omitempty"`
	History     []StatusChange `json:"history,omitempty"`
	ConfirmedAt int64          `json:"confirmedAt,omitempty"`
	ShippedAt   int64          `json:"shippedAt,omitempty"`
	DeliveredAt int64          `json:"deliveredAt,omitempty"`
	CancelledAt int64          `json:"cancelledAt,omitempty"`
	Ctime       int64          `json:"ctime"`
	Utime       int64          `json:"utime"`
}

// RetrieveOrderDetailReq 获取订单详情
type RetrieveOrderDetailReq struct {
	OrderSN string `json:"sn"`
}

type RetrieveOrderDetailResp struct {
	Order Order `json:"order"`
}

// ListOrdersReq 分页查询订单
type ListOrdersReq struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

type ListOrdersResp struct {
	Total  int64   `json:"total,omitempty"`
	Orders []Order `json:"orders,omitempty"`
}

// TransitionReq 状态流转请求
// RequestID 用于去重, 防止重复提交
type TransitionReq struct {
	OrderSN   string `json:"sn"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"requestID,omitempty"`
}
