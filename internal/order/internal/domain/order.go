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

package domain

import (
	"github.com/gemveil/gemveil/internal/disclosure"
)

type Status uint8

func (s Status) ToUint8() uint8 {
	return uint8(s)
}

const (
	StatusPending               Status = 1
	StatusConfirmed             Status = 2
	StatusProcessing            Status = 3
	StatusShipped               Status = 4
	StatusDelivered             Status = 5
	StatusCancellationRequested Status = 6
	StatusCancelled             Status = 7
	StatusReturnRequested       Status = 8
	StatusRefunded              Status = 9
)

// legalEdges 订单状态机的全部合法流转边, 不在表里的流转一律非法
var legalEdges = map[Status][]Status{
	StatusPending:               {StatusConfirmed, StatusCancelled},
	StatusConfirmed:             {StatusProcessing, StatusCancellationRequested, StatusCancelled},
	StatusProcessing:            {StatusShipped, StatusCancellationRequested},
	StatusShipped:               {StatusDelivered},
	StatusDelivered:             {StatusReturnRequested},
	StatusCancellationRequested: {StatusCancelled, StatusProcessing},
	StatusReturnRequested:       {StatusRefunded, StatusDelivered},
	StatusCancelled:             {StatusRefunded},
	StatusRefunded:              {},
}

func (s Status) CanTransitionTo(to Status) bool {
	for _, t := range legalEdges[s] {
		if t == to {
			return true
		}
	}
	return false
}

// DisclosurePhase 订单状态到披露阶段的映射
// cancelled 可能来自未支付的 pending, 按保守口径只给部分披露
func (s Status) DisclosurePhase() disclosure.Phase {
	switch s {
	case StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered,
		StatusCancellationRequested, StatusReturnRequested, StatusRefunded:
		return disclosure.PhasePaid
	case StatusPending, StatusCancelled:
		return disclosure.PhaseAwaitingPayment
	default:
		return disclosure.PhaseUnknown
	}
}

type Order struct {
	ID       int64
	SN       string
	BuyerID  int64
	SellerID int64
	Currency string
	// Country 收货目的国, ISO 3166-1 两位码
	Country     string
	Items       []OrderItem
	Subtotal    int64
	ShippingFee int64
	Tax         int64
	Discount    int64
	Total       int64
	Status      Status
	History     []StatusChange
	ConfirmedAt int64
	ShippedAt   int64
	DeliveredAt int64
	CancelledAt int64
	Ctime       int64
	Utime       int64
}

type OrderItem struct {
	OrderID   int64
	ProductID int64
	ProductSN string
	Name      string
	Quantity  int64
	// UnitPrice 单位为分, 999表示9.99元
	UnitPrice int64
	// Weight 单位为毫克
	Weight int64
	// Purity 成色, 例如 AU750
	Purity   string
	Seller   disclosure.SellerIdentity
	Internal InternalAttrs
}

// InternalAttrs 平台内部字段, 任何披露级别都不允许出现在响应里
type InternalAttrs struct {
	Note string
	// SupplierCost 供货成本, 单位为分
	SupplierCost int64
	// CommissionRate 抽佣比例, 单位为万分之一
	CommissionRate int64
}

// StatusChange 状态流转审计记录, 只追加, 永不改写
type StatusChange struct {
	From      Status
	To        Status
	ActorID   int64
	ActorRole string
	Note      string
	Ctime     int64
}

// Actor 每次请求随身份声明传入, 本模块只做授权不做认证
type Actor struct {
	ID      int64
	Role    disclosure.Role
	Country string
}
