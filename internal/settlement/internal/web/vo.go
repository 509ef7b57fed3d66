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

// Breakdown 金额构成, 直接回显存储值
type Breakdown struct {
	Gross       int64 `json:"gross"`
	Commission  int64 `json:"commission"`
	GatewayFees int64 `json:"gatewayFees"`
	Taxes       int64 `json:"taxes"`
	Net         int64 `json:"net"`
}

type Settlement struct {
	SN            string    `json:"sn"`
	SellerID      int64     `json:"sellerID"`
	Currency      string    `json:"currency"`
	PeriodStart   int64     `json:"periodStart"`
	PeriodEnd     int64     `json:"periodEnd"`
	Breakdown     Breakdown `json:"breakdown"`
	OrderCount    int64     `json:"orderCount"`
	OrderIDs      []int64   `json:"orderIDs,omitempty"`
	Status        uint8     `json:"status"`
	PaymentRef    string    `json:"paymentRef,omitempty"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	PaidAt        int64     `json:"paidAt,omitempty"`
	Ctime         int64     `json:"ctime"`
	Utime         int64     `json:"utime"`
}

type ListSettlementsReq struct {
	SellerID int64 `json:"sellerID,omitempty"`
	// Status 0 表示不过滤
	Status uint8 `json:"status,omitempty"`
	Offset int   `json:"offset,omitempty"`
	Limit  int   `json:"limit,omitempty"`
}

type ListSettlementsResp struct {
	Total       int64        `json:"total,omitempty"`
	Settlements []Settlement `json:"settlements,omitempty"`
}

type RetrieveSettlementReq struct {
	SN string `json:"sn"`
}

type RetrieveSettlementResp struct {
	Settlement Settlement `json:"settlement"`
}

type RetrieveBreakdownResp struct {
	Breakdown Breakdown `json:"breakdown"`
}

type PendingAmountReq struct {
	SellerID int64 `json:"sellerID,omitempty"`
}

// PendingAmountResp 估算值, 下次批量结算前随时可能变化
type PendingAmountResp struct {
	Currency string `json:"currency,omitempty"`
	Net      int64  `json:"net"`
}

type MarkPaidReq struct {
	SN            string `json:"sn"`
	PaymentRef    string `json:"paymentRef"`
	PaymentMethod string `json:"paymentMethod"`
}

type RunReport struct {
	Created       []string       `json:"created,omitempty"`
	Failed        []FailedSeller `json:"failed,omitempty"`
	SkippedOrders int64          `json:"skippedOrders,omitempty"`
	StartedAt     int64          `json:"startedAt"`
	FinishedAt    int64          `json:"finishedAt"`
}

type FailedSeller struct {
	SellerID int64  `json:"sellerID"`
	Reason   string `json:"reason"`
}
