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

type Status uint8

func (s Status) ToUint8() uint8 {
	return uint8(s)
}

const (
	StatusPending   Status = 1
	StatusCompleted Status = 2
)

// Rates 费率, 单位为万分之一, 1000 表示 10%
type Rates struct {
	CommissionRate int64
	GatewayFeeRate int64
	TaxRate        int64
}

// Breakdown 结算金额构成, 入库后即定案, 查询只读存储值不重算
// 各项单位为分, 恒有 Net = Gross - Commission - GatewayFees - Taxes
type Breakdown struct {
	Gross       int64
	Commission  int64
	GatewayFees int64
	Taxes       int64
	Net         int64
}

// ComputeBreakdown 按费率拆分毛额
// 每项费用只在卖家汇总层做一次四舍五入, 净额由减法得出, 保证构成严格可加
func ComputeBreakdown(gross int64, r Rates) Breakdown {
	commission := roundHalfUpBasisPoints(gross, r.CommissionRate)
	gatewayFees := roundHalfUpBasisPoints(gross, r.GatewayFeeRate)
	taxes := roundHalfUpBasisPoints(gross, r.TaxRate)
	return Breakdown{
		Gross:       gross,
		Commission:  commission,
		GatewayFees: gatewayFees,
		Taxes:       taxes,
		Net:         gross - commission - gatewayFees - taxes,
	}
}

func roundHalfUpBasisPoints(amount, bps int64) int64 {
	return (amount*bps + 5000) / 10000
}

type Settlement struct {
	ID       int64
	SN       string
	SellerID int64
	Currency string
	// PeriodStart/PeriodEnd 结算周期 [start, end), 毫秒时间戳
	PeriodStart int64
	PeriodEnd   int64
	Breakdown   Breakdown
	// OrderIDs 本批次覆盖的订单, 成员关系一经写入不再变更
	OrderIDs      []int64
	Status        Status
	PaymentRef    string
	PaymentMethod string
	PaidAt        int64
	Ctime         int64
	Utime         int64
}

// FailedSeller 单个卖家结算失败的记录, 不影响同批次其他卖家
type FailedSeller struct {
	SellerID int64
	Reason   string
}

// RunReport 一次批量结算的执行结果
type RunReport struct {
	// Created 本次创建的结算单SN
	Created []string
	Failed  []FailedSeller
	// SkippedOrders 已被既有结算单覆盖而跳过的订单数
	SkippedOrders int64
	StartedAt     int64
	FinishedAt    int64
}
