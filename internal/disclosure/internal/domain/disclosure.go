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

// Level 披露级别, 控制卖家身份信息在响应中的可见程度
type Level uint8

func (l Level) ToUint8() uint8 {
	return uint8(l)
}

const (
	LevelNone    Level = 1
	LevelPartial Level = 2
	LevelFull    Level = 3
)

// Stage 购物流程阶段, 由每次请求的上下文推导, 不落库
type Stage uint8

const (
	StageUnknown     Stage = 0
	StageBrowsing    Stage = 1
	StageCart        Stage = 2
	StageCheckout    Stage = 3
	StagePayment     Stage = 4
	StagePostPayment Stage = 5
)

// Phase 订单视角的披露阶段, 由订单状态映射而来
// pending 映射为 PhaseAwaitingPayment, confirmed 及其之后的所有状态映射为 PhasePaid
type Phase uint8

const (
	PhaseUnknown         Phase = 0
	PhaseAwaitingPayment Phase = 1
	PhasePaid            Phase = 2
)

type Role string

const (
	RoleBuyer    Role = "buyer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

// IsAdministrative 管理类角色无条件获得完整披露
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleOperator
}

// Context 单次请求的披露上下文, 产生一次消费一次
type Context struct {
	Stage Stage
	Role  Role
	// OwnSeller 卖家查看自己的数据
	OwnSeller bool
	// Phase 已知订单状态时由状态映射, 未知保持 PhaseUnknown
	Phase Phase
}

// SellerIdentity 订单/购物车响应中的卖家身份快照
// Certified 为 true 表示身份被遮蔽, 以统一品牌的"认证商家"标识替代
type SellerIdentity struct {
	ID           int64
	ShopName     string
	ContactName  string
	ContactEmail string
	ContactPhone string
	Address      string
	Certified    bool
}

// MaskedAtPartial partial 级别下必须抹除的字段
// 新增卖家身份字段时必须同步维护, disclosure 的测试会按字段清单校验
var MaskedAtPartial = []string{
	"ContactName",
	"ContactEmail",
	"ContactPhone",
	"Address",
}

// MaskedAtNone none 级别下必须抹除的字段, 是 partial 清单的超集
var MaskedAtNone = []string{
	"ID",
	"ShopName",
	"ContactName",
	"ContactEmail",
	"ContactPhone",
	"Address",
}
