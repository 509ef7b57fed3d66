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

package service

import (
	"github.com/ecodeclub/ekit/slice"
	"github.com/gemveil/gemveil/internal/disclosure/internal/domain"
)

// Engine 披露引擎, 纯函数, 不持有状态
// 所有可能携带订单/购物车数据的响应出口都必须经过它, 不允许旁路
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Level 计算披露级别
// 识别不了的上下文一律按最严格的 LevelNone 处理, 宁可少露不可多露
func (e *Engine) Level(c domain.Context) domain.Level {
	if c.Role.IsAdministrative() || c.OwnSeller {
		return domain.LevelFull
	}
	if c.Phase != domain.PhaseUnknown {
		return e.levelForPhase(c.Phase)
	}
	return e.levelForStage(c.Stage)
}

func (e *Engine) levelForPhase(p domain.Phase) domain.Level {
	switch p {
	case domain.PhasePaid:
		return domain.LevelFull
	case domain.PhaseAwaitingPayment:
		return domain.LevelPartial
	default:
		return domain.LevelNone
	}
}

func (e *Engine) levelForStage(s domain.Stage) domain.Level {
	switch s {
	case domain.StagePayment, domain.StagePostPayment:
		return domain.LevelFull
	case domain.StageCheckout:
		return domain.LevelPartial
	case domain.StageBrowsing, domain.StageCart:
		return domain.LevelNone
	default:
		return domain.LevelNone
	}
}

// RedactSeller 按级别遮蔽卖家身份, 返回新副本, 不修改入参
func (e *Engine) RedactSeller(s domain.SellerIdentity, lvl domain.Level) domain.SellerIdentity {
	switch lvl {
	case domain.LevelFull:
		return s
	case domain.LevelPartial:
		return domain.SellerIdentity{
			ID:        s.ID,
			ShopName:  s.ShopName,
			Certified: true,
		}
	default:
		// 包括 LevelNone 及任何非法级别
		return domain.SellerIdentity{Certified: true}
	}
}

// RedactSellers 对切片逐一遮蔽, 返回新切片
func (e *Engine) RedactSellers(ss []domain.SellerIdentity, lvl domain.Level) []domain.SellerIdentity {
	return slice.Map(ss, func(idx int, src domain.SellerIdentity) domain.SellerIdentity {
		return e.RedactSeller(src, lvl)
	})
}
