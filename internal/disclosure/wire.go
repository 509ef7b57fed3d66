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

package disclosure

import (
	"github.com/gemveil/gemveil/internal/disclosure/internal/domain"
	"github.com/gemveil/gemveil/internal/disclosure/internal/service"
)

type Engine = service.Engine

type Level = domain.Level

type Stage = domain.Stage

type Phase = domain.Phase

type Role = domain.Role

type Context = domain.Context

type SellerIdentity = domain.SellerIdentity

const (
	LevelNone    = domain.LevelNone
	LevelPartial = domain.LevelPartial
	LevelFull    = domain.LevelFull

	StageUnknown     = domain.StageUnknown
	StageBrowsing    = domain.StageBrowsing
	StageCart        = domain.StageCart
	StageCheckout    = domain.StageCheckout
	StagePayment     = domain.StagePayment
	StagePostPayment = domain.StagePostPayment

	PhaseUnknown         = domain.PhaseUnknown
	PhaseAwaitingPayment = domain.PhaseAwaitingPayment
	PhasePaid            = domain.PhasePaid

	RoleBuyer    = domain.RoleBuyer
	RoleSeller   = domain.RoleSeller
	RoleAdmin    = domain.RoleAdmin
	RoleOperator = domain.RoleOperator
)

func NewEngine() *Engine {
	return service.NewEngine()
}
