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

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/gemveil/gemveil/internal/settlement/internal/domain"
	"github.com/gemveil/gemveil/internal/settlement/internal/repository/dao"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSettlementNotFound  = dao.ErrRecordNotFound
	ErrInvalidStatusChange = dao.ErrInvalidStatusChange
)

type SettlementRepository interface {
	// CreateSettlement 结算单与成员关系原子落库
	CreateSettlement(ctx context.Context, s domain.Settlement) (domain.Settlement, error)
	// SettledOrderIDs 所有结算单覆盖的订单ID集合, 状态不限
	SettledOrderIDs(ctx context.Context) (map[int64]struct{}, error)
	FindBySN(ctx context.Context, sn string) (domain.Settlement, error)
	ListBySellerID(ctx context.Context, sellerID int64, status domain.Status, offset, limit int) ([]domain.Settlement, int64, error)
	List(ctx context.Context, offset, limit int) ([]domain.Settlement, int64, error)
	MarkPaid(ctx context.Context, id int64, ref, method string) error
}

func NewRepository(d dao.SettlementDAO) SettlementRepository {
	return &settlementRepository{d: d}
}

type settlementRepository struct {
	d dao.SettlementDAO
}

func (s *settlementRepository) CreateSettlement(ctx context.Context, st domain.Settlement) (domain.Settlement, error) {
	sid, err := s.d.CreateSettlement(ctx, s.toEntity(st), st.OrderIDs)
	if err != nil {
		return domain.Settlement{}, err
	}
	st.ID = sid
	return st, nil
}

func (s *settlementRepository) SettledOrderIDs(ctx context.Context) (map[int64]struct{}, error) {
	ids, err := s.d.ListSettledOrderIDs(ctx)
	if err != nil {
		return nil, err
	}
	res := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		res[id] = struct{}{}
	}
	return res, nil
}

func (s *settlementRepository) FindBySN(ctx context.Context, sn string) (domain.Settlement, error) {
	entity, err := s.d.FindBySN(ctx, sn)
	if err != nil {
		return domain.Settlement{}, err
	}
	orderIDs, err := s.d.FindOrderIDsBySettlementID(ctx, entity.Id)
	if err != nil {
		return domain.Settlement{}, err
	}
	st := s.toDomain(entity)
	st.OrderIDs = orderIDs
	return st, nil
}

func (s *settlementRepository) ListBySellerID(ctx context.Context, sellerID int64, status domain.Status, offset, limit int) ([]domain.Settlement, int64, error) {
	var (
		eg       errgroup.Group
		entities []dao.Settlement
		total    int64
	)
	eg.Go(func() error {
		var err error
		entities, err = s.d.ListBySellerID(ctx, sellerID, status.ToUint8(), offset, limit)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.d.TotalBySellerID(ctx, sellerID, status.ToUint8())
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}
	return slice.Map(entities, func(idx int, src dao.Settlement) domain.Settlement {
		return s.toDomain(src)
	}), total, nil
}

func (s *settlementRepository) List(ctx context.Context, offset, limit int) ([]domain.Settlement, int64, error) {
	var (
		eg       errgroup.Group
		entities []dao.Settlement
		total    int64
	)
	eg.Go(func() error {
		var err error
		entities, err = s.d.List(ctx, offset, limit)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.d.Total(ctx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}
	return slice.Map(entities, func(idx int, src dao.Settlement) domain.Settlement {
		return s.toDomain(src)
	}), total, nil
}

func (s *settlementRepository) MarkPaid(ctx context.Context, id int64, ref, method string) error {
	return s.d.MarkPaid(ctx, id, ref, method)
}

func (s *settlementRepository) toEntity(st domain.Settlement) dao.Settlement {
	return dao.Settlement{
		Id:            st.ID,
		SN:            st.SN,
		SellerId:      st.SellerID,
		Currency:      st.Currency,
		PeriodStart:   st.PeriodStart,
		PeriodEnd:     st.PeriodEnd,
		Gross:         st.Breakdown.Gross,
		Commission:    st.Breakdown.Commission,
		GatewayFees:   st.Breakdown.GatewayFees,
		Taxes:         st.Breakdown.Taxes,
		Net:           st.Breakdown.Net,
		Status:        st.Status.ToUint8(),
		PaymentRef:    st.PaymentRef,
		PaymentMethod: st.PaymentMethod,
		PaidAt:        st.PaidAt,
	}
}

func (s *settlementRepository) toDomain(entity dao.Settlement) domain.Settlement {
	return domain.Settlement{
		ID:       entity.Id,
		SN:       entity.SN,
		SellerID: entity.SellerId,
		Currency: entity.Currency,
		Breakdown: domain.Breakdown{
			Gross:       entity.Gross,
			Commission:  entity.Commission,
			GatewayFees: entity.GatewayFees,
			Taxes:       entity.Taxes,
			Net:         entity.Net,
		},
		PeriodStart:   entity.PeriodStart,
		PeriodEnd:     entity.PeriodEnd,
		Status:        domain.Status(entity.Status),
		PaymentRef:    entity.PaymentRef,
		PaymentMethod: entity.PaymentMethod,
		PaidAt:        entity.PaidAt,
		Ctime:         entity.Ctime,
		Utime:         entity.Utime,
	}
}
