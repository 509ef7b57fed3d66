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

package dao

import (
	"context"
	"errors"
	"time"

	"github.com/ego-component/egorm"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	// ErrInvalidStatusChange 条件更新没有命中, 结算单不在期望状态
	ErrInvalidStatusChange = errors.New("结算单状态不允许该操作")
	// ErrDuplicateOrderSettlement 订单已被别的结算单覆盖
	ErrDuplicateOrderSettlement = errors.New("订单已被结算")
	ErrRecordNotFound           = gorm.ErrRecordNotFound
)

// 结算单状态的落库值
const (
	statusPending   uint8 = 1
	statusCompleted uint8 = 2
)

type SettlementDAO interface {
	// CreateSettlement 结算单与订单成员关系在同一事务内落库, 绝不出现半写
	// 成员表对 order_id 有唯一索引, 并发重复结算会被数据库拒绝
	CreateSettlement(ctx context.Context, s Settlement, orderIDs []int64) (int64, error)
	// ListSettledOrderIDs 返回所有结算单(不论状态)覆盖的订单ID, 用于排除集
	ListSettledOrderIDs(ctx context.Context) ([]int64, error)
	FindBySN(ctx context.Context, sn string) (Settlement, error)
	FindOrderIDsBySettlementID(ctx context.Context, sid int64) ([]int64, error)
	ListBySellerID(ctx context.Context, sellerID int64, status uint8, offset, limit int) ([]Settlement, error)
	TotalBySellerID(ctx context.Context, sellerID int64, status uint8) (int64, error)
	List(ctx context.Context, offset, limit int) ([]Settlement, error)
	Total(ctx context.Context) (int64, error)
	// MarkPaid 仅当结算单处于待打款状态时生效
	MarkPaid(ctx context.Context, sid int64, ref, method string) error
}

func NewSettlementGORMDAO(db *egorm.Component) SettlementDAO {
	return &gormSettlementDAO{db: db}
}

type gormSettlementDAO struct {
	db *egorm.Component
}

func (g *gormSettlementDAO) CreateSettlement(ctx context.Context, s Settlement, orderIDs []int64) (int64, error) {
	var sid int64
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UnixMilli()
		s.Ctime, s.Utime = now, now
		if err := tx.Create(&s).Error; err != nil {
			return err
		}
		sid = s.Id
		members := make([]SettlementOrder, 0, len(orderIDs))
		for _, oid := range orderIDs {
			members = append(members, SettlementOrder{
				SettlementId: sid,
				OrderId:      oid,
				Ctime:        now,
			})
		}
		if err := tx.Create(&members).Error; err != nil {
			var me *mysql.MySQLError
			if errors.As(err, &me) {
				const uniqueIndexErrNo uint16 = 1062
				if me.Number == uniqueIndexErrNo {
					return ErrDuplicateOrderSettlement
				}
			}
			return err
		}
		return nil
	})
	return sid, err
}

func (g *gormSettlementDAO) ListSettledOrderIDs(ctx context.Context) ([]int64, error) {
	var res []int64
	err := g.db.WithContext(ctx).Model(&SettlementOrder{}).
		Pluck("order_id", &res).Error
	return res, err
}

func (g *gormSettlementDAO) FindBySN(ctx context.Context, sn string) (Settlement, error) {
	var res Settlement
	err := g.db.WithContext(ctx).Where("sn = ?", sn).First(&res).Error
	return res, err
}

func (g *gormSettlementDAO) FindOrderIDsBySettlementID(ctx context.Context, sid int64) ([]int64, error) {
	var res []int64
	err := g.db.WithContext(ctx).Model(&SettlementOrder{}).
		Where("settlement_id = ?", sid).Order("order_id ASC").
		Pluck("order_id", &res).Error
	return res, err
}

func (g *gormSettlementDAO) ListBySellerID(ctx context.Context, sellerID int64, status uint8, offset, limit int) ([]Settlement, error) {
	var res []Settlement
	query := g.db.WithContext(ctx).Where("seller_id = ?", sellerID)
	if status > 0 {
		query = query.Where("status = ?", status)
	}
	err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (g *gormSettlementDAO) TotalBySellerID(ctx context.Context, sellerID int64, status uint8) (int64, error) {
	var res int64
	query := g.db.WithContext(ctx).Model(&Settlement{}).Where("seller_id = ?", sellerID)
	if status > 0 {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&res).Error
	return res, err
}

func (g *gormSettlementDAO) List(ctx context.Context, offset, limit int) ([]Settlement, error) {
	var res []Settlement
	err := g.db.WithContext(ctx).Order("id DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (g *gormSettlementDAO) Total(ctx context.Context) (int64, error) {
	var res int64
	err := g.db.WithContext(ctx).Model(&Settlement{}).Count(&res).Error
	return res, err
}

func (g *gormSettlementDAO) MarkPaid(ctx context.Context, sid int64, ref, method string) error {
	now := time.Now().UnixMilli()
	res := g.db.WithContext(ctx).Model(&Settlement{}).
		Where("id = ? AND status = ?", sid, statusPending).
		Updates(map[string]any{
			"status":         statusCompleted,
			"payment_ref":    ref,
			"payment_method": method,
			"paid_at":        now,
			"utime":          now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidStatusChange
	}
	return nil
}

type Settlement struct {
	Id       int64  `gorm:"primaryKey;autoIncrement;comment:结算单自增ID"`
	SN       string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_settlement_sn;comment:结算单序列号"`
	SellerId int64  `gorm:"not null;index:idx_settlement_seller_id,comment:卖家ID"`
	Currency string `gorm:"type:varchar(8);not null;default:'CNY';comment:币种"`
	// 结算周期 [period_start, period_end), 毫秒时间戳
	PeriodStart int64 `gorm:"not null;comment:周期起点"`
	PeriodEnd   int64 `gorm:"not null;comment:周期终点"`
	// 金额单位为分, 入库即定案
	Gross         int64  `gorm:"not null;comment:毛额"`
	Commission    int64  `gorm:"not null;comment:平台抽佣"`
	GatewayFees   int64  `gorm:"not null;comment:支付通道费"`
	Taxes         int64  `gorm:"not null;comment:代扣税费"`
	Net           int64  `gorm:"not null;comment:应打款净额"`
	Status        uint8  `gorm:"type:tinyint unsigned;not null;default:1;index:idx_settlement_status;comment:结算单状态 1=待打款 2=已打款"`
	PaymentRef    string `gorm:"type:varchar(255);not null;default:'';comment:打款凭证号"`
	PaymentMethod string `gorm:"type:varchar(64);not null;default:'';comment:打款方式"`
	PaidAt        int64  `gorm:"comment:打款时间"`
	Ctime         int64
	Utime         int64
}

// SettlementOrder 订单与结算单的成员关系, order_id 唯一保证一个订单只被结算一次
type SettlementOrder struct {
	Id           int64 `gorm:"primaryKey;autoIncrement"`
	SettlementId int64 `gorm:"not null;index:idx_member_settlement_id,comment:结算单自增ID"`
	OrderId      int64 `gorm:"not null;uniqueIndex:uniq_member_order_id;comment:订单自增ID"`
	Ctime        int64
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Settlement{}, &SettlementOrder{})
}
