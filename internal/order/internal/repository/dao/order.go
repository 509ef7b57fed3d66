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
	"gorm.io/gorm"
)

var (
	// ErrConcurrentStatusChange 条件更新没有命中, 说明订单状态已被并发流转
	ErrConcurrentStatusChange = errors.New("订单状态已被并发修改")
	ErrRecordNotFound         = gorm.ErrRecordNotFound
)

type OrderDAO interface {
	CreateOrder(ctx context.Context, o Order, items []OrderItem) (int64, error)
	// UpdateOrderStatus 以当前状态为条件的原子流转, 并在同一事务内追加审计记录
	UpdateOrderStatus(ctx context.Context, u UpdateStatus) error
	FindOrderBySN(ctx context.Context, sn string) (Order, error)
	FindOrderItemsByOrderID(ctx context.Context, oid int64) ([]OrderItem, error)
	FindStatusHistoryByOrderID(ctx context.Context, oid int64) ([]OrderStatusHistory, error)
	ListOrdersByBuyerID(ctx context.Context, offset, limit int, buyerID int64) ([]Order, error)
	TotalOrdersByBuyerID(ctx context.Context, buyerID int64) (int64, error)
	ListOrdersBySellerID(ctx context.Context, offset, limit int, sellerID int64) ([]Order, error)
	TotalOrdersBySellerID(ctx context.Context, sellerID int64) (int64, error)
	ListOrdersByStatus(ctx context.Context, status uint8, offset, limit int) ([]Order, error)
	TotalOrdersByStatus(ctx context.Context, status uint8) (int64, error)
	// ListExpiredOrders 处于 status 且创建时间早于 ctime 的订单
	ListExpiredOrders(ctx context.Context, status uint8, ctime int64, offset, limit int) ([]Order, error)
	ListOrders(ctx context.Context, offset, limit int) ([]Order, error)
	TotalOrders(ctx context.Context) (int64, error)
}

// UpdateStatus 一次状态流转需要写入的全部内容
type UpdateStatus struct {
	OrderID    int64
	FromStatus uint8
	ToStatus   uint8
	// TimestampColumn 到达该状态时要落的时间戳列, 例如 delivered_at, 可为空
	TimestampColumn string
	History         OrderStatusHistory
}

func NewOrderGORMDAO(db *egorm.Component) OrderDAO {
	return &gormOrderDAO{db: db}
}

type gormOrderDAO struct {
	db *egorm.Component
}

func (g *gormOrderDAO) CreateOrder(ctx context.Context, o Order, items []OrderItem) (int64, error) {
	var oid int64
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UnixMilli()
		o.Ctime, o.Utime = now, now
		if err := tx.Create(&o).Error; err != nil {
			return err
		}
		oid = o.Id
		for i := range items {
			items[i].OrderId = oid
			items[i].Ctime, items[i].Utime = now, now
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	return oid, err
}

func (g *gormOrderDAO) UpdateOrderStatus(ctx context.Context, u UpdateStatus) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UnixMilli()
		updates := map[string]any{
			"status": u.ToStatus,
			"utime":  now,
		}
		if u.TimestampColumn != "" {
			updates[u.TimestampColumn] = now
		}
		res := tx.Model(&Order{}).
			Where("id = ? AND status = ?", u.OrderID, u.FromStatus).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentStatusChange
		}
		h := u.History
		h.OrderId = u.OrderID
		h.FromStatus = u.FromStatus
		h.ToStatus = u.ToStatus
		h.Ctime = now
		return tx.Create(&h).Error
	})
}

func (g *gormOrderDAO) FindOrderBySN(ctx context.Context, sn string) (Order, error) {
	var res Order
	err := g.db.WithContext(ctx).Where("sn = ?", sn).First(&res).Error
	return res, err
}

func (g *gormOrderDAO) FindOrderItemsByOrderID(ctx context.Context, oid int64) ([]OrderItem, error) {
	var res []OrderItem
	err := g.db.WithContext(ctx).Where("order_id = ?", oid).Order("id ASC").Find(&res).Error
	return res, err
}

func (g *gormOrderDAO) FindStatusHistoryByOrderID(ctx context.Context, oid int64) ([]OrderStatusHistory, error) {
	var res []OrderStatusHistory
	err := g.db.WithContext(ctx).Where("order_id = ?", oid).Order("id ASC").Find(&res).Error
	return res, err
}

func (g *gormOrderDAO) ListOrdersByBuyerID(ctx context.Context, offset, limit int, buyerID int64) ([]Order, error) {
	var res []Order
	err := g.db.WithContext(ctx).Where("buyer_id = ?", buyerID).
		Order("id DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (g *gormOrderDAO) TotalOrdersByBuyerID(ctx context.Context, buyerID int64) (int64, error) {
	var res int64
	err := g.db.WithContext(ctx).Model(&Order{}).Where("buyer_id = ?", buyerID).Count(&res).Error
	return res, err
}

func (g *gormOrderDAO) ListOrdersBySellerID(ctx context.Context, offset, limit int, sellerID int64) ([]Order, error) {
	var res []Order
	err := g.db.WithContext(ctx).Where("seller_id = ?", sellerID).
		Order("id DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (g *gormOrderDAO) TotalOrdersBySellerID(ctx context.Context, sellerID int64) (int64, error) {
	var res int64
	err := g.db.WithContext(ctx).Model(&Order{}).Where("seller_id = ?", sellerID).Count(&res).Error
	return res, err
}

func (g *gormOrderDAO) ListOrdersByStatus(ctx context.Context, status uint8, offset, limit int) ([]Order, error) {
	var res []Order
	err := g.db.WithContext(ctx).Where("status = ?", status).
		Order("id ASC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (g *gormOrderDAO) TotalOrdersByStatus(ctx context.Context, status uint8) (int64, error) {
	var res int64
	err := g.db.WithContext(ctx).Model(&Order{}).Where("status = ?", status).Count(&res).Error
	return res, err
}

func (g *gormOrderDAO) ListExpiredOrders(ctx context.Context, status uint8, ctime int64, offset, limit int) ([]Order, error) {
	var res []Order
	err := g.db.WithContext(ctx).Where("status = ? AND ctime < ?", status, ctime).
		Order("id ASC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (g *gormOrderDAO) ListOrders(ctx context.Context, offset, limit int) ([]Order, error) {
	var res []Order
	err := g.db.WithContext(ctx).Order("id DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (g *gormOrderDAO) TotalOrders(ctx context.Context) (int64, error) {
	var res int64
	err := g.db.WithContext(ctx).Model(&Order{}).Count(&res).Error
	return res, err
}

type Order struct {
	Id       int64  `gorm:"primaryKey;autoIncrement;comment:订单自增ID"`
	SN       string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_order_sn;comment:订单序列号"`
	BuyerId  int64  `gorm:"not null;index:idx_buyer_id,comment:买家ID"`
	SellerId int64  `gorm:"not null;index:idx_seller_id,comment:卖家ID"`
	Currency string `gorm:"type:varchar(8);not null;default:'CNY';comment:币种"`
	Country  string `gorm:"type:varchar(8);not null;comment:收货目的国"`
	// 金额单位为分, 999表示9.99元
	Subtotal    int64 `gorm:"not null;comment:商品小计"`
	ShippingFee int64 `gorm:"not null;default:0;comment:运费"`
	Tax         int64 `gorm:"not null;default:0;comment:税费"`
	Discount    int64 `gorm:"not null;default:0;comment:优惠金额"`
	Total       int64 `gorm:"not null;comment:应付总额"`
	Status      uint8 `gorm:"type:tinyint unsigned;not null;default:1;index:idx_status;comment:订单状态 1=待支付 2=已确认 3=处理中 4=已发货 5=已签收 6=取消申请中 7=已取消 8=退货申请中 9=已退款"`
	ConfirmedAt int64 `gorm:"comment:确认时间"`
	ShippedAt   int64 `gorm:"comment:发货时间"`
	DeliveredAt int64 `gorm:"comment:签收时间"`
	CancelledAt int64 `gorm:"comment:取消时间"`
	Ctime       int64
	Utime       int64
}

type OrderItem struct {
	Id        int64  `gorm:"primaryKey;autoIncrement;comment:订单项自增ID"`
	OrderId   int64  `gorm:"not null;index:idx_order_id,comment:订单自增ID"`
	ProductId int64  `gorm:"not null;comment:商品自增ID"`
	ProductSN string `gorm:"type:varchar(255);not null;comment:商品序列号"`
	Name      string `gorm:"type:varchar(255);not null;comment:商品名称"`
	Quantity  int64  `gorm:"not null;comment:购买数量"`
	UnitPrice int64  `gorm:"not null;comment:成交单价;单位为分"`
	Weight    int64  `gorm:"not null;default:0;comment:单件重量;单位为毫克"`
	Purity    string `gorm:"type:varchar(32);not null;default:'';comment:成色"`
	// 卖家身份快照, 下单时落库, 响应时由披露引擎决定可见性
	SellerId      int64  `gorm:"not null;index:idx_item_seller_id,comment:卖家ID"`
	ShopName      string `gorm:"type:varchar(255);not null;comment:店铺名"`
	ContactName   string `gorm:"type:varchar(255);not null;default:'';comment:联系人"`
	ContactEmail  string `gorm:"type:varchar(255);not null;default:'';comment:联系邮箱"`
	ContactPhone  string `gorm:"type:varchar(64);not null;default:'';comment:联系电话"`
	SellerAddress string `gorm:"type:varchar(512);not null;default:'';comment:发货地址"`
	// 内部字段, 不参与任何披露级别
	InternalNote   string `gorm:"not null;default:'';comment:内部备注"`
	SupplierCost   int64  `gorm:"not null;default:0;comment:供货成本;单位为分"`
	CommissionRate int64  `gorm:"not null;default:0;comment:抽佣比例;单位为万分之一"`
	Ctime          int64
	Utime          int64
}

type OrderStatusHistory struct {
	Id         int64  `gorm:"primaryKey;autoIncrement;comment:流转记录自增ID"`
	OrderId    int64  `gorm:"not null;index:idx_history_order_id,comment:订单自增ID"`
	FromStatus uint8  `gorm:"type:tinyint unsigned;not null;comment:流转前状态"`
	ToStatus   uint8  `gorm:"type:tinyint unsigned;not null;comment:流转后状态"`
	ActorId    int64  `gorm:"not null;comment:操作者ID"`
	ActorRole  string `gorm:"type:varchar(32);not null;comment:操作者角色"`
	Note       string `gorm:"type:varchar(512);not null;default:'';comment:备注"`
	Ctime      int64
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Order{}, &OrderItem{}, &OrderStatusHistory{})
}
