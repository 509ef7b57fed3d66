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

// Biz 通知来源业务
const (
	BizOrder      = "order"
	BizSettlement = "settlement"
)

type Notification struct {
	ID          int64
	RecipientID int64
	Biz         string
	// BizSN 来源单据的序列号, 订单SN或结算单SN
	BizSN string
	Title string
	Body  string
	Link  string
	Read  bool
	Ctime int64
	Utime int64
}
