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
	"context"

	"github.com/gemveil/gemveil/internal/notification/internal/domain"
	"github.com/gotomicro/ego/core/elog"
)

// NewLogSender 默认触达通道, 只记日志
// 接邮件或短信供应商时替换这里的实现
func NewLogSender() Sender {
	return &logSender{logger: elog.DefaultLogger}
}

type logSender struct {
	logger *elog.Component
}

func (l *logSender) Send(_ context.Context, n domain.Notification) error {
	l.logger.Info("站内通知",
		elog.Int64("recipient_id", n.RecipientID),
		elog.String("biz", n.Biz),
		elog.String("title", n.Title))
	return nil
}
