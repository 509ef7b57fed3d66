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

package sequencenumber

import (
	"fmt"
	"strconv"
	"time"

	"github.com/lithammer/shortuuid/v4"
)

// snLength 序列号定长 32 位
const snLength = 32

type TimestampGenerateFunc func(time.Time) int64

type ShortUUIDGenerateFunc func() string

// Generator 订单号/结算单号生成器
type Generator struct {
	timestampGenFunc TimestampGenerateFunc
	shortUUIDGenFunc ShortUUIDGenerateFunc
}

func NewGeneratorWith(timestampGen TimestampGenerateFunc, uuidGen ShortUUIDGenerateFunc) *Generator {
	return &Generator{
		timestampGenFunc: timestampGen,
		shortUUIDGenFunc: uuidGen,
	}
}

func NewGenerator() *Generator {
	return NewGeneratorWith(func(t time.Time) int64 { return t.UnixMilli() }, func() string { return shortuuid.New() })
}

// Generate 毫秒时间戳的16进制 + 归属ID后四位 + shortuuid 补齐, 截断到 32 位
// 后四位便于人工按归属方粗筛, shortuuid 保证并发下不撞号
func (s *Generator) Generate(id int64) (string, error) {
	timestamp := strconv.FormatInt(s.timestampGenFunc(time.Now()), 16)
	lastFour := fmt.Sprintf("%04d", id%10000)
	sn := timestamp + lastFour + s.shortUUIDGenFunc()
	if len(sn) < snLength {
		return "", fmt.Errorf("序列号长度不足: %s", sn)
	}
	return sn[:snLength], nil
}
