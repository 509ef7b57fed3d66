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

package job

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gemveil/gemveil/internal/order/internal/domain"
	"github.com/gemveil/gemveil/internal/order/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	service.Service
	mu        sync.Mutex
	pending   []domain.Order
	cancelled []string
	failSNs   map[string]struct{}
}

func (f *fakeService) ListExpiredPending(_ context.Context, _ int64, _, limit int) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeService) Cancel(_ context.Context, actor domain.Actor, sn string, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !actor.Role.IsAdministrative() {
		return service.ErrUnauthorized
	}
	if _, ok := f.failSNs[sn]; ok {
		return service.ErrInvalidTransition
	}
	for i := range f.pending {
		if f.pending[i].SN == sn {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			break
		}
	}
	f.cancelled = append(f.cancelled, sn)
	return nil
}

func TestCancelExpiredOrdersJob_Run(t *testing.T) {
	t.Parallel()
	svc := &fakeService{
		pending: []domain.Order{
			{SN: "OrderSN-1", Status: domain.StatusPending},
			{SN: "OrderSN-2", Status: domain.StatusPending},
			{SN: "OrderSN-3", Status: domain.StatusPending},
		},
	}
	job := NewCancelExpiredOrdersJob(svc, 2, 30, time.Minute)

	err := job.Run(context.Background())

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"OrderSN-1", "OrderSN-2", "OrderSN-3"}, svc.cancelled)
	assert.Empty(t, svc.pending)
}

func TestCancelExpiredOrdersJob_SkipsFailedOrder(t *testing.T) {
	t.Parallel()
	svc := &fakeService{
		pending: []domain.Order{
			{SN: "OrderSN-1", Status: domain.StatusPending},
			{SN: "OrderSN-2", Status: domain.StatusPending},
			{SN: "OrderSN-3", Status: domain.StatusPending},
		},
		failSNs: map[string]struct{}{"OrderSN-1": {}},
	}
	job := NewCancelExpiredOrdersJob(svc, 2, 30, time.Minute)

	err := job.Run(context.Background())

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"OrderSN-2", "OrderSN-3"}, svc.cancelled)
	// 失败的订单留在待支付集合里, 等下一轮调度
	require.Len(t, svc.pending, 1)
	assert.Equal(t, "OrderSN-1", svc.pending[0].SN)
}
