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

package web

import (
	"errors"

	"github.com/ecodeclub/ginx"
	"github.com/gemveil/gemveil/internal/settlement/internal/errs"
	"github.com/gemveil/gemveil/internal/settlement/internal/service"
)

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	settlementNotFoundResult = ginx.Result{
		Code: errs.SettlementNotFound.Code,
		Msg:  errs.SettlementNotFound.Msg,
	}
	invalidStatusChangeResult = ginx.Result{
		Code: errs.InvalidStatusChange.Code,
		Msg:  errs.InvalidStatusChange.Msg,
	}
	unauthorizedResult = ginx.Result{
		Code: errs.Unauthorized.Code,
		Msg:  errs.Unauthorized.Msg,
	}
	invalidInputResult = ginx.Result{
		Code: errs.InvalidInput.Code,
		Msg:  errs.InvalidInput.Msg,
	}
	runInProgressResult = ginx.Result{
		Code: errs.RunInProgress.Code,
		Msg:  errs.RunInProgress.Msg,
	}
)

func errResult(err error) ginx.Result {
	switch {
	case errors.Is(err, service.ErrSettlementNotFound):
		return settlementNotFoundResult
	case errors.Is(err, service.ErrInvalidStatusChange):
		return invalidStatusChangeResult
	case errors.Is(err, service.ErrUnauthorized):
		return unauthorizedResult
	case errors.Is(err, service.ErrInvalidInput):
		return invalidInputResult
	case errors.Is(err, service.ErrRunInProgress):
		return runInProgressResult
	default:
		return systemErrorResult
	}
}
