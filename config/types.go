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

package config

// SettlementConfig 结算费率, 单位为基点, 10000 基点 = 100%
type SettlementConfig struct {
	CommissionRate int64 `yaml:"commissionRate"`
	GatewayFeeRate int64 `yaml:"gatewayFeeRate"`
	TaxRate        int64 `yaml:"taxRate"`
}

// AdminConfig 管理端访问限制
type AdminConfig struct {
	// AllowedCountries 为空表示不限制国别
	AllowedCountries []string `yaml:"allowedCountries"`
}
