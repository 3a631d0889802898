// Copyright 2026 The relation-node Authors
// This file is part of the relation-node library.
//
// The relation-node library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The relation-node library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the relation-node library. If not, see <http://www.gnu.org/licenses/>.

package allowlist

import "github.com/ethereum/go-ethereum/metrics"

var (
	permitMeter        = metrics.NewRegisteredMeter("allowlist/check/permit", nil)
	denyMeter          = metrics.NewRegisteredMeter("allowlist/check/deny", nil)
	reloadSuccessMeter = metrics.NewRegisteredMeter("allowlist/reload/success", nil)
	reloadFailureMeter = metrics.NewRegisteredMeter("allowlist/reload/failure", nil)

	entriesGauge = metrics.NewRegisteredGauge("allowlist/entries", nil)
	versionGauge = metrics.NewRegisteredGauge("allowlist/version", nil)
)
