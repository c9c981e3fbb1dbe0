// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics counters and gauges of the contract runtime
package metrics

import (
	"fmt"
	"time"

	clog "github.com/33cn/contractcore/common/log"
	"github.com/33cn/contractcore/types"
	go_metrics "github.com/rcrowley/go-metrics"
)

var log = clog.New("module", "metrics")

// metric names
const (
	ExecInvocations   = "execs.invocations"
	ExecRejected      = "execs.rejected"
	ExecTimeouts      = "execs.timeouts"
	FeeReportAccepted = "feereport.accepted"
	FeeReportDropped  = "feereport.dropped"
	FeeQuorumPrefix   = "feereport.quorum."
)

// Counter counter registered in the default registry
func Counter(name string) go_metrics.Counter {
	return go_metrics.GetOrRegisterCounter(name, go_metrics.DefaultRegistry)
}

// Gauge gauge registered in the default registry
func Gauge(name string) go_metrics.Gauge {
	return go_metrics.GetOrRegisterGauge(name, go_metrics.DefaultRegistry)
}

// QuorumGauge gauge holding the last agreed fee of a contract
func QuorumGauge(contractIndex uint32) go_metrics.Gauge {
	return Gauge(fmt.Sprintf("%s%d", FeeQuorumPrefix, contractIndex))
}

type logger struct{}

func (logger) Printf(format string, v ...interface{}) {
	log.Info(fmt.Sprintf(format, v...))
}

// StartMetrics 根据配置文件相关参数启动
func StartMetrics(cfg *types.Metrics) {
	if cfg == nil || !cfg.EnableMetrics {
		log.Info("Metrics data is not enabled to emit")
		return
	}
	switch cfg.DataEmitMode {
	case "log", "":
		d := time.Duration(cfg.Duration)
		if d <= 0 {
			d = time.Minute
		}
		log.Info("StartMetrics with log", "duration", d)
		go go_metrics.Log(go_metrics.DefaultRegistry, d, logger{})
	default:
		log.Error("startMetrics", "The dataEmitMode set is not supported now ", cfg.DataEmitMode)
	}
}
