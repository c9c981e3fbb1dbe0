// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// Config 节点配置
type Config struct {
	Title    string    `toml:"title"`
	Log      *Log      `toml:"log"`
	Metering *Metering `toml:"metering"`
	Fee      *Fee      `toml:"fee"`
	Exec     *Exec     `toml:"exec"`
	Snapshot *Snapshot `toml:"snapshot"`
	Metrics  *Metrics  `toml:"metrics"`
}

// Log 日志配置
type Log struct {
	// 日志级别，支持debug(dbug)/info/warn/error(eror)/crit
	Loglevel        string `toml:"loglevel"`
	LogConsoleLevel string `toml:"logConsoleLevel"`
	// 日志文件名，可带目录，所有生成的日志文件都放到此目录下
	LogFile string `toml:"logFile"`
	// 单个日志文件的最大值（单位：兆）
	MaxFileSize uint32 `toml:"maxFileSize"`
	// 最多保存的历史日志文件个数
	MaxBackups uint32 `toml:"maxBackups"`
	// 最多保存的历史日志消息（单位：天）
	MaxAge uint32 `toml:"maxAge"`
	// 日志文件名是否使用本地事件（否则使用UTC时间）
	LocalTime bool `toml:"localTime"`
	// 历史日志文件是否压缩（压缩格式为gz）
	Compress bool `toml:"compress"`
	// 是否打印调用源文件和行号
	CallerFile bool `toml:"callerFile"`
	// 是否打印调用方法
	CallerFunction bool `toml:"callerFunction"`
}

// Metering execution time accounting
type Metering struct {
	// cycle counter frequency (cycles per second), 0 means costs stay in raw cycles
	Frequency uint64 `toml:"frequency"`
	// number of ticks per accounting phase
	PhaseLength uint32 `toml:"phaseLength"`
}

// Fee quorum settings
type Fee struct {
	ComputorCount int `toml:"computorCount"`
	// ApplyDeduction 是否从合约储备中实际扣除共识费用，默认关闭
	ApplyDeduction bool `toml:"applyDeduction"`
}

// Exec engine settings
type Exec struct {
	// MaxIterationDurationMs 0 表示关闭，依赖尚未实现的回滚机制
	MaxIterationDurationMs uint64 `toml:"maxIterationDurationMs"`
	RollbackOnTimeout      bool   `toml:"rollbackOnTimeout"`
}

// Snapshot persistence of accumulator and collector
type Snapshot struct {
	// file, goleveldb, gobadgerdb, memdb
	Driver string `toml:"driver"`
	Dir    string `toml:"dir"`
}

// Metrics emitter
type Metrics struct {
	EnableMetrics bool `toml:"enableMetrics"`
	// 以纳秒为单位
	Duration     int64  `toml:"duration"`
	DataEmitMode string `toml:"dataEmitMode"`
}

// DefaultConfig config with every section filled
func DefaultConfig() *Config {
	cfg := &Config{Title: "local"}
	FillDefault(cfg)
	return cfg
}

// FillDefault fills missing sections and zero values
func FillDefault(cfg *Config) {
	if cfg.Log == nil {
		cfg.Log = &Log{}
	}
	if cfg.Log.Loglevel == "" {
		cfg.Log.Loglevel = "error"
	}
	if cfg.Log.LogConsoleLevel == "" {
		cfg.Log.LogConsoleLevel = "error"
	}
	if cfg.Metering == nil {
		cfg.Metering = &Metering{Frequency: DefaultFrequency}
	}
	if cfg.Metering.PhaseLength == 0 {
		cfg.Metering.PhaseLength = DefaultPhaseLength
	}
	if cfg.Fee == nil {
		cfg.Fee = &Fee{}
	}
	if cfg.Fee.ComputorCount == 0 {
		cfg.Fee.ComputorCount = NumberOfComputors
	}
	if cfg.Exec == nil {
		cfg.Exec = &Exec{}
	}
	if cfg.Snapshot == nil {
		cfg.Snapshot = &Snapshot{}
	}
	if cfg.Snapshot.Driver == "" {
		cfg.Snapshot.Driver = "file"
	}
	if cfg.Snapshot.Dir == "" {
		cfg.Snapshot.Dir = "datadir/snapshot"
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &Metrics{}
	}
}
