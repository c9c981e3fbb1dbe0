// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log 日志相关接口以及函数
package log

import (
	"os"
	"sync"

	"github.com/33cn/contractcore/types"
	log15 "github.com/inconshreveable/log15"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLogFile log file used when SetFileLog gets no config
const DefaultLogFile = "logs/contractcore.log"

// handlers of the root logger, rebuilt only when their config changes
type handlers struct {
	mu sync.Mutex

	consoleLevel string
	console      log15.Handler

	fileCfg types.Log
	file    log15.Handler
	rotate  *lumberjack.Logger
}

var root handlers

// SetLogLevel 设置控制台日志输出级别，关闭文件日志
func SetLogLevel(logLevel string) {
	root.mu.Lock()
	defer root.mu.Unlock()
	root.closeFile()
	log15.Root().SetHandler(root.consoleHandler(logLevel))
}

// SetFileLog 设置文件日志和控制台日志信息
func SetFileLog(cfg *types.Log) {
	if cfg == nil {
		cfg = &types.Log{LogFile: DefaultLogFile}
	}
	if cfg.LogFile == "" {
		SetLogLevel(cfg.LogConsoleLevel)
		return
	}
	fillDefaultValue(cfg)
	root.mu.Lock()
	defer root.mu.Unlock()
	log15.Root().SetHandler(log15.MultiHandler(root.consoleHandler(cfg.LogConsoleLevel), root.fileHandler(cfg)))
}

// Reset forgets the cached handlers, closes the log file and discards every
// record until the next SetLogLevel or SetFileLog
func Reset() {
	root.mu.Lock()
	defer root.mu.Unlock()
	root.closeFile()
	root.console = nil
	root.consoleLevel = ""
	log15.Root().SetHandler(log15.DiscardHandler())
}

// 保证默认性况下为error级别，防止打印太多日志
func fillDefaultValue(cfg *types.Log) {
	if cfg.Loglevel == "" {
		cfg.Loglevel = log15.LvlError.String()
	}
	if cfg.LogConsoleLevel == "" {
		cfg.LogConsoleLevel = log15.LvlError.String()
	}
}

func (h *handlers) consoleHandler(level string) log15.Handler {
	if h.console != nil && h.consoleLevel == level {
		return h.console
	}
	format := log15.TerminalFormat()
	if os.PathSeparator == '\\' {
		format = log15.LogfmtFormat()
	}
	h.console = log15.LvlFilterHandler(getLevel(level), log15.StreamHandler(os.Stdout, format))
	h.consoleLevel = level
	return h.console
}

func (h *handlers) fileHandler(cfg *types.Log) log15.Handler {
	if h.file != nil && h.fileCfg == *cfg {
		return h.file
	}
	h.closeFile()
	h.rotate = &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    int(cfg.MaxFileSize),
		MaxBackups: int(cfg.MaxBackups),
		MaxAge:     int(cfg.MaxAge),
		LocalTime:  cfg.LocalTime,
		Compress:   cfg.Compress,
	}
	fileh := log15.LvlFilterHandler(getLevel(cfg.Loglevel), log15.StreamHandler(h.rotate, log15.LogfmtFormat()))
	// 增加打印调用源文件、方法和代码行的判断
	if cfg.CallerFile {
		fileh = log15.CallerFileHandler(fileh)
	}
	if cfg.CallerFunction {
		fileh = log15.CallerFuncHandler(fileh)
	}
	h.file = fileh
	h.fileCfg = *cfg
	return h.file
}

func (h *handlers) closeFile() {
	if h.rotate != nil {
		h.rotate.Close()
	}
	h.rotate = nil
	h.file = nil
	h.fileCfg = types.Log{}
}

func getLevel(lvlString string) log15.Lvl {
	lvl, err := log15.LvlFromString(lvlString)
	if err != nil {
		// 日志级别配置不正确时默认为error级别
		return log15.LvlError
	}
	return lvl
}

// New logger carrying ctx under the root logger
func New(ctx ...interface{}) log15.Logger {
	return log15.Root().New(ctx...)
}
