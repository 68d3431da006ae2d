package runner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	micrortu "github.com/yobol/go-micrortu"
)

const (
	DefaultControlPeriod    = 100 * time.Millisecond
	DefaultMemoryLimitPages = 256 // 16 MiB
)

func NewOption(block string) *Option {
	return &Option{
		block:            block,
		controlPeriod:    DefaultControlPeriod,
		memoryLimitPages: DefaultMemoryLimitPages,
		logHandler: func(r *Runner, level logrus.Level, msg string) {
			micrortu.Logger().WithField("block", r.block).Log(level, msg)
		},
	}
}

type Option struct {
	block            string
	controlPeriod    time.Duration
	memoryLimitPages uint32
	registerer       prometheus.Registerer

	logHandler LogHandler
}

func (o *Option) SetBlock(block string) *Option {
	if block != "" {
		o.block = block
	}
	return o
}

// SetControlPeriod is the period reported to the block when the shared data does not carry one.
func (o *Option) SetControlPeriod(period time.Duration) *Option {
	if period > 0 {
		o.controlPeriod = period
	}
	return o
}

// SetMemoryLimitPages caps guest memory in 64 KiB pages.
func (o *Option) SetMemoryLimitPages(pages uint32) *Option {
	if pages > 0 {
		o.memoryLimitPages = pages
	}
	return o
}

// SetRegisterer registers the runner metrics with reg instead of the default registry.
func (o *Option) SetRegisterer(reg prometheus.Registerer) *Option {
	o.registerer = reg
	return o
}

// LogHandler receives every line a block logs.
type LogHandler func(r *Runner, level logrus.Level, msg string)

func (o *Option) SetLogHandler(handler LogHandler) *Option {
	if handler != nil {
		o.logHandler = handler
	}
	return o
}

func (o *Option) Block() string { return o.block }
