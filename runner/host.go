package runner

import (
	"context"
	"encoding/binary"

	"github.com/sirupsen/logrus"
	"github.com/tetratelabs/wazero/api"
)

const (
	logWords      = 15
	maxLogPayload = logWords * 8
	maxLogLine    = 4096
)

// Guest log levels as passed to log_emit.
var guestLevels = map[uint64]logrus.Level{
	1: logrus.ErrorLevel,
	2: logrus.WarnLevel,
	3: logrus.InfoLevel,
	4: logrus.DebugLevel,
	5: logrus.TraceLevel,
}

/*
instantiateHost provides the env module blocks log through:

	log_append(len i64, w1 ... w15 i64)  appends len bytes, packed little endian into the words
	log_emit(level i64)                  emits the line built so far at level 1 (error) to 5 (trace)
*/
func (r *Runner) instantiateHost(ctx context.Context) error {
	appendParams := make([]api.ValueType, 1+logWords)
	for i := range appendParams {
		appendParams[i] = api.ValueTypeI64
	}
	_, err := r.runtime.NewHostModuleBuilder("env").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(r.logAppend), appendParams, nil).
		Export("log_append").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(r.logEmit), []api.ValueType{api.ValueTypeI64}, nil).
		Export("log_emit").
		Instantiate(ctx)
	return err
}

func (r *Runner) logAppend(_ context.Context, _ api.Module, stack []uint64) {
	n := min(stack[0], maxLogPayload)
	var payload [maxLogPayload]byte
	for i, w := range stack[1 : 1+logWords] {
		binary.LittleEndian.PutUint64(payload[i*8:], w)
	}
	if len(r.line)+int(n) > maxLogLine {
		return
	}
	r.line = append(r.line, payload[:n]...)
}

func (r *Runner) logEmit(_ context.Context, _ api.Module, stack []uint64) {
	level, ok := guestLevels[stack[0]]
	if !ok {
		level = logrus.InfoLevel
	}
	msg := string(r.line)
	r.line = r.line[:0]
	logLines.WithLabelValues(r.block, level.String()).Inc()
	r.logHandler(r, level, msg)
}
