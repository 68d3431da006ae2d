package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	micrortu "github.com/yobol/go-micrortu"
	"github.com/yobol/go-micrortu/binding"
)

var (
	ErrNoBlock        = errors.New("no block name")
	ErrMissingExport  = errors.New("missing export")
	ErrImage          = errors.New("bad shared image")
	ErrNotInitialized = errors.New("block not initialized")
)

// StepError is a non-zero result of a block's init or step function.
type StepError struct {
	Block string
	Phase string
	Code  int32
}

func (e *StepError) Error() string {
	return fmt.Sprintf("block %s: %s returned %d", e.Block, e.Phase, e.Code)
}

/*
Runner drives one control block compiled to a core WebAssembly module. The module must export:

	memory                                    linear memory
	SHARED                                    i32 global, address of the shared image
	factory_<block>(shared i32) i32           creates the block, returns its handle
	init_<block>(shared i32, block i32) i32   0 on success
	step_<block>(shared i32, block i32) i32   0 on success

and may import env.log_append and env.log_emit.

A Runner is not safe for concurrent use.
*/
type Runner struct {
	*Option
	runtime wazero.Runtime
	module  api.Module

	shared  uint32
	handle  uint32
	factory api.Function
	init    api.Function
	step    api.Function

	initialized bool
	line        []byte // log line under construction
}

func New(ctx context.Context, wasm []byte, option *Option) (*Runner, error) {
	if option == nil || option.block == "" {
		return nil, ErrNoBlock
	}
	cfg := wazero.NewRuntimeConfig().WithMemoryLimitPages(option.memoryLimitPages)
	r := &Runner{
		Option:  option,
		runtime: wazero.NewRuntimeWithConfig(ctx, cfg),
	}
	if err := r.load(ctx, wasm); err != nil {
		r.runtime.Close(ctx)
		return nil, err
	}
	RegisterMetrics(option.registerer)
	return r, nil
}

func (r *Runner) load(ctx context.Context, wasm []byte) error {
	if err := r.instantiateHost(ctx); err != nil {
		return fmt.Errorf("instantiate host module: %w", err)
	}
	compiled, err := r.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return fmt.Errorf("compile block %s: %w", r.block, err)
	}
	r.module, err = r.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(r.block))
	if err != nil {
		return fmt.Errorf("instantiate block %s: %w", r.block, err)
	}

	if r.module.Memory() == nil {
		return fmt.Errorf("%w: memory", ErrMissingExport)
	}
	g := r.module.ExportedGlobal("SHARED")
	if g == nil {
		return fmt.Errorf("%w: SHARED", ErrMissingExport)
	}
	r.shared = api.DecodeU32(g.Get())

	for _, f := range []struct {
		name string
		dst  *api.Function
	}{
		{"factory_" + r.block, &r.factory},
		{"init_" + r.block, &r.init},
		{"step_" + r.block, &r.step},
	} {
		if *f.dst = r.module.ExportedFunction(f.name); *f.dst == nil {
			return fmt.Errorf("%w: %s", ErrMissingExport, f.name)
		}
	}
	micrortu.Logger().Debugf("block %s loaded, shared image at %#x", r.block, r.shared)
	return nil
}

func (r *Runner) writeImage(s *binding.Shared) error {
	img, err := encodeImage(s, r.controlPeriod)
	if err != nil {
		return err
	}
	if !r.module.Memory().Write(r.shared, img) {
		return fmt.Errorf("%w: %d bytes at %#x exceed guest memory", ErrImage, len(img), r.shared)
	}
	return nil
}

func (r *Runner) readImage(s *binding.Shared) error {
	n := uint32(imageSize(len(s.Params), len(s.Ports)))
	img, ok := r.module.Memory().Read(r.shared, n)
	if !ok {
		return fmt.Errorf("%w: %d bytes at %#x exceed guest memory", ErrImage, n, r.shared)
	}
	return decodeImage(img, s)
}

func (r *Runner) call(ctx context.Context, s *binding.Shared, fn api.Function, phase string, params ...uint64) (uint32, error) {
	if err := r.writeImage(s); err != nil {
		return 0, err
	}
	res, err := fn.Call(ctx, params...)
	if err != nil {
		return 0, fmt.Errorf("block %s: %s: %w", r.block, phase, err)
	}
	if err := r.readImage(s); err != nil {
		return 0, err
	}
	if len(res) != 1 {
		return 0, fmt.Errorf("block %s: %s returned %d values", r.block, phase, len(res))
	}
	return api.DecodeU32(res[0]), nil
}

// Init creates the block and runs its init function against s. Changes the block makes to s are copied back.
func (r *Runner) Init(ctx context.Context, s *binding.Shared) error {
	handle, err := r.call(ctx, s, r.factory, "factory", api.EncodeU32(r.shared))
	if err != nil {
		return err
	}
	r.handle = handle
	code, err := r.call(ctx, s, r.init, "init", api.EncodeU32(r.shared), api.EncodeU32(r.handle))
	if err != nil {
		return err
	}
	if code != 0 {
		return &StepError{Block: r.block, Phase: "init", Code: int32(code)}
	}
	r.initialized = true
	return nil
}

// Step runs one step of the block against s and copies the block's writes and dirty sets back into s.
func (r *Runner) Step(ctx context.Context, s *binding.Shared) (err error) {
	if !r.initialized {
		return ErrNotInitialized
	}
	start := time.Now()
	defer func() {
		recordStep(r.block, time.Since(start), err != nil)
	}()

	code, err := r.call(ctx, s, r.step, "step", api.EncodeU32(r.shared), api.EncodeU32(r.handle))
	if err != nil {
		return err
	}
	if code != 0 {
		return &StepError{Block: r.block, Phase: "step", Code: int32(code)}
	}
	return nil
}

func (r *Runner) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}
