package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	micrortu "github.com/yobol/go-micrortu"
	"github.com/yobol/go-micrortu/binding"
	"github.com/yobol/go-micrortu/internal/wasmtest"
)

type logLine struct {
	level logrus.Level
	msg   string
}

func newCounter(t *testing.T, lines *[]logLine) *Runner {
	t.Helper()
	opt := NewOption("counter").
		SetRegisterer(prometheus.NewRegistry()).
		SetLogHandler(func(r *Runner, level logrus.Level, msg string) {
			*lines = append(*lines, logLine{level, msg})
		})
	r, err := New(context.Background(), wasmtest.Counter(), opt)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { r.Close(context.Background()) })
	return r
}

func counterShared(t *testing.T) (*binding.Shared, []binding.Definition) {
	t.Helper()
	ports := []binding.Definition{
		{Name: "count", Direction: binding.Out, Required: true, TypeID: micrortu.MMeNc1, Min: 1, Max: 1},
	}
	region, err := binding.EncodeRegion(binding.Payloads(ports, nil))
	if err != nil {
		t.Fatal(err)
	}
	return &binding.Shared{Ports: region}, ports
}

func TestRunner_Step(t *testing.T) {
	var lines []logLine
	r := newCounter(t, &lines)
	s, ports := counterShared(t)

	if err := r.Step(context.Background(), s); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("Step() before Init() error = %v", err)
	}
	if err := r.Init(context.Background(), s); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if r.handle != wasmtest.Handle || r.shared != wasmtest.Shared {
		t.Errorf("handle %d shared %d", r.handle, r.shared)
	}

	before := testutil.ToFloat64(stepsTotal.WithLabelValues("counter"))
	if err := r.Step(context.Background(), s); err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	_, pb, err := s.Bind(nil, ports)
	if err != nil {
		t.Fatal(err)
	}
	vals, _ := pb.Values("count")
	if vals[0].Float32() != 42 {
		t.Errorf("count = %s", vals[0])
	}
	if !s.DirtyPorts.IsSet(0) {
		t.Errorf("dirty ports = %s", &s.DirtyPorts)
	}
	if len(lines) != 1 || lines[0] != (logLine{logrus.InfoLevel, "hello"}) {
		t.Errorf("log lines = %v", lines)
	}
	if got := testutil.ToFloat64(stepsTotal.WithLabelValues("counter")); got != before+1 {
		t.Errorf("steps_total = %v, want %v", got, before+1)
	}

	// the step returns what the block keeps at its handle
	r.module.Memory().WriteUint32Le(wasmtest.Handle, 7)
	failures := testutil.ToFloat64(stepFailures.WithLabelValues("counter"))
	err = r.Step(context.Background(), s)
	var se *StepError
	if !errors.As(err, &se) || se.Code != 7 || se.Phase != "step" || se.Block != "counter" {
		t.Fatalf("Step() error = %v", err)
	}
	if got := testutil.ToFloat64(stepFailures.WithLabelValues("counter")); got != failures+1 {
		t.Errorf("step_failures_total = %v, want %v", got, failures+1)
	}
}

func TestRunner_New(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, wasmtest.Counter(), nil); !errors.Is(err, ErrNoBlock) {
		t.Errorf("New() without option error = %v", err)
	}
	if _, err := New(ctx, wasmtest.Counter(), NewOption("scale")); !errors.Is(err, ErrMissingExport) {
		t.Errorf("New() for a missing block error = %v", err)
	}
	if _, err := New(ctx, []byte("not wasm"), NewOption("counter")); err == nil {
		t.Errorf("New() accepted garbage")
	}
}

func TestImage(t *testing.T) {
	s := &binding.Shared{
		Params: []byte{1, 2, 3},
		Ports:  []byte{4, 5},
	}
	s.DirtyPorts.Set(2)
	img, err := encodeImage(s, DefaultControlPeriod)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		3, 0, 0, 0, 2, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		4, 0, 0, 0, 0, 0, 0, 0,
		100, 0, 0, 0, 0, 0, 0, 0,
		1, 2, 3, 0, 0, 0, 0, 0,
		4, 5,
	}
	if string(img) != string(want) {
		t.Fatalf("encodeImage() = [% X]", img)
	}

	img[8] = 1
	img[33] = 9
	img[41] = 8
	if err := decodeImage(img, s); err != nil {
		t.Fatal(err)
	}
	if !s.DirtyParams.IsSet(0) || s.Params[1] != 9 || s.Ports[1] != 8 {
		t.Errorf("decodeImage() = %+v", s)
	}

	img[0] = 4
	if err := decodeImage(img, s); !errors.Is(err, ErrImage) {
		t.Errorf("decodeImage() with changed length error = %v", err)
	}
	s.DirtyPorts.Set(64)
	if _, err := encodeImage(s, DefaultControlPeriod); !errors.Is(err, ErrImage) {
		t.Errorf("encodeImage() with 65 dirty positions error = %v", err)
	}
}
