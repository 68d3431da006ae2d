package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	micrortu "github.com/yobol/go-micrortu"
	"github.com/yobol/go-micrortu/binding"
)

func counterBlock() Block {
	return Block{
		Name: "counter",
		Ports: []Port{
			{Name: "input", Type: micrortu.MSpNa1, Direction: binding.In, Required: true, Min: 1, Max: 1},
			{Name: "count", Type: micrortu.MMeNc1, Direction: binding.InOut, Required: true, Min: 1, Max: 1},
		},
		Params: []Port{
			{Name: "step", Type: micrortu.PMeNc1, Direction: binding.In, Min: 1, Max: 1},
		},
		Config: []ConfigField{{Name: "limit", Type: "u32"}},
	}
}

func TestBlock_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *Block)
		wantErr bool
	}{
		{"valid", func(b *Block) {}, false},
		{"short name", func(b *Block) { b.Name = "c" }, true},
		{"long name", func(b *Block) { b.Name = strings.Repeat("c", 33) }, true},
		{"leading underscore", func(b *Block) { b.Name = "_counter" }, true},
		{"upper case", func(b *Block) { b.Name = "Counter" }, true},
		{"empty port name", func(b *Block) { b.Ports[0].Name = "" }, true},
		{"zero min", func(b *Block) { b.Ports[0].Min = 0 }, true},
		{"max below min", func(b *Block) { b.Ports[1].Min, b.Ports[1].Max = 3, 2 }, true},
		{"unbounded", func(b *Block) { b.Ports[1].Max = 0 }, false},
		{"unknown type", func(b *Block) { b.Params[0].Type = 2 }, true},
		{"duplicate port", func(b *Block) { b.Ports[1].Name = "input" }, true},
		{"port and param share a name", func(b *Block) { b.Params[0].Name = "input" }, false},
		{"bad config type", func(b *Block) { b.Config[0].Type = "u128" }, true},
		{"duplicate config", func(b *Block) { b.Config = append(b.Config, b.Config[0]) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := counterBlock()
			tt.mutate(&b)
			err := b.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error %v is not ErrInvalid", err)
			}
		})
	}
}

func TestLoadManifest(t *testing.T) {
	m, err := LoadManifest("testdata/counter.toml")
	if err != nil {
		t.Fatalf("LoadManifest() error = %v", err)
	}
	if len(m.Blocks) != 2 {
		t.Fatalf("LoadManifest() = %d blocks", len(m.Blocks))
	}
	counter := m.Blocks[0]
	want := counterBlock()
	if counter.Name != want.Name || len(counter.Ports) != 2 || len(counter.Params) != 1 {
		t.Fatalf("counter = %+v", counter)
	}
	for i, p := range counter.Ports {
		if p.Definition() != want.Ports[i].Definition() {
			t.Errorf("port %d = %v, want %v", i, p.Definition(), want.Ports[i].Definition())
		}
	}
	if counter.Config[0] != want.Config[0] {
		t.Errorf("config = %v", counter.Config)
	}

	if _, err := LoadManifest("testdata/unknown_key.toml"); err == nil || !strings.Contains(err.Error(), "colour") {
		t.Errorf("LoadManifest() with unknown key error = %v", err)
	}
	if _, err := LoadManifest("testdata/missing.toml"); err == nil {
		t.Errorf("LoadManifest() of a missing file succeeded")
	}

	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	again, err := DecodeManifest(&buf)
	if err != nil || len(again.Blocks) != 2 || again.Blocks[1].Ports[1].Direction != binding.Out {
		t.Errorf("DecodeManifest(Encode()) = %+v, %v", again, err)
	}
}

func TestRegistry_Register(t *testing.T) {
	r := New(Option{})
	if err := r.Register(counterBlock()); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(counterBlock()); !errors.Is(err, ErrDuplicate) {
		t.Errorf("second Register() error = %v, want %v", err, ErrDuplicate)
	}
	bad := counterBlock()
	bad.Name = "x"
	if err := r.Register(bad); !errors.Is(err, ErrInvalid) {
		t.Errorf("Register() of an invalid block error = %v", err)
	}
	if _, err := r.Lookup("scale"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup() error = %v", err)
	}

	r = New(Option{AllowOverwrite: true})
	b := counterBlock()
	_ = r.Register(b)
	b.Description = "second"
	if err := r.Register(b); err != nil {
		t.Fatalf("Register() with AllowOverwrite error = %v", err)
	}
	if got, _ := r.Lookup("counter"); got.Description != "second" {
		t.Errorf("Lookup() = %+v", got)
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	r := New(Option{})
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = r.Register(counterBlock())
		}()
	}
	wg.Wait()
	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else if !errors.Is(err, ErrDuplicate) {
			t.Errorf("Register() error = %v", err)
		}
	}
	if ok != 1 || len(r.Blocks()) != 1 {
		t.Errorf("%d registrations succeeded", ok)
	}
}

func TestRegistry_Finalize(t *testing.T) {
	m, err := LoadManifest("testdata/counter.toml")
	if err != nil {
		t.Fatal(err)
	}
	r := New(Option{})
	if err := r.RegisterManifest(m); err != nil {
		t.Fatal(err)
	}
	blob, err := r.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if got := string(blob.Strings); got != "counterinputcountstepscaleinoutgain" {
		t.Errorf("Strings = %q", got)
	}
	if len(blob.Blocks) != 2 || len(blob.Bindings) != 6 {
		t.Fatalf("Finalize() = %d blocks, %d bindings", len(blob.Blocks), len(blob.Bindings))
	}
	if blob.Blocks[1].Ports != (Span{First: 3, Count: 2}) || blob.Blocks[1].Params != (Span{First: 5, Count: 1}) {
		t.Errorf("scale record = %+v", blob.Blocks[1])
	}

	ports, err := blob.Ports("counter")
	if err != nil || len(ports) != 2 || ports[1] != counterBlock().Ports[1].Definition() {
		t.Errorf("Ports() = %v, %v", ports, err)
	}
	params, err := blob.Params("scale")
	if err != nil || len(params) != 1 || params[0].Name != "gain" || !params[0].Required {
		t.Errorf("Params() = %v, %v", params, err)
	}
	if _, err := blob.Ports("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Ports() error = %v", err)
	}

	defs, err := binding.DecodeBindingDefinitions(blob.BindingTable(), blob.Strings)
	if err != nil || len(defs) != 6 || defs[4].Name != "out" {
		t.Errorf("DecodeBindingDefinitions() = %v, %v", defs, err)
	}

	js, err := json.Marshal(blob)
	if err != nil {
		t.Fatal(err)
	}
	var dump struct {
		Blocks []struct {
			Name  string `json:"name"`
			Ports []struct {
				Type      string `json:"type"`
				Direction string `json:"direction"`
			} `json:"ports"`
		} `json:"blocks"`
	}
	if err := json.Unmarshal(js, &dump); err != nil {
		t.Fatal(err)
	}
	if dump.Blocks[0].Name != "counter" || dump.Blocks[0].Ports[1].Type != "M_ME_NC_1" || dump.Blocks[0].Ports[1].Direction != "in_out" {
		t.Errorf("MarshalJSON() = %s", js)
	}

	if _, err := r.Finalize(); !errors.Is(err, ErrFinalized) {
		t.Errorf("second Finalize() error = %v", err)
	}
	if err := r.Register(Block{Name: "late"}); !errors.Is(err, ErrFinalized) {
		t.Errorf("Register() after Finalize() error = %v", err)
	}
}

func TestNewBlob_TableLimit(t *testing.T) {
	port := Port{Name: "p", Type: micrortu.MSpNa1, Direction: binding.In, Required: true, Min: 1, Max: 1}
	full := Block{Name: "full", Ports: make([]Port, 0xffff)}
	for i := range full.Ports {
		full.Ports[i] = port
	}
	if _, err := newBlob([]Block{full}); err != nil {
		t.Fatalf("newBlob() with %d records error = %v", len(full.Ports), err)
	}

	over := Block{Name: "over", Params: []Port{port}}
	if _, err := newBlob([]Block{full, over}); err == nil || !strings.Contains(err.Error(), "binding table full") {
		t.Errorf("newBlob() past the record limit error = %v", err)
	}
}
