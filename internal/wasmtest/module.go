// Package wasmtest assembles the small core WebAssembly modules the block tests run.
package wasmtest

import "math"

func uleb(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func sleb(v int64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func wasmName(s string) []byte {
	return append(uleb(uint64(len(s))), s...)
}

func wasmVec(items ...[]byte) []byte {
	out := uleb(uint64(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func wasmSection(id byte, content []byte) []byte {
	return append(append([]byte{id}, uleb(uint64(len(content)))...), content...)
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

const (
	i32 = 0x7f
	i64 = 0x7e

	// Shared is the address the SHARED global of Counter holds.
	Shared = 1024
	// Handle is the block handle factory_counter returns.
	Handle = 16
)

/*
Counter assembles a block named counter. Its step writes 42.0 into the first port payload (the region is
assumed to hold a single five byte element with no params), marks port 0 dirty, logs "hello" at info level and returns
the i32 stored at its handle.
*/
func Counter() []byte {
	functype := func(params []byte, results []byte) []byte {
		return cat([]byte{0x60}, uleb(uint64(len(params))), params, uleb(uint64(len(results))), results)
	}
	appendParams := make([]byte, 16)
	for i := range appendParams {
		appendParams[i] = i64
	}
	types := wasmVec(
		functype(appendParams, nil),
		functype([]byte{i64}, nil),
		functype([]byte{i32}, []byte{i32}),
		functype([]byte{i32, i32}, []byte{i32}),
	)
	imports := wasmVec(
		cat(wasmName("env"), wasmName("log_append"), []byte{0x00, 0x00}),
		cat(wasmName("env"), wasmName("log_emit"), []byte{0x00, 0x01}),
	)
	funcs := wasmVec([]byte{2}, []byte{3}, []byte{3})
	memory := wasmVec([]byte{0x00, 0x01})
	globals := wasmVec(cat([]byte{i32, 0x00, 0x41}, sleb(Shared), []byte{0x0b}))
	exports := wasmVec(
		cat(wasmName("memory"), []byte{0x02, 0x00}),
		cat(wasmName("SHARED"), []byte{0x03, 0x00}),
		cat(wasmName("factory_counter"), []byte{0x00, 0x02}),
		cat(wasmName("init_counter"), []byte{0x00, 0x03}),
		cat(wasmName("step_counter"), []byte{0x00, 0x04}),
	)

	body := func(code ...[]byte) []byte {
		b := cat(append([][]byte{{0x00}}, code...)...)
		b = append(b, 0x0b)
		return append(uleb(uint64(len(b))), b...)
	}
	hello := int64(0)
	for i, c := range []byte("hello") {
		hello |= int64(c) << (8 * i)
	}
	step := [][]byte{
		{0x20, 0x00}, cat([]byte{0x41}, sleb(int64(int32(math.Float32bits(42))))), {0x36, 0x02, 0x24}, // *(shared+36) = 42.0
		{0x20, 0x00}, {0x42, 0x01}, {0x37, 0x03, 0x10}, // *(shared+16) = 1
		{0x42, 0x05}, cat([]byte{0x42}, sleb(hello)),
	}
	for range 14 {
		step = append(step, []byte{0x42, 0x00})
	}
	step = append(step,
		[]byte{0x10, 0x00},       // log_append
		[]byte{0x42, 0x03},       // info
		[]byte{0x10, 0x01},       // log_emit
		[]byte{0x20, 0x01},       // handle
		[]byte{0x28, 0x02, 0x00}, // i32.load
	)
	code := wasmVec(
		body(cat([]byte{0x41}, sleb(Handle))),
		body([]byte{0x41, 0x00}),
		body(step...),
	)

	return cat(
		[]byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00},
		wasmSection(1, types),
		wasmSection(2, imports),
		wasmSection(3, funcs),
		wasmSection(5, memory),
		wasmSection(6, globals),
		wasmSection(7, exports),
		wasmSection(10, code),
	)
}
