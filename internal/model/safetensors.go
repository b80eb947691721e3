// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

package model

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/goccy/go-json"
	"github.com/x448/float16"
)

// maxHeaderSize bounds the JSON header so a corrupt length prefix cannot
// trigger a huge allocation.
const maxHeaderSize = 100 << 20

const metadataKey = "__metadata__"

// Tensor is a decoded tensor widened to float32, row-major.
type Tensor struct {
	Shape []int
	Data  []float32
}

type tensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int    `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

func dtypeSize(dtype string) (int, error) {
	switch dtype {
	case "F32":
		return 4, nil
	case "F16":
		return 2, nil
	default:
		return 0, fmt.Errorf("unsupported dtype %q", dtype)
	}
}

// elementCount returns the product of shape. It fails on a negative dimension
// or once the product would exceed limit, before any multiplication can wrap.
func elementCount(shape []int, limit int) (int, bool) {
	for _, d := range shape {
		if d < 0 {
			return 0, false
		}
		if d == 0 {
			return 0, true
		}
	}
	n := 1
	for _, d := range shape {
		if n > limit/d {
			return 0, false
		}
		n *= d
	}
	return n, true
}

// decodeSafetensors parses a safetensors buffer: an 8-byte little-endian
// header length, a JSON header, then the tensor data.
func decodeSafetensors(raw []byte) (map[string]Tensor, map[string]string, error) {
	if len(raw) < 8 {
		return nil, nil, fmt.Errorf("snapshot too short: %d bytes", len(raw))
	}
	n := binary.LittleEndian.Uint64(raw[:8])
	if n > maxHeaderSize || n > uint64(len(raw)-8) {
		return nil, nil, fmt.Errorf("invalid header length %d for %d byte snapshot", n, len(raw))
	}
	header := raw[8 : 8+n]
	data := raw[8+n:]

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(header, &entries); err != nil {
		return nil, nil, fmt.Errorf("parse snapshot header: %w", err)
	}

	var meta map[string]string
	tensors := make(map[string]Tensor, len(entries))
	for name, rawEntry := range entries {
		if name == metadataKey {
			if err := json.Unmarshal(rawEntry, &meta); err != nil {
				return nil, nil, fmt.Errorf("parse snapshot metadata: %w", err)
			}
			continue
		}

		var h tensorHeader
		if err := json.Unmarshal(rawEntry, &h); err != nil {
			return nil, nil, fmt.Errorf("parse tensor %s: %w", name, err)
		}
		t, err := decodeTensor(h, data)
		if err != nil {
			return nil, nil, fmt.Errorf("tensor %s: %w", name, err)
		}
		tensors[name] = t
	}
	return tensors, meta, nil
}

func decodeTensor(h tensorHeader, data []byte) (Tensor, error) {
	size, err := dtypeSize(h.DType)
	if err != nil {
		return Tensor{}, err
	}
	for _, d := range h.Shape {
		if d < 0 {
			return Tensor{}, fmt.Errorf("negative dimension in shape %v", h.Shape)
		}
	}

	begin, end := h.DataOffsets[0], h.DataOffsets[1]
	if begin < 0 || end < begin || end > int64(len(data)) {
		return Tensor{}, fmt.Errorf("data offsets [%d,%d) outside %d byte buffer", begin, end, len(data))
	}
	span := int(end - begin)
	count, ok := elementCount(h.Shape, math.MaxInt/size)
	if !ok {
		return Tensor{}, fmt.Errorf("shape %v overflows the element count", h.Shape)
	}
	if count*size != span {
		return Tensor{}, fmt.Errorf("shape %v needs %d bytes of %s, offsets span %d",
			h.Shape, count*size, h.DType, span)
	}

	buf := data[begin:end]
	out := make([]float32, count)
	switch h.DType {
	case "F32":
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		}
	case "F16":
		for i := range out {
			out[i] = float16.Frombits(binary.LittleEndian.Uint16(buf[i*2:])).Float32()
		}
	}
	return Tensor{Shape: append([]int(nil), h.Shape...), Data: out}, nil
}
