// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

package model

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/goccy/go-json"
	"github.com/x448/float16"
)

type fixtureTensor struct {
	dtype  string
	shape  []int
	values []float32
}

// encodeSafetensors builds a snapshot the way the exporter lays it out.
func encodeSafetensors(t testing.TB, tensors map[string]fixtureTensor, meta map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(tensors))
	for name := range tensors {
		names = append(names, name)
	}
	sort.Strings(names)

	header := make(map[string]interface{}, len(tensors)+1)
	if meta != nil {
		header[metadataKey] = meta
	}
	var data []byte
	for _, name := range names {
		ft := tensors[name]
		begin := len(data)
		for _, v := range ft.values {
			switch ft.dtype {
			case "F16":
				data = binary.LittleEndian.AppendUint16(data, float16.Fromfloat32(v).Bits())
			default:
				data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v))
			}
		}
		dtype := ft.dtype
		if dtype == "" {
			dtype = "F32"
		}
		header[name] = map[string]interface{}{
			"dtype":        dtype,
			"shape":        ft.shape,
			"data_offsets": []int{begin, len(data)},
		}
	}

	h, err := json.Marshal(header)
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}
	out := binary.LittleEndian.AppendUint64(nil, uint64(len(h)))
	out = append(out, h...)
	return append(out, data...)
}

// tinyNetwork is a hand-checkable model: D=1, one hidden layer 3->2.
//
//	users      [[1],[2]]
//	items      [[0.5],[-1],[3]]
//	categories [[1]]
//	hidden W   [[1,1,1],[1,-1,0]]  b [0,-10]
//	output W   [[2,3]]             b [0.5]
func tinyNetwork(dtype string) map[string]fixtureTensor {
	return map[string]fixtureTensor{
		"user_embedding.weight":     {dtype: dtype, shape: []int{2, 1}, values: []float32{1, 2}},
		"item_embedding.weight":     {dtype: dtype, shape: []int{3, 1}, values: []float32{0.5, -1, 3}},
		"category_embedding.weight": {dtype: dtype, shape: []int{1, 1}, values: []float32{1}},
		"fc_layers.0.weight":        {dtype: dtype, shape: []int{2, 3}, values: []float32{1, 1, 1, 1, -1, 0}},
		"fc_layers.0.bias":          {dtype: dtype, shape: []int{2}, values: []float32{0, -10}},
		"output_layer.weight":       {dtype: dtype, shape: []int{1, 2}, values: []float32{2, 3}},
		"output_layer.bias":         {dtype: dtype, shape: []int{1}, values: []float32{0.5}},
	}
}

func writeSnapshot(t testing.TB, raw []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.safetensors")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}
