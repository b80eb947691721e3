// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

// Package model evaluates the pre-trained neural collaborative filtering
// network that scores (user, product, category) triples.
//
// The network concatenates one embedding row per id, runs the result through
// a stack of fully connected ReLU layers and finishes with a linear layer
// producing a single score. Weights are loaded once from a safetensors
// snapshot and never change, so a Network is safe for concurrent use.
package model

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/tomtom215/productrec/internal/catalog"
	"github.com/tomtom215/productrec/internal/logging"
)

var (
	// ErrIndexOutOfRange is returned when an id has no row in its embedding table.
	ErrIndexOutOfRange = errors.New("embedding index out of range")

	// ErrShapeMismatch is returned when snapshot tensors do not form a
	// consistent network, or do not fit the loaded catalog.
	ErrShapeMismatch = errors.New("tensor shape mismatch")
)

// Scorer predicts the affinity of a user for a product in a category.
// Higher scores rank first.
type Scorer interface {
	Score(ctx context.Context, userID, productID, categoryID int) (float64, error)
}

// Tensor names as exported from the training code's state dict.
const (
	userEmbeddingName     = "user_embedding.weight"
	itemEmbeddingName     = "item_embedding.weight"
	categoryEmbeddingName = "category_embedding.weight"
	hiddenLayerPrefix     = "fc_layers."
	outputLayerPrefix     = "output_layer."
)

type embedding struct {
	name    string
	rows    int
	dim     int
	weights []float32
}

func (e embedding) lookup(id int) ([]float32, error) {
	if id < 0 || id >= e.rows {
		return nil, fmt.Errorf("%w: %s id %d not in [0,%d)", ErrIndexOutOfRange, e.name, id, e.rows)
	}
	return e.weights[id*e.dim : (id+1)*e.dim], nil
}

type dense struct {
	in, out int
	weight  []float32 // [out][in]
	bias    []float32
}

// apply writes W·x + b into dst, applying ReLU when relu is set.
func (d dense) apply(dst, x []float32, relu bool) {
	for o := 0; o < d.out; o++ {
		row := d.weight[o*d.in : (o+1)*d.in]
		sum := d.bias[o]
		for i, w := range row {
			sum += w * x[i]
		}
		if relu && sum < 0 {
			sum = 0
		}
		dst[o] = sum
	}
}

// Network is the inference-only NCF model.
type Network struct {
	users      embedding
	items      embedding
	categories embedding
	hidden     []dense
	output     dense
}

// Architecture describes a loaded Network.
type Architecture struct {
	Users        int   `json:"users"`
	Items        int   `json:"items"`
	Categories   int   `json:"categories"`
	EmbeddingDim int   `json:"embedding_dim"`
	Layers       []int `json:"layers"`
	Parameters   int   `json:"parameters"`
}

// NewNetwork assembles a Network from named tensors and checks that their
// shapes chain together. Unrecognised tensors are ignored.
func NewNetwork(tensors map[string]Tensor) (*Network, error) {
	users, err := newEmbedding(tensors, userEmbeddingName)
	if err != nil {
		return nil, err
	}
	items, err := newEmbedding(tensors, itemEmbeddingName)
	if err != nil {
		return nil, err
	}
	categories, err := newEmbedding(tensors, categoryEmbeddingName)
	if err != nil {
		return nil, err
	}
	if items.dim != users.dim || categories.dim != users.dim {
		return nil, fmt.Errorf("%w: embedding dims differ (user %d, item %d, category %d)",
			ErrShapeMismatch, users.dim, items.dim, categories.dim)
	}

	n := &Network{users: users, items: items, categories: categories}

	in := 3 * users.dim
	for i := 0; ; i++ {
		prefix := hiddenLayerPrefix + strconv.Itoa(i) + "."
		if _, ok := tensors[prefix+"weight"]; !ok {
			break
		}
		layer, err := newDense(tensors, prefix, in)
		if err != nil {
			return nil, err
		}
		n.hidden = append(n.hidden, layer)
		in = layer.out
	}

	n.output, err = newDense(tensors, outputLayerPrefix, in)
	if err != nil {
		return nil, err
	}
	if n.output.out != 1 {
		return nil, fmt.Errorf("%w: output layer produces %d values, want 1", ErrShapeMismatch, n.output.out)
	}

	used := map[string]bool{
		userEmbeddingName:           true,
		itemEmbeddingName:           true,
		categoryEmbeddingName:       true,
		outputLayerPrefix + "weight": true,
		outputLayerPrefix + "bias":   true,
	}
	for i := range n.hidden {
		used[hiddenLayerPrefix+strconv.Itoa(i)+".weight"] = true
		used[hiddenLayerPrefix+strconv.Itoa(i)+".bias"] = true
	}
	for name := range tensors {
		if !used[name] {
			logging.Debug().Str("tensor", name).Msg("Ignoring unrecognised tensor")
		}
	}
	return n, nil
}

func newEmbedding(tensors map[string]Tensor, name string) (embedding, error) {
	t, ok := tensors[name]
	if !ok {
		return embedding{}, fmt.Errorf("%w: missing tensor %s", ErrShapeMismatch, name)
	}
	if len(t.Shape) != 2 || t.Shape[1] == 0 {
		return embedding{}, fmt.Errorf("%w: %s has shape %v, want [rows, dim]", ErrShapeMismatch, name, t.Shape)
	}
	if err := checkData(name, t); err != nil {
		return embedding{}, err
	}
	return embedding{name: name, rows: t.Shape[0], dim: t.Shape[1], weights: t.Data}, nil
}

func newDense(tensors map[string]Tensor, prefix string, in int) (dense, error) {
	w, ok := tensors[prefix+"weight"]
	if !ok {
		return dense{}, fmt.Errorf("%w: missing tensor %sweight", ErrShapeMismatch, prefix)
	}
	b, ok := tensors[prefix+"bias"]
	if !ok {
		return dense{}, fmt.Errorf("%w: missing tensor %sbias", ErrShapeMismatch, prefix)
	}
	if len(w.Shape) != 2 || w.Shape[1] != in {
		return dense{}, fmt.Errorf("%w: %sweight has shape %v, want [out, %d]", ErrShapeMismatch, prefix, w.Shape, in)
	}
	if len(b.Shape) != 1 || b.Shape[0] != w.Shape[0] {
		return dense{}, fmt.Errorf("%w: %sbias has shape %v, want [%d]", ErrShapeMismatch, prefix, b.Shape, w.Shape[0])
	}
	if err := checkData(prefix+"weight", w); err != nil {
		return dense{}, err
	}
	if err := checkData(prefix+"bias", b); err != nil {
		return dense{}, err
	}
	return dense{in: in, out: w.Shape[0], weight: w.Data, bias: b.Data}, nil
}

// checkData reports a tensor whose data does not hold exactly the elements
// its shape describes.
func checkData(name string, t Tensor) error {
	if n, ok := elementCount(t.Shape, len(t.Data)); !ok || n != len(t.Data) {
		return fmt.Errorf("%w: %s has %d values for shape %v", ErrShapeMismatch, name, len(t.Data), t.Shape)
	}
	return nil
}

// Score runs one forward pass. Ids outside their embedding table return
// ErrIndexOutOfRange.
func (n *Network) Score(ctx context.Context, userID, productID, categoryID int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	u, err := n.users.lookup(userID)
	if err != nil {
		return 0, err
	}
	p, err := n.items.lookup(productID)
	if err != nil {
		return 0, err
	}
	c, err := n.categories.lookup(categoryID)
	if err != nil {
		return 0, err
	}

	dim := n.users.dim
	x := make([]float32, 3*dim)
	copy(x, u)
	copy(x[dim:], p)
	copy(x[2*dim:], c)

	for _, layer := range n.hidden {
		y := make([]float32, layer.out)
		layer.apply(y, x, true)
		x = y
	}

	var out [1]float32
	n.output.apply(out[:], x, false)
	return float64(out[0]), nil
}

// Architecture reports table sizes and layer widths. Layers lists the input
// width of every hidden layer followed by the width fed to the output layer.
func (n *Network) Architecture() Architecture {
	a := Architecture{
		Users:        n.users.rows,
		Items:        n.items.rows,
		Categories:   n.categories.rows,
		EmbeddingDim: n.users.dim,
	}
	a.Parameters = len(n.users.weights) + len(n.items.weights) + len(n.categories.weights)
	for _, l := range n.hidden {
		a.Layers = append(a.Layers, l.in)
		a.Parameters += len(l.weight) + len(l.bias)
	}
	a.Layers = append(a.Layers, n.output.in)
	a.Parameters += len(n.output.weight) + len(n.output.bias)
	return a
}

// CheckCardinality verifies the embedding tables are sized for the catalog's
// distinct user, product and category counts.
func (n *Network) CheckCardinality(c catalog.Cardinality) error {
	if n.users.rows != c.Users || n.items.rows != c.Items || n.categories.rows != c.Categories {
		return fmt.Errorf("%w: model tables (users %d, items %d, categories %d) do not match interactions (users %d, items %d, categories %d)",
			ErrShapeMismatch, n.users.rows, n.items.rows, n.categories.rows, c.Users, c.Items, c.Categories)
	}
	return nil
}
