// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

package model

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/tomtom215/productrec/internal/logging"
	"github.com/tomtom215/productrec/internal/metrics"
)

// ErrDigestMismatch is returned when a snapshot does not hash to the
// configured digest.
var ErrDigestMismatch = errors.New("model digest mismatch")

// Snapshot is a Network together with where it came from.
type Snapshot struct {
	*Network

	Path     string
	Digest   string // hex BLAKE2b-256 of the file
	Metadata map[string]string
}

// Digest returns the hex BLAKE2b-256 digest of b.
func Digest(b []byte) string {
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// LoadSnapshot reads a safetensors file and builds the Network. When
// expectedDigest is non-empty the file must hash to it.
func LoadSnapshot(path, expectedDigest string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model snapshot: %w", err)
	}

	digest := Digest(raw)
	if expectedDigest != "" && !strings.EqualFold(expectedDigest, digest) {
		return nil, fmt.Errorf("%w: %s hashes to %s, expected %s", ErrDigestMismatch, path, digest, expectedDigest)
	}

	tensors, meta, err := decodeSafetensors(raw)
	if err != nil {
		return nil, fmt.Errorf("decode model snapshot %s: %w", path, err)
	}
	net, err := NewNetwork(tensors)
	if err != nil {
		return nil, fmt.Errorf("build model from %s: %w", path, err)
	}

	arch := net.Architecture()
	metrics.ModelParameters.Set(float64(arch.Parameters))
	metrics.ModelInfo.WithLabelValues(digest, strconv.Itoa(arch.EmbeddingDim)).Set(1)

	logging.Info().
		Str("path", path).
		Str("digest", digest).
		Int("embedding_dim", arch.EmbeddingDim).
		Ints("layers", arch.Layers).
		Int("parameters", arch.Parameters).
		Msg("Model snapshot loaded")

	return &Snapshot{Network: net, Path: path, Digest: digest, Metadata: meta}, nil
}
