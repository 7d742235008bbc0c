// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package sampling generates seeded standard-normal samples for Monte-Carlo
// simulation.
//
// Example:
//
//	cfg := sampling.DefaultConfig() // 100000 stratified paths, seed 3413
//	normals, err := sampling.Normal(cfg)
package sampling

import "github.com/born-ml/aadmc/internal/sampling"

// Config describes one sample vector.
type Config = sampling.Config

// Method selects how normal samples are drawn.
type Method = sampling.Method

// Sampling methods.
const (
	Stratified   = sampling.Stratified
	PseudoRandom = sampling.PseudoRandom
)

// ErrInvalidPaths is returned for non-positive path counts.
var ErrInvalidPaths = sampling.ErrInvalidPaths

// DefaultConfig returns 100000 stratified paths with seed 3413.
func DefaultConfig() Config {
	return sampling.DefaultConfig()
}

// Normal returns cfg.Paths standard-normal samples.
func Normal(cfg Config) ([]float64, error) {
	return sampling.Normal(cfg)
}

// ParseMethod parses a method name.
func ParseMethod(s string) (Method, error) {
	return sampling.ParseMethod(s)
}
