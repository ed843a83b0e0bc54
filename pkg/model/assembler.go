package model

import (
	"time"

	internalmodel "docforge/internal/model"
	pkgdataset "docforge/pkg/dataset"
)

// Assembler converts project datasets into render contexts.
type Assembler interface {
	Assemble(dataset pkgdataset.Dataset, templateName string) RenderContext
}

// Normalizer reconciles the loosely-typed risks section into the uniform
// record sequence templates consume.
type Normalizer interface {
	NormalizeRisks(raw any) []RiskRecord
}

// AssemblerOption configures the assembler behaviour.
type AssemblerOption func(*assemblerOptions)

type assemblerOptions struct {
	clock     func() time.Time
	generator string
	workdir   string
}

// WithClock overrides the timestamp source stamped into generation metadata.
// Tests use this to pin otherwise non-deterministic output.
func WithClock(clock func() time.Time) AssemblerOption {
	return func(opts *assemblerOptions) {
		opts.clock = clock
	}
}

// WithGenerator overrides the tool name recorded in invocation metadata.
func WithGenerator(name string) AssemblerOption {
	return func(opts *assemblerOptions) {
		opts.generator = name
	}
}

// WithWorkDir overrides the working directory recorded in invocation
// metadata.
func WithWorkDir(dir string) AssemblerOption {
	return func(opts *assemblerOptions) {
		opts.workdir = dir
	}
}

// NewAssembler returns an Assembler backed by the internal implementation.
func NewAssembler(options ...AssemblerOption) Assembler {
	cfg := assemblerOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	internalOpts := internalmodel.Options{}
	if cfg.clock != nil {
		internalOpts.Clock = cfg.clock
	}
	if cfg.generator != "" {
		internalOpts.Generator = cfg.generator
	}
	if cfg.workdir != "" {
		internalOpts.WorkDir = cfg.workdir
	}

	return internalmodel.New(internalOpts)
}

// NewNormalizer returns the canonical risk normalizer.
func NewNormalizer() Normalizer {
	return internalmodel.NewNormalizer()
}
