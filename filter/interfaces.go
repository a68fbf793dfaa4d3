package filter

import (
	"context"

	"github.com/s0up4200/hyprest/hypothesis"
)

// Filter defines the basic interface for annotation filters
type Filter interface {
	// Evaluate checks if an annotation matches the filter criteria
	Evaluate(annotation hypothesis.Annotation) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// Evaluator evaluates a filter against a list of annotations
type Evaluator interface {
	Evaluate(ctx context.Context, filter CompiledFilter, annotations []hypothesis.Annotation) ([]hypothesis.Annotation, error)
}
