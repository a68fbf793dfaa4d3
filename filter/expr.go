package filter

import (
	"errors"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"

	"github.com/s0up4200/hyprest/hypothesis"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
	logger     zerolog.Logger
}

// CompilerOption configures an expr compiler
type CompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) CompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newProgramCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) CompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// WithLogger logs evaluation failures at debug level
func WithLogger(logger zerolog.Logger) CompilerOption {
	return func(c *exprCompiler) {
		c.logger = logger
	}
}

// NewCompiler creates a new expr-based filter compiler
func NewCompiler(opts ...CompilerOption) Compiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *programCache
	logger      zerolog.Logger
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
			Position:   -1,
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(compileEnvironment(c.helperFuncs)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, newCompilationError(expression, err)
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
		logger:     c.logger,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

func newCompilationError(expression string, err error) *CompilationError {
	compErr := &CompilationError{
		Expression: expression,
		Reason:     "failed to compile expression",
		Position:   -1,
		Err:        err,
	}

	var fileErr *file.Error
	if errors.As(err, &fileErr) {
		compErr.Reason = fileErr.Message
		compErr.Position = fileErr.Column
	}
	return compErr
}

// Evaluate evaluates the filter against an annotation. Runtime errors count
// as no match.
func (f *exprFilter) Evaluate(annotation hypothesis.Annotation) bool {
	env := createRuntimeEnvironment(f.helpers, annotation)

	result, err := expr.Run(f.program, env)
	if err != nil {
		f.logger.Debug().
			Err(err).
			Str("expression", f.expression).
			Str("annotation", annotation.ID).
			Msg("Filter evaluation failed")
		return false
	}

	return result.(bool)
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the static helper functions
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)

	// Date helpers
	funcs["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	funcs["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	funcs["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	funcs["now"] = time.Now

	// String helpers
	funcs["contains"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	funcs["startsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	funcs["endsWith"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	funcs["lower"] = strings.ToLower
	funcs["upper"] = strings.ToUpper

	return funcs
}

// compileEnvironment is the environment used for type checking. It has the
// same keys and value types as the runtime environment.
func compileEnvironment(helpers map[string]any) map[string]any {
	return createRuntimeEnvironment(helpers, hypothesis.Annotation{})
}

// createRuntimeEnvironment creates the environment for one annotation
func createRuntimeEnvironment(helpers map[string]any, annotation hypothesis.Annotation) map[string]any {
	env := make(map[string]any, len(helpers)+16)
	maps.Copy(env, helpers)

	tags := annotation.Tags
	if tags == nil {
		tags = []string{}
	}

	env["hasTag"] = createHasTagFunc(tags)

	env["ID"] = annotation.ID
	env["User"] = annotation.User
	env["URI"] = annotation.URI
	env["Text"] = annotation.Text
	env["Tags"] = tags
	env["Group"] = annotation.Group
	env["Hidden"] = annotation.Hidden
	env["Flagged"] = annotation.Flagged
	env["Created"] = annotation.CreatedAt()
	env["Updated"] = annotation.UpdatedAt()
	env["Title"] = annotation.Title()
	env["IsReply"] = annotation.IsReply()
	env["DisplayName"] = annotation.DisplayName()

	return env
}

func createHasTagFunc(tags []string) func(string) bool {
	lowerTags := make([]string, len(tags))
	for i, tag := range tags {
		lowerTags[i] = strings.ToLower(tag)
	}
	return func(tag string) bool {
		return slices.Contains(lowerTags, strings.ToLower(tag))
	}
}
