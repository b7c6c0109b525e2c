package content

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
)

// MaxDepth is the default include recursion bound.
const MaxDepth = 10

// IncludeVerb is the directive verb that splices in another file.
const IncludeVerb = "f"

const (
	directiveOpen  = "{{"
	directiveClose = "}}"
)

// Status tells how far an expansion got.
type Status int

const (
	// StatusComplete means every include directive below the depth bound was expanded.
	StatusComplete Status = iota
	// StatusPartial means at least one nested include failed and was left in place.
	StatusPartial
	// StatusFailed means the root file could not be loaded.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusPartial:
		return "partial"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Expansion is the result of expanding a content file.
// Err holds the first error met; it is nil only for StatusComplete.
type Expansion struct {
	Text   string
	Status Status
	Err    error
}

// Includer expands {{f name}} directives recursively.
type Includer struct {
	loader   *Loader
	maxDepth int
	memoize  bool
}

// NewIncluder returns an includer reading through loader. A negative maxDepth selects MaxDepth.
func NewIncluder(loader *Loader, maxDepth int, memoize bool) *Includer {
	if maxDepth < 0 {
		maxDepth = MaxDepth
	}
	return &Includer{
		loader:   loader,
		maxDepth: maxDepth,
		memoize:  memoize,
	}
}

// Expand expands name with the configured depth.
func (in *Includer) Expand(ctx context.Context, name string) Expansion {
	return in.ExpandDepth(ctx, name, in.maxDepth)
}

// ExpandDepth loads name and expands its directives up to depth levels deep.
// At depth 0 the file is returned with its directives untouched.
func (in *Includer) ExpandDepth(ctx context.Context, name string, depth int) Expansion {
	if err := ctx.Err(); err != nil {
		return Expansion{Status: StatusFailed, Err: err}
	}
	data, err := in.loader.Load(ctx, name, in.memoize)
	if err != nil {
		return Expansion{Status: StatusFailed, Err: err}
	}

	exp := Expansion{Status: StatusComplete}
	if depth <= 0 {
		exp.Text = string(data)
		return exp
	}
	exp.Text = in.expandText(ctx, string(data), depth, &exp)
	return exp
}

// expandText replaces every directive in text. A directive is the shortest
// "{{ ... }}" run on a single line.
func (in *Includer) expandText(ctx context.Context, text string, depth int, exp *Expansion) string {
	var b strings.Builder
	rest := text
	for {
		start := strings.Index(rest, directiveOpen)
		if start < 0 {
			break
		}
		bodyStart := start + len(directiveOpen)
		end := strings.Index(rest[bodyStart:], directiveClose)
		if end < 0 {
			break
		}
		body := rest[bodyStart : bodyStart+end]
		if strings.Contains(body, "\n") {
			// no match starting here, try the next position
			b.WriteString(rest[:start+1])
			rest = rest[start+1:]
			continue
		}
		directiveEnd := bodyStart + end + len(directiveClose)
		b.WriteString(rest[:start])
		b.WriteString(in.resolve(ctx, rest[start:directiveEnd], body, depth, exp))
		rest = rest[directiveEnd:]
	}
	b.WriteString(rest)
	return b.String()
}

// resolve returns the replacement for a single directive. The body is split on
// single spaces, so padded or tab separated directives stay verbatim.
func (in *Includer) resolve(ctx context.Context, directive, body string, depth int, exp *Expansion) string {
	fields := strings.Split(body, " ")
	if len(fields) != 2 || fields[0] != IncludeVerb {
		return directive
	}

	child := in.ExpandDepth(ctx, fields[1], depth-1)
	if child.Err != nil {
		exp.Status = StatusPartial
		if exp.Err == nil {
			exp.Err = child.Err
		}
	}
	if child.Status == StatusFailed {
		log.Debug("include failed", "name", fields[1], "error", child.Err)
		return directive
	}
	return strings.TrimSuffix(child.Text, "\n")
}
