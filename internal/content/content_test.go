package content

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/meditalk/meditalk/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIncluder(files fstest.MapFS) *Includer {
	return NewIncluder(NewLoader(files, nil), MaxDepth, false)
}

func TestLoader_MissingFile(t *testing.T) {
	l := NewLoader(fstest.MapFS{}, nil)
	_, err := l.Load(context.Background(), "nope.txt", true)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, l.Stats())
}

func TestLoader_CachesByBaseName(t *testing.T) {
	ctx := context.Background()
	files := fstest.MapFS{
		"pages/about.txt": {Data: []byte("about us\n")},
	}
	l := NewLoader(files, cache.NewContentCache(nil))

	data, err := l.Load(ctx, "pages/about.txt", true)
	require.NoError(t, err)
	assert.Equal(t, "about us\n", string(data))

	// served from the cache even though the file is gone
	delete(files, "pages/about.txt")
	data, err = l.Load(ctx, "other/about.txt", true)
	require.NoError(t, err)
	assert.Equal(t, "about us\n", string(data))

	l.Clear(ctx)
	_, err = l.Load(ctx, "pages/about.txt", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoader_NoMemoize(t *testing.T) {
	ctx := context.Background()
	files := fstest.MapFS{"a.txt": {Data: []byte("one")}}
	l := NewLoader(files, cache.NewContentCache(nil))

	_, err := l.Load(ctx, "a.txt", false)
	require.NoError(t, err)

	files["a.txt"] = &fstest.MapFile{Data: []byte("two")}
	data, err := l.Load(ctx, "a.txt", false)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name       string
		files      fstest.MapFS
		root       string
		wantText   string
		wantStatus Status
		wantErr    bool
	}{
		{
			name:       "plain file",
			files:      fstest.MapFS{"data.txt": {Data: []byte("TestData\n")}},
			root:       "data.txt",
			wantText:   "TestData\n",
			wantStatus: StatusComplete,
		},
		{
			name: "include strips one newline",
			files: fstest.MapFS{
				"root.txt":  {Data: []byte("before {{f child.txt}}")},
				"child.txt": {Data: []byte("DATA\n")},
			},
			root:       "root.txt",
			wantText:   "before DATA",
			wantStatus: StatusComplete,
		},
		{
			name: "only the last newline is stripped",
			files: fstest.MapFS{
				"root.txt":  {Data: []byte("[{{f child.txt}}]")},
				"child.txt": {Data: []byte("a\n\n")},
			},
			root:       "root.txt",
			wantText:   "[a\n]",
			wantStatus: StatusComplete,
		},
		{
			name: "nested includes and siblings",
			files: fstest.MapFS{
				"root.txt":   {Data: []byte("<{{f header.txt}}|{{f body.txt}}>\n")},
				"header.txt": {Data: []byte("H\n")},
				"body.txt":   {Data: []byte("B{{f inner.txt}}\n")},
				"inner.txt":  {Data: []byte("I\n")},
			},
			root:       "root.txt",
			wantText:   "<H|BI>\n",
			wantStatus: StatusComplete,
		},
		{
			name: "unknown verb and wrong arity stay verbatim",
			files: fstest.MapFS{
				"root.txt": {Data: []byte("{{x a.txt}} {{f}} {{f a b}} {{ }}")},
			},
			root:       "root.txt",
			wantText:   "{{x a.txt}} {{f}} {{f a b}} {{ }}",
			wantStatus: StatusComplete,
		},
		{
			name: "separators other than a single space stay verbatim",
			files: fstest.MapFS{
				"root.txt": {Data: []byte("{{ f a.txt }} {{f  a.txt}} {{f\ta.txt}} {{f a.txt}}")},
				"a.txt":    {Data: []byte("A\n")},
			},
			root:       "root.txt",
			wantText:   "{{ f a.txt }} {{f  a.txt}} {{f\ta.txt}} A",
			wantStatus: StatusComplete,
		},
		{
			name: "directive cannot span lines",
			files: fstest.MapFS{
				"root.txt":  {Data: []byte("{{f\nchild.txt}} {{f child.txt}}")},
				"child.txt": {Data: []byte("C")},
			},
			root:       "root.txt",
			wantText:   "{{f\nchild.txt}} C",
			wantStatus: StatusComplete,
		},
		{
			name: "missing nested file leaves directive and keeps siblings",
			files: fstest.MapFS{
				"root.txt": {Data: []byte("{{f gone.txt}}-{{f ok.txt}}")},
				"ok.txt":   {Data: []byte("OK\n")},
			},
			root:       "root.txt",
			wantText:   "{{f gone.txt}}-OK",
			wantStatus: StatusPartial,
			wantErr:    true,
		},
		{
			name: "failure deeper down marks the root partial",
			files: fstest.MapFS{
				"root.txt": {Data: []byte("R{{f mid.txt}}")},
				"mid.txt":  {Data: []byte("M{{f gone.txt}}\n")},
			},
			root:       "root.txt",
			wantText:   "RM{{f gone.txt}}",
			wantStatus: StatusPartial,
			wantErr:    true,
		},
		{
			name:       "missing root",
			files:      fstest.MapFS{},
			root:       "root.txt",
			wantText:   "",
			wantStatus: StatusFailed,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := newTestIncluder(tt.files).Expand(context.Background(), tt.root)
			assert.Equal(t, tt.wantText, exp.Text)
			assert.Equal(t, tt.wantStatus, exp.Status)
			if tt.wantErr {
				assert.ErrorIs(t, exp.Err, ErrNotFound)
			} else {
				assert.NoError(t, exp.Err)
			}
		})
	}
}

func TestExpand_SelfIncludeStopsAtDepth(t *testing.T) {
	files := fstest.MapFS{
		"recurse.txt": {Data: []byte("{{f recurse.txt}}\n")},
	}
	exp := newTestIncluder(files).Expand(context.Background(), "recurse.txt")
	require.NoError(t, exp.Err)
	assert.Equal(t, StatusComplete, exp.Status)
	assert.Equal(t, "{{f recurse.txt}}\n", exp.Text)
}

func TestExpand_CycleTerminates(t *testing.T) {
	files := fstest.MapFS{
		"a.txt": {Data: []byte("a{{f b.txt}}")},
		"b.txt": {Data: []byte("b{{f a.txt}}")},
	}
	exp := NewIncluder(NewLoader(files, nil), 3, false).Expand(context.Background(), "a.txt")
	require.NoError(t, exp.Err)
	assert.Equal(t, "abab{{f a.txt}}", exp.Text)
}

func TestExpandDepth_Zero(t *testing.T) {
	files := fstest.MapFS{
		"root.txt":  {Data: []byte("{{f child.txt}}")},
		"child.txt": {Data: []byte("C")},
	}
	exp := newTestIncluder(files).ExpandDepth(context.Background(), "root.txt", 0)
	assert.Equal(t, StatusComplete, exp.Status)
	assert.Equal(t, "{{f child.txt}}", exp.Text)
}

func TestExpand_CountsLevels(t *testing.T) {
	// each level adds one character, so the output length reveals the depth reached
	files := fstest.MapFS{
		"r.txt": {Data: []byte("x{{f r.txt}}")},
	}
	exp := NewIncluder(NewLoader(files, nil), 4, false).Expand(context.Background(), "r.txt")
	assert.Equal(t, strings.Repeat("x", 5)+"{{f r.txt}}", exp.Text)
}

func TestExpand_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exp := newTestIncluder(fstest.MapFS{"a.txt": {Data: []byte("a")}}).Expand(ctx, "a.txt")
	assert.Equal(t, StatusFailed, exp.Status)
	assert.ErrorIs(t, exp.Err, context.Canceled)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "complete", StatusComplete.String())
	assert.Equal(t, "partial", StatusPartial.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", Status(9).String())
}
