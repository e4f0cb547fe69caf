package article

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	convofs "github.com/elee1766/convo/src/fs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<html>
<head><title>Tennis Results</title><style>p{}</style></head>
<body>
<nav><a href="/">Home</a></nav>
<main>
<h1>2018 U.S. Open</h1>
<p>Sloane <strong>Stephens</strong> won the women's title.</p>
<script>alert(1)</script>
</main>
<footer>copyright</footer>
</body>
</html>`

func newTestLoader(t *testing.T, maxBytes int64) *Loader {
	t.Helper()
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/docs/notes.txt", []byte("  plain notes \n"), 0o644))
	require.NoError(t, afero.WriteFile(base, "/docs/readme.md", []byte("# Title\n\nbody"), 0o644))
	require.NoError(t, afero.WriteFile(base, "/docs/page.html", []byte(sampleHTML), 0o644))
	require.NoError(t, afero.WriteFile(base, "/docs/empty.txt", []byte("   \n"), 0o644))
	require.NoError(t, afero.WriteFile(base, "/docs/data.pdf", []byte("%PDF"), 0o644))
	return NewLoader(convofs.NewContextualFs(base, "/docs"), maxBytes)
}

func TestLoadFile(t *testing.T) {
	loader := newTestLoader(t, 0)

	tests := []struct {
		name        string
		source      string
		wantTitle   string
		wantFormat  string
		wantContent string
		wantErr     error
	}{
		{name: "text", source: "notes.txt", wantTitle: "notes.txt", wantFormat: "text", wantContent: "plain notes"},
		{name: "markdown", source: "/docs/readme.md", wantTitle: "readme.md", wantFormat: "markdown", wantContent: "# Title\n\nbody"},
		{name: "empty", source: "empty.txt", wantErr: ErrEmpty},
		{name: "unsupported", source: "data.pdf", wantErr: ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := loader.Load(context.Background(), tt.source)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, a.Title)
			assert.Equal(t, tt.wantFormat, a.Format)
			assert.Equal(t, tt.wantContent, a.Content)
		})
	}
}

func TestLoadHTMLFile(t *testing.T) {
	loader := newTestLoader(t, 0)

	a, err := loader.Load(context.Background(), "page.html")
	require.NoError(t, err)
	assert.Equal(t, "Tennis Results", a.Title)
	assert.Equal(t, "markdown", a.Format)
	assert.Contains(t, a.Content, "# 2018 U.S. Open")
	assert.Contains(t, a.Content, "Sloane **Stephens** won the women's title.")
	assert.NotContains(t, a.Content, "alert")
	assert.NotContains(t, a.Content, "Home")
	assert.NotContains(t, a.Content, "copyright")
}

func TestLoadFileTooLarge(t *testing.T) {
	loader := newTestLoader(t, 4)

	_, err := loader.Load(context.Background(), "readme.md")
	assert.ErrorIs(t, err, convofs.ErrTooLarge)
}

func TestLoadURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, sampleHTML)
		case "/plain":
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprint(w, "just text")
		case "/big":
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprint(w, strings.Repeat("x", 2000))
		case "/binary":
			w.Header().Set("Content-Type", "application/octet-stream")
			fmt.Fprint(w, "\x00\x01")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	loader := NewLoader(afero.NewMemMapFs(), 1000)
	ctx := context.Background()

	a, err := loader.Load(ctx, server.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, "Tennis Results", a.Title)

	a, err = loader.Load(ctx, server.URL+"/plain")
	require.NoError(t, err)
	assert.Equal(t, "just text", a.Content)
	assert.Equal(t, server.URL+"/plain", a.Title)

	_, err = loader.Load(ctx, server.URL+"/big")
	assert.ErrorIs(t, err, convofs.ErrTooLarge)

	_, err = loader.Load(ctx, server.URL+"/binary")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = loader.Load(ctx, server.URL+"/missing")
	assert.Error(t, err)
}
