package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchText_ExtractsVisibleText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html>
<head><title>ignored</title><style>body { color: red; }</style></head>
<body>
<script>console.log("ignored");</script>
<h1>Acme Services</h1>
<p>We offer cloud &amp; hosting.</p>
<!-- a comment -->
</body></html>`))
	}))
	defer server.Close()

	f := New(Config{})
	text, err := f.FetchText(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "Acme Services")
	assert.Contains(t, text, "We offer cloud & hosting.")
	assert.NotContains(t, text, "console.log")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "a comment")
	assert.NotContains(t, text, "ignored")
}

func TestFetchText_SetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>ok</p>"))
	}))
	defer server.Close()

	f := New(Config{})
	_, err := f.FetchText(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestFetchText_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := New(Config{})
	_, err := f.FetchText(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchText_RejectsNonHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	f := New(Config{})
	_, err := f.FetchText(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content type")
}

func TestFetchText_TruncatesLongPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>" + strings.Repeat("x", maxTextRunes*2) + "</p>"))
	}))
	defer server.Close()

	f := New(Config{})
	text, err := f.FetchText(context.Background(), server.URL)
	require.NoError(t, err)
	assert.LessOrEqual(t, len([]rune(text)), maxTextRunes)
}

func TestStripHTML_BlockElementsBecomeNewlines(t *testing.T) {
	text := stripHTML("<div>first</div><div>second</div>")

	assert.Equal(t, "first\nsecond", text)
}

func TestStripHTML_CollapsesWhitespace(t *testing.T) {
	text := stripHTML("<p>a    lot   of\t\tspace</p>")

	assert.Equal(t, "a lot of space", text)
}
