package trafilatura_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitechat/sitechat/trafilatura"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title and main content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Store Hours - Acme</title>
<meta property="og:title" content="Store Hours">
</head>
<body>
<nav><a href="/">Home</a><a href="/contact">Contact</a></nav>
<main>
<h1>Store Hours</h1>
<p>We are open Monday through Friday from 9am to 5pm.</p>
</main>
<footer>Copyright Acme Corp</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.ContentHTML, "Monday through Friday")
	})

	t.Run("removes navigation boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Returns</title></head>
<body>
<nav class="main-nav">
<ul>
<li><a href="/">Home</a></li>
<li><a href="/faq">FAQ</a></li>
</ul>
</nav>
<article>
<h1>Return Policy</h1>
<p>Items may be returned within thirty days of purchase.</p>
</article>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "thirty days of purchase")
		assert.NotContains(t, result.ContentHTML, "main-nav")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("")

		require.Error(t, err)
	})

	t.Run("handles minimal valid HTML", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(`<html><body><p>Simple content</p></body></html>`)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "Simple content")
	})
}
