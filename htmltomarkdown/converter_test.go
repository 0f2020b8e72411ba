package htmltomarkdown_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/htmltomarkdown"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts basic paragraph", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert([]byte(`<p>Our store is open daily.</p>`))

		require.NoError(t, err)
		assert.Contains(t, md, "Our store is open daily.")
	})

	t.Run("converts headings", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert([]byte(`<h1>Shipping</h1><h2>Rates</h2>`))

		require.NoError(t, err)
		assert.Contains(t, md, "# Shipping")
		assert.Contains(t, md, "## Rates")
	})

	t.Run("converts links", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert([]byte(`<p>See our <a href="https://acme.test/returns">returns policy</a>.</p>`))

		require.NoError(t, err)
		assert.Contains(t, md, "[returns policy](https://acme.test/returns)")
	})

	t.Run("converts lists", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert([]byte(`<ul><li>Standard</li><li>Express</li></ul>`))

		require.NoError(t, err)
		assert.Contains(t, md, "- Standard")
		assert.Contains(t, md, "- Express")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<tr><th>Plan</th><th>Price</th></tr>
<tr><td>Basic</td><td>$10</td></tr>
</table>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert([]byte(html))

		require.NoError(t, err)
		assert.Contains(t, md, "Plan")
		assert.Contains(t, md, "$10")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert([]byte("   \n  "))

		assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))
	})
}
