package clipboard

import "testing"

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"paragraph", "<p>Hello   <strong>world</strong></p>", "Hello world"},
		{
			"blocks separated by blank line",
			"<h1>Title</h1>\n<p>Some <em>text</em>.</p>",
			"Title\n\nSome text.",
		},
		{
			"list items on their own lines",
			"<p>Intro</p>\n<ul>\n<li>one</li>\n<li>two</li>\n</ul>",
			"Intro\n\none\ntwo",
		},
		{
			"preformatted text kept",
			"<pre><code>a   b\n  c\n</code></pre>\n<p>after</p>",
			"a   b\n  c\n\nafter",
		},
		{
			"blank lines and trailing blanks inside pre kept",
			"<pre><code>x  \n\n\n\ny\t\n</code></pre><p>after  </p>",
			"x  \n\n\n\ny\t\n\nafter",
		},
		{
			"nested blocks collapse to one blank line",
			"<div><p>a</p></div><div><p>b</p></div>",
			"a\n\nb",
		},
		{
			"table cells separated by tabs",
			"<table><thead><tr><th>a</th><th>b</th></tr></thead><tbody><tr><td>1</td><td>2</td></tr></tbody></table>",
			"a\tb\n1\t2",
		},
		{"line break", "<p>one<br>two</p>", "one\ntwo"},
		{"entities decoded", "<p>a &amp; b &lt;c&gt;</p>", "a & b <c>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := PlainText(tt.input)
			if err != nil {
				t.Fatalf("PlainText() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("PlainText() = %q, want %q", got, tt.want)
			}
		})
	}
}
