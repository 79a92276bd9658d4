package markdown

import (
	"strings"
	"testing"
)

func convert(t *testing.T, html, base string) string {
	t.Helper()
	out, err := Convert(html, base)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	return out
}

func TestConvertBasicDocument(t *testing.T) {
	html := `<h1>T</h1><p>Hello <strong>world</strong></p><pre><code class="language-js">let x=1;</code></pre>`
	got := convert(t, html, "")

	want := "# T\n\nHello **world**\n\n```js\nlet x=1;\n```"
	if got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}
}

func TestConvertHeadingsAndLists(t *testing.T) {
	html := `<h2>Section</h2><ul><li>one</li><li>two<ul><li>nested</li></ul></li></ul><ol start="3"><li>three</li></ol>`
	got := convert(t, html, "")

	for _, want := range []string{"## Section", "- one", "- two", "  - nested", "3. three"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestConvertImages(t *testing.T) {
	tests := []struct {
		name string
		html string
		base string
		want string
	}{
		{
			name: "lazy source preferred",
			html: `<img src="placeholder.gif" data-src="https://cdn.example.com/real.jpg" alt="A cat">`,
			want: "![A cat](https://cdn.example.com/real.jpg)",
		},
		{
			name: "data url dropped",
			html: `<p>Intro.</p><img src="data:image/png;base64,AAAA" alt="x">`,
			want: "Intro.",
		},
		{
			name: "relative resolved against base",
			html: `<img src="/img/pic.png" alt="pic">`,
			base: "https://example.com/post/1",
			want: "![pic](https://example.com/img/pic.png)",
		},
		{
			name: "dimensions emitted when both known",
			html: `<img src="https://example.com/a.png" alt="a" width="640" height="480">`,
			want: "![a](https://example.com/a.png =640x480)",
		},
		{
			name: "title quoted",
			html: `<img src="https://example.com/a.png" alt="a" title="The caption">`,
			want: `![a](https://example.com/a.png "The caption")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convert(t, tt.html, tt.base); got != tt.want {
				t.Errorf("Convert() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertLinks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "normal link",
			html: `<p>See <a href="https://example.com/doc">the docs</a>.</p>`,
			want: "See [the docs](https://example.com/doc).",
		},
		{
			name: "javascript target renders as text",
			html: `<p><a href="javascript:void(0)">click me</a></p>`,
			want: "click me",
		},
		{
			name: "self anchor renders as text",
			html: `<p><a href="#">top</a></p>`,
			want: "top",
		},
		{
			name: "tracking params stripped",
			html: `<p><a href="https://example.com/a?utm_source=feed&id=7">story</a></p>`,
			want: "",
		},
		{
			name: "autolink when text equals target",
			html: `<p><a href="https://example.com">https://example.com</a></p>`,
			want: "<https://example.com>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convert(t, tt.html, "")
			if tt.name == "tracking params stripped" {
				if strings.Contains(got, "utm_source") {
					t.Errorf("tracking param survived: %q", got)
				}
				if !strings.Contains(got, "id=7") {
					t.Errorf("legitimate param lost: %q", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Convert() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertBlockquote(t *testing.T) {
	html := `<blockquote cite="https://example.com/src"><p>First line.</p><p>Second line.</p></blockquote>`
	got := convert(t, html, "")

	want := "> First line.\n>\n> Second line.\n> — https://example.com/src"
	if got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}
}

func TestConvertTable(t *testing.T) {
	html := `<table><thead><tr><th>Name</th><th>Age</th></tr></thead><tbody><tr><td>Ada</td><td>36</td></tr></tbody></table>`
	got := convert(t, html, "")

	for _, want := range []string{"| Name | Age |", "| --- | --- |", "| Ada | 36 |"} {
		if !strings.Contains(got, want) {
			t.Errorf("table output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, spanCaveat) {
		t.Error("caveat emitted for a table without spans")
	}
}

func TestConvertTableWithSpans(t *testing.T) {
	html := `<table><tr><th>A</th><th>B</th></tr><tr><td colspan="2">wide</td></tr></table>`
	got := convert(t, html, "")
	if !strings.Contains(got, spanCaveat) {
		t.Errorf("expected span caveat in:\n%s", got)
	}
}

func TestConvertInlineMappings(t *testing.T) {
	tests := []struct {
		html string
		want string
	}{
		{`<p><del>old</del></p>`, "~~old~~"},
		{`<p>x<sup>2</sup></p>`, "x^2^"},
		{`<p>H<sub>2</sub>O</p>`, "H~2~O"},
		{`<p><span class="math inline">E = mc^2</span></p>`, "$E = mc^2$"},
		{`<p><code>nil</code></p>`, "`nil`"},
	}
	for _, tt := range tests {
		if got := convert(t, tt.html, ""); got != tt.want {
			t.Errorf("Convert(%q) = %q, want %q", tt.html, got, tt.want)
		}
	}
}

func TestLangFromClass(t *testing.T) {
	tests := []struct {
		class string
		want  string
	}{
		{"language-go", "go"},
		{"lang-python highlighted", "python"},
		{"brush: ruby; gutter: true", "ruby"},
		{"hljs", ""},
	}
	for _, tt := range tests {
		if got := langFromClass(tt.class); got != tt.want {
			t.Errorf("langFromClass(%q) = %q, want %q", tt.class, got, tt.want)
		}
	}
}

func TestSniffLanguage(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"json", `{"name": "value", "n": 2}`, "json"},
		{"html", `<div class="x">hi</div>`, "html"},
		{"sql", "SELECT id, name FROM users WHERE id = 1", "sql"},
		{"go", "func main() {\n\tx := 1\n}", "go"},
		{"python", "def greet(name):\n    return name", "python"},
		{"javascript", "const f = (x) => x * 2;", "javascript"},
		{"bash", "#!/bin/sh\nls -la", "bash"},
		{"unknown", "just some prose words", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sniffLanguage(tt.content); got != tt.want {
				t.Errorf("sniffLanguage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripLineNumbers(t *testing.T) {
	in := "1. let a = 1;\n2. let b = 2;\n3. let c = 3;"
	want := "let a = 1;\nlet b = 2;\nlet c = 3;"
	if got := stripLineNumbers(in); got != want {
		t.Errorf("stripLineNumbers() = %q, want %q", got, want)
	}

	// Mostly unnumbered content is untouched.
	plain := "let a = 1;\nlet b = 2;"
	if got := stripLineNumbers(plain); got != plain {
		t.Errorf("stripLineNumbers() altered clean content: %q", got)
	}
}

func TestStripTrackingParams(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://e.com/a?utm_source=x&utm_medium=y", "https://e.com/a"},
		{"https://e.com/a?fbclid=abc&page=2", "https://e.com/a?page=2"},
		{"https://e.com/a?page=2", "https://e.com/a?page=2"},
	}
	for _, tt := range tests {
		if got := stripTrackingParams(tt.in); got != tt.want {
			t.Errorf("stripTrackingParams(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
