package service

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	excerptMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	excerptStripper = bluemonday.StrictPolicy()
)

const excerptRuneLimit = 200

// excerptFromMarkdown renders the body and strips all markup, keeping a
// short plain-text lead for thread listings.
func excerptFromMarkdown(body string) string {
	var rendered bytes.Buffer
	if err := excerptMarkdown.Convert([]byte(body), &rendered); err != nil {
		rendered.Reset()
		rendered.WriteString(body)
	}

	plain := excerptStripper.Sanitize(rendered.String())
	plain = strings.Join(strings.Fields(plain), " ")

	runes := []rune(plain)
	if len(runes) <= excerptRuneLimit {
		return plain
	}
	return strings.TrimSpace(string(runes[:excerptRuneLimit])) + "…"
}
