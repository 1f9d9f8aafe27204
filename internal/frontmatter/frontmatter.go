// Package frontmatter extracts and validates the TOML metadata block that
// opens every sub-document.
package frontmatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/starford/ansuz/internal/apperr"
)

// Fence is the delimiter line marking the start and end of a front-matter block.
const Fence = "+++"

// DateLayout is the only accepted calendar date grammar for string dates.
const DateLayout = "2006-01-02"

// FrontMatter is the parsed metadata block of one sub-document. Unrecognized
// keys are preserved in Extra under their dotted TOML names.
type FrontMatter struct {
	Title       string
	Date        time.Time
	Description string
	Tags        []string
	Draft       bool
	Extra       map[string]any
}

// envelope is the typed TOML decode target. Date is kept primitive so that
// both quoted YYYY-MM-DD strings and bare TOML dates are accepted.
type envelope struct {
	Title       string         `toml:"title"`
	Date        toml.Primitive `toml:"date"`
	Description string         `toml:"description"`
	Draft       bool           `toml:"draft"`
	Taxonomies  struct {
		Tags []string `toml:"tags"`
	} `toml:"taxonomies"`
}

// Parse splits doc into its front matter and body. The document must open
// with a fence line; the TOML block runs until the matching closing fence.
func Parse(doc string) (*FrontMatter, string, error) {
	block, body, err := extractBlock(doc)
	if err != nil {
		return nil, "", err
	}

	var env envelope
	md, err := toml.Decode(block, &env)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", apperr.ErrMalformedFrontMatter, err)
	}

	if !md.IsDefined("title") || strings.TrimSpace(env.Title) == "" {
		return nil, "", fmt.Errorf("%w: title", apperr.ErrMissingRequiredField)
	}
	if !md.IsDefined("date") {
		return nil, "", fmt.Errorf("%w: date", apperr.ErrMissingRequiredField)
	}
	date, err := decodeDate(md, env.Date)
	if err != nil {
		return nil, "", err
	}

	fm := &FrontMatter{
		Title:       env.Title,
		Date:        date,
		Description: env.Description,
		Tags:        dedupe(env.Taxonomies.Tags),
		Draft:       env.Draft,
		Extra:       collectExtra(block, md),
	}
	return fm, body, nil
}

// extractBlock returns the TOML text between the fences and the body after
// the closing fence.
func extractBlock(doc string) (string, string, error) {
	trimmed := strings.TrimLeft(doc, "\n\r")
	lines := strings.Split(trimmed, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != Fence {
		return "", "", fmt.Errorf("%w: missing opening fence", apperr.ErrMalformedFrontMatter)
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == Fence {
			block := strings.Join(lines[1:i], "\n")
			body := strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n\r")
			return block, body, nil
		}
	}
	return "", "", fmt.Errorf("%w: missing closing fence", apperr.ErrMalformedFrontMatter)
}

// decodeDate accepts either a quoted YYYY-MM-DD string or a bare TOML date
// and normalises the result to midnight UTC.
func decodeDate(md toml.MetaData, prim toml.Primitive) (time.Time, error) {
	var s string
	if err := md.PrimitiveDecode(prim, &s); err == nil {
		t, err := time.Parse(DateLayout, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", apperr.ErrInvalidDate, s)
		}
		return t, nil
	}
	var t time.Time
	if err := md.PrimitiveDecode(prim, &t); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("%w: date is not a string or TOML date", apperr.ErrInvalidDate)
}

// collectExtra gathers every key the envelope did not consume, preserving
// unknown metadata for downstream consumers.
func collectExtra(block string, md toml.MetaData) map[string]any {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	var raw map[string]any
	if _, err := toml.Decode(block, &raw); err != nil {
		return nil
	}

	extra := make(map[string]any)
	for _, key := range undecoded {
		name := key.String()
		if coveredByParent(extra, name) {
			continue
		}
		if v, ok := lookupKey(raw, key); ok {
			extra[name] = v
		}
	}
	return extra
}

// coveredByParent reports whether a prefix of the dotted name is already
// stored, meaning the value is reachable inside an earlier map entry.
func coveredByParent(extra map[string]any, name string) bool {
	for stored := range extra {
		if strings.HasPrefix(name, stored+".") {
			return true
		}
	}
	return false
}

func lookupKey(raw map[string]any, key toml.Key) (any, bool) {
	var cur any = raw
	for _, part := range key {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
