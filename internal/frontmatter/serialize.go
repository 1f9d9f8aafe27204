package frontmatter

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

type encodeTaxonomies struct {
	Tags []string `toml:"tags"`
}

// encodeDoc mirrors envelope with string-typed date for serialization.
type encodeDoc struct {
	Title       string            `toml:"title"`
	Date        string            `toml:"date"`
	Description string            `toml:"description,omitempty"`
	Draft       bool              `toml:"draft,omitempty"`
	Taxonomies  *encodeTaxonomies `toml:"taxonomies,omitempty"`
}

// Encode renders fm and body back into a fenced sub-document. Extension keys
// are not round-tripped; the recognized fields are.
func Encode(fm *FrontMatter, body string) (string, error) {
	doc := encodeDoc{
		Title:       fm.Title,
		Date:        fm.Date.Format(DateLayout),
		Description: fm.Description,
		Draft:       fm.Draft,
	}
	if len(fm.Tags) > 0 {
		doc.Taxonomies = &encodeTaxonomies{Tags: fm.Tags}
	}

	var buf bytes.Buffer
	buf.WriteString(Fence + "\n")
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return "", fmt.Errorf("frontmatter: encode: %w", err)
	}
	buf.WriteString(Fence + "\n")
	if body != "" {
		buf.WriteString(body)
	}
	return buf.String(), nil
}
