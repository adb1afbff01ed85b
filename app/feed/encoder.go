package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// Run serializes doc as indented JSON. HTML escaping is off so content_text
// keeps characters like "<" and "&" readable.
func (e *Encoder) Run(doc *Document) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode feed: %w", err)
	}

	return buf.Bytes(), nil
}
