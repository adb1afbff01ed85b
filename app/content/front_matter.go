package content

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// splitFrontMatter separates a leading YAML block fenced by "---" lines from
// the document body. Documents without front matter are returned as body.
func splitFrontMatter(data []byte) (*FrontMatter, string, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	var fm FrontMatter
	if !strings.HasPrefix(text, fence+"\n") {
		return &fm, text, nil
	}
	rest := text[len(fence)+1:]

	var header, body string
	if rest == fence || strings.HasPrefix(rest, fence+"\n") {
		body = rest[len(fence):]
	} else {
		end := strings.Index(rest, "\n"+fence+"\n")
		if end < 0 {
			if !strings.HasSuffix(rest, "\n"+fence) {
				return nil, "", fmt.Errorf("unterminated front matter")
			}
			end = len(rest) - len(fence) - 1
		}
		header = rest[:end+1]
		body = rest[end+1+len(fence):]
	}

	if header != "" {
		if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
			return nil, "", fmt.Errorf("failed to parse front matter: %w", err)
		}
	}

	return &fm, strings.TrimLeft(body, "\n"), nil
}

// EncodePage renders a page file with a YAML header followed by body
func EncodePage(fm FrontMatter, body string) ([]byte, error) {
	header, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fence + "\n")
	sb.Write(header)
	sb.WriteString(fence + "\n")
	if body = strings.TrimSpace(body); body != "" {
		sb.WriteString("\n" + body + "\n")
	}

	return []byte(sb.String()), nil
}
