package source

import (
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strings"
)

// lookupPath walks a dotted path through decoded JSON objects. An empty
// path returns value itself.
func lookupPath(value any, path string) any {
	if path == "" {
		return value
	}
	current := value
	for _, key := range strings.Split(path, ".") {
		current = mapValue(current, key)
		if current == nil {
			return nil
		}
	}
	return current
}

func stringValue(values ...any) string {
	for _, value := range values {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		case int:
			return fmt.Sprintf("%d", v)
		case int64:
			return fmt.Sprintf("%d", v)
		case json.Number:
			return v.String()
		case fmt.Stringer:
			if v.String() != "" {
				return strings.TrimSpace(v.String())
			}
		case map[string]any:
			if name := stringValue(v["name"]); name != "" {
				return name
			}
		}
	}
	return ""
}

func mapValue(value any, key string) any {
	if value == nil {
		return nil
	}
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

func cleanText(value string) string {
	value = html.UnescapeString(value)
	return strings.Join(strings.Fields(value), " ")
}

func absoluteURL(base string, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

// matchesAnyWord reports whether text contains any whitespace-separated word
// of the keywords, ignoring case.
func matchesAnyWord(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, keyword := range keywords {
		for _, word := range strings.Fields(strings.ToLower(keyword)) {
			if strings.Contains(text, word) {
				return true
			}
		}
	}
	return false
}
