package search

import (
	"strings"

	"golang.org/x/net/html"
)

// Small traversal helpers shared by the engine parsers.

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// findAll walks the subtree rooted at n, collecting element nodes with
// the given tag and class. An empty class matches any node of that tag.
func findAll(n *html.Node, tag, class string) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag && (class == "" || hasClass(node, class)) {
			nodes = append(nodes, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return nodes
}

func findFirst(n *html.Node, tag, class string) *html.Node {
	if nodes := findAll(n, tag, class); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// nodeText concatenates all text content below n.
func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		// Scripts and styles carry no result text.
		if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// absoluteURL resolves protocol-relative and root-relative hrefs
// against the engine's base.
func absoluteURL(href, base string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return strings.TrimSuffix(base, "/") + href
	default:
		return href
	}
}
