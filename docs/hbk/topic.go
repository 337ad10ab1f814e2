package hbk

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// parseTopic extracts a Topic from one HBK HTML page (spec §4.H).
func parseTopic(entryPath, content string) Topic {
	t := Topic{Path: entryPath, Category: categoryFromPath(entryPath)}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return t
	}

	t.Title = extractTitle(doc)
	t.ObjectContext = extractObjectContext(doc, t.Title)
	t.SyntaxVariants = extractSyntaxVariants(doc)
	t.Description = extractDescription(doc)
	t.Parameters = extractParameters(doc)
	t.ReturnType = extractReturnType(doc)
	t.Availability = splitAvailability(extractChapterValue(doc, "Доступность"))
	t.Version = strings.TrimSpace(extractChapterValue(doc, "Версия"))
	t.Example = extractExample(doc)
	t.MethodRefs, t.PropertyRefs = extractInlineRefs(doc)

	return t
}

// forEach walks n and every descendant, calling visit on each node.
func forEach(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		forEach(c, visit)
	}
}

// textContent flattens every text node under n into one trimmed string.
func textContent(n *html.Node) string {
	var b strings.Builder
	forEach(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return strings.TrimSpace(b.String())
}

// hasClass reports whether n carries class name cls among its (possibly
// multi-valued) class attribute.
func hasClass(n *html.Node, cls string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == cls {
				return true
			}
		}
	}
	return false
}

func attrVal(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// nextElementSibling returns the next sibling that is an element or a
// non-blank text node, skipping whitespace-only text, mirroring the teacher's
// "next meaningful sibling" traversal pattern.
func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
		if s.Type == html.TextNode && strings.TrimSpace(s.Data) != "" {
			return s
		}
	}
	return nil
}

// findAll collects every descendant of n matching match, in document order.
func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	forEach(n, func(c *html.Node) {
		if match(c) {
			out = append(out, c)
		}
	})
	return out
}

func isElement(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == tag }
}

// extractTitle extracts the h1 with the documentation title class (spec
// §4.H "title (h1 with a specific doc class)").
func extractTitle(doc *html.Node) string {
	for _, h := range findAll(doc, isElement("h1")) {
		if hasClass(h, "V8SH_pagetitle") || hasClass(h, "V8SH_title") {
			return textContent(h)
		}
	}
	if headers := findAll(doc, isElement("h1")); len(headers) > 0 {
		return textContent(headers[0])
	}
	return ""
}

var objectContextPattern = regexp.MustCompile(`^([^(]+?)\s*\(`)

// extractObjectContext extracts the object-context sibling (the Russian
// name preceding a space-paren, spec §4.H).
func extractObjectContext(doc *html.Node, title string) string {
	for _, h := range findAll(doc, isElement("h2")) {
		text := textContent(h)
		if m := objectContextPattern.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	if m := objectContextPattern.FindStringSubmatch(title); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func isChapter(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.Data == "p" || n.Data == "div") && hasClass(n, "V8SH_chapter")
}

// extractSyntaxVariants extracts the "Синтаксис:" chapter's next-text for
// every "Вариант синтаксиса:" paragraph (spec §4.H).
func extractSyntaxVariants(doc *html.Node) []string {
	var variants []string
	for _, n := range findAll(doc, isChapter) {
		text := textContent(n)
		if !strings.Contains(text, "Вариант синтаксиса") && !strings.Contains(text, "Синтаксис") {
			continue
		}
		if next := nextElementSibling(n); next != nil {
			if v := textContent(next); v != "" {
				variants = append(variants, v)
			}
		}
	}
	return variants
}

// extractChapterValue finds the chapter paragraph containing label and
// returns the text of its next sibling.
func extractChapterValue(doc *html.Node, label string) string {
	for _, n := range findAll(doc, isChapter) {
		if strings.Contains(textContent(n), label) {
			if next := nextElementSibling(n); next != nil {
				return textContent(next)
			}
		}
	}
	return ""
}

// extractDescription extracts the free-text description chapter (spec
// §4.H).
func extractDescription(doc *html.Node) string {
	return extractChapterValue(doc, "Описание")
}

var optionalMarker = "(необязательный)"
var paramNamePattern = regexp.MustCompile(`<([^>]+)>`)

// extractParameters extracts one Parameter per `div.V8SH_rubric` (spec
// §4.H): name between angle brackets, optional-marker text, type from the
// first link, free-text description from the sibling after the block.
func extractParameters(doc *html.Node) []Parameter {
	var params []Parameter
	for _, div := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "V8SH_rubric")
	}) {
		text := textContent(div)
		name := text
		if m := paramNamePattern.FindStringSubmatch(text); m != nil {
			name = strings.TrimSpace(m[1])
		}
		p := Parameter{
			Name:     name,
			Optional: strings.Contains(text, optionalMarker),
		}
		if links := findAll(div, isElement("a")); len(links) > 0 {
			p.Type = textContent(links[0])
		}
		if next := nextElementSibling(div); next != nil && !hasClass(next, "V8SH_rubric") {
			p.Description = textContent(next)
		}
		params = append(params, p)
	}
	return params
}

var returnTypePattern = regexp.MustCompile(`(?:Тип|Type)\s*:\s*(.+)`)

// extractReturnType parses the "Возвращаемое значение" chapter per the
// patterns in spec §4.H: `Тип: <a>…</a>`, plain `Тип: Name`, or the first
// link in the section excluding "Описание"/"Description".
func extractReturnType(doc *html.Node) string {
	for _, n := range findAll(doc, isChapter) {
		text := textContent(n)
		if !strings.Contains(text, "Возвращаемое значение") {
			continue
		}
		section := nextElementSibling(n)
		if section == nil {
			return ""
		}
		sectionText := textContent(section)
		if m := returnTypePattern.FindStringSubmatch(sectionText); m != nil {
			candidate := strings.TrimSpace(m[1])
			if links := findAll(section, isElement("a")); len(links) > 0 {
				return textContent(links[0])
			}
			return candidate
		}
		for _, link := range findAll(section, isElement("a")) {
			text := textContent(link)
			if text != "Описание" && text != "Description" && text != "" {
				return text
			}
		}
	}
	return ""
}

func splitAvailability(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// extractExample returns the text of the first table sibling (spec §4.H).
func extractExample(doc *html.Node) string {
	tables := findAll(doc, isElement("table"))
	if len(tables) == 0 {
		return ""
	}
	return textContent(tables[0])
}

// extractInlineRefs collects links whose href points into `methods/` or
// `properties/` (spec §4.H).
func extractInlineRefs(doc *html.Node) (methods, properties []string) {
	for _, a := range findAll(doc, isElement("a")) {
		href, ok := attrVal(a, "href")
		if !ok {
			continue
		}
		text := textContent(a)
		if text == "" {
			continue
		}
		switch {
		case strings.Contains(href, "methods/"):
			methods = append(methods, text)
		case strings.Contains(href, "properties/"):
			properties = append(properties, text)
		}
	}
	return methods, properties
}
