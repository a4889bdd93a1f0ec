package agent

import "regexp"

var wikilinkPattern = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)

// extractWikilinks returns the link text of every [[wikilink]] in content,
// in document order, duplicates included.
func extractWikilinks(content string) []string {
	matches := wikilinkPattern.FindAllStringSubmatch(content, -1)
	links := make([]string, 0, len(matches))
	for _, match := range matches {
		links = append(links, match[1])
	}
	return links
}
