package fetch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	updateMarker       = "зміни в гпв"
	announcementPhrase = "застосовуватимуться відключення"
	pinMarker          = "📌"
	megaphoneMarker    = "📢"
)

var rangeRe = regexp.MustCompile(`(\d{1,2}:\d{2})\s*(?:до|по)\s*(\d{1,2}:\d{2})`)

// Page is the scraped announcement document.
type Page struct {
	paragraphs []string
}

// ParsePage parses the fetched HTML into paragraph texts.
func ParsePage(html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse announcement page: %w", err)
	}
	var paras []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			paras = append(paras, text)
		}
	})
	return &Page{paragraphs: paras}, nil
}

// QueueRanges extracts the raw range list for the given queue, normalized to
// comma-joined "HH:MM до HH:MM" entries. When the page carries a "зміни в
// ГПВ" update section listing the queue, the update replaces the main block
// entirely; updated reports which source won. An empty result with
// updated=false means the page lists no outages for the queue.
func (p *Page) QueueRanges(queue string) (raw string, updated bool) {
	if upd, ok := p.updateRanges(queue); ok {
		return upd, true
	}
	return p.mainRanges(queue), false
}

// mainRanges finds the "<queue> черга" paragraph of the main announcement.
func (p *Page) mainRanges(queue string) string {
	marker := queueMarkerRe(queue)
	for _, text := range p.paragraphs {
		if marker.MatchString(text) {
			if raw := normalizeRanges(text); raw != "" {
				return raw
			}
		}
	}
	return ""
}

// updateRanges scans the update section, which lists queues as "📌 6.2"
// entries with "по" separators, and ends at the next "📢" announcement.
func (p *Page) updateRanges(queue string) (string, bool) {
	start := -1
	for i, text := range p.paragraphs {
		if strings.Contains(strings.ToLower(text), updateMarker) {
			start = i
			break
		}
	}
	if start == -1 {
		return "", false
	}
	var section strings.Builder
	for _, text := range p.paragraphs[start:] {
		if strings.Contains(text, megaphoneMarker) && section.Len() > 0 {
			break
		}
		section.WriteString(text)
		section.WriteByte('\n')
	}

	entryRe := regexp.MustCompile(pinMarker + `\s*` + regexp.QuoteMeta(queue) + `(?:\s*черга)?[^📌]*`)
	entry := entryRe.FindString(section.String())
	if entry == "" {
		return "", false
	}
	raw := normalizeRanges(entry)
	return raw, raw != ""
}

// DateLabel extracts the "<day> <month>" pair from the announcement line,
// as free text in the source language. Empty when the line is absent.
func (p *Page) DateLabel() string {
	for _, text := range p.paragraphs {
		if !strings.Contains(text, announcementPhrase) {
			continue
		}
		if m := dateRe.FindStringSubmatch(text); m != nil {
			return m[1] + " " + m[2]
		}
	}
	return ""
}

// queueMarkerRe matches "<queue> черга" without also matching a longer queue
// number that merely ends with the same digits (e.g. "16.2" for "6.2").
func queueMarkerRe(queue string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\d.])` + regexp.QuoteMeta(queue) + `\s*черга`)
}

// normalizeRanges pulls every "HH:MM до|по HH:MM" pair out of the text and
// rejoins them comma-separated with the canonical "до" separator.
func normalizeRanges(text string) string {
	matches := rangeRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return ""
	}
	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = m[1] + " до " + m[2]
	}
	return strings.Join(parts, ", ")
}
