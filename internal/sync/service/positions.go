package service

import (
	"strings"

	"ausmass_backend/internal/bexio"
	"ausmass_backend/internal/sync/repository"
)

// Line-splitting keeps the data transformation separate from markup: body
// text is first normalized into typed lines, and HTML rendering is a final,
// swappable step.

// attributeTokens are the special attributes captured inline in free text.
// A substring starting with one of them is pulled onto its own line.
var attributeTokens = []string{"Farbton:", "Applikationsart:"}

type lineKind int

const (
	linePlain lineKind = iota
	lineToken
)

type bodyLine struct {
	kind lineKind
	text string
}

const (
	lineBreak      = "<br/>"
	paragraphBreak = "<br/><br/>"
)

func renderRoomHeader(name string) string {
	return "<strong><u>" + name + "</u></strong>"
}

func renderTitle(title string) string {
	return "<strong>" + title + "</strong>"
}

// renderBody joins plain lines with paragraph breaks and token lines with
// single breaks, token block last.
func renderBody(lines []bodyLine) string {
	var plain, tokens []string
	for _, line := range lines {
		if line.kind == lineToken {
			tokens = append(tokens, line.text)
		} else {
			plain = append(plain, line.text)
		}
	}

	var blocks []string
	if len(plain) > 0 {
		blocks = append(blocks, strings.Join(plain, paragraphBreak))
	}
	if len(tokens) > 0 {
		blocks = append(blocks, strings.Join(tokens, lineBreak))
	}
	return strings.Join(blocks, paragraphBreak)
}

// composeBodyLines assembles the body of one measurement position: catalog
// description, own description, then notes prefixed with "Hinweis:", each
// split so attribute tokens get their own line.
func composeBodyLines(setting *repository.CategorySetting, m repository.Measurement) []bodyLine {
	var paragraphs []string
	if setting != nil && setting.OfferDescription != nil {
		if desc := strings.TrimSpace(*setting.OfferDescription); desc != "" {
			paragraphs = append(paragraphs, desc)
		}
	}
	if desc := strings.TrimSpace(m.Description); desc != "" {
		paragraphs = append(paragraphs, desc)
	}
	if notes := strings.TrimSpace(m.Notes); notes != "" {
		paragraphs = append(paragraphs, "Hinweis: "+notes)
	}

	var lines []bodyLine
	for _, p := range paragraphs {
		for _, part := range splitAttributeLines(p) {
			lines = append(lines, bodyLine{kind: classifyLine(part), text: part})
		}
	}
	return lines
}

func classifyLine(s string) lineKind {
	for _, token := range attributeTokens {
		if strings.HasPrefix(s, token) {
			return lineToken
		}
	}
	return linePlain
}

// splitAttributeLines splits a paragraph so every attribute token starts its
// own line. Text before the first token keeps its original spacing; the
// token-bearing remainder is whitespace-collapsed before splitting. A
// paragraph without tokens passes through untouched.
func splitAttributeLines(paragraph string) []string {
	idx := firstTokenIndex(paragraph)
	if idx < 0 {
		return []string{paragraph}
	}

	var out []string
	if before := strings.TrimSpace(paragraph[:idx]); before != "" {
		out = append(out, before)
	}
	collapsed := strings.Join(strings.Fields(paragraph[idx:]), " ")
	return append(out, splitBeforeTokens(collapsed)...)
}

func firstTokenIndex(s string) int {
	first := -1
	for _, token := range attributeTokens {
		if idx := strings.Index(s, token); idx >= 0 && (first == -1 || idx < first) {
			first = idx
		}
	}
	return first
}

// splitBeforeTokens cuts s immediately before each attribute token
// occurrence past position zero.
func splitBeforeTokens(s string) []string {
	var parts []string
	start := 0
	for i := 1; i < len(s); i++ {
		for _, token := range attributeTokens {
			if strings.HasPrefix(s[i:], token) {
				if part := strings.TrimSpace(s[start:i]); part != "" {
					parts = append(parts, part)
				}
				start = i
				break
			}
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" {
		parts = append(parts, last)
	}
	return parts
}

// buildRoomPositions produces the positions for one room: a bold+underlined
// header, then one priced position per measurement in category-then-load
// order. Rooms without measurements contribute nothing, not even a header.
func buildRoomPositions(room repository.Room, measurements []repository.Measurement, settings map[string]repository.CategorySetting) []bexio.Position {
	if len(measurements) == 0 {
		return nil
	}

	positions := []bexio.Position{{
		Type: bexio.PositionText,
		Text: renderRoomHeader(room.Name),
	}}

	for _, group := range groupByCategory(measurements) {
		var setting *repository.CategorySetting
		if s, ok := settings[group.category]; ok {
			setting = &s
		}

		for _, m := range group.items {
			positions = append(positions, buildMeasurementPosition(setting, group.category, m))
		}
	}

	return positions
}

func buildMeasurementPosition(setting *repository.CategorySetting, category string, m repository.Measurement) bexio.Position {
	title := category
	if setting != nil && strings.TrimSpace(setting.OfferTitle) != "" {
		title = setting.OfferTitle
	}
	title = strings.TrimSpace(title)

	amount := m.Quantity
	if amount == 0 {
		amount = 1
	}
	unitPrice := 0.0
	taxRate := 8.1
	if setting != nil {
		unitPrice = setting.UnitPrice
		if setting.TaxRate != 0 {
			taxRate = setting.TaxRate
		}
	}

	text := renderTitle(title)
	if lines := composeBodyLines(setting, m); len(lines) > 0 {
		text = strings.TrimSpace(text + paragraphBreak + renderBody(lines))
	}

	return bexio.Position{
		Type:      bexio.PositionCustom,
		Text:      text,
		Amount:    amount,
		UnitPrice: unitPrice,
		UnitName:  bexio.MapUnitName(m.Unit),
		TaxRate:   taxRate,
	}
}

type categoryGroup struct {
	category string
	items    []repository.Measurement
}

// groupByCategory groups measurements preserving first-appearance order,
// which for the ascending-category load order keeps categories sorted.
func groupByCategory(measurements []repository.Measurement) []categoryGroup {
	index := make(map[string]int)
	var groups []categoryGroup
	for _, m := range measurements {
		i, ok := index[m.Category]
		if !ok {
			i = len(groups)
			index[m.Category] = i
			groups = append(groups, categoryGroup{category: m.Category})
		}
		groups[i].items = append(groups[i].items, m)
	}
	return groups
}

// settingsByCategory indexes catalog entries by category key; a duplicated
// category keeps the last entry, matching the load order.
func settingsByCategory(settings []repository.CategorySetting) map[string]repository.CategorySetting {
	byCategory := make(map[string]repository.CategorySetting, len(settings))
	for _, s := range settings {
		byCategory[s.Category] = s
	}
	return byCategory
}
