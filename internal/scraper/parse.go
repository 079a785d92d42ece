package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// This file isolates the fragile, markup-shaped parsing: raw label
// lines, result-row tables, and profile detail pages. Nothing outside
// it should know a selector.

var labelSplitRe = regexp.MustCompile(`\s{2,}|\t+`)

// ParseLabelsAndKeywords splits a classification line into its green
// label (field), blue label (specialty) and trailing keywords. The
// directory renders the two labels separated by runs of whitespace and
// the keywords after a semicolon.
func ParseLabelsAndKeywords(line string) (green, blue string, keywords []string) {
	parts := strings.Split(line, ";")
	left := ""
	if len(parts) > 0 {
		left = strings.TrimSpace(parts[0])
	}
	for _, p := range parts[1:] {
		if p = strings.TrimSpace(p); p != "" {
			keywords = append(keywords, p)
		}
	}
	leftParts := labelSplitRe.Split(left, -1)
	if len(leftParts) > 0 {
		green = strings.TrimSpace(leftParts[0])
	}
	if len(leftParts) > 1 {
		blue = strings.TrimSpace(leftParts[1])
	}
	for _, p := range leftParts[2:] {
		if p = strings.TrimSpace(p); p != "" {
			keywords = append(keywords, p)
		}
	}
	return green, blue, keywords
}

// decodeEmail undoes the directory's anti-harvesting obfuscation.
func decodeEmail(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "[at]", "@"))
}

// parseResultRows extracts search-result rows from a results page.
func parseResultRows(html string) ([]ResultRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	var rows []ResultRow
	doc.Find(`tr[id^="authorInfo_"]`).Each(func(_ int, tr *goquery.Selection) {
		link := tr.Find("a").First()
		url, _ := link.Attr("href")
		linkText := strings.TrimSpace(link.Text())

		infoTD := tr.Find("td").FilterFunction(func(_ int, td *goquery.Selection) bool {
			return td.Find("h6").Length() > 0
		}).First()
		info := strings.TrimSpace(infoTD.Text())

		row := ResultRow{URL: url, Info: info}

		labels := infoTD.Find("a.anahtarKelime")
		if labels.Length() > 0 {
			row.GreenLabel = strings.TrimSpace(labels.Eq(0).Text())
		}
		if labels.Length() > 1 {
			row.BlueLabel = strings.TrimSpace(labels.Eq(1).Text())
		}

		lines := nonEmptyLines(info)
		if len(lines) > 1 {
			row.Title = lines[0]
			row.Name = lines[1]
		} else {
			row.Title = linkText
			row.Name = linkText
		}
		if len(lines) > 2 {
			row.Header = lines[2]
		}
		row.Keywords = rowKeywords(lines, row)

		if img := tr.Find("img").First(); img.Length() > 0 {
			row.PhotoURL, _ = img.Attr("src")
		}
		if mail := tr.Find(`a[href^="mailto"]`).First(); mail.Length() > 0 {
			row.Email = decodeEmail(mail.Text())
		}
		rows = append(rows, row)
	})
	return rows, nil
}

// rowKeywords pulls the free-text keyword line out of a row's info
// lines. The first three lines are title, name and institution header;
// of the rest, the last line that is not a label, a repeated name, the
// header, or the obfuscated email holds the keywords.
func rowKeywords(lines []string, row ResultRow) string {
	if len(lines) <= 3 {
		return ""
	}
	var candidate string
	for _, l := range lines[3:] {
		if l == row.Name || l == row.GreenLabel || l == row.BlueLabel {
			continue
		}
		if strings.Contains(l, "[at]") || strings.Contains(l, "@") {
			continue
		}
		if row.Header != "" && strings.Contains(l, row.Header) {
			continue
		}
		candidate = l
	}
	if candidate == "" {
		return ""
	}
	var parts []string
	for _, k := range strings.Split(candidate, ";") {
		if k = strings.TrimSpace(k); k != "" {
			parts = append(parts, k)
		}
	}
	return strings.Join(parts, " ; ")
}

// parseProfileDetail extracts a researcher's detail from their own
// profile page. Missing is set when the page has no profile block,
// which is how the site presents deleted researchers.
func parseProfileDetail(html string) (ProfileDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ProfileDetail{}, err
	}
	td := doc.Find("td").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find("h6").Length() > 0
	}).First()
	if td.Length() == 0 {
		return ProfileDetail{Missing: true}, nil
	}

	var d ProfileDetail
	text := strings.TrimSpace(td.Text())
	lines := nonEmptyLines(text)
	if len(lines) > 1 {
		d.Title = lines[0]
		d.Name = lines[1]
	}
	if len(lines) > 2 {
		d.Header = lines[2]
		d.Info = lines[2]
	}

	if span := td.Find("span.label-success").First(); span.Length() > 0 {
		d.GreenLabel = strings.TrimSpace(span.Text())
	}
	if span := td.Find("span.label-primary").First(); span.Length() > 0 {
		d.BlueLabel = strings.TrimSpace(span.Text())
		// Keywords trail the specialty label as bare text.
		if inner, err := td.Html(); err == nil {
			d.Keywords = keywordsAfterLabel(inner)
		}
	}
	if mail := td.Find(`a[href^="mailto"]`).First(); mail.Length() > 0 {
		d.Email = decodeEmail(mail.Text())
	}
	if img := doc.Find("img.img-circle").First(); img.Length() > 0 {
		d.PhotoURL, _ = img.Attr("src")
	} else if img := doc.Find("img#imgPicture").First(); img.Length() > 0 {
		d.PhotoURL, _ = img.Attr("src")
	}
	return d, nil
}

// The span's text is tag-free, so [^<]* reaches across line breaks
// where a dot would stop.
var afterPrimaryRe = regexp.MustCompile(`<span[^>]*label-primary[^>]*>[^<]*</span>([^<]*)`)

func keywordsAfterLabel(innerHTML string) string {
	m := afterPrimaryRe.FindStringSubmatch(innerHTML)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
