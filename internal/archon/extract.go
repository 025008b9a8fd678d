package archon

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TalentCalcPrefix is the wowhead calculator path every published build links
// to; the talent code is whatever follows it.
const TalentCalcPrefix = "wowhead.com/talent-calc/blizzard/"

// ExtractTalentCode pulls the talent code out of a build page by locating the
// first anchor pointing at the wowhead talent calculator. It returns an empty
// code when no such anchor exists, which is the normal shape of a page for a
// combination with no published build.
func ExtractTalentCode(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(html))
	if err != nil {
		return "", err
	}

	href := doc.
		Find(`a[href*="` + TalentCalcPrefix + `"]`).
		First().
		AttrOr("href", "")
	if href == "" {
		return "", nil
	}

	idx := strings.Index(href, TalentCalcPrefix)
	return href[idx+len(TalentCalcPrefix):], nil
}
