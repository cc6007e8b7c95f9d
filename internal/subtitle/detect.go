package subtitle

import (
	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// DetectLanguage guesses the dominant language of a timeline by majority
// vote over per-block detection.
func DetectLanguage(timeline Timeline) language.Tag {
	if len(timeline) == 0 {
		return language.Und
	}

	counts := make(map[string]int)
	for _, block := range timeline {
		if block.Text == "" {
			continue
		}
		lang := whatlanggo.DetectLang(block.Text).Iso6391()
		counts[lang]++
	}

	var topLang string
	var topCount int
	for lang, count := range counts {
		if count > topCount {
			topLang = lang
			topCount = count
		}
	}
	if topLang == "" {
		return language.Und
	}

	return language.All.Make(topLang)
}
