package devservice

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

// Content generation constants.
const (
	minParagraphs      = 2
	maxExtraPara       = 4 // 2-5 paragraphs total
	minSentences       = 2
	maxExtraSent       = 4 // 2-5 sentences total
	minWords           = 6
	maxExtraWords      = 10 // 6-15 words total
	minStats           = 2
	maxExtraStats      = 4 // 2-5 table rows total
	noHeaderProbabilty = 0.25
)

// actionLabels are the labels authors put in the action row of an action
// bar; some intentionally have no icon.
var actionLabels = []string{
	"Like", "Save", "Share", "Heart", "Bookmark", "Subscribe", "Print",
}

var statNames = []string{
	"Reading time", "Word count", "Comments", "Views", "Shares", "Revisions",
}

func generateParagraphs(faker *gofakeit.Faker) []string {
	paragraphs := make([]string, minParagraphs+faker.IntN(maxExtraPara))
	for i := range paragraphs {
		paragraphs[i] = generateParagraph(faker)
	}
	return paragraphs
}

func generateParagraph(faker *gofakeit.Faker) string {
	numSentences := minSentences + faker.IntN(maxExtraSent)
	sentences := make([]string, numSentences)
	for i := range numSentences {
		sentences[i] = faker.Sentence(minWords + faker.IntN(maxExtraWords))
	}
	return strings.Join(sentences, " ")
}

// generateActions picks one to four distinct action labels.
func generateActions(faker *gofakeit.Faker) []string {
	labels := make([]string, len(actionLabels))
	copy(labels, actionLabels)
	faker.ShuffleAnySlice(labels)
	return labels[:1+faker.IntN(4)]
}

// generateStats returns table rows, header first.
func generateStats(faker *gofakeit.Faker) [][]string {
	names := make([]string, len(statNames))
	copy(names, statNames)
	faker.ShuffleAnySlice(names)

	rows := [][]string{{"Metric", "Value"}}
	for _, name := range names[:minStats+faker.IntN(maxExtraStats)] {
		rows = append(rows, []string{name, fmt.Sprint(faker.IntRange(1, 5000))})
	}
	return rows
}

func generateTitle(faker *gofakeit.Faker) string {
	patterns := []func(*gofakeit.Faker) string{
		func(f *gofakeit.Faker) string { return fmt.Sprintf("The %s %s", f.Adjective(), f.Noun()) },
		func(f *gofakeit.Faker) string { return fmt.Sprintf("A %s of %s", f.Noun(), f.Noun()) },
		func(f *gofakeit.Faker) string {
			return fmt.Sprintf("%s and %s", titleCase(f.Noun()), titleCase(f.Noun()))
		},
		func(f *gofakeit.Faker) string {
			return fmt.Sprintf("%s for the %s", titleCase(f.HipsterWord()), f.Noun())
		},
	}
	return patterns[faker.IntN(len(patterns))](faker)
}

func titleCase(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
