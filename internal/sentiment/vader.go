package sentiment

import (
	"context"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/sentiboard/internal/models"
)

const vaderThreshold = 0.20

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := tagPattern.ReplaceAllString(string(output), " ")
	plainText = strings.Join(strings.Fields(plainText), " ")

	return RemoveLinks(plainText)
}

// VaderClassifier scores texts locally with VADER. It never fails a call.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderClassifier) Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error) {
	results := make([]models.SentimentResult, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[i] = v.classify(text)
	}
	return results, nil
}

func (v *VaderClassifier) classify(text string) models.SentimentResult {
	plainText := ConvertMarkdownToText(text)
	if plainText == "" {
		return models.Failed("document text is empty")
	}

	sentiment := v.analyzer.PolarityScores(plainText)

	var label models.Label
	if sentiment.Compound >= vaderThreshold {
		label = models.LabelPositive
	} else if sentiment.Compound <= -vaderThreshold {
		label = models.LabelNegative
	} else {
		label = models.LabelNeutral
	}

	return models.Classified(label, models.ConfidenceScores{
		Positive: sentiment.Positive,
		Neutral:  sentiment.Neutral,
		Negative: sentiment.Negative,
	})
}
