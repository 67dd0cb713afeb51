// Package insights turns analyzer findings into the uniform, ranked Insight
// records returned to callers.
package insights

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"mcp-gut-check/internal/analysis"
	"mcp-gut-check/internal/models"
	"mcp-gut-check/internal/scoring"
	"mcp-gut-check/internal/temporal"
)

// insightNamespace seeds the name-based UUIDs given to insights. IDs are
// stable for identical input but carry no identity across runs.
var insightNamespace = uuid.MustParse("6f1c9a52-3d0e-4b8e-9a57-0c4e2b7d91f3")

// Synthesizer renders findings with one calendar for dates and day names.
type Synthesizer struct {
	cal temporal.Calendar
}

func NewSynthesizer(cal temporal.Calendar) *Synthesizer {
	return &Synthesizer{cal: cal}
}

// Synthesize maps every finding to an Insight, merges repeats of the same
// category and subject, and sorts the whole list by confidence descending.
// Ties keep emission order: food triggers, temporal, lifestyle, nutrition.
func (s *Synthesizer) Synthesize(
	triggers []analysis.FoodTrigger,
	patterns []analysis.TemporalPattern,
	lifestyle []analysis.LifestyleCorrelation,
	nutrition []analysis.NutritionTrend,
	window models.TimeWindow,
) []models.Insight {
	dateRange := s.FormatWindow(window)
	b := newBuilder(dateRange)

	for _, t := range triggers {
		b.add(s.foodTrigger(t))
	}
	for _, p := range patterns {
		b.add(s.temporalPattern(p))
	}
	for _, l := range lifestyle {
		b.add(s.lifestyle(l))
	}
	for _, n := range nutrition {
		b.add(s.nutrition(n))
	}

	out := b.insights
	if out == nil {
		out = []models.Insight{}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// FormatWindow renders a window as "May 4 - May 11, 2026".
func (s *Synthesizer) FormatWindow(w models.TimeWindow) string {
	if !w.Valid() {
		return "All time"
	}
	start, end := s.cal.In(w.Start), s.cal.In(w.End)
	if start.Year() != end.Year() {
		return start.Format("Jan 2, 2006") + " - " + end.Format("Jan 2, 2006")
	}
	return start.Format("Jan 2") + " - " + end.Format("Jan 2, 2006")
}

// draft is an insight before confidence conversion and id assignment.
type draft struct {
	category        models.Category
	subject         string
	title           string
	summary         string
	description     string
	confidence      float64
	evidence        []string
	recommendations []string
}

type builder struct {
	dateRange string
	index     map[string]int
	insights  []models.Insight
}

func newBuilder(dateRange string) *builder {
	return &builder{dateRange: dateRange, index: make(map[string]int)}
}

func (b *builder) add(d draft) {
	if strings.TrimSpace(d.title) == "" || strings.TrimSpace(d.summary) == "" {
		return
	}

	key := string(d.category) + ":" + d.subject
	confidence := scoring.Percent(scoring.Clamp(d.confidence))

	if i, ok := b.index[key]; ok {
		existing := &b.insights[i]
		if confidence > existing.Confidence {
			existing.Confidence = confidence
			existing.Title = d.title
			existing.Summary = d.summary
			existing.Description = d.description
		}
		existing.Evidence = appendUnique(existing.Evidence, d.evidence...)
		existing.Recommendations = appendUnique(existing.Recommendations, d.recommendations...)
		return
	}

	b.index[key] = len(b.insights)
	b.insights = append(b.insights, models.Insight{
		ID:              uuid.NewSHA1(insightNamespace, []byte(key+"@"+b.dateRange)).String(),
		Category:        d.category,
		Icon:            d.category.Icon(),
		SubjectKey:      d.subject,
		Title:           d.title,
		Summary:         d.summary,
		Description:     d.description,
		Confidence:      confidence,
		Evidence:        appendUnique(nil, d.evidence...),
		Recommendations: appendUnique([]string{}, d.recommendations...),
		DateRange:       b.dateRange,
	})
}

func appendUnique(dst []string, items ...string) []string {
	for _, item := range items {
		dup := false
		for _, existing := range dst {
			if existing == item {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, item)
		}
	}
	return dst
}

func (s *Synthesizer) dayLabel(day string) string {
	t, err := time.ParseInLocation("2006-01-02", day, s.cal.Location())
	if err != nil {
		return day
	}
	return t.Format("Mon, Jan 2")
}
