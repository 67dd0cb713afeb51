package insights

import (
	"fmt"
	"strings"

	"mcp-gut-check/internal/analysis"
	"mcp-gut-check/internal/compounds"
	"mcp-gut-check/internal/models"
	"mcp-gut-check/internal/scoring"
)

func (s *Synthesizer) foodTrigger(t analysis.FoodTrigger) draft {
	pct := scoring.Percent(t.Confidence)

	var desc strings.Builder
	fmt.Fprintf(&desc, "%s appears to be triggering your digestive symptoms with %d%% confidence. ", t.FoodName, pct)
	fmt.Fprintf(&desc, "Symptoms typically occur within 2-8 hours of eating it and were logged %s after %s in this period.",
		plural(t.SymptomCount, "time"), plural(t.Occurrences, "meal"))
	if t.HighRiskCount > 0 {
		fmt.Fprintf(&desc, " It contains %s, which can provoke symptoms in sensitive people.", compoundList(t.Compounds, compounds.SeverityHigh))
	}
	if !t.LastSeen.IsZero() {
		fmt.Fprintf(&desc, " You last ate it on %s.", s.cal.In(t.LastSeen).Format("Mon, Jan 2"))
	}

	evidence := []string{
		fmt.Sprintf("Correlation score: %.2f", t.CorrelationScore),
		fmt.Sprintf("%s within 2-8 hours across %s", plural(t.SymptomCount, "symptom"), plural(t.Occurrences, "meal")),
	}
	if len(t.Compounds) > 0 {
		evidence = append(evidence, "Compounds: "+compoundList(t.Compounds, ""))
	}
	if len(t.Allergens) > 0 {
		evidence = append(evidence, "Allergen families: "+strings.Join(t.Allergens, ", "))
	}

	return draft{
		category:        models.CategoryFoodTrigger,
		subject:         t.Key,
		title:           fmt.Sprintf("%s may be a trigger", t.FoodName),
		summary:         fmt.Sprintf("Symptoms followed %s %s within 2-8 hours.", t.FoodName, plural(t.SymptomCount, "time")),
		description:     desc.String(),
		confidence:      t.Confidence,
		evidence:        evidence,
		recommendations: t.Recommendations,
	}
}

func (s *Synthesizer) temporalPattern(p analysis.TemporalPattern) draft {
	d := draft{
		category:        models.CategoryTemporalPattern,
		subject:         string(p.Type),
		confidence:      p.Confidence,
		recommendations: p.Recommendations,
	}
	pct := scoring.Percent(p.Confidence)

	switch p.Type {
	case analysis.PatternTimeOfDay:
		d.title = fmt.Sprintf("Symptoms peak around %s", hourLabel(p.Hour))
		d.summary = fmt.Sprintf("%d of %d symptoms were logged between %s and %s.", p.Occurrences, p.Total, hourLabel(p.Hour), hourLabel((p.Hour+1)%24))
		d.description = fmt.Sprintf("Your symptoms cluster around %s with %d%% confidence. Meals, drinks or routines in the hours before this time are worth a closer look.", hourLabel(p.Hour), pct)
		d.evidence = []string{fmt.Sprintf("%d of %d symptoms in the %s hour", p.Occurrences, p.Total, hourLabel(p.Hour))}
	case analysis.PatternDayOfWeek:
		d.title = fmt.Sprintf("%ss are your toughest day", p.Weekday)
		d.summary = fmt.Sprintf("%d of %d symptoms were logged on a %s.", p.Occurrences, p.Total, p.Weekday)
		d.description = fmt.Sprintf("Symptoms occur more often on %ss than on other days, with %d%% confidence. Changes in routine, eating out or stress on that day may play a role.", p.Weekday, pct)
		d.evidence = []string{fmt.Sprintf("%d of %d symptoms on %ss", p.Occurrences, p.Total, p.Weekday)}
	case analysis.PatternMealTiming:
		delay := plural(p.DelayHours(), "hour")
		d.title = fmt.Sprintf("Symptoms appear about %s after meals", delay)
		d.summary = fmt.Sprintf("Across %s, symptoms followed a meal by %s on average.", plural(p.Occurrences, "meal-symptom pair"), delay)
		d.description = fmt.Sprintf("Symptoms typically occur within %s of eating, with %d%% confidence. Look at what you ate roughly %s before each episode.", delay, pct, delay)
		d.evidence = []string{
			fmt.Sprintf("%s between 1 and 12 hours apart", plural(p.Occurrences, "meal-symptom pair")),
			fmt.Sprintf("Average delay: %s", p.AverageDelay.Round(minuteRound)),
		}
	}
	return d
}

func (s *Synthesizer) lifestyle(l analysis.LifestyleCorrelation) draft {
	d := draft{
		category:        models.CategoryLifestyleCorrelation,
		subject:         string(l.Factor) + ":" + l.Day,
		confidence:      l.Confidence,
		recommendations: l.Recommendations,
	}
	day := s.dayLabel(l.Day)
	pct := scoring.Percent(l.Confidence)
	symptoms := plural(l.SymptomCount, "symptom")

	switch l.Factor {
	case analysis.FactorExercise:
		d.title = "Low activity on a symptom day"
		d.summary = fmt.Sprintf("Only %.0f steps on %s, when you logged %s.", l.Value, day, symptoms)
		d.description = fmt.Sprintf("On %s you walked %.0f steps, below the %.0f step mark, and logged %s. Low activity shows a %s link to your symptoms with %d%% confidence.", day, l.Value, l.Threshold, symptoms, l.Impact, pct)
		d.evidence = []string{fmt.Sprintf("%.0f steps on %s", l.Value, day)}
	case analysis.FactorSleep:
		d.title = "Short sleep before symptoms"
		d.summary = fmt.Sprintf("%.1f hours of sleep ending %s, a day with %s.", l.Value, day, symptoms)
		d.description = fmt.Sprintf("You slept %.1f hours, under the %.0f hour mark, before %s, when you logged %s. Short sleep shows a %s link to your symptoms with %d%% confidence.", l.Value, l.Threshold, day, symptoms, l.Impact, pct)
		d.evidence = []string{fmt.Sprintf("%.1f hours of sleep ending %s", l.Value, day)}
	case analysis.FactorStress:
		d.title = "High symptom day"
		d.summary = fmt.Sprintf("%s logged on %s; stress may be a factor.", capitalize(symptoms), day)
		d.description = fmt.Sprintf("Several symptoms on the same day can point to stress or another shared cause. On %s you logged %s, with %d%% confidence in a %s link.", day, symptoms, pct, l.Impact)
		d.evidence = []string{fmt.Sprintf("%s on %s", capitalize(symptoms), day)}
	}
	return d
}

func (s *Synthesizer) nutrition(n analysis.NutritionTrend) draft {
	d := draft{
		category:        models.CategoryNutritionTrend,
		subject:         string(n.Type),
		confidence:      n.Confidence,
		recommendations: n.Recommendations,
	}
	pct := scoring.Percent(n.Confidence)

	switch n.Type {
	case analysis.TrendFiber:
		d.title = "Fiber intake below target"
		d.summary = fmt.Sprintf("Averaging %.1fg of fiber per day against a %.0fg target.", n.CurrentValue, n.TargetValue)
		d.description = fmt.Sprintf("Your average fiber intake is %.1f g/day, %.1fg short of the %.0fg daily target (%d%% confidence). Fiber supports regular, well-formed stools.", n.CurrentValue, n.TargetValue-n.CurrentValue, n.TargetValue, pct)
		d.evidence = []string{fmt.Sprintf("Average fiber: %.1f %s (target %.0f)", n.CurrentValue, n.Unit, n.TargetValue)}
	case analysis.TrendMealTiming:
		d.title = fmt.Sprintf("Consistent meal time around %s", hourLabel(n.Hour))
		d.summary = fmt.Sprintf("%s in the last week started around %s.", capitalize(plural(n.Occurrences, "meal")), hourLabel(n.Hour))
		d.description = fmt.Sprintf("%s of your recent meals were eaten around %s, against a target of %.0f evenly spaced meals per week (%d%% confidence). Regular timing helps digestion settle into a rhythm.", capitalize(plural(n.Occurrences, "meal")), hourLabel(n.Hour), n.TargetValue, pct)
		d.evidence = []string{fmt.Sprintf("%s at %s in 7 days", plural(n.Occurrences, "meal"), hourLabel(n.Hour))}
	}
	return d
}
