package analysis

import (
	"fmt"
	"sort"
	"strings"

	"mcp-gut-check/internal/compounds"
	"mcp-gut-check/internal/models"
	"mcp-gut-check/internal/scoring"
	"mcp-gut-check/internal/temporal"
)

const (
	// symptomSaturation is the symptom count at which a food's correlation
	// score reaches 1.0. The score is a coarse heuristic, not an estimator.
	symptomSaturation = 10.0
	// noSignalFloor drops correlations at or below this score.
	noSignalFloor = 0.3
	// recurrenceBoost is added to a food's confidence each time it recurs.
	recurrenceBoost = 0.1
)

// FoodTriggerAnalyzer correlates consumed foods with symptoms logged 2-8 hours later
// on the same calendar day.
type FoodTriggerAnalyzer struct {
	cal temporal.Calendar
}

func NewFoodTriggerAnalyzer(cal temporal.Calendar) *FoodTriggerAnalyzer {
	return &FoodTriggerAnalyzer{cal: cal}
}

// foodEvidence accumulates the scored occurrences of one food.
type foodEvidence struct {
	trigger     FoodTrigger
	scoreSum    float64
	compoundSet []compounds.Compound
}

// Analyze scores every (meal, food) occurrence on its own, drops those at or
// below the no-signal floor and merges the rest by food name. Results are
// sorted by confidence descending.
func (a *FoodTriggerAnalyzer) Analyze(meals []models.Meal, symptoms []models.Symptom) []FoodTrigger {
	if len(meals) == 0 || len(symptoms) == 0 {
		return nil
	}

	evidence := make(map[string]*foodEvidence)
	var order []string

	for _, meal := range meals {
		related := 0
		for _, s := range symptoms {
			if a.cal.SameDay(meal.Timestamp, s.Timestamp) &&
				temporal.IsWithinCausalWindow(meal.Timestamp, s.Timestamp, temporal.FoodTriggerMin, temporal.FoodTriggerMax) {
				related++
			}
		}
		if related == 0 {
			continue
		}

		seenInMeal := make(map[string]bool)
		for _, food := range meal.Foods {
			key := food.Key()
			if key == "" || seenInMeal[key] {
				continue
			}
			seenInMeal[key] = true

			occ, ok := scoreOccurrence(meal, food, related)
			if !ok {
				continue
			}

			ev, ok := evidence[key]
			if !ok {
				evidence[key] = &foodEvidence{
					trigger:     occ,
					scoreSum:    occ.CorrelationScore,
					compoundSet: occ.Compounds,
				}
				order = append(order, key)
				continue
			}
			ev.merge(occ)
		}
	}

	triggers := make([]FoodTrigger, 0, len(order))
	for _, key := range order {
		triggers = append(triggers, evidence[key].finalize())
	}

	sort.SliceStable(triggers, func(i, j int) bool {
		if triggers[i].Confidence != triggers[j].Confidence {
			return triggers[i].Confidence > triggers[j].Confidence
		}
		return triggers[i].Key < triggers[j].Key
	})
	if len(triggers) == 0 {
		return nil
	}
	return triggers
}

// scoreOccurrence scores one food of one meal against the symptoms related
// to that meal. It reports false at or below the no-signal floor.
func scoreOccurrence(meal models.Meal, food models.FoodItem, related int) (FoodTrigger, bool) {
	score := scoring.Saturating(float64(related), symptomSaturation)
	if score <= noSignalFloor {
		return FoodTrigger{}, false
	}

	texts := append([]string{food.Name, food.Brand}, food.Ingredients...)
	found := compounds.ClassifyCompounds(texts...)
	highRisk := compounds.CountHighRisk(found)

	return FoodTrigger{
		FoodName:         strings.TrimSpace(food.Name),
		Key:              food.Key(),
		SymptomCount:     related,
		Occurrences:      1,
		CorrelationScore: score,
		Confidence:       occurrenceConfidence(score, related, highRisk),
		Compounds:        found,
		HighRiskCount:    highRisk,
		Allergens:        compounds.DetectAllergens(food.Name, food.Brand),
		LastSeen:         meal.Timestamp,
	}, true
}

func occurrenceConfidence(score float64, symptomCount, highRisk int) float64 {
	return scoring.Score(score,
		scoring.FirstOf(
			scoring.If(symptomCount >= 3, 0.2),
			scoring.If(symptomCount >= 2, 0.1),
		),
		scoring.FirstOf(
			scoring.If(highRisk >= 2, 0.15),
			scoring.If(highRisk >= 1, 0.1),
		),
	)
}

// merge folds a recurrence of the food into the evidence: correlation scores
// are averaged, symptom counts summed, confidence rises by 0.1 from the
// stronger of the two and the latest date wins.
func (e *foodEvidence) merge(occ FoodTrigger) {
	t := &e.trigger
	t.Occurrences++
	t.SymptomCount += occ.SymptomCount
	e.scoreSum += occ.CorrelationScore
	t.CorrelationScore = e.scoreSum / float64(t.Occurrences)

	base := t.Confidence
	if occ.Confidence > base {
		base = occ.Confidence
	}
	t.Confidence = scoring.Clamp(base + recurrenceBoost)

	if occ.LastSeen.After(t.LastSeen) {
		t.LastSeen = occ.LastSeen
	}
	for _, c := range occ.Compounds {
		if !containsCompound(e.compoundSet, c) {
			e.compoundSet = append(e.compoundSet, c)
		}
	}
	for _, allergen := range occ.Allergens {
		if !containsString(t.Allergens, allergen) {
			t.Allergens = append(t.Allergens, allergen)
		}
	}
}

func (e *foodEvidence) finalize() FoodTrigger {
	t := e.trigger
	t.Compounds = e.compoundSet
	t.HighRiskCount = compounds.CountHighRisk(t.Compounds)
	sort.Strings(t.Allergens)
	t.Recommendations = foodTriggerRecommendations(t)
	return t
}

func foodTriggerRecommendations(t FoodTrigger) []string {
	recs := []string{
		fmt.Sprintf("Try eliminating %s for 2-3 weeks and track whether your symptoms improve.", t.FoodName),
		fmt.Sprintf("After the elimination period, reintroduce %s in a small portion and watch for symptoms over the next 2-8 hours.", t.FoodName),
	}
	if t.HighRiskCount > 0 {
		var names []string
		for _, c := range t.Compounds {
			if c.Severity == compounds.SeverityHigh {
				names = append(names, c.Name)
			}
		}
		recs = append(recs, fmt.Sprintf("%s contains high-risk compounds (%s); consider lower-risk alternatives.",
			t.FoodName, strings.Join(names, ", ")))
	}
	if t.SymptomCount >= 2 {
		recs = append(recs, fmt.Sprintf("Symptoms followed %s %d times; consider discussing this pattern with a healthcare provider.",
			t.FoodName, t.SymptomCount))
	}
	return recs
}

func containsCompound(list []compounds.Compound, c compounds.Compound) bool {
	for _, v := range list {
		if v.Name == c.Name {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
