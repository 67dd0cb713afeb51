// Package compounds classifies food text into digestive-risk compounds and
// allergen families using static keyword tables.
package compounds

import (
	"sort"
	"strings"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Category string

const (
	CategoryFODMAP    Category = "fodmap"
	CategoryHistamine Category = "histamine"
	CategoryIrritant  Category = "irritant"
	CategoryFat       Category = "fat"
)

// Compound is a substance likely to provoke digestive symptoms.
type Compound struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
}

type compoundRule struct {
	compound Compound
	keywords []string
}

var compoundTable = []compoundRule{
	{Compound{"Lactose", CategoryFODMAP, SeverityHigh},
		[]string{"milk", "dairy", "cheese", "cream", "yogurt", "yoghurt", "ice cream", "latte", "custard", "whey", "butter"}},
	{Compound{"Fructans", CategoryFODMAP, SeverityHigh},
		[]string{"wheat", "bread", "pasta", "onion", "garlic", "leek", "rye", "barley", "couscous", "inulin", "chicory"}},
	{Compound{"Galacto-oligosaccharides", CategoryFODMAP, SeverityHigh},
		[]string{"bean", "lentil", "chickpea", "hummus", "soy milk", "pea"}},
	{Compound{"Polyols", CategoryFODMAP, SeverityHigh},
		[]string{"sorbitol", "mannitol", "xylitol", "maltitol", "sugar-free", "mushroom", "cauliflower", "avocado", "plum", "cherry"}},
	{Compound{"Excess fructose", CategoryFODMAP, SeverityMedium},
		[]string{"apple", "pear", "mango", "honey", "agave", "high fructose", "watermelon", "fruit juice"}},
	{Compound{"Histamine", CategoryHistamine, SeverityMedium},
		[]string{"aged cheese", "parmesan", "wine", "sauerkraut", "kimchi", "salami", "cured", "smoked", "tuna", "soy sauce", "vinegar", "fermented"}},
	{Compound{"Capsaicin", CategoryIrritant, SeverityMedium},
		[]string{"chili", "chilli", "jalapeno", "hot sauce", "sriracha", "cayenne", "spicy", "curry"}},
	{Compound{"Caffeine", CategoryIrritant, SeverityMedium},
		[]string{"coffee", "espresso", "energy drink", "cola", "caffeine"}},
	{Compound{"Alcohol", CategoryIrritant, SeverityMedium},
		[]string{"beer", "alcohol", "vodka", "whisky", "whiskey", "rum", "cocktail"}},
	{Compound{"Carbonation", CategoryIrritant, SeverityLow},
		[]string{"soda", "sparkling", "carbonated", "fizzy"}},
	{Compound{"High fat", CategoryFat, SeverityLow},
		[]string{"fried", "fries", "bacon", "sausage", "burger", "pizza", "greasy"}},
}

var allergenTable = []struct {
	family   string
	keywords []string
}{
	{"dairy", []string{"milk", "dairy", "cheese", "cream", "yogurt", "yoghurt", "butter", "whey", "casein", "lactose"}},
	{"gluten", []string{"wheat", "bread", "pasta", "barley", "rye", "gluten", "flour", "couscous", "seitan"}},
	{"soy", []string{"soy", "soybean", "tofu", "edamame", "tempeh", "miso"}},
	{"eggs", []string{"egg", "mayonnaise", "meringue"}},
	{"tree nuts", []string{"almond", "walnut", "cashew", "pecan", "pistachio", "hazelnut", "macadamia"}},
	{"peanuts", []string{"peanut"}},
	{"fish", []string{"fish", "salmon", "tuna", "cod", "anchovy", "sardine", "trout"}},
	{"shellfish", []string{"shrimp", "prawn", "crab", "lobster", "oyster", "mussel", "clam", "scallop"}},
	{"sesame", []string{"sesame", "tahini"}},
}

// ClassifyCompounds matches every text (food names, brands, ingredients)
// against the compound table. Each compound is returned at most once, in
// table order.
func ClassifyCompounds(texts ...string) []Compound {
	haystack := normalize(texts)
	if haystack == "" {
		return nil
	}

	var found []Compound
	for _, rule := range compoundTable {
		if containsAny(haystack, rule.keywords) {
			found = append(found, rule.compound)
		}
	}
	return found
}

// CountHighRisk returns how many compounds carry high severity.
func CountHighRisk(compounds []Compound) int {
	n := 0
	for _, c := range compounds {
		if c.Severity == SeverityHigh {
			n++
		}
	}
	return n
}

// DetectAllergens returns the allergen families found in the food name and
// brand, sorted and without duplicates.
func DetectAllergens(foodName, brand string) []string {
	haystack := normalize([]string{foodName, brand})
	if haystack == "" {
		return nil
	}

	seen := make(map[string]bool)
	for _, a := range allergenTable {
		if containsAny(haystack, a.keywords) {
			seen[a.family] = true
		}
	}

	families := make([]string, 0, len(seen))
	for f := range seen {
		families = append(families, f)
	}
	sort.Strings(families)
	return families
}

func normalize(texts []string) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, strings.ToLower(t))
		}
	}
	return strings.Join(parts, " | ")
}

// shortKeyword is the longest keyword matched only as a whole word.
const shortKeyword = 4

func containsAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if matchKeyword(haystack, kw) {
			return true
		}
	}
	return false
}

// matchKeyword reports whether kw occurs in haystack. Keywords of up to
// shortKeyword bytes must start a word and end it, optionally followed by a
// plural "s" or "es", so "pea" matches "peas" but not "peanut".
func matchKeyword(haystack, kw string) bool {
	if len(kw) > shortKeyword {
		return strings.Contains(haystack, kw)
	}
	for from := 0; from <= len(haystack)-len(kw); {
		i := strings.Index(haystack[from:], kw)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(kw)
		if (start == 0 || !isLetter(haystack[start-1])) && wordEndsAt(haystack, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func wordEndsAt(s string, i int) bool {
	for _, suffix := range []string{"", "s", "es"} {
		j := i + len(suffix)
		if strings.HasPrefix(s[i:], suffix) && (j == len(s) || !isLetter(s[j])) {
			return true
		}
	}
	return false
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}
