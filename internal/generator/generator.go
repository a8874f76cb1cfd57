package generator

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
)

// DefaultQuestionCount is used when an assignment doesn't specify one.
const DefaultQuestionCount = 18

// fallbackTopic is the terminal default of the topic lookup chain. It is
// guaranteed present in both the template bank and the fallback lists.
const fallbackTopic = "sta"

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// Generator produces assessment questions by picking topic templates that
// match a difficulty distribution and filling in random parameters.
//
// Generation never fails: unknown topics degrade to static fallback lists,
// and templates with missing parameter sets are returned verbatim. Callers
// always get exactly the number of questions they asked for.
type Generator struct {
	bank     Bank
	fallback map[string][]string

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a Generator over the given template bank and fallback lists.
// The rand source is injected so tests can pin a seed.
func New(bank Bank, fallback map[string][]string, rng *rand.Rand) *Generator {
	return &Generator{bank: bank, fallback: fallback, rng: rng}
}

// NewDefault builds a Generator over the built-in banks with the given seed.
func NewDefault(seed int64) *Generator {
	return New(DefaultBank(), DefaultFallback(), rand.New(rand.NewSource(seed)))
}

// Generate returns exactly count questions for the topic, with difficulty
// mixed according to the engineer's years of experience. count <= 0 uses
// DefaultQuestionCount.
func (g *Generator) Generate(topic string, count, experienceYears int) []string {
	if count <= 0 {
		count = DefaultQuestionCount
	}

	templates := g.bank[topic]
	if len(templates) == 0 {
		return g.fallbackQuestions(topic, count)
	}

	questions := make([]string, 0, count)
	for _, target := range DifficultyDistribution(experienceYears, count) {
		var suitable []Template
		for _, t := range templates {
			if diff := t.Difficulty - target; diff >= -1 && diff <= 1 {
				suitable = append(suitable, t)
			}
		}
		if len(suitable) == 0 {
			suitable = templates
		}

		g.mu.Lock()
		t := suitable[g.rng.Intn(len(suitable))]
		q := g.fillTemplate(t)
		g.mu.Unlock()

		questions = append(questions, q)
	}

	return questions[:count]
}

// DifficultyDistribution returns count target difficulty levels derived from
// the experience tier. Bucket sizes use integer truncation with the hardest
// bucket absorbing the remainder, so they always sum to count.
//
//	<= 2 years (junior): 60% level 2, 30% level 3, 10% level 4
//	3-4 years (mid):     30% level 2, 50% level 3, 20% level 4
//	>= 5 years (senior): 20% level 2, 40% level 3, 40% level 4
func DifficultyDistribution(experienceYears, count int) []int {
	var easyPct, mediumPct float64
	switch {
	case experienceYears <= 2:
		easyPct, mediumPct = 0.6, 0.3
	case experienceYears <= 4:
		easyPct, mediumPct = 0.3, 0.5
	default:
		easyPct, mediumPct = 0.2, 0.4
	}

	easy := int(float64(count) * easyPct)
	medium := int(float64(count) * mediumPct)
	hard := count - easy - medium

	dist := make([]int, 0, count)
	for i := 0; i < easy; i++ {
		dist = append(dist, 2)
	}
	for i := 0; i < medium; i++ {
		dist = append(dist, 3)
	}
	for i := 0; i < hard; i++ {
		dist = append(dist, 4)
	}
	return dist
}

// fillTemplate substitutes one random candidate value per placeholder. If
// the template references a placeholder with no candidate set, the raw
// template text is returned unchanged rather than failing. Repeated
// occurrences of the same placeholder get the same value.
//
// Caller must hold g.mu.
func (g *Generator) fillTemplate(t Template) string {
	chosen := make(map[string]string)
	for _, m := range placeholderRe.FindAllStringSubmatch(t.Text, -1) {
		name := m[1]
		if _, ok := chosen[name]; ok {
			continue
		}
		values := t.Params[name]
		if len(values) == 0 {
			return t.Text
		}
		chosen[name] = values[g.rng.Intn(len(values))]
	}

	out := t.Text
	for name, value := range chosen {
		out = strings.ReplaceAll(out, "{"+name+"}", value)
	}
	return out
}

// fallbackQuestions cycles the topic's static question list out to count
// entries, prefixing "Advanced: " past the first cycle. Unknown topics fall
// through to the sta list.
func (g *Generator) fallbackQuestions(topic string, count int) []string {
	base := g.fallback[topic]
	if len(base) == 0 {
		base = g.fallback[fallbackTopic]
	}
	if len(base) == 0 {
		return make([]string, count)
	}

	questions := make([]string, 0, count)
	for i := 0; i < count; i++ {
		q := base[i%len(base)]
		if i >= len(base) {
			q = "Advanced: " + q
		}
		questions = append(questions, q)
	}
	return questions
}
