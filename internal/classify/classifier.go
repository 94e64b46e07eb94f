package classify

import (
	"strings"

	"github.com/healthsignals/insights-engine/internal/models"
)

// Classifier infers the semantic category of a survey answer from its
// shape, the originating survey type, and the question slot. It is pure
// and total: every input maps to exactly one Category and CategoryUnknown
// is a valid terminal outcome, never an error.
type Classifier struct {
	lex   Lexicons
	slots SlotTable

	yesNo        vocab
	truthy       vocab
	locations    vocab
	symptoms     vocab
	treatments   vocab
	triggers     vocab
	activities   vocab
	emotions     vocab
	medications  []string
	sleepWords   []string
	emotionWords []string
	digestWords  []string

	rules []rule
}

// rule is one step of the ordered first-match-wins chain. Rules are
// evaluated in declaration order; the first hit decides the category.
type rule struct {
	name  string
	apply func(*Classifier, answerContext) (Category, bool)
}

type answerContext struct {
	survey   models.SurveyType
	question string
	role     SlotRole
	hasRole  bool
	answer   models.Answer
	normText string
}

// New builds a Classifier around the supplied vocabularies and slot table.
func New(lex Lexicons, slots SlotTable) *Classifier {
	c := &Classifier{
		lex:          lex,
		slots:        slots,
		yesNo:        newVocab(lex.YesNoTokens),
		truthy:       newVocab(lex.TruthyTokens),
		locations:    newVocab(lex.PainLocations),
		symptoms:     newVocab(lex.Symptoms),
		treatments:   newVocab(lex.Treatments),
		triggers:     newVocab(lex.Triggers),
		activities:   newVocab(lex.Activities),
		emotions:     newVocab(lex.Emotions),
		medications:  normalizeAll(lex.Medications),
		sleepWords:   normalizeAll(lex.SleepKeywords),
		emotionWords: normalizeAll(lex.EmotionKeywords),
		digestWords:  normalizeAll(lex.DigestiveKeywords),
	}
	c.rules = []rule{
		{name: "bowel-yes-no", apply: (*Classifier).ruleBowelYesNo},
		{name: "numeric-scale", apply: (*Classifier).ruleNumericScale},
		{name: "string-list", apply: (*Classifier).ruleStringList},
		{name: "location-object", apply: (*Classifier).ruleLocationObject},
		{name: "text-answer", apply: (*Classifier).ruleTextAnswer},
	}
	return c
}

// NewDefault builds a Classifier with the production vocabularies.
func NewDefault() *Classifier {
	return New(DefaultLexicons(), DefaultSlots())
}

// Classify resolves the semantic category of one answer.
func (c *Classifier) Classify(survey models.SurveyType, questionID string, answer models.Answer) Category {
	ctx := answerContext{
		survey:   survey,
		question: questionID,
		answer:   answer,
	}
	ctx.role, ctx.hasRole = c.slots.Role(string(survey), questionID)
	if answer.Kind == models.AnswerText {
		ctx.normText = Normalize(answer.Text)
	}

	for _, r := range c.rules {
		if category, ok := r.apply(c, ctx); ok {
			return category
		}
	}
	return CategoryUnknown
}

// Rule 1: a two-valued yes/no string on the designated bowel slot, or one
// whose text carries digestive keywords, is a bowel-movement answer.
func (c *Classifier) ruleBowelYesNo(ctx answerContext) (Category, bool) {
	if ctx.answer.Kind != models.AnswerText || !c.yesNo.matchExact(ctx.normText) {
		return "", false
	}
	if ctx.hasRole && ctx.role == SlotBowel {
		return CategoryBowelMovement, true
	}
	if containsAny(ctx.normText, c.digestWords) || containsAny(Normalize(ctx.question), c.digestWords) {
		return CategoryBowelMovement, true
	}
	// A bare yes/no with no digestive context is ambiguous; let later
	// rules (and ultimately unknown) deal with it.
	return "", false
}

// Rule 2: numerics in [0,10] are scale readings. The emergency medication
// slot is special-cased: a number there signals a data-quality problem,
// not a pain or fatigue level.
func (c *Classifier) ruleNumericScale(ctx answerContext) (Category, bool) {
	if ctx.answer.Kind != models.AnswerNumber {
		return "", false
	}
	v := ctx.answer.Number
	if v < 0 || v > 10 {
		return "", false
	}
	if ctx.hasRole && ctx.role == SlotRescueMed && ctx.survey == models.SurveyEmergency {
		return CategoryUnknown, true
	}
	if ctx.hasRole && ctx.role == SlotFatigue && ctx.survey == models.SurveyEvening {
		return CategoryFatigueLevel, true
	}
	return CategoryPainScale, true
}

// Rule 3: string lists are tested against the fixed vocabularies in
// precedence order; an unrecognised list degrades to multipleChoice.
func (c *Classifier) ruleStringList(ctx answerContext) (Category, bool) {
	if ctx.answer.Kind != models.AnswerList {
		return "", false
	}
	switch {
	case c.locations.matchAny(ctx.answer.List):
		return CategoryPainLocations, true
	case c.symptoms.matchAny(ctx.answer.List):
		return CategorySymptoms, true
	case c.treatments.matchAny(ctx.answer.List):
		return CategoryTreatments, true
	case c.triggers.matchAny(ctx.answer.List):
		return CategoryTriggers, true
	case c.activities.matchAny(ctx.answer.List):
		return CategoryActivities, true
	case c.emotions.matchAny(ctx.answer.List):
		return CategoryEmotionalState, true
	default:
		return CategoryMultipleChoice, true
	}
}

// Rule 3b: legacy records stored pain locations as objects
// ({"local": ..., "quantidade": ...}); recognise those by field name.
func (c *Classifier) ruleLocationObject(ctx answerContext) (Category, bool) {
	if ctx.answer.Kind != models.AnswerObject {
		return "", false
	}
	if name, _, ok := LocationFromObject(ctx.answer.Fields); ok && c.locations.matchToken(Normalize(name)) {
		return CategoryPainLocations, true
	}
	return "", false
}

// Rule 4: non-empty strings run through the keyword screens in fixed order.
func (c *Classifier) ruleTextAnswer(ctx answerContext) (Category, bool) {
	if ctx.answer.Kind != models.AnswerText || ctx.normText == "" {
		return "", false
	}
	if ctx.hasRole && ctx.role == SlotRescueMed && ctx.survey == models.SurveyEmergency {
		return CategoryRescueMed, true
	}
	switch {
	case c.MatchesMedication(ctx.answer.Text):
		return CategoryMedicationText, true
	case containsAny(ctx.normText, c.sleepWords):
		return CategorySleepQuality, true
	case containsAny(ctx.normText, c.emotionWords):
		return CategoryEmotionalState, true
	case containsAny(ctx.normText, c.digestWords):
		return CategoryBowelMovement, true
	default:
		return CategoryFreeText, true
	}
}

// MatchesMedication reports whether the text references an entry of the
// known-medication lexicon (bidirectional substring on normalized text).
func (c *Classifier) MatchesMedication(text string) bool {
	t := Normalize(text)
	if t == "" {
		return false
	}
	for _, med := range c.medications {
		if strings.Contains(t, med) || strings.Contains(med, t) {
			return true
		}
	}
	return false
}

// IsTruthy reports whether a yes/no token counts as an affirmative.
// Everything outside the fixed truthy set is false.
func (c *Classifier) IsTruthy(text string) bool {
	return c.truthy.matchExact(Normalize(text))
}

// NormalizeTreatment folds a therapy name onto its canonical label:
// lower-cased, accent-stripped, and collapsed through the alias table.
// The operation is idempotent.
func (c *Classifier) NormalizeTreatment(s string) string {
	n := Normalize(s)
	if canonical, ok := c.lex.TreatmentAliases[n]; ok {
		return canonical
	}
	return n
}

// NormalizeTrigger folds a trigger name onto its canonical label.
func (c *Classifier) NormalizeTrigger(s string) string {
	return Normalize(s)
}

// IsNoneTreatment reports whether the value is the "none performed" sentinel.
func (c *Classifier) IsNoneTreatment(s string) bool {
	return Normalize(s) == c.lex.NoneTreatment
}

// NoneTreatmentLabel exposes the configured "none performed" sentinel so
// reducers can record non-adherence under the same label they match on.
func (c *Classifier) NoneTreatmentLabel() string {
	return c.lex.NoneTreatment
}

// IsNoneTrigger reports whether the value is the "none identified" sentinel.
func (c *Classifier) IsNoneTrigger(s string) bool {
	return Normalize(s) == c.lex.NoneTrigger
}

// SleepScore maps an ordinal sleep token onto its numeric score. The second
// return reports whether the token was recognised; unrecognised tokens get
// the neutral fallback.
func (c *Classifier) SleepScore(token string) (float64, bool) {
	return c.ordinalScore(c.lex.SleepScores, token)
}

// MoodScore maps an ordinal mood token onto its numeric score, with the
// same neutral fallback contract as SleepScore.
func (c *Classifier) MoodScore(token string) (float64, bool) {
	return c.ordinalScore(c.lex.MoodScores, token)
}

// ordinalScore matches the whole answer first, then each word, so phrases
// like "dormi muito bem" still land on the "bem" score.
func (c *Classifier) ordinalScore(scores map[string]float64, token string) (float64, bool) {
	norm := Normalize(token)
	if score, ok := scores[norm]; ok {
		return score, true
	}
	for _, word := range strings.Fields(norm) {
		if score, ok := scores[word]; ok {
			return score, true
		}
	}
	return c.lex.NeutralScore, false
}

// LocationFromObject extracts a location name and occurrence count from a
// legacy object-shaped answer, accepting the known synonymous field names.
func LocationFromObject(fields map[string]any) (string, int, bool) {
	nameKeys := []string{"local", "location", "nome", "name", "regiao"}
	countKeys := []string{"quantidade", "count", "vezes", "qtd"}

	var name string
	for _, key := range nameKeys {
		if v, ok := fields[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				name = s
				break
			}
		}
	}
	if name == "" {
		return "", 0, false
	}

	count := 1
	for _, key := range countKeys {
		if v, ok := fields[key]; ok {
			switch n := v.(type) {
			case float64:
				if n > 0 {
					count = int(n)
				}
			case int:
				if n > 0 {
					count = n
				}
			}
			break
		}
	}
	return name, count, true
}

// vocab is an immutable normalized token set supporting exact and
// substring matches.
type vocab struct {
	exact   map[string]struct{}
	entries []string
}

func newVocab(tokens []string) vocab {
	v := vocab{exact: make(map[string]struct{}, len(tokens))}
	for _, t := range tokens {
		n := Normalize(t)
		if n == "" {
			continue
		}
		v.exact[n] = struct{}{}
		v.entries = append(v.entries, n)
	}
	return v
}

// matchExact reports an exact normalized-token hit.
func (v vocab) matchExact(token string) bool {
	_, ok := v.exact[token]
	return ok
}

// matchToken reports an exact hit or a vocabulary entry contained in the
// token ("dor no abdomen" matches "abdomen").
func (v vocab) matchToken(token string) bool {
	if v.matchExact(token) {
		return true
	}
	for _, entry := range v.entries {
		if strings.Contains(token, entry) {
			return true
		}
	}
	return false
}

// matchAny reports whether any list element matches the vocabulary.
func (v vocab) matchAny(list []string) bool {
	for _, item := range list {
		if v.matchToken(Normalize(item)) {
			return true
		}
	}
	return false
}

func normalizeAll(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if n := Normalize(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
