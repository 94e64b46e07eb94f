package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category is the inferred semantic meaning of a survey answer, independent
// of its raw question identifier.
type Category string

const (
	CategoryPainScale      Category = "painScale"
	CategoryPainLocations  Category = "painLocations"
	CategorySymptoms       Category = "symptoms"
	CategoryActivities     Category = "activities"
	CategoryEmotionalState Category = "emotionalState"
	CategoryBowelMovement  Category = "bowelMovement"
	CategoryRescueMed      Category = "rescueMedication"
	CategorySleepQuality   Category = "sleepQuality"
	CategoryTreatments     Category = "treatmentActivities"
	CategoryTriggers       Category = "triggers"
	CategoryFatigueLevel   Category = "fatigueLevel"
	CategoryMedicationText Category = "medicationText"
	CategoryFreeText       Category = "freeText"
	CategoryMultipleChoice Category = "multipleChoice"
	CategoryUnknown        Category = "unknown"
)

// SlotRole marks a (survey type, question id) position with a fixed meaning
// that overrides shape-based classification.
type SlotRole string

const (
	SlotBowel     SlotRole = "bowel"
	SlotFatigue   SlotRole = "fatigue"
	SlotRescueMed SlotRole = "rescueMedication"
)

// Lexicons bundles every fixed vocabulary the classifier and the reducers
// consult. Instances are treated as immutable; tests substitute smaller
// tables through New.
type Lexicons struct {
	YesNoTokens   []string
	TruthyTokens  []string
	PainLocations []string
	Symptoms      []string
	Treatments    []string
	Triggers      []string
	Activities    []string
	Emotions      []string
	Medications   []string

	SleepKeywords     []string
	EmotionKeywords   []string
	DigestiveKeywords []string

	TreatmentAliases map[string]string
	NoneTreatment    string
	NoneTrigger      string

	SleepScores  map[string]float64
	MoodScores   map[string]float64
	NeutralScore float64
}

// DefaultLexicons returns the compiled-in vocabularies of the production
// surveys (pt-BR tokens, stored accent-free because matching happens on
// normalized text).
func DefaultLexicons() Lexicons {
	return Lexicons{
		YesNoTokens:  []string{"sim", "nao", "yes", "no", "true", "false", "1", "0"},
		TruthyTokens: []string{"sim", "yes", "1", "true"},
		PainLocations: []string{
			"abdomen", "pelvis", "lombar", "costas", "cabeca", "pernas",
			"bexiga", "intestino", "ovario direito", "ovario esquerdo",
		},
		Symptoms: []string{
			"nausea", "colica", "inchaco", "tontura", "enxaqueca",
			"sangramento", "febre", "diarreia",
		},
		Treatments: []string{
			"fisioterapia", "fisio", "pilates", "yoga", "alongamento",
			"meditacao", "psicologo", "acupuntura", "caminhada leve",
			"nenhuma atividade",
		},
		Triggers: []string{
			"estresse", "alimentacao", "sono ruim", "esforco fisico",
			"menstruacao", "clima", "viagem", "nenhum identificado",
		},
		Activities: []string{
			"caminhada", "trabalho", "exercicio", "estudo", "lazer",
			"tarefas domesticas",
		},
		Emotions: []string{
			"ansiosa", "triste", "irritada", "calma", "feliz",
			"deprimida", "esperancosa",
		},
		Medications: []string{
			"dipirona", "ibuprofeno", "paracetamol", "tramadol",
			"naproxeno", "buscopan", "dorflex", "toragesic", "codeina",
		},
		SleepKeywords:     []string{"dormi", "sono", "insonia", "acordei", "descansei"},
		EmotionKeywords:   []string{"ansiosa", "triste", "irritada", "chorei", "animada", "deprimida"},
		DigestiveKeywords: []string{"intestino", "evacu", "digestao", "constipa", "prisao de ventre"},
		TreatmentAliases: map[string]string{
			"fisio":   "fisioterapia",
			"pilates": "fisioterapia",
			"psico":   "psicologo",
		},
		NoneTreatment: "nenhuma atividade",
		NoneTrigger:   "nenhum identificado",
		SleepScores: map[string]float64{
			"pessimo": 1,
			"ruim":    2,
			"medio":   3,
			"bem":     4,
			"otimo":   5,
		},
		MoodScores: map[string]float64{
			"deprimida": 1,
			"triste":    2,
			"irritada":  2,
			"ansiosa":   2,
			"neutra":    3,
			"calma":     4,
			"feliz":     5,
		},
		NeutralScore: 3,
	}
}

// SlotTable maps normalized question ids to fixed roles per survey type.
// Question ids are not a stable schema across survey revisions, so the
// table carries both positional ids and the known legacy names.
type SlotTable map[string]map[string]SlotRole

// DefaultSlots returns the designated slots of the production surveys.
func DefaultSlots() SlotTable {
	return SlotTable{
		"morning": {
			"q3":        SlotBowel,
			"evacuacao": SlotBowel,
			"intestino": SlotBowel,
		},
		"evening": {
			"q4":      SlotFatigue,
			"fadiga":  SlotFatigue,
			"cansaco": SlotFatigue,
		},
		"emergency": {
			"q2":          SlotRescueMed,
			"medicacao":   SlotRescueMed,
			"medicamento": SlotRescueMed,
		},
	}
}

// Role resolves the slot role for a survey/question pair, if any.
func (t SlotTable) Role(surveyType, questionID string) (SlotRole, bool) {
	slots, ok := t[strings.ToLower(surveyType)]
	if !ok {
		return "", false
	}
	role, ok := slots[Normalize(questionID)]
	return role, ok
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases, trims, and strips accents so that lexicon matching
// is insensitive to casing and diacritics ("Psicólogo" -> "psicologo").
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}
