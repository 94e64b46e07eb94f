package classify

import (
	"testing"

	"github.com/healthsignals/insights-engine/internal/models"
)

func TestClassifyDecisionOrder(t *testing.T) {
	c := NewDefault()

	tests := []struct {
		name     string
		survey   models.SurveyType
		question string
		answer   models.Answer
		want     Category
	}{
		{
			name:     "yes-no on bowel slot",
			survey:   models.SurveyMorning,
			question: "evacuacao",
			answer:   models.DecodeAnswer("Sim"),
			want:     CategoryBowelMovement,
		},
		{
			name:     "yes-no with digestive keyword in question",
			survey:   models.SurveyEvening,
			question: "funcionamento do intestino",
			answer:   models.DecodeAnswer("nao"),
			want:     CategoryBowelMovement,
		},
		{
			name:     "numeric scale defaults to pain",
			survey:   models.SurveyMorning,
			question: "q1",
			answer:   models.DecodeAnswer(float64(7)),
			want:     CategoryPainScale,
		},
		{
			name:     "numeric on evening fatigue slot",
			survey:   models.SurveyEvening,
			question: "fadiga",
			answer:   models.DecodeAnswer(float64(4)),
			want:     CategoryFatigueLevel,
		},
		{
			name:     "numeric on emergency medication slot is a data problem",
			survey:   models.SurveyEmergency,
			question: "medicacao",
			answer:   models.DecodeAnswer(float64(2)),
			want:     CategoryUnknown,
		},
		{
			name:     "numeric out of scale range",
			survey:   models.SurveyMorning,
			question: "q1",
			answer:   models.DecodeAnswer(float64(42)),
			want:     CategoryUnknown,
		},
		{
			name:     "list matches anatomical locations first",
			survey:   models.SurveyMorning,
			question: "q2",
			answer:   models.DecodeAnswer([]any{"Abdômen", "lombar"}),
			want:     CategoryPainLocations,
		},
		{
			name:     "list of symptoms",
			survey:   models.SurveyMorning,
			question: "q2",
			answer:   models.DecodeAnswer([]any{"náusea", "tontura"}),
			want:     CategorySymptoms,
		},
		{
			name:     "list of treatments",
			survey:   models.SurveyEvening,
			question: "q3",
			answer:   models.DecodeAnswer([]any{"Fisioterapia"}),
			want:     CategoryTreatments,
		},
		{
			name:     "list of triggers",
			survey:   models.SurveyEvening,
			question: "q5",
			answer:   models.DecodeAnswer([]any{"estresse", "clima"}),
			want:     CategoryTriggers,
		},
		{
			name:     "list of activities",
			survey:   models.SurveyEvening,
			question: "q6",
			answer:   models.DecodeAnswer([]any{"caminhada", "trabalho"}),
			want:     CategoryActivities,
		},
		{
			name:     "list of emotions",
			survey:   models.SurveyEvening,
			question: "q7",
			answer:   models.DecodeAnswer([]any{"ansiosa"}),
			want:     CategoryEmotionalState,
		},
		{
			name:     "unrecognised list degrades to multiple choice",
			survey:   models.SurveyEvening,
			question: "q8",
			answer:   models.DecodeAnswer([]any{"azul", "verde"}),
			want:     CategoryMultipleChoice,
		},
		{
			name:     "legacy location object",
			survey:   models.SurveyMorning,
			question: "q2",
			answer:   models.DecodeAnswer(map[string]any{"local": "Pelvis", "quantidade": float64(2)}),
			want:     CategoryPainLocations,
		},
		{
			name:     "text on emergency medication slot",
			survey:   models.SurveyEmergency,
			question: "medicamento",
			answer:   models.DecodeAnswer("tomei buscopan"),
			want:     CategoryRescueMed,
		},
		{
			name:     "text mentioning medication outside the slot",
			survey:   models.SurveyEvening,
			question: "q9",
			answer:   models.DecodeAnswer("precisei de dipirona hoje"),
			want:     CategoryMedicationText,
		},
		{
			name:     "text with sleep keywords",
			survey:   models.SurveyMorning,
			question: "q9",
			answer:   models.DecodeAnswer("dormi muito mal"),
			want:     CategorySleepQuality,
		},
		{
			name:     "text with emotion keywords",
			survey:   models.SurveyEvening,
			question: "q9",
			answer:   models.DecodeAnswer("me senti muito triste"),
			want:     CategoryEmotionalState,
		},
		{
			name:     "text with digestive keywords",
			survey:   models.SurveyEvening,
			question: "q9",
			answer:   models.DecodeAnswer("meu intestino nao funcionou"),
			want:     CategoryBowelMovement,
		},
		{
			name:     "plain prose falls back to free text",
			survey:   models.SurveyEvening,
			question: "q9",
			answer:   models.DecodeAnswer("dia tranquilo no geral"),
			want:     CategoryFreeText,
		},
		{
			name:     "empty answer is unknown",
			survey:   models.SurveyMorning,
			question: "q1",
			answer:   models.DecodeAnswer(nil),
			want:     CategoryUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Classify(tc.survey, tc.question, tc.answer)
			if got != tc.want {
				t.Fatalf("Classify() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	c := NewDefault()

	answers := []any{
		nil, "", "sim", "texto livre", float64(-3), float64(11), float64(5),
		[]any{}, []any{"abdomen"}, []any{42.0}, map[string]any{},
		map[string]any{"x": "y"}, true, false,
	}
	surveys := []models.SurveyType{models.SurveyMorning, models.SurveyEvening, models.SurveyEmergency, "legacy"}

	for _, survey := range surveys {
		for _, raw := range answers {
			got := c.Classify(survey, "qualquer", models.DecodeAnswer(raw))
			if got == "" {
				t.Fatalf("Classify(%v, %v) returned empty category", survey, raw)
			}
		}
	}
}

func TestNormalizeTreatmentIdempotentAndAliases(t *testing.T) {
	c := NewDefault()

	inputs := []string{"Fisioterapia", "FISIO", "pilates", "Psicólogo", "yoga", "Meditação"}
	for _, in := range inputs {
		once := c.NormalizeTreatment(in)
		twice := c.NormalizeTreatment(once)
		if once != twice {
			t.Fatalf("NormalizeTreatment not idempotent for %q: %q != %q", in, once, twice)
		}
	}

	if c.NormalizeTreatment("fisio") != c.NormalizeTreatment("pilates") {
		t.Fatalf("expected fisio and pilates to collapse onto the same canonical label")
	}
	if c.NormalizeTreatment("fisio") != "fisioterapia" {
		t.Fatalf("expected fisio to normalize to fisioterapia, got %q", c.NormalizeTreatment("fisio"))
	}
	if c.NormalizeTreatment("Psicólogo") != "psicologo" {
		t.Fatalf("expected accent-stripped psicologo, got %q", c.NormalizeTreatment("Psicólogo"))
	}
}

func TestMatchesMedicationBidirectional(t *testing.T) {
	c := NewDefault()

	if !c.MatchesMedication("tomei Dipirona 500mg") {
		t.Fatalf("expected substring match for dipirona")
	}
	if !c.MatchesMedication("busco") {
		t.Fatalf("expected partial token to match buscopan")
	}
	if c.MatchesMedication("cha de camomila") {
		t.Fatalf("did not expect out-of-lexicon text to match")
	}
}

func TestOrdinalScoresFallBackToNeutral(t *testing.T) {
	c := NewDefault()

	if score, ok := c.SleepScore("Ruim"); !ok || score != 2 {
		t.Fatalf("SleepScore(ruim) = %v, %v", score, ok)
	}
	if score, ok := c.SleepScore("dormi muito ruim"); !ok || score != 2 {
		t.Fatalf("SleepScore(phrase) = %v, %v", score, ok)
	}
	if score, ok := c.SleepScore("indescritivel"); ok || score != 3 {
		t.Fatalf("expected neutral fallback, got %v, %v", score, ok)
	}
	if score, ok := c.MoodScore("feliz"); !ok || score != 5 {
		t.Fatalf("MoodScore(feliz) = %v, %v", score, ok)
	}
}

func TestSmallLexiconSubstitution(t *testing.T) {
	lex := Lexicons{
		YesNoTokens:   []string{"sim", "nao"},
		TruthyTokens:  []string{"sim"},
		PainLocations: []string{"abdomen"},
		NeutralScore:  3,
	}
	slots := SlotTable{"morning": {"q1": SlotBowel}}
	c := New(lex, slots)

	if got := c.Classify(models.SurveyMorning, "q1", models.DecodeAnswer("sim")); got != CategoryBowelMovement {
		t.Fatalf("expected bowelMovement with substituted table, got %q", got)
	}
	if got := c.Classify(models.SurveyMorning, "q2", models.DecodeAnswer([]any{"abdomen"})); got != CategoryPainLocations {
		t.Fatalf("expected painLocations, got %q", got)
	}
}
