package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/healthsignals/insights-engine/internal/classify"
	"github.com/healthsignals/insights-engine/internal/models"
	"github.com/healthsignals/insights-engine/internal/utils"
)

// Aggregator folds classified answers into one AggregateBundle per run.
// Nothing here is fatal: malformed entries are skipped with a diagnostic
// and processing continues.
type Aggregator struct {
	logger     *slog.Logger
	classifier *classify.Classifier
}

// NewAggregator constructs an Aggregator; nil arguments fall back to
// defaults like the rest of the engine constructors.
func NewAggregator(logger *slog.Logger, classifier *classify.Classifier) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if classifier == nil {
		classifier = classify.NewDefault()
	}
	return &Aggregator{logger: logger, classifier: classifier}
}

// Aggregate classifies and reduces every answer of the ordered record set.
// Question ids are visited in sorted order so re-running over the same
// records produces an identical bundle.
func (a *Aggregator) Aggregate(records []models.DailyRecord) *models.AggregateBundle {
	bundle := models.NewAggregateBundle()
	days := make(map[string]struct{})

	for _, rec := range records {
		day, date, hasTime, err := utils.ParseDay(rec.Date)
		if err != nil {
			a.diag(bundle, models.DiagShapeError, rec.Date, "", "", fmt.Sprintf("unparseable date: %v", err))
			a.logger.Warn("skipping record with unparseable date", slog.String("date", rec.Date))
			continue
		}
		days[day] = struct{}{}

		for _, resp := range rec.Responses {
			if resp.Answers == nil {
				a.diag(bundle, models.DiagShapeError, day, resp.SurveyType, "", "response has no answers object")
				continue
			}

			questionIDs := make([]string, 0, len(resp.Answers))
			for qid := range resp.Answers {
				questionIDs = append(questionIDs, qid)
			}
			sort.Strings(questionIDs)

			for _, qid := range questionIDs {
				answer := models.DecodeAnswer(resp.Answers[qid])
				if answer.Kind == models.AnswerEmpty {
					continue
				}
				category := a.classifier.Classify(resp.SurveyType, qid, answer)
				bundle.CategoryCounts[string(category)]++
				a.dispatch(bundle, day, date, hasTime, resp.SurveyType, qid, category, answer)
			}
		}
	}

	bundle.TotalDays = len(days)
	return bundle
}

func (a *Aggregator) dispatch(b *models.AggregateBundle, day string, date time.Time, hasTime bool, survey models.SurveyType, qid string, category classify.Category, answer models.Answer) {
	switch category {
	case classify.CategoryPainScale:
		a.applyPainScale(b, day, date, hasTime, survey, answer)
	case classify.CategoryFatigueLevel:
		a.applyFatigue(b, day, date, survey, qid, answer)
	case classify.CategoryPainLocations:
		a.applyPainLocations(b, answer)
	case classify.CategorySymptoms:
		a.applySymptoms(b, answer)
	case classify.CategoryBowelMovement:
		a.applyBowelMovement(b, day, date, answer)
	case classify.CategoryRescueMed:
		a.applyRescueMedication(b, day, survey, qid, answer)
	case classify.CategoryTreatments:
		a.applyTreatments(b, day, survey, qid, answer)
	case classify.CategoryTriggers:
		a.applyTriggers(b, day, answer)
	case classify.CategoryActivities:
		a.applyActivities(b, day, answer)
	case classify.CategorySleepQuality:
		a.applySleepQuality(b, day, survey, qid, answer)
	case classify.CategoryEmotionalState:
		a.applyEmotionalState(b, day, survey, qid, answer)
	case classify.CategoryMedicationText:
		a.applyFreeText(b, day, survey, answer, true)
	case classify.CategoryFreeText:
		a.applyFreeText(b, day, survey, answer, false)
	case classify.CategoryMultipleChoice:
		a.observe(b, day, survey, qid, category, answer)
	default:
		a.observe(b, day, survey, qid, classify.CategoryUnknown, answer)
		a.diag(b, models.DiagDataQuality, day, survey, qid, "answer could not be classified")
	}
}

func (a *Aggregator) applyPainScale(b *models.AggregateBundle, day string, date time.Time, hasTime bool, survey models.SurveyType, answer models.Answer) {
	b.PainSamples = append(b.PainSamples, models.PainSample{
		Day:     day,
		Date:    date,
		HasTime: hasTime,
		Level:   answer.Number,
		Survey:  survey,
	})
}

func (a *Aggregator) applyFatigue(b *models.AggregateBundle, day string, date time.Time, survey models.SurveyType, qid string, answer models.Answer) {
	if answer.Number < 0 || answer.Number > 5 {
		a.diag(b, models.DiagDataQuality, day, survey, qid, fmt.Sprintf("fatigue level %.1f outside 0-5", answer.Number))
		return
	}
	b.FatigueSamples = append(b.FatigueSamples, models.FatigueSample{
		Day:   day,
		Date:  date,
		Level: answer.Number,
	})
}

func (a *Aggregator) applyPainLocations(b *models.AggregateBundle, answer models.Answer) {
	switch answer.Kind {
	case models.AnswerList:
		for _, item := range answer.List {
			b.PainLocations[classify.Normalize(item)]++
		}
	case models.AnswerObject:
		if name, count, ok := classify.LocationFromObject(answer.Fields); ok {
			b.PainLocations[classify.Normalize(name)] += count
		}
	}
}

func (a *Aggregator) applySymptoms(b *models.AggregateBundle, answer models.Answer) {
	for _, item := range answer.List {
		b.Symptoms[classify.Normalize(item)]++
	}
}

func (a *Aggregator) applyBowelMovement(b *models.AggregateBundle, day string, date time.Time, answer models.Answer) {
	b.BowelMovements = append(b.BowelMovements, models.BowelMovementRecord{
		Day:       day,
		Date:      date,
		Evacuated: a.classifier.IsTruthy(answer.Text),
	})
}

func (a *Aggregator) applyRescueMedication(b *models.AggregateBundle, day string, survey models.SurveyType, qid string, answer models.Answer) {
	mention := models.MedicationMention{Day: day, Survey: survey, Text: answer.Text}
	if a.classifier.MatchesMedication(answer.Text) {
		b.RescueValidated = append(b.RescueValidated, mention)
		return
	}
	b.RescueRejected = append(b.RescueRejected, mention)
	a.diag(b, models.DiagRejectedEntry, day, survey, qid, fmt.Sprintf("rescue medication %q not in known lexicon", answer.Text))
}

func (a *Aggregator) applyTreatments(b *models.AggregateBundle, day string, survey models.SurveyType, qid string, answer models.Answer) {
	values := answer.List

	noneSelected := false
	for _, v := range values {
		if a.classifier.IsNoneTreatment(v) {
			noneSelected = true
			break
		}
	}

	if noneSelected {
		// "None performed" excludes every other selection for the day.
		if len(values) > 1 {
			a.diag(b, models.DiagInconsistency, day, survey, qid, "treatments selected alongside the none-performed sentinel; keeping only non-adherence")
		}
		b.NonAdherence = append(b.NonAdherence, models.TherapyNonAdherence{
			Day:    day,
			Reason: a.classifier.NoneTreatmentLabel(),
		})
		return
	}

	for _, v := range values {
		name := a.classifier.NormalizeTreatment(v)
		if name == "" {
			continue
		}
		entry, ok := b.Treatments[name]
		if !ok {
			entry = &models.TreatmentActivity{Name: name}
			b.Treatments[name] = entry
		}
		entry.Frequency++
		entry.Days = append(entry.Days, day)
	}
}

func (a *Aggregator) applyTriggers(b *models.AggregateBundle, day string, answer models.Answer) {
	for _, v := range answer.List {
		if a.classifier.IsNoneTrigger(v) {
			continue
		}
		name := a.classifier.NormalizeTrigger(v)
		if name == "" {
			continue
		}
		entry, ok := b.Triggers[name]
		if !ok {
			entry = &models.TriggerRecord{Name: name}
			b.Triggers[name] = entry
		}
		entry.Frequency++
		entry.Days = append(entry.Days, day)
	}
}

func (a *Aggregator) applyActivities(b *models.AggregateBundle, day string, answer models.Answer) {
	for _, v := range answer.List {
		name := classify.Normalize(v)
		if name == "" {
			continue
		}
		b.Activities = append(b.Activities, models.ActivityMention{Day: day, Name: name})
	}
}

func (a *Aggregator) applySleepQuality(b *models.AggregateBundle, day string, survey models.SurveyType, qid string, answer models.Answer) {
	token := classify.Normalize(answer.Text)
	score, known := a.classifier.SleepScore(answer.Text)
	if !known {
		a.diag(b, models.DiagDataQuality, day, survey, qid, fmt.Sprintf("unrecognised sleep token %q, using neutral score", answer.Text))
	}
	b.SleepSamples = append(b.SleepSamples, models.SleepSample{Day: day, Token: token, Score: score})
}

func (a *Aggregator) applyEmotionalState(b *models.AggregateBundle, day string, survey models.SurveyType, qid string, answer models.Answer) {
	tokens := answer.List
	if answer.Kind == models.AnswerText {
		tokens = []string{answer.Text}
	}
	for _, t := range tokens {
		score, known := a.classifier.MoodScore(t)
		if !known {
			a.diag(b, models.DiagDataQuality, day, survey, qid, fmt.Sprintf("unrecognised mood token %q, using neutral score", t))
		}
		b.MoodSamples = append(b.MoodSamples, models.MoodSample{Day: day, Token: classify.Normalize(t), Score: score})
	}
}

func (a *Aggregator) applyFreeText(b *models.AggregateBundle, day string, survey models.SurveyType, answer models.Answer, mentionsMedication bool) {
	b.FreeText = append(b.FreeText, models.FreeTextEntry{
		Day:                day,
		Survey:             survey,
		Text:               answer.Text,
		MentionsMedication: mentionsMedication,
	})
}

func (a *Aggregator) observe(b *models.AggregateBundle, day string, survey models.SurveyType, qid string, category classify.Category, answer models.Answer) {
	b.Observations = append(b.Observations, models.Observation{
		Day:      day,
		Survey:   survey,
		Question: qid,
		Category: string(category),
		Detail:   describeAnswer(answer),
	})
}

func (a *Aggregator) diag(b *models.AggregateBundle, kind models.DiagnosticKind, day string, survey models.SurveyType, qid, detail string) {
	b.Diagnostics = append(b.Diagnostics, models.Diagnostic{
		Kind:     kind,
		Day:      day,
		Survey:   survey,
		Question: qid,
		Detail:   detail,
	})
}

func describeAnswer(answer models.Answer) string {
	switch answer.Kind {
	case models.AnswerNumber:
		return fmt.Sprintf("number %.1f", answer.Number)
	case models.AnswerText:
		return answer.Text
	case models.AnswerList:
		return fmt.Sprintf("list of %d values", len(answer.List))
	case models.AnswerObject:
		return fmt.Sprintf("object with %d fields", len(answer.Fields))
	default:
		return "empty"
	}
}
