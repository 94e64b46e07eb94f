package models

// SurveyType identifies the daily check-in variant a response belongs to.
type SurveyType string

const (
	SurveyMorning   SurveyType = "morning"
	SurveyEvening   SurveyType = "evening"
	SurveyEmergency SurveyType = "emergency"
)

// DailyRecord groups every survey response captured for one calendar day.
// The Date field is an ISO day key ("2006-01-02"); records are immutable
// once fetched from the records service.
type DailyRecord struct {
	Date      string           `json:"date"`
	Responses []SurveyResponse `json:"responses"`
}

// SurveyResponse carries the free-form per-question answers of one survey.
// Answer values are untrusted input: numbers, strings, string lists, or
// legacy object shapes depending on the app revision that produced them.
type SurveyResponse struct {
	SurveyType SurveyType     `json:"surveyType"`
	Answers    map[string]any `json:"answers"`
}

// AnswerKind tags the decoded shape of a raw answer value.
type AnswerKind string

const (
	AnswerEmpty  AnswerKind = "empty"
	AnswerNumber AnswerKind = "number"
	AnswerText   AnswerKind = "text"
	AnswerList   AnswerKind = "list"
	AnswerObject AnswerKind = "object"
)

// Answer is the tagged union the classifier operates on. Raw values are
// decoded into it exactly once at the ingestion boundary so everything
// downstream works over a closed type.
type Answer struct {
	Kind   AnswerKind
	Number float64
	Text   string
	List   []string
	Fields map[string]any
}

// DecodeAnswer converts an untrusted raw answer into the tagged union.
// Unrecognised shapes decode to AnswerEmpty and are skipped by the engine.
func DecodeAnswer(raw any) Answer {
	switch v := raw.(type) {
	case nil:
		return Answer{Kind: AnswerEmpty}
	case float64:
		return Answer{Kind: AnswerNumber, Number: v}
	case float32:
		return Answer{Kind: AnswerNumber, Number: float64(v)}
	case int:
		return Answer{Kind: AnswerNumber, Number: float64(v)}
	case int64:
		return Answer{Kind: AnswerNumber, Number: float64(v)}
	case bool:
		// Legacy records stored yes/no answers as JSON booleans.
		if v {
			return Answer{Kind: AnswerText, Text: "sim"}
		}
		return Answer{Kind: AnswerText, Text: "nao"}
	case string:
		if v == "" {
			return Answer{Kind: AnswerEmpty}
		}
		return Answer{Kind: AnswerText, Text: v}
	case []string:
		if len(v) == 0 {
			return Answer{Kind: AnswerEmpty}
		}
		return Answer{Kind: AnswerList, List: v}
	case []any:
		list := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				list = append(list, s)
			}
		}
		if len(list) == 0 {
			return Answer{Kind: AnswerEmpty}
		}
		return Answer{Kind: AnswerList, List: list}
	case map[string]any:
		if len(v) == 0 {
			return Answer{Kind: AnswerEmpty}
		}
		return Answer{Kind: AnswerObject, Fields: v}
	default:
		return Answer{Kind: AnswerEmpty}
	}
}
