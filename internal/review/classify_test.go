package review

import (
	"reflect"
	"testing"

	"github.com/example/elevate/pkg/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		answer      string
		wantType    models.QuestionType
		wantOptions []string
	}{
		{
			name:     "true or false phrase with boolean answer",
			text:     "True or False: the mitochondria is the powerhouse of the cell.",
			answer:   "True",
			wantType: models.TrueFalse,
		},
		{
			name:     "true/false phrase case-insensitive",
			text:     "TRUE/FALSE: water boils at 90C at sea level.",
			answer:   "false",
			wantType: models.TrueFalse,
		},
		{
			name:     "true or false phrase but non-boolean answer",
			text:     "True or false questions are a common exam format. Why?",
			answer:   "Because they are quick to grade",
			wantType: models.ShortAnswer,
		},
		{
			name:        "letter enumerated options",
			text:        "Which planet is closest to the sun?\na) Venus\nb) Mercury\nc) Mars",
			answer:      "Mercury",
			wantType:    models.MultipleChoice,
			wantOptions: []string{"Venus", "Mercury", "Mars"},
		},
		{
			name:        "digit enumerated options with dots",
			text:        "Pick the prime number:\n1. Eight\n2. Seven",
			answer:      "Seven",
			wantType:    models.MultipleChoice,
			wantOptions: []string{"Eight", "Seven"},
		},
		{
			name:        "parenthesised enumerators",
			text:        "Choose one:\n(a) Oxygen\n(b) Gold",
			answer:      "Oxygen",
			wantType:    models.MultipleChoice,
			wantOptions: []string{"Oxygen", "Gold"},
		},
		{
			name:     "single option-like line stays short answer",
			text:     "Finish the sequence:\n1. One",
			answer:   "Two",
			wantType: models.ShortAnswer,
		},
		{
			name:     "plain question",
			text:     "What is osmosis?",
			answer:   "Diffusion of water across a membrane",
			wantType: models.ShortAnswer,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rq := classify(models.Question{ID: 1, Text: tc.text, Answer: tc.answer})
			if rq.Type != tc.wantType {
				t.Errorf("type = %v, want %v", rq.Type, tc.wantType)
			}
			if !reflect.DeepEqual(rq.Options, tc.wantOptions) {
				t.Errorf("options = %v, want %v", rq.Options, tc.wantOptions)
			}
		})
	}
}

func TestTrueFalseRuleWinsOverOptions(t *testing.T) {
	// Both rules match; true/false is checked first
	q := models.Question{
		ID:     2,
		Text:   "True or false?\na) true\nb) false",
		Answer: "true",
	}
	rq := classify(q)
	if rq.Type != models.TrueFalse {
		t.Errorf("type = %v, want TrueFalse", rq.Type)
	}
}
