package ai

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestExtractParsesFencedResponse(t *testing.T) {
	chat := &mockChat{
		responses: []string{
			"```json\n{\"quiet\":true,\"nearParks\":true,\"petFriendly\":false," +
				"\"maxRent\":1100,\"minRooms\":2,\"preferredDistricts\":[\"Kreuzberg\",\"Neukölln\"]," +
				"\"lifestyle\":\"relaxed\"}\n```",
		},
	}
	extractor := NewExtractor(chat, nil, testConfig())

	prefs := extractor.Extract(context.Background(), "Quiet flat near a park in Kreuzberg or Neukölln, max 1100 warm")

	if !prefs.Quiet || !prefs.NearParks {
		t.Errorf("boolean flags not extracted: %+v", prefs)
	}
	if prefs.MaxRent != 1100 || prefs.MinRooms != 2 {
		t.Errorf("numeric targets not extracted: %+v", prefs)
	}
	if len(prefs.PreferredDistricts) != 2 {
		t.Errorf("districts not extracted: %+v", prefs.PreferredDistricts)
	}
}

func TestExtractFallsBackOnModelError(t *testing.T) {
	chat := &mockChat{errs: []error{errors.New("timeout")}}
	extractor := NewExtractor(chat, nil, testConfig())

	prefs := extractor.Extract(context.Background(), "Looking for anything in Mitte")

	if !reflect.DeepEqual(prefs, ExtractedPreferences{}) {
		t.Errorf("model failure must yield the zero-value record, got %+v", prefs)
	}
}

func TestExtractFallsBackOnUnparseableOutput(t *testing.T) {
	chat := &mockChat{responses: []string{"I think this user wants a quiet flat."}}
	extractor := NewExtractor(chat, nil, testConfig())

	prefs := extractor.Extract(context.Background(), "Looking for a quiet flat")

	if !reflect.DeepEqual(prefs, ExtractedPreferences{}) {
		t.Errorf("unparseable output must yield the zero-value record, got %+v", prefs)
	}
}

func TestExtractEmptyDescriptionSkipsModel(t *testing.T) {
	chat := &mockChat{}
	extractor := NewExtractor(chat, nil, testConfig())

	extractor.Extract(context.Background(), "")

	if len(chat.prompts) != 0 {
		t.Errorf("empty description must not trigger a model call")
	}
}
