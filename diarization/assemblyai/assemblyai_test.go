package assemblyai

import (
	"context"
	"reflect"
	"testing"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/kbukum/speechkit/diarization"
)

func TestToTurns(t *testing.T) {
	utterances := []aai.TranscriptUtterance{
		{Speaker: aai.String("A"), Start: aai.Int64(0), End: aai.Int64(2500)},
		{Speaker: aai.String("B"), Start: aai.Int64(2500), End: aai.Int64(4120)},
		{Speaker: aai.String("C")},
	}
	want := []diarization.Turn{
		{Start: 0, End: 2.5, Speaker: "A"},
		{Start: 2.5, End: 4.12, Speaker: "B"},
	}
	if got := toTurns(utterances); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := toTurns(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty slice, got %#v", got)
	}
}

func TestFactory(t *testing.T) {
	if _, err := Factory()(map[string]any{}); err == nil {
		t.Error("missing api key must fail")
	}
	p, err := Factory()(map[string]any{"api_key": "test-key", "language_code": "hi"})
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	if p.Name() != ProviderName || !p.IsAvailable(context.Background()) {
		t.Errorf("unexpected provider %v", p)
	}
}
