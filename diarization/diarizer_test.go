package diarization

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kbukum/speechkit/audio"
	apperrors "github.com/kbukum/speechkit/errors"
)

type fakeProvider struct {
	turns []Turn
	err   error
	opts  Options
	calls int
}

func (f *fakeProvider) Name() string                         { return "fake" }
func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }
func (f *fakeProvider) Diarize(ctx context.Context, w *audio.Waveform, opts Options) ([]Turn, error) {
	f.calls++
	f.opts = opts
	return f.turns, f.err
}

func waveform() *audio.Waveform {
	return audio.New(make([]float32, 16000*5), 16000)
}

func TestDiarize_SortsStablyByStart(t *testing.T) {
	p := &fakeProvider{turns: []Turn{
		{Start: 3, End: 5, Speaker: "B"},
		{Start: 0, End: 3, Speaker: "A"},
		{Start: 3, End: 4, Speaker: "C"},
	}}
	d := NewDiarizer(Static(p), Options{NumSpeakers: 2})

	got, err := d.Diarize(context.Background(), waveform())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Turn{
		{Start: 0, End: 3, Speaker: "A"},
		{Start: 3, End: 5, Speaker: "B"},
		{Start: 3, End: 4, Speaker: "C"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if p.turns[0].Speaker != "B" {
		t.Error("backend slice must not be reordered in place")
	}
	if p.opts.NumSpeakers != 2 {
		t.Errorf("options not forwarded: %+v", p.opts)
	}
}

func TestDiarize_NoSpeechIsValid(t *testing.T) {
	d := NewDiarizer(Static(&fakeProvider{}), Options{})
	got, err := d.Diarize(context.Background(), waveform())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestDiarize_Errors(t *testing.T) {
	tests := []struct {
		name string
		p    *fakeProvider
	}{
		{"backend failure", &fakeProvider{err: errors.New("model crashed")}},
		{"inverted turn", &fakeProvider{turns: []Turn{{Start: 2, End: 1, Speaker: "A"}}}},
		{"negative start", &fakeProvider{turns: []Turn{{Start: -1, End: 1, Speaker: "A"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDiarizer(Static(tt.p), Options{}).Diarize(context.Background(), waveform())
			if !apperrors.IsCode(err, apperrors.ErrCodeInference) {
				t.Fatalf("expected inference error, got %v", err)
			}
			if apperrors.StageOf(err) != apperrors.StageDiarization {
				t.Errorf("stage = %q", apperrors.StageOf(err))
			}
			if tt.p.calls != 1 {
				t.Errorf("backend must be called exactly once, got %d", tt.p.calls)
			}
		})
	}
}

func TestDiarize_CancelledContextPassesThrough(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &fakeProvider{err: context.Canceled}
	_, err := NewDiarizer(Static(p), Options{}).Diarize(ctx, waveform())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDiarize_NoProvider(t *testing.T) {
	m := NewManager()
	_, err := NewDiarizer(m, Options{}).Diarize(context.Background(), waveform())
	if !apperrors.IsCode(err, apperrors.ErrCodeServiceUnavailable) {
		t.Errorf("expected service unavailable, got %v", err)
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Provider != "pyannote" {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if err := (&Config{MinSpeakers: 4, MaxSpeakers: 2}).Validate(); err == nil {
		t.Error("min > max must fail")
	}
	if err := (&Config{NumSpeakers: -1}).Validate(); err == nil {
		t.Error("negative count must fail")
	}
	c := Config{NumSpeakers: 2, MinSpeakers: 1, MaxSpeakers: 3}
	if c.Options() != (Options{NumSpeakers: 2, MinSpeakers: 1, MaxSpeakers: 3}) {
		t.Errorf("Options() = %+v", c.Options())
	}
}
