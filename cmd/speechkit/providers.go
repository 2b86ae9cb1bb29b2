package main

import (
	"context"
	"fmt"

	"github.com/kbukum/speechkit/component"
	"github.com/kbukum/speechkit/diarization"
	"github.com/kbukum/speechkit/diarization/assemblyai"
	"github.com/kbukum/speechkit/diarization/pyannote"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/provider"
	"github.com/kbukum/speechkit/storage"
	"github.com/kbukum/speechkit/storage/local"
	"github.com/kbukum/speechkit/storage/minio"
	"github.com/kbukum/speechkit/storage/s3"
	"github.com/kbukum/speechkit/transcription"
	oaitranscription "github.com/kbukum/speechkit/transcription/openai"
	"github.com/kbukum/speechkit/transcription/whisper"
	"github.com/kbukum/speechkit/translation"
	"github.com/kbukum/speechkit/translation/nllb"
	oaitranslation "github.com/kbukum/speechkit/translation/openai"
)

// backends holds the initialized provider managers of every stage.
type backends struct {
	diarization   *provider.Manager[diarization.Provider]
	transcription *provider.Manager[transcription.Provider]
	// translation is nil when translation is disabled.
	translation *provider.Manager[translation.Provider]
}

func buildBackends(cfg *Config) (*backends, error) {
	b := &backends{}

	b.diarization = diarization.NewManager()
	b.diarization.Register(pyannote.ProviderName, pyannote.Factory())
	b.diarization.Register(assemblyai.ProviderName, assemblyai.Factory())
	if err := initialize(b.diarization, cfg.Diarization.Provider, cfg.Diarization.Backends); err != nil {
		return nil, err
	}

	b.transcription = transcription.NewManager()
	b.transcription.Register(whisper.ProviderName, whisper.Factory())
	b.transcription.Register(oaitranscription.ProviderName, oaitranscription.Factory())
	if err := initialize(b.transcription, cfg.Transcription.Provider, cfg.Transcription.Backends); err != nil {
		return nil, err
	}

	if cfg.Translation.Enabled() {
		b.translation = translation.NewManager(nil)
		b.translation.Register(nllb.ProviderName, nllb.Factory())
		b.translation.Register(oaitranslation.ProviderName, oaitranslation.Factory())
		if err := initialize(b.translation, cfg.Translation.Provider, cfg.Translation.Backends); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// initialize creates the default backend and makes it the one every call
// uses. Other configured backends are created too so /status and the health
// probes can report them.
func initialize[T provider.Provider](m *provider.Manager[T], defaultName string, configs map[string]map[string]any) error {
	if err := m.Initialize(defaultName, configs[defaultName]); err != nil {
		return err
	}
	for name, cfg := range configs {
		if name == defaultName {
			continue
		}
		if err := m.Initialize(name, cfg); err != nil {
			return err
		}
	}
	return m.SetDefault(defaultName)
}

// providerNames maps each stage to its default backend.
func (b *backends) providerNames() map[string]string {
	names := map[string]string{
		"diarization":   b.diarization.Default(),
		"transcription": b.transcription.Default(),
		"translation":   "disabled",
	}
	if b.translation != nil {
		names["translation"] = b.translation.Default()
	}
	return names
}

// probes returns one health component per stage, each checking the stage's
// default backend.
func (b *backends) probes(cfg *Config) []*component.Probe {
	out := []*component.Probe{
		probeFor("diarization", b.diarization, cfg.Diarization.Backends),
		probeFor("transcription", b.transcription, cfg.Transcription.Backends),
	}
	if b.translation != nil {
		out = append(out, probeFor("translation", b.translation, cfg.Translation.Backends))
	}
	return out
}

// health probes every backend of every stage for /status.
func (b *backends) health(ctx context.Context) []observability.Health {
	out := []observability.Health{
		observability.BackendHealth("diarization", b.diarization.Default(), b.diarization.Health(ctx)),
		observability.BackendHealth("transcription", b.transcription.Default(), b.transcription.Health(ctx)),
	}
	if b.translation != nil {
		out = append(out, observability.BackendHealth("translation", b.translation.Default(), b.translation.Health(ctx)))
	}
	return out
}

func probeFor[T provider.Provider](stage string, m *provider.Manager[T], configs map[string]map[string]any) *component.Probe {
	name := m.Default()
	return component.NewProbe(stage, name, endpointOf(configs[name]), func(ctx context.Context) bool {
		p, err := m.GetByName(name)
		return err == nil && p.IsAvailable(ctx)
	})
}

// endpointOf picks the address a backend config points at, for display.
func endpointOf(cfg map[string]any) string {
	for _, key := range []string{"base_url", "url", "endpoint"} {
		if v := provider.String(cfg, key); v != "" {
			return v
		}
	}
	return ""
}

func storageRegistry() *provider.Registry[storage.Storage] {
	reg := storage.NewRegistry()
	reg.RegisterFactory(storage.ProviderLocal, local.Factory())
	reg.RegisterFactory(storage.ProviderS3, s3.Factory())
	reg.RegisterFactory(storage.ProviderMinio, minio.Factory())
	return reg
}

func describeBackends(b *backends) string {
	names := b.providerNames()
	return fmt.Sprintf("diarization=%s transcription=%s translation=%s",
		names["diarization"], names["transcription"], names["translation"])
}
