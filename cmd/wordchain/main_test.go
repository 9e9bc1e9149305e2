package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/wordchain/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlagsDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	applyFlags(cfg, &flags{}, nil)

	assert.Equal(t, config.SourceSample, cfg.Corpus.Source)
	assert.Equal(t, 3, cfg.CLI.MaxResults)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
}

func TestApplyFlagsInfersSourceFromCorpus(t *testing.T) {
	dir := t.TempDir()
	jsonl := filepath.Join(dir, "docs.jsonl")
	require.NoError(t, os.WriteFile(jsonl, []byte(`{"text":"a b"}`), 0644))

	tests := []struct {
		name string
		f    flags
		want string
	}{
		{"directory", flags{corpusPath: dir}, config.SourceDir},
		{"jsonl", flags{corpusPath: jsonl}, config.SourceJSONL},
		{"plain file", flags{corpusPath: filepath.Join(dir, "notes.txt")}, config.SourceFile},
		{"explicit source wins", flags{corpusPath: jsonl, source: config.SourceFile}, config.SourceFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			applyFlags(cfg, &tt.f, nil)
			assert.Equal(t, tt.want, cfg.Corpus.Source)
			assert.Equal(t, tt.f.corpusPath, cfg.Corpus.Path)
		})
	}
}

func TestApplyFlagsOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Corpus = config.CorpusConfig{Source: config.SourceBolt, Path: "old.db", Bucket: "old"}

	applyFlags(cfg, &flags{
		field:    "body.text",
		bucket:   "notes",
		results:  7,
		httpAddr: "127.0.0.1:9999",
	}, nil)

	assert.Equal(t, config.SourceBolt, cfg.Corpus.Source)
	assert.Equal(t, "old.db", cfg.Corpus.Path)
	assert.Equal(t, "notes", cfg.Corpus.Bucket)
	assert.Equal(t, "body.text", cfg.Corpus.Field)
	assert.Equal(t, 7, cfg.CLI.MaxResults)
	assert.Equal(t, "127.0.0.1:9999", cfg.Server.HTTPAddr)
}

func TestApplyFlagsKeepsConfiguredHTTPAddr(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.HTTPAddr = "127.0.0.1:7000"

	applyFlags(cfg, &flags{http: true}, nil)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.HTTPAddr)

	applyFlags(cfg, &flags{http: true, httpAddr: ":9090"}, nil)
	assert.Equal(t, ":9090", cfg.Server.HTTPAddr)
}
