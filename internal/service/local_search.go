package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ddadvisor/internal/composer"
	"ddadvisor/internal/corpus"
	"ddadvisor/internal/domain"
	"ddadvisor/internal/logger"
	"ddadvisor/internal/metrics"
	"ddadvisor/internal/retriever"
)

// LocalSearchToolName is the name the agent and fallback chain use.
const LocalSearchToolName = "local_search"

const localSearchDescription = "Executes a local search based solely on the provided keywords, " +
	"retrieving general contextual information instead of targeting specific data. " +
	"Example: Instead of searching for 'Darkest Dungeon Crate interaction without cleansing effects details,' " +
	"it simply searches for 'crate.'"

// LocalSearchResult is one ranked snippet with its document metadata.
type LocalSearchResult struct {
	Path     string          `json:"path"`
	Snippet  string          `json:"snippet"`
	Score    int             `json:"score"`
	Metadata domain.Metadata `json:"metadata"`
}

// LocalSearchResponse is the structured output of the local_search tool.
type LocalSearchResponse struct {
	Query   string              `json:"query"`
	Results []LocalSearchResult `json:"results"`
	Answer  string              `json:"answer"`
}

// AsText returns the composed answer.
func (r *LocalSearchResponse) AsText() string {
	if r == nil {
		return ""
	}
	return r.Answer
}

// LocalSearchConfig points the facade at the knowledge base.
type LocalSearchConfig struct {
	Root    string
	Subdir  string
	Pattern string
	Top     int
}

// LocalSearch composes corpus loading, retrieval and answer composition.
// The corpus is re-read on every call so results always reflect disk.
type LocalSearch struct {
	cfg    LocalSearchConfig
	logger *zap.Logger
}

func NewLocalSearch(cfg LocalSearchConfig, l *zap.Logger) *LocalSearch {
	if cfg.Top <= 0 {
		cfg.Top = retriever.DefaultTop
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	return &LocalSearch{cfg: cfg, logger: logger.OrNop(l)}
}

// Search runs query against the knowledge base. top <= 0 uses the
// configured default.
func (s *LocalSearch) Search(ctx context.Context, query string, top int) (*LocalSearchResponse, error) {
	if top <= 0 {
		top = s.cfg.Top
	}
	log := logger.FromContext(ctx, s.logger)
	start := time.Now()

	c, err := corpus.Load(s.cfg.Root,
		corpus.WithSubdir(s.cfg.Subdir),
		corpus.WithPattern(s.cfg.Pattern),
		corpus.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	snippets := retriever.Retrieve(c, query, top)
	resp := &LocalSearchResponse{
		Query:   query,
		Results: make([]LocalSearchResult, 0, len(snippets)),
		Answer:  composer.Compose(snippets, query),
	}
	for _, sn := range snippets {
		meta := domain.Metadata{}
		if doc, ok := c.Lookup(sn.DocumentID); ok {
			meta = doc.Metadata
		} else {
			log.Warn("no metadata for snippet", zap.String("path", sn.DocumentID))
		}
		resp.Results = append(resp.Results, LocalSearchResult{
			Path:     sn.DocumentID,
			Snippet:  sn.Text,
			Score:    sn.Score,
			Metadata: meta,
		})
	}

	metrics.LocalSearchResults.Observe(float64(len(resp.Results)))
	log.Info("local search",
		zap.String("query", query),
		zap.Int("documents", c.Len()),
		zap.Int("results", len(resp.Results)),
		zap.Duration("latency", time.Since(start)),
	)
	return resp, nil
}

// Name implements domain.Tool.
func (s *LocalSearch) Name() string { return LocalSearchToolName }

// Description implements domain.Tool.
func (s *LocalSearch) Description() string { return localSearchDescription }

// Call implements domain.Tool with the configured default top.
func (s *LocalSearch) Call(ctx context.Context, query string) (domain.ToolOutput, error) {
	resp, err := s.Search(ctx, query, 0)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
