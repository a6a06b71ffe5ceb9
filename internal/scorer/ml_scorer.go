package scorer

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"business-dedup/internal/models"
	"business-dedup/pkg/circuit"
	apperrors "business-dedup/pkg/errors"
	"business-dedup/pkg/logging"
	"business-dedup/pkg/normalize"

	"github.com/sashabaranov/go-openai"
)

// CostTracker tracks OpenAI API usage and costs
type CostTracker struct {
	mu               sync.RWMutex
	totalTokens      int
	totalRequests    int
	estimatedCostUSD float64
	startTime        time.Time
}

func (c *CostTracker) AddUsage(promptTokens, completionTokens int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalTokens += promptTokens + completionTokens
	c.totalRequests++

	// gpt-4o-mini pricing (as of 2025): $0.15/1M prompt tokens, $0.60/1M completion tokens
	promptCost := float64(promptTokens) * 0.15 / 1_000_000
	completionCost := float64(completionTokens) * 0.60 / 1_000_000
	c.estimatedCostUSD += promptCost + completionCost
}

func (c *CostTracker) GetStats() (totalTokens, totalRequests int, estimatedCostUSD float64, duration time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.totalTokens, c.totalRequests, c.estimatedCostUSD, time.Since(c.startTime)
}

// PairCache caches scored pairs to avoid duplicate API calls. Batch runs
// compare the same pair repeatedly (A vs B while indexing A, then B vs A
// while indexing B), so even a small cache pays for itself.
type PairCache struct {
	mu      sync.RWMutex
	cache   map[string]cachedScore
	maxSize int
	ttl     time.Duration
}

type cachedScore struct {
	score     float64
	timestamp time.Time
}

func NewPairCache(ttl time.Duration) *PairCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &PairCache{
		cache:   make(map[string]cachedScore),
		maxSize: 10000,
		ttl:     ttl,
	}
}

func (c *PairCache) Get(key string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, exists := c.cache[key]
	if !exists || time.Since(cached.timestamp) > c.ttl {
		return 0, false
	}
	return cached.score, true
}

func (c *PairCache) Set(key string, score float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.cache) >= c.maxSize {
		// Evict expired entries first; if none expired, drop arbitrary
		// entries rather than growing without bound.
		for k, v := range c.cache {
			if time.Since(v.timestamp) > c.ttl {
				delete(c.cache, k)
			}
		}
		for k := range c.cache {
			if len(c.cache) < c.maxSize {
				break
			}
			delete(c.cache, k)
		}
	}

	c.cache[key] = cachedScore{score: score, timestamp: time.Now()}
}

func (c *PairCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// pairKey is order-independent: Score(a,b) and Score(b,a) share one entry.
func pairKey(a, b *models.BusinessRecord) string {
	ka := recordKey(a)
	kb := recordKey(b)
	if kb < ka {
		ka, kb = kb, ka
	}
	hash := md5.Sum([]byte(ka + "||" + kb))
	return hex.EncodeToString(hash[:])
}

func recordKey(rec *models.BusinessRecord) string {
	return fmt.Sprintf("%s|%s|%v|%v|%v|%v",
		rec.ID,
		normalize.Name(rec.Name),
		rec.Phone,
		rec.Email,
		rec.Website,
		rec.Industry)
}

// MLOptions configures the OpenAI-backed scorer. Zero values pick defaults.
type MLOptions struct {
	Model    string
	Timeout  time.Duration
	CacheTTL time.Duration
	Logger   *logging.Logger
}

// MLScorer scores record pairs with a chat model, optimized for cost: pair
// results are cached, prompts are minimal, and responses are capped. A
// circuit breaker stops hammering the API when it misbehaves; open-circuit
// calls fail fast and the caller falls back to algorithmic scoring.
type MLScorer struct {
	client      *openai.Client
	model       string
	costTracker *CostTracker
	cache       *PairCache
	breaker     *circuit.Breaker
	log         *logging.Logger
}

var _ Scorer = (*MLScorer)(nil)

func NewMLScorer(apiKey string, opts MLOptions) *MLScorer {
	if opts.Model == "" {
		opts.Model = "gpt-4o-mini"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}

	return &MLScorer{
		client:      openai.NewClient(apiKey),
		model:       opts.Model,
		costTracker: &CostTracker{startTime: time.Now()},
		cache:       NewPairCache(opts.CacheTTL),
		breaker: circuit.New(circuit.Config{
			Name:              "ml_scorer",
			OperationTimeout:  opts.Timeout,
			OpenFor:           30 * time.Second,
			MaxConsecFailures: 3,
			FailureRate:       0.5,
		}, log),
		log: log.WithComponent("ml_scorer"),
	}
}

func (s *MLScorer) Name() string { return "openai:" + s.model }

// GetCostStats returns current API usage statistics
func (s *MLScorer) GetCostStats() (totalTokens, totalRequests int, estimatedCostUSD float64, duration time.Duration) {
	return s.costTracker.GetStats()
}

func (s *MLScorer) CacheSize() int { return s.cache.Size() }

// Score returns the model's probability that a and b describe the same
// business. Errors are ScorerError-kinded; callers recover by falling back
// to algorithmic-only scoring for the pair.
func (s *MLScorer) Score(ctx context.Context, a, b *models.BusinessRecord) (float64, error) {
	key := pairKey(a, b)
	if cached, found := s.cache.Get(key); found {
		return cached, nil
	}

	var score float64
	err := s.breaker.Do(ctx, func(ctx context.Context) error {
		var callErr error
		score, callErr = s.scorePair(ctx, a, b)
		return callErr
	}, nil)
	if err != nil {
		return 0, apperrors.NewScorer("ml_scorer.score", s.Name(), "model scoring failed", err)
	}

	s.cache.Set(key, score)
	return score, nil
}

func (s *MLScorer) scorePair(ctx context.Context, a, b *models.BusinessRecord) (float64, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPairPrompt(a, b),
			},
		},
		Temperature: 0.1,
		MaxTokens:   80, // Limit response size to reduce costs
	})
	if err != nil {
		return 0, fmt.Errorf("OpenAI API call failed: %w", err)
	}

	s.costTracker.AddUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("empty completion")
	}
	return parseScoreResponse(resp.Choices[0].Message.Content)
}

const systemPrompt = `You are an entity resolution expert. Decide whether two business records describe the same real-world business.
Always respond in the exact JSON format requested. Be concise to minimize tokens.`

func buildPairPrompt(a, b *models.BusinessRecord) string {
	return fmt.Sprintf(`Record A:
%s
Record B:
%s

Probability (0.0-1.0) these are the same business: {"score": X.XX, "note": "brief reason"}`,
		describeRecord(a), describeRecord(b))
}

func describeRecord(rec *models.BusinessRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", rec.Name)
	if rec.Phone != nil {
		fmt.Fprintf(&sb, "Phone: %s\n", *rec.Phone)
	}
	if rec.Email != nil {
		fmt.Fprintf(&sb, "Email: %s\n", *rec.Email)
	}
	if rec.Website != nil {
		fmt.Fprintf(&sb, "Website: %s\n", *rec.Website)
	}
	if rec.Address != nil {
		fmt.Fprintf(&sb, "Address: %s, %s, %s %s\n",
			rec.Address.Street, rec.Address.City, rec.Address.Province, rec.Address.PostalCode)
	}
	if rec.Description != nil {
		fmt.Fprintf(&sb, "Description: %s\n", *rec.Description)
	}
	if len(rec.Industry) > 0 {
		fmt.Fprintf(&sb, "Industry: %s\n", strings.Join(rec.Industry, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

var scoreRegex = regexp.MustCompile(`"?score"?:\s*([0-9]*\.?[0-9]+)`)

func parseScoreResponse(response string) (float64, error) {
	// Models occasionally wrap JSON in markdown fences.
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")

	var parsed struct {
		Score float64 `json:"score"`
		Note  string  `json:"note"`
	}
	if err := json.Unmarshal([]byte(response), &parsed); err == nil {
		return clampScore(parsed.Score), nil
	}

	// Fallback parsing with regex
	matches := scoreRegex.FindStringSubmatch(response)
	if len(matches) > 1 {
		if score, err := strconv.ParseFloat(matches[1], 64); err == nil {
			return clampScore(score), nil
		}
	}
	return 0, fmt.Errorf("unparseable scorer response: %q", response)
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
