package service

import (
	"context"
	"sync"
	"time"

	"github.com/Harshitk-cp/odnar/internal/domain"
	"go.uber.org/zap"
)

const (
	// MinMemosForAnalysis is the memo count at which the first card is attempted.
	MinMemosForAnalysis = 5
	// CandidateWindow is how many of the most recent memos the model sees.
	CandidateWindow = 20
	// DefaultAnalyzerTimeout bounds one pipeline run, model call included.
	DefaultAnalyzerTimeout = 20 * time.Second
)

type AnalysisStatus string

const (
	AnalysisSkipped   AnalysisStatus = "skipped"
	AnalysisNoCard    AnalysisStatus = "no_card"
	AnalysisCreated   AnalysisStatus = "created"
	AnalysisDuplicate AnalysisStatus = "duplicate"
)

// Analysis is the outcome of one pipeline run. It is logged, never returned
// to the memo caller.
type Analysis struct {
	Status AnalysisStatus
	Reason string
	Card   *domain.ContradictionCard
}

// ContradictionAnalyzer derives at most one contradiction card once enough
// memos exist. Uniqueness of the card pair is left to the card store.
type ContradictionAnalyzer struct {
	memoStore  domain.MemoStore
	cardStore  domain.CardStore
	selector   *PairSelector
	timeout    time.Duration
	background bool
	wg         sync.WaitGroup
	logger     *zap.Logger
}

// NewContradictionAnalyzer returns an analyzer. A nil LLM client means no
// credential is configured and the analyzer never runs.
func NewContradictionAnalyzer(ms domain.MemoStore, cs domain.CardStore, lc domain.LLMClient, logger *zap.Logger) *ContradictionAnalyzer {
	a := &ContradictionAnalyzer{
		memoStore: ms,
		cardStore: cs,
		timeout:   DefaultAnalyzerTimeout,
		logger:    logger,
	}
	if lc != nil {
		a.selector = NewPairSelector(lc)
	}
	return a
}

func (a *ContradictionAnalyzer) SetTimeout(d time.Duration) {
	if d > 0 {
		a.timeout = d
	}
}

// SetBackground detaches runs from the triggering request.
func (a *ContradictionAnalyzer) SetBackground(background bool) {
	a.background = background
}

// Enabled reports whether a model credential is configured.
func (a *ContradictionAnalyzer) Enabled() bool {
	return a.selector != nil
}

// ShouldTrigger is the one-shot gate: enough memos, no card yet, and a
// configured model.
func (a *ContradictionAnalyzer) ShouldTrigger(memoCount, cardCount int) bool {
	return memoCount >= MinMemosForAnalysis && cardCount == 0 && a.Enabled()
}

// OnMemoInserted runs the pipeline for the given counts. It never fails;
// the outcome is only logged.
func (a *ContradictionAnalyzer) OnMemoInserted(ctx context.Context, memoCount, cardCount int) {
	if !a.ShouldTrigger(memoCount, cardCount) {
		return
	}

	if a.background {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.report(a.Analyze(context.WithoutCancel(ctx), memoCount, cardCount))
		}()
		return
	}

	a.report(a.Analyze(ctx, memoCount, cardCount))
}

// Wait blocks until background runs have finished.
func (a *ContradictionAnalyzer) Wait() {
	a.wg.Wait()
}

// Analyze runs the detection pipeline once and describes what happened.
func (a *ContradictionAnalyzer) Analyze(ctx context.Context, memoCount, cardCount int) Analysis {
	if !a.ShouldTrigger(memoCount, cardCount) {
		return Analysis{Status: AnalysisSkipped, Reason: "trigger conditions not met"}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	candidates, err := a.memoStore.ListRecent(ctx, CandidateWindow)
	if err != nil {
		return Analysis{Status: AnalysisNoCard, Reason: "list candidates: " + err.Error()}
	}
	if len(candidates) < MinMemosForAnalysis {
		return Analysis{Status: AnalysisNoCard, Reason: "not enough candidates"}
	}

	draft, err := a.selector.Select(ctx, candidates)
	if err != nil {
		return Analysis{Status: AnalysisNoCard, Reason: err.Error()}
	}

	// Content comes from the candidate snapshot, not a fresh read.
	contents := make(map[string]string, len(candidates))
	for _, m := range candidates {
		contents[m.ID.String()] = m.Content
	}
	contentA, okA := contents[draft.MemoAID.String()]
	contentB, okB := contents[draft.MemoBID.String()]
	if !okA || !okB || contentA == "" || contentB == "" {
		return Analysis{Status: AnalysisNoCard, Reason: "memo content missing from candidates"}
	}

	low, high := domain.CanonicalPair(draft.MemoAID, draft.MemoBID)
	card := &domain.ContradictionCard{
		MemoAID:      draft.MemoAID,
		MemoBID:      draft.MemoBID,
		MemoLowID:    low,
		MemoHighID:   high,
		MemoAContent: contentA,
		MemoBContent: contentB,
		Title:        draft.Title,
		Connection:   draft.Connection,
		Opposition:   draft.Opposition,
		Reasoning:    draft.Reasoning,
		Confidence:   draft.Confidence,
		Model:        a.selector.Model(),
	}

	inserted, err := a.cardStore.InsertIfAbsent(ctx, card)
	if err != nil {
		return Analysis{Status: AnalysisNoCard, Reason: "insert card: " + err.Error()}
	}
	if !inserted {
		return Analysis{Status: AnalysisDuplicate, Reason: "card for this pair already exists"}
	}
	return Analysis{Status: AnalysisCreated, Card: card}
}

func (a *ContradictionAnalyzer) report(res Analysis) {
	switch res.Status {
	case AnalysisCreated:
		a.logger.Info("contradiction card created",
			zap.String("card_id", res.Card.ID.String()),
			zap.String("memo_low_id", res.Card.MemoLowID.String()),
			zap.String("memo_high_id", res.Card.MemoHighID.String()),
			zap.String("model", res.Card.Model),
		)
	case AnalysisSkipped:
	default:
		a.logger.Debug("no contradiction card produced",
			zap.String("status", string(res.Status)),
			zap.String("reason", res.Reason),
		)
	}
}
