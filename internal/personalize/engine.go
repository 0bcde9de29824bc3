package personalize

import (
	"strings"

	"go.uber.org/zap"

	"github.com/voiceprint/voiceprint/internal/lexicon"
	"github.com/voiceprint/voiceprint/internal/profile"
	"github.com/voiceprint/voiceprint/internal/score"
)

// Engine rewrites text through a profile. With the default random source it
// is safe for concurrent use.
type Engine struct {
	lex    *lexicon.Lexicon
	rnd    Random
	log    *zap.Logger
	render func(Request, *profile.MasterProfile) (*Result, error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandom sets the random source.
func WithRandom(r Random) Option {
	return func(e *Engine) { e.rnd = r }
}

// WithSeed uses a reproducible source seeded with seed. The resulting Engine
// must not be shared across goroutines.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.rnd = newSeeded(seed) }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine creates an Engine. A nil lex selects the built-in Korean lexicon.
func NewEngine(lex *lexicon.Lexicon, opts ...Option) *Engine {
	if lex == nil {
		lex = lexicon.Korean()
	}
	e := &Engine{lex: lex, rnd: globalRandom{}, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	e.render = e.Render
	return e
}

// Render produces one variant of req.Content in the voice of p. A nil p is
// treated as a new, neutral profile. Alternatives are never generated here.
func (e *Engine) Render(req Request, p *profile.MasterProfile) (*Result, error) {
	req, err := req.validate()
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = profile.NewManager(nil, e.lex).NewProfile("")
	}

	pl := &pipeline{
		lex:       e.lex,
		rnd:       e.rnd,
		req:       req,
		p:         p,
		target:    targetsFor(req.Tone, p),
		sentences: splitSentences(req.Content),
		applied:   []Application{},
	}
	for _, st := range stages {
		st.run(pl)
		if len(pl.sentences) == 0 {
			// Keep the input when shaping leaves nothing.
			pl.sentences = splitSentences(req.Content)
		}
	}

	res := &Result{
		OriginalContent:     req.Content,
		PersonalizedContent: strings.Join(pl.sentences, " "),
		StyleApplication:    pl.applied,
		ConfidenceScore:     Confidence(p, req.Purpose),
		Alternatives:        []Alternative{},
	}
	e.log.Debug("rendered",
		zap.String("user", p.UserID),
		zap.String("purpose", string(req.Purpose)),
		zap.Int("transforms", len(pl.applied)),
		zap.Float64("confidence", res.ConfidenceScore),
	)
	return res, nil
}

// alternateTones are rendered, in order, when alternatives are requested.
var alternateTones = []Tone{ToneProfessional, ToneCasual}

// RenderWithAlternatives renders the primary variant and, if requested, one
// variant per alternate tone. A failed alternate is logged and left out.
func (e *Engine) RenderWithAlternatives(req Request, p *profile.MasterProfile) (*Result, error) {
	res, err := e.render(req, p)
	if err != nil {
		return nil, err
	}
	if !req.GenerateAlternatives {
		return res, nil
	}
	for _, tone := range alternateTones {
		alt := req
		alt.Tone = tone
		alt.GenerateAlternatives = false
		r, err := e.render(alt, p)
		if err != nil {
			e.log.Warn("alternative failed", zap.String("tone", string(tone)), zap.Error(err))
			continue
		}
		res.Alternatives = append(res.Alternatives, Alternative{
			Tone:             tone,
			Content:          r.PersonalizedContent,
			StyleApplication: r.StyleApplication,
			ConfidenceScore:  r.ConfidenceScore,
		})
	}
	return res, nil
}

// Confidence scores how well p can support a rewrite for purpose.
func Confidence(p *profile.MasterProfile, purpose Purpose) float64 {
	q := p.Quality
	c := q.DataRichness*0.4 + min(30, float64(q.MessagesAnalyzed)*0.6) + q.ConsistencyScore*0.2
	switch purpose {
	case PurposeResponse:
		c += 10
	case PurposeSuggestion:
		c += 5
	}
	return score.Clamp(c)
}
