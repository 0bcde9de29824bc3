package personalize

import (
	"fmt"
	"strings"

	"github.com/voiceprint/voiceprint/internal/analyzer"
	"github.com/voiceprint/voiceprint/internal/lexicon"
	"github.com/voiceprint/voiceprint/internal/profile"
	"github.com/voiceprint/voiceprint/internal/style"
)

// Tone thresholds on the 0-100 scale.
const (
	formalAbove       = 70
	casualBelow       = 30
	enthusiasticAbove = 60
	softBelow         = 40
	directAbove       = 70
	politeAbove       = 60

	shortBelow = 50
	longAbove  = 150

	simpleMaxWords  = 15
	complexMinWords = 8
	condensedTo     = 2
)

// Probabilities of the optional rewrites.
const (
	fillerChance      = 0.3
	conjunctionChance = 0.3
	exclamationChance = 0.5
	ellipsisChance    = 0.3
	bracketChance     = 0.3
)

type targets struct {
	formality, enthusiasm, directness, politeness float64
}

var tonePresets = map[Tone]targets{
	ToneProfessional: {formality: 75, enthusiasm: 30, directness: 60, politeness: 65},
	ToneCasual:       {formality: 20, enthusiasm: 65, directness: 50, politeness: 40},
	ToneFriendly:     {formality: 50, enthusiasm: 70, directness: 45, politeness: 70},
	ToneFormal:       {formality: 85, enthusiasm: 20, directness: 50, politeness: 80},
}

func targetsFor(t Tone, p *profile.MasterProfile) targets {
	if preset, ok := tonePresets[t]; ok {
		return preset
	}
	tone := p.Style.Tone
	return targets{
		formality:  tone.Formality,
		enthusiasm: tone.Enthusiasm,
		directness: tone.Directness,
		politeness: tone.Politeness,
	}
}

type pipeline struct {
	lex       *lexicon.Lexicon
	rnd       Random
	req       Request
	p         *profile.MasterProfile
	target    targets
	stage     string
	sentences []string
	applied   []Application
}

func (pl *pipeline) note(transform, detail string) {
	pl.applied = append(pl.applied, Application{Stage: pl.stage, Transform: transform, Detail: detail})
}

func (pl *pipeline) text() string { return strings.Join(pl.sentences, " ") }

func (pl *pipeline) compact() {
	out := pl.sentences[:0]
	for _, s := range pl.sentences {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	pl.sentences = out
}

func (pl *pipeline) chance(p float64) bool { return pl.rnd.Float64() < p }

func (pl *pipeline) last() int { return len(pl.sentences) - 1 }

type stage struct {
	name string
	fn   func(*pipeline)
}

func (s stage) run(pl *pipeline) {
	if len(pl.sentences) == 0 {
		return
	}
	pl.stage = s.name
	s.fn(pl)
	pl.compact()
}

// stages run in this order.
var stages = []stage{
	{"length", shapeLength},
	{"formality", shapeFormality},
	{"tone", shapeTone},
	{"vocabulary", shapeVocabulary},
	{"structure", shapeStructure},
	{"patterns", shapePatterns},
	{"context", shapeContext},
}

func shapeLength(pl *pipeline) {
	target := pl.req.Length
	if target == LengthAuto && pl.p.Style.TotalAnalyzed > 0 {
		switch avg := pl.p.Style.AvgMessageLength; {
		case avg < shortBelow:
			target = LengthShort
		case avg > longAbove:
			target = LengthLong
		}
	}

	switch target {
	case LengthShort:
		if removeHedges(pl) {
			pl.note("remove_hedges", "")
		}
		if n := len(pl.sentences); n > condensedTo {
			pl.sentences = pl.sentences[:condensedTo]
			pl.note("condense", fmt.Sprintf("kept %d of %d sentences", condensedTo, n))
		}
	case LengthLong:
		el := pl.lex.Phrases().Elaboration
		if el != "" && !strings.Contains(pl.text(), el) {
			pl.sentences = append(pl.sentences, el)
			pl.note("expand", "")
		}
	}
}

func removeHedges(pl *pipeline) bool {
	changed := false
	for i, s := range pl.sentences {
		if out, ok := removeAll(s, pl.lex.Hedges()); ok {
			pl.sentences[i] = out
			changed = true
		}
	}
	return changed
}

func shapeFormality(pl *pipeline) {
	f := pl.target.formality
	var toFormal bool
	switch {
	case f > formalAbove:
		toFormal = true
	case f < casualBelow:
		toFormal = false
	default:
		return
	}

	swaps := 0
	for _, pair := range pl.lex.Register() {
		from, to := pair.Formal, pair.Casual
		if toFormal {
			from, to = pair.Casual, pair.Formal
		}
		if from == "" {
			continue
		}
		b := bounds{midWord: startsWithHangul(from)}
		for i, s := range pl.sentences {
			out, n := replaceTerm(s, from, to, b)
			pl.sentences[i] = out
			swaps += n
		}
	}
	if swaps == 0 {
		return
	}
	if toFormal {
		pl.note("formal_register", fmt.Sprintf("%d swaps", swaps))
	} else {
		pl.note("casual_register", fmt.Sprintf("%d swaps", swaps))
	}
}

func shapeTone(pl *pipeline) {
	ph := pl.lex.Phrases()
	t := pl.target

	if t.enthusiasm > enthusiasticAbove {
		if s, ok := prefix(pl.sentences[0], ph.Intensifier); ok {
			pl.sentences[0] = s
			pl.note("intensify", "")
		}
	}
	switch {
	case t.directness < softBelow:
		if s, ok := prefix(pl.sentences[0], ph.Softener); ok {
			pl.sentences[0] = s
			pl.note("soften", "")
		}
	case t.directness > directAbove:
		if removeHedges(pl) {
			pl.note("direct", "")
		}
	}
	if t.politeness > politeAbove && ph.PoliteClosing != "" {
		closing := strings.TrimRight(ph.PoliteClosing, ".!")
		if !strings.Contains(pl.text(), closing) {
			pl.sentences = append(pl.sentences, ph.PoliteClosing)
			pl.note("polite_closing", "")
		}
	}
}

func shapeVocabulary(pl *pipeline) {
	words := pl.p.Style.Words()
	// A synonym may carry one particle, so "이슈가" becomes "문제가".
	withParticle := bounds{accept: pl.lex.IsParticle}
	for _, group := range pl.lex.SynonymGroups() {
		preferred := firstIn(words, group)
		if preferred == "" {
			continue
		}
		for _, m := range group {
			if m == preferred {
				continue
			}
			replaced := false
			for i, s := range pl.sentences {
				if out, n := replaceTerm(s, m, preferred, withParticle); n > 0 {
					pl.sentences[i] = out
					replaced = true
				}
			}
			if replaced {
				pl.note("synonym", m+" -> "+preferred)
			}
		}
	}

	traits := pl.p.Style.Traits
	if len(traits.Fillers) > 0 && pl.chance(fillerChance) {
		i := pl.rnd.IntN(len(pl.sentences))
		if s, ok := prefix(pl.sentences[i], traits.Fillers[0]+" "); ok {
			pl.sentences[i] = s
			pl.note("filler", traits.Fillers[0])
		}
	}
	if len(pl.sentences) > 1 && len(traits.Conjunctions) > 0 && pl.chance(conjunctionChance) {
		i := 1 + pl.rnd.IntN(len(pl.sentences)-1)
		if s, ok := prefix(pl.sentences[i], traits.Conjunctions[0]+" "); ok {
			pl.sentences[i] = s
			pl.note("conjunction", traits.Conjunctions[0])
		}
	}
}

func firstIn(ranked, group []string) string {
	for _, w := range ranked {
		for _, g := range group {
			if strings.EqualFold(w, g) {
				return g
			}
		}
	}
	return ""
}

func shapeStructure(pl *pipeline) {
	st := pl.p.Style
	if st.TotalAnalyzed > 0 {
		switch st.Complexity {
		case style.Simple:
			simplify(pl)
		case style.Complex:
			complexify(pl)
		}
	}

	ending := ""
	for _, e := range st.Traits.SentenceEndings {
		if appendable(pl.lex, e) {
			ending = e
			break
		}
	}
	if ending == "" {
		return
	}
	last := pl.sentences[pl.last()]
	if strings.Contains(last, ending) {
		return
	}
	body, _ := cut(last)
	pl.sentences[pl.last()] = body + " " + ending
	pl.note("ending", ending)
}

func simplify(pl *pipeline) {
	out := make([]string, 0, len(pl.sentences))
	split := 0
	for _, s := range pl.sentences {
		idx := strings.Index(s, ", ")
		if wordCount(s) > simpleMaxWords && idx > 0 {
			out = append(out, s[:idx]+".", s[idx+2:])
			split++
			continue
		}
		out = append(out, s)
	}
	pl.sentences = out
	if split > 0 {
		pl.note("simplify", fmt.Sprintf("split %d sentences", split))
	}
}

func complexify(pl *pipeline) {
	out := make([]string, 0, len(pl.sentences))
	merged := 0
	for i := 0; i < len(pl.sentences); i++ {
		s := pl.sentences[i]
		if i+1 < len(pl.sentences) && wordCount(s) < complexMinWords && wordCount(pl.sentences[i+1]) < complexMinWords {
			body, _ := cut(s)
			out = append(out, body+", "+pl.sentences[i+1])
			merged++
			i++
			continue
		}
		out = append(out, s)
	}
	pl.sentences = out
	if merged > 0 {
		pl.note("complexify", fmt.Sprintf("merged %d pairs", merged))
	}
}

func appendable(lex *lexicon.Lexicon, term string) bool {
	for _, e := range lex.SentenceEndings() {
		if e.Term == term {
			return e.Appendable
		}
	}
	return false
}

func shapePatterns(pl *pipeline) {
	flags := pl.p.Style.Flags
	ph := pl.lex.Phrases()

	if flags.UsesExclamation && pl.chance(exclamationChance) {
		i := pl.last()
		if body, tail := cut(pl.sentences[i]); tail == "" || tail == "." {
			pl.sentences[i] = body + "!"
			pl.note("exclamation", "")
		}
	}
	if flags.UsesEllipsis && pl.chance(ellipsisChance) {
		for i, s := range pl.sentences {
			if _, tail := cut(s); tail == "." {
				pl.sentences[i] = withTerminator(s, "...")
				pl.note("ellipsis", "")
				break
			}
		}
	}
	if flags.UsesBrackets && pl.chance(bracketChance) && ph.BracketAside != "" {
		body, tail := cut(pl.sentences[0])
		pl.sentences[0] = body + ph.BracketAside + tail
		pl.note("brackets", "")
	}

	if pl.req.Emoji != nil && !*pl.req.Emoji {
		if text := pl.text(); hasEmoji(text) {
			for i, s := range pl.sentences {
				pl.sentences[i] = stripEmoji(s)
			}
			pl.note("strip_emoji", fmt.Sprintf("%d removed", len(analyzer.Emojis(text))))
		}
		return
	}

	want := false
	switch {
	case pl.req.Emoji != nil:
		want = *pl.req.Emoji
	case flags.UsesEmoji:
		want = pl.chance(pl.p.Insights.EmojiPreference / 100)
	}
	if want && !hasEmoji(pl.text()) {
		emoji := ph.DefaultEmoji
		if fav := pl.p.Style.FrequentEmojis; len(fav) > 0 {
			emoji = fav[0].Term
		}
		if emoji != "" {
			pl.sentences[pl.last()] += " " + emoji
			pl.note("emoji", emoji)
		}
	}
}

func shapeContext(pl *pipeline) {
	ph := pl.lex.Phrases()

	if pl.req.Purpose == PurposeResponse || pl.req.Purpose == PurposeSuggestion {
		if m, ok := pl.p.Insights.Motivations.Last(); ok && ph.MotivationFraming != "" {
			if s, ok := prefix(pl.sentences[0], fmt.Sprintf(ph.MotivationFraming, m)); ok {
				pl.sentences[0] = s
				pl.note("motivation", m)
			}
		}
	}

	if ph.ProjectReference == "" {
		return
	}
	hay := strings.ToLower(pl.req.Content + " " + pl.req.Context)
	projects := pl.p.Context.OngoingProjects.Items()
	for i := len(projects) - 1; i >= 0; i-- {
		name := projects[i].Name
		if name == "" || !strings.Contains(hay, strings.ToLower(name)) {
			continue
		}
		body, tail := cut(pl.sentences[pl.last()])
		pl.sentences[pl.last()] = body + fmt.Sprintf(ph.ProjectReference, name) + tail
		pl.note("project", name)
		return
	}
}
