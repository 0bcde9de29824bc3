// Package lexicon holds the locale-specific word tables that drive message
// analysis and rewriting. A Lexicon is built once from Tables and is never
// modified afterwards; every component that needs vocabulary takes one.
package lexicon

import (
	"fmt"
	"strings"
)

// Marker is a term that moves a tone score by Weight for every occurrence.
type Marker struct {
	Term   string  `toml:"term" yaml:"term" json:"term"`
	Weight float64 `toml:"weight" yaml:"weight" json:"weight"`
}

// ToneTable scores one tone dimension. Scores start at Baseline.
type ToneTable struct {
	Baseline    float64  `toml:"baseline" yaml:"baseline" json:"baseline"`
	EmojiWeight float64  `toml:"emoji_weight,omitempty" yaml:"emoji_weight,omitempty" json:"emoji_weight,omitempty"`
	Markers     []Marker `toml:"markers" yaml:"markers" json:"markers"`
}

// Topic is one entry of the topic taxonomy.
type Topic struct {
	Name     string   `toml:"name" yaml:"name" json:"name"`
	Keywords []string `toml:"keywords" yaml:"keywords" json:"keywords"`
}

// Ending is a sentence ending. Appendable endings (laughter, tildes) can be
// tacked onto a sentence by the rewriter; grammatical ones cannot.
type Ending struct {
	Term       string `toml:"term" yaml:"term" json:"term"`
	Appendable bool   `toml:"appendable" yaml:"appendable" json:"appendable"`
}

// Pair maps a casual form to its formal counterpart.
type Pair struct {
	Casual string `toml:"casual" yaml:"casual" json:"casual"`
	Formal string `toml:"formal" yaml:"formal" json:"formal"`
}

// Phrases are the fixed snippets the rewriter inserts.
type Phrases struct {
	Softener          string `toml:"softener" yaml:"softener" json:"softener"`
	Intensifier       string `toml:"intensifier" yaml:"intensifier" json:"intensifier"`
	PoliteClosing     string `toml:"polite_closing" yaml:"polite_closing" json:"polite_closing"`
	Elaboration       string `toml:"elaboration" yaml:"elaboration" json:"elaboration"`
	MotivationFraming string `toml:"motivation_framing" yaml:"motivation_framing" json:"motivation_framing"`
	ProjectReference  string `toml:"project_reference" yaml:"project_reference" json:"project_reference"`
	BracketAside      string `toml:"bracket_aside" yaml:"bracket_aside" json:"bracket_aside"`
	DefaultEmoji      string `toml:"default_emoji" yaml:"default_emoji" json:"default_emoji"`
}

// Tables is the serialisable form of a lexicon.
type Tables struct {
	Version string `toml:"version" yaml:"version" json:"version"`
	Locale  string `toml:"locale" yaml:"locale" json:"locale"`

	Formality  ToneTable `toml:"formality" yaml:"formality" json:"formality"`
	Enthusiasm ToneTable `toml:"enthusiasm" yaml:"enthusiasm" json:"enthusiasm"`
	Directness ToneTable `toml:"directness" yaml:"directness" json:"directness"`
	Politeness ToneTable `toml:"politeness" yaml:"politeness" json:"politeness"`

	Conjunctions    []string `toml:"conjunctions" yaml:"conjunctions" json:"conjunctions"`
	Interjections   []string `toml:"interjections" yaml:"interjections" json:"interjections"`
	Fillers         []string `toml:"fillers" yaml:"fillers" json:"fillers"`
	SentenceEndings []Ending `toml:"sentence_endings" yaml:"sentence_endings" json:"sentence_endings"`
	StopWords       []string `toml:"stop_words" yaml:"stop_words" json:"stop_words"`
	Particles       []string `toml:"particles" yaml:"particles" json:"particles"`
	Topics          []Topic  `toml:"topics" yaml:"topics" json:"topics"`

	SynonymGroups      [][]string `toml:"synonym_groups" yaml:"synonym_groups" json:"synonym_groups"`
	ProjectTriggers    []string   `toml:"project_triggers" yaml:"project_triggers" json:"project_triggers"`
	PreferenceTriggers []string   `toml:"preference_triggers" yaml:"preference_triggers" json:"preference_triggers"`
	ConstraintTriggers []string   `toml:"constraint_triggers" yaml:"constraint_triggers" json:"constraint_triggers"`
	MotivationKeywords []string   `toml:"motivation_keywords" yaml:"motivation_keywords" json:"motivation_keywords"`
	PainPointKeywords  []string   `toml:"pain_point_keywords" yaml:"pain_point_keywords" json:"pain_point_keywords"`

	Register []Pair   `toml:"register" yaml:"register" json:"register"`
	Hedges   []string `toml:"hedges" yaml:"hedges" json:"hedges"`
	Phrases  Phrases  `toml:"phrases" yaml:"phrases" json:"phrases"`
}

// Lexicon is an immutable, indexed set of Tables. Slices returned by its
// accessors are shared and must not be modified.
type Lexicon struct {
	t         Tables
	stopWords map[string]struct{}
	particles []string
}

// New validates t and builds a Lexicon from a private copy of it.
func New(t Tables) (*Lexicon, error) {
	if strings.TrimSpace(t.Version) == "" {
		return nil, fmt.Errorf("lexicon: version is required")
	}
	for name, tt := range map[string]ToneTable{
		"formality":  t.Formality,
		"enthusiasm": t.Enthusiasm,
		"directness": t.Directness,
		"politeness": t.Politeness,
	} {
		if tt.Baseline < 0 || tt.Baseline > 100 {
			return nil, fmt.Errorf("lexicon: %s baseline %.1f outside [0,100]", name, tt.Baseline)
		}
	}
	for i, g := range t.SynonymGroups {
		if len(g) < 2 {
			return nil, fmt.Errorf("lexicon: synonym group %d needs at least two words", i)
		}
	}
	for _, tmpl := range []string{t.Phrases.MotivationFraming, t.Phrases.ProjectReference} {
		if tmpl != "" && strings.Count(tmpl, "%s") != 1 {
			return nil, fmt.Errorf("lexicon: phrase template %q must contain exactly one %%s", tmpl)
		}
	}

	l := &Lexicon{t: t.clone(), stopWords: make(map[string]struct{}, len(t.StopWords))}
	for _, w := range l.t.StopWords {
		l.stopWords[strings.ToLower(w)] = struct{}{}
	}
	// Longest particles first so "에서" wins over "에".
	l.particles = append([]string(nil), l.t.Particles...)
	sortByLengthDesc(l.particles)
	return l, nil
}

// MustNew is New for built-in tables that are known to be valid.
func MustNew(t Tables) *Lexicon {
	l, err := New(t)
	if err != nil {
		panic(err)
	}
	return l
}

// Version identifies the tables.
func (l *Lexicon) Version() string { return l.t.Version }

// Locale is the language tag the tables were written for.
func (l *Lexicon) Locale() string { return l.t.Locale }

// Formality returns the formality scoring table.
func (l *Lexicon) Formality() ToneTable { return l.t.Formality }

// Enthusiasm returns the enthusiasm scoring table.
func (l *Lexicon) Enthusiasm() ToneTable { return l.t.Enthusiasm }

// Directness returns the directness scoring table.
func (l *Lexicon) Directness() ToneTable { return l.t.Directness }

// Politeness returns the politeness scoring table.
func (l *Lexicon) Politeness() ToneTable { return l.t.Politeness }

// Conjunctions returns the conjunctions detected as linguistic features.
func (l *Lexicon) Conjunctions() []string { return l.t.Conjunctions }

// Interjections returns the interjections detected as linguistic features.
func (l *Lexicon) Interjections() []string { return l.t.Interjections }

// Fillers returns the filler words detected as linguistic features.
func (l *Lexicon) Fillers() []string { return l.t.Fillers }

// SentenceEndings returns the known sentence endings.
func (l *Lexicon) SentenceEndings() []Ending { return l.t.SentenceEndings }

// Topics returns the topic taxonomy.
func (l *Lexicon) Topics() []Topic { return l.t.Topics }

// SynonymGroups returns groups of interchangeable words.
func (l *Lexicon) SynonymGroups() [][]string { return l.t.SynonymGroups }

// ProjectTriggers are the words that mark a project mention.
func (l *Lexicon) ProjectTriggers() []string { return l.t.ProjectTriggers }

// PreferenceTriggers are the phrases that mark a stated preference.
func (l *Lexicon) PreferenceTriggers() []string { return l.t.PreferenceTriggers }

// ConstraintTriggers are the phrases that mark a constraint.
func (l *Lexicon) ConstraintTriggers() []string { return l.t.ConstraintTriggers }

// MotivationKeywords are the words recorded as motivations.
func (l *Lexicon) MotivationKeywords() []string { return l.t.MotivationKeywords }

// PainPointKeywords are the words recorded as pain points.
func (l *Lexicon) PainPointKeywords() []string { return l.t.PainPointKeywords }

// Register returns the casual/formal swap pairs.
func (l *Lexicon) Register() []Pair { return l.t.Register }

// Hedges returns the hedging phrases removed for direct or short text.
func (l *Lexicon) Hedges() []string { return l.t.Hedges }

// Phrases returns the snippets the rewriter inserts.
func (l *Lexicon) Phrases() Phrases { return l.t.Phrases }

// Tables returns a deep copy of the tables the lexicon was built from.
func (l *Lexicon) Tables() Tables { return l.t.clone() }

// IsStopWord reports whether w (compared case-insensitively) is a stop word.
func (l *Lexicon) IsStopWord(w string) bool {
	_, ok := l.stopWords[strings.ToLower(w)]
	return ok
}

// IsParticle reports whether s is exactly one of the particles.
func (l *Lexicon) IsParticle(s string) bool {
	for _, p := range l.particles {
		if s == p {
			return true
		}
	}
	return false
}

// StripParticle removes one trailing particle from w, provided at least two
// runes of stem remain.
func (l *Lexicon) StripParticle(w string) string {
	for _, p := range l.particles {
		if !strings.HasSuffix(w, p) {
			continue
		}
		stem := strings.TrimSuffix(w, p)
		if len([]rune(stem)) >= 2 {
			return stem
		}
	}
	return w
}

func (t Tables) clone() Tables {
	c := t
	c.Formality = t.Formality.clone()
	c.Enthusiasm = t.Enthusiasm.clone()
	c.Directness = t.Directness.clone()
	c.Politeness = t.Politeness.clone()
	c.Conjunctions = cloneStrings(t.Conjunctions)
	c.Interjections = cloneStrings(t.Interjections)
	c.Fillers = cloneStrings(t.Fillers)
	c.SentenceEndings = append([]Ending(nil), t.SentenceEndings...)
	c.StopWords = cloneStrings(t.StopWords)
	c.Particles = cloneStrings(t.Particles)
	c.Topics = make([]Topic, len(t.Topics))
	for i, tp := range t.Topics {
		c.Topics[i] = Topic{Name: tp.Name, Keywords: cloneStrings(tp.Keywords)}
	}
	c.SynonymGroups = make([][]string, len(t.SynonymGroups))
	for i, g := range t.SynonymGroups {
		c.SynonymGroups[i] = cloneStrings(g)
	}
	c.ProjectTriggers = cloneStrings(t.ProjectTriggers)
	c.PreferenceTriggers = cloneStrings(t.PreferenceTriggers)
	c.ConstraintTriggers = cloneStrings(t.ConstraintTriggers)
	c.MotivationKeywords = cloneStrings(t.MotivationKeywords)
	c.PainPointKeywords = cloneStrings(t.PainPointKeywords)
	c.Register = append([]Pair(nil), t.Register...)
	c.Hedges = cloneStrings(t.Hedges)
	return c
}

func (tt ToneTable) clone() ToneTable {
	tt.Markers = append([]Marker(nil), tt.Markers...)
	return tt
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func sortByLengthDesc(s []string) {
	// Insertion sort keeps equal-length entries in table order.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && len([]rune(s[j])) > len([]rune(s[j-1])); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
