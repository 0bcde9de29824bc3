package profile

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/voiceprint/voiceprint/internal/analyzer"
)

// maxNameContext is how many tokens before a trigger form a project name.
const maxNameContext = 2

func (m *Manager) updateContext(p *MasterProfile, messages []string, now time.Time) {
	for _, msg := range messages {
		for _, sentence := range analyzer.Sentences(msg) {
			for _, name := range m.projectNames(sentence) {
				rememberProject(&p.Context.OngoingProjects, name, now)
			}
			lower := strings.ToLower(sentence)
			if containsAny(lower, m.lex.PreferenceTriggers()) {
				rememberReference(&p.Context.PersonalReferences, RefPreference, sentence, now)
			}
			if containsAny(lower, m.lex.ConstraintTriggers()) {
				rememberReference(&p.Context.PersonalReferences, RefConstraint, sentence, now)
			}
		}
	}
}

// projectNames finds "<up to two words> <trigger>" spans in a sentence, e.g.
// "신규 앱 프로젝트를" names the project "신규 앱 프로젝트".
func (m *Manager) projectNames(sentence string) []string {
	var names []string
	tokens := analyzer.Tokens(sentence)
	for i, tok := range tokens {
		stem := m.lex.StripParticle(tok)
		if !m.isProjectTrigger(stem) {
			continue
		}
		var words []string
		for j := max(0, i-maxNameContext); j < i; j++ {
			if len(words) == 0 && m.lex.IsStopWord(tokens[j]) {
				continue
			}
			words = append(words, tokens[j])
		}
		if len(words) == 0 {
			continue
		}
		names = append(names, strings.Join(append(words, stem), " "))
	}
	return names
}

func (m *Manager) isProjectTrigger(stem string) bool {
	for _, t := range m.lex.ProjectTriggers() {
		if strings.EqualFold(stem, t) {
			return true
		}
	}
	return false
}

func rememberProject(l *Projects, name string, now time.Time) {
	if i := l.Index(func(pr Project) bool { return pr.Name == name }); i >= 0 {
		l.Touch(i, func(pr *Project) {
			pr.LastMentioned = now
			pr.Mentions++
		})
		return
	}
	l.Push(Project{Name: name, FirstMentioned: now, LastMentioned: now, Mentions: 1})
}

func rememberReference(l *References, kind ReferenceKind, sentence string, now time.Time) {
	text := truncateRunes(strings.TrimSpace(sentence), maxReferenceRunes)
	if i := l.Index(func(r Reference) bool { return r.Kind == kind && r.Text == text }); i >= 0 {
		l.Touch(i, func(r *Reference) { r.LastMentioned = now })
		return
	}
	l.Push(Reference{Kind: kind, Text: text, LastMentioned: now})
}

func containsAny(lower string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
