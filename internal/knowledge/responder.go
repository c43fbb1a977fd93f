// Package knowledge answers patient questions from a fixed keyword table when
// the language model is not available.
package knowledge

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultReply is returned when no keyword group matches.
const DefaultReply = "Entiendo que consultas sobre algo específico. Aunque soy el asistente virtual y sé mucho sobre el sanatorio, esa pregunta puntual prefiero derivarla a un humano. ¿Te gustaría llamar a nuestra central de informes al 0800-SANJUAN?"

// Group maps a set of trigger keywords to one canned reply.
type Group struct {
	Name     string
	Keywords []string
	Reply    string
}

// Responder matches utterances against an ordered list of groups. The first
// group with any keyword contained in the utterance wins.
type Responder struct {
	groups       []Group
	defaultReply string
}

// NewResponder builds a responder over groups. Keywords are normalised once
// here so matching is insensitive to case and accents on both sides.
func NewResponder(groups []Group, defaultReply string) *Responder {
	normalized := make([]Group, 0, len(groups))
	for _, g := range groups {
		keywords := make([]string, 0, len(g.Keywords))
		for _, kw := range g.Keywords {
			if kw = strings.TrimSpace(Normalize(kw)); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		normalized = append(normalized, Group{Name: g.Name, Keywords: keywords, Reply: g.Reply})
	}
	if strings.TrimSpace(defaultReply) == "" {
		defaultReply = DefaultReply
	}
	return &Responder{groups: normalized, defaultReply: defaultReply}
}

// NewDefaultResponder returns a responder over the institution's knowledge base.
func NewDefaultResponder() *Responder {
	return NewResponder(DefaultGroups(), DefaultReply)
}

// Respond returns the canned reply for utterance. It never fails.
func (r *Responder) Respond(utterance string) string {
	reply, _ := r.Match(utterance)
	return reply
}

// Match is Respond plus the name of the matched group ("" for the default reply).
func (r *Responder) Match(utterance string) (reply, group string) {
	input := Normalize(utterance)
	if input != "" {
		for _, g := range r.groups {
			for _, kw := range g.Keywords {
				if strings.Contains(input, kw) {
					return g.Reply, g.Name
				}
			}
		}
	}
	return r.defaultReply, ""
}

// Normalize lower-cases s and strips combining marks after canonical
// decomposition, so "Cardiología" and "cardiologia" compare equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}
