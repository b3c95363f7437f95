package generators

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-schemafaker/pkg/container"
)

var loremWords = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing",
	"elit", "sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore",
	"et", "dolore", "magna", "aliqua", "enim", "ad", "minim", "veniam",
	"quis", "nostrud", "exercitation", "ullamco", "laboris", "nisi",
	"aliquip", "ex", "ea", "commodo", "consequat", "duis", "aute", "irure",
	"in", "reprehenderit", "voluptate", "velit", "esse", "cillum", "fugiat",
	"nulla", "pariatur", "excepteur", "sint", "occaecat", "cupidatat",
	"non", "proident", "sunt", "culpa", "qui", "officia", "deserunt",
	"mollit", "anim", "id", "est", "laborum",
}

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

func loremMarkupPolicy() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		markupPolicy = bluemonday.UGCPolicy()
	})
	return markupPolicy
}

// Lorem registers the "lorem" dependency.
type Lorem struct {
	rng *rand.Rand
}

func (m Lorem) Register(c *container.Container) {
	c.MustExtend("lorem", func(current any) any {
		return merge(current, container.Map{
			"word":      container.Thunk(func() any { return pick(m.rng, loremWords) }),
			"words":     container.Func(m.words),
			"sentence":  container.Thunk(func() any { return m.sentence() }),
			"paragraph": container.Thunk(func() any { return m.paragraph() }),
			"html":      container.Func(m.html),
		})
	})
}

// words returns n space separated words, default 3.
func (m Lorem) words(_ any, args []any) (any, error) {
	n, err := intArg(args, 0, 3)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("words: negative count %d", n)
	}
	return strings.Join(m.pickWords(n), " "), nil
}

func (m Lorem) pickWords(n int) []string {
	out := make([]string, n)
	for idx := range out {
		out[idx] = pick(m.rng, loremWords)
	}
	return out
}

func (m Lorem) sentence() string {
	words := m.pickWords(4 + m.rng.Intn(7))
	words[0] = cases.Title(language.English).String(words[0])
	return strings.Join(words, " ") + "."
}

func (m Lorem) paragraph() string {
	sentences := make([]string, 3+m.rng.Intn(4))
	for idx := range sentences {
		sentences[idx] = m.sentence()
	}
	return strings.Join(sentences, " ")
}

// html wraps a paragraph in the given element, default "p", and runs the
// result through a user-content policy so unsafe elements are dropped.
func (m Lorem) html(_ any, args []any) (any, error) {
	tag := strings.TrimSpace(stringArg(args, 0, "p"))
	if tag == "" || strings.ContainsAny(tag, "<> /\"'") {
		return nil, fmt.Errorf("html: invalid element %q", tag)
	}
	emphasis := pick(m.rng, loremWords)
	body := strings.Replace(m.paragraph(), " "+emphasis+" ", " <strong>"+emphasis+"</strong> ", 1)
	markup := "<" + tag + ">" + body + "</" + tag + ">"
	return loremMarkupPolicy().Sanitize(markup), nil
}
