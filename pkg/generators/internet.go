package generators

import (
	"math/rand"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-schemafaker/pkg/container"
)

var topLevelDomains = []string{"com", "net", "org", "io", "dev", "example"}

// Internet registers the "internet" dependency.
type Internet struct {
	rng *rand.Rand
}

func (m Internet) Register(c *container.Container) {
	c.MustExtend("internet", func(current any) any {
		return merge(current, container.Map{
			"username": container.Thunk(func() any { return m.username() }),
			"domain":   container.Thunk(func() any { return m.domain() }),
			"email":    container.Thunk(func() any { return m.username() + "@" + m.domain() }),
			"url":      container.Thunk(func() any { return "https://" + m.domain() + "/" + pick(m.rng, loremWords) }),
		})
	})
}

// username joins a lowercased first and last name, sometimes with a number.
func (m Internet) username() string {
	names := Names{rng: m.rng}
	lower := cases.Lower(language.English)
	out := lower.String(names.first()) + "." + lower.String(names.last())
	if m.rng.Intn(2) == 1 {
		out += strconv.Itoa(m.rng.Intn(100))
	}
	return out
}

func (m Internet) domain() string {
	return pick(m.rng, loremWords) + "." + pick(m.rng, topLevelDomains)
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}
