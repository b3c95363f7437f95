package generators

import (
	"math/rand"

	"github.com/goliatone/go-schemafaker/pkg/container"
)

var firstNames = []string{
	"Rowan", "Elena", "Marcus", "Vera", "Theron", "Lyra",
	"Amara", "Kofi", "Zara", "Jabari", "Nia", "Kwame",
	"Kenji", "Mei", "Hiroshi", "Yuki", "Jin", "Sora",
	"Priya", "Arjun", "Kavya", "Ravi", "Anaya", "Dev",
	"Layla", "Nasir", "Farah", "Khalil", "Zahra", "Omar",
	"Mateo", "Lucia", "Diego", "Carmen", "Rafael", "Sofia",
}

var lastNames = []string{
	"Blackwood", "Ashford", "Thornwick", "Fairchild", "Greymoor",
	"Okonkwo", "Mbeki", "Diallo", "Osei", "Mensah",
	"Tanaka", "Chen", "Sharma", "Nguyen", "Kim",
	"Hakim", "Farouk", "Khoury", "Abbasi", "Karimi",
	"Reyes", "Mendoza", "Castillo", "Vargas", "Navarro",
}

// Names registers the "name" dependency.
type Names struct {
	rng *rand.Rand
}

func (m Names) Register(c *container.Container) {
	c.MustExtend("name", func(current any) any {
		return merge(current, container.Map{
			"first": container.Thunk(func() any { return m.first() }),
			"last":  container.Thunk(func() any { return m.last() }),
			"full":  container.Thunk(func() any { return m.first() + " " + m.last() }),
		})
	})
}

func (m Names) first() string {
	return firstNames[m.rng.Intn(len(firstNames))]
}

func (m Names) last() string {
	return lastNames[m.rng.Intn(len(lastNames))]
}
