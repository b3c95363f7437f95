package generators

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/goliatone/go-schemafaker/pkg/container"
)

// Net registers the "net" dependency: ipv4, ipv6, mac and port.
type Net struct {
	rng *rand.Rand
}

func (m Net) Register(c *container.Container) {
	c.MustExtend("net", func(current any) any {
		return merge(current, container.Map{
			"ipv4": container.Thunk(m.ipv4),
			"ipv6": container.Thunk(m.ipv6),
			"mac":  container.Thunk(m.mac),
			"port": container.Func(m.port),
		})
	})
}

func (m Net) ipv4() any {
	octets := make([]string, 4)
	for idx := range octets {
		octets[idx] = strconv.Itoa(m.rng.Intn(256))
	}
	return strings.Join(octets, ".")
}

func (m Net) ipv6() any {
	groups := make([]string, 8)
	for idx := range groups {
		groups[idx] = strconv.FormatInt(int64(m.rng.Intn(1<<16)), 16)
	}
	return strings.Join(groups, ":")
}

func (m Net) mac() any {
	parts := make([]string, 6)
	for idx := range parts {
		parts[idx] = fmt.Sprintf("%02x", m.rng.Intn(256))
	}
	return strings.Join(parts, ":")
}

// port accepts an optional inclusive range, default [1, 65535].
func (m Net) port(_ any, args []any) (any, error) {
	lo, hi, err := intRange(args, 1, 65535)
	if err != nil {
		return nil, err
	}
	if lo < 0 || hi > 65535 {
		return nil, fmt.Errorf("port range [%d, %d] out of bounds", lo, hi)
	}
	return randomInt(m.rng, lo, hi), nil
}
