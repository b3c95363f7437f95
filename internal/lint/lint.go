// Package lint reports generator keywords in schema documents that the
// generator container cannot serve.
package lint

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-schemafaker/pkg/container"
	"github.com/goliatone/go-schemafaker/pkg/schema"
)

const extensionPrefix = "x-"

// Violation is one problem found in a document.
type Violation struct {
	File     string
	Location string
	Message  string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s -> %s", v.File, v.Location, v.Message)
}

// Document checks every x- key in root against c. Violations are sorted by
// location.
func Document(c *container.Container, file string, root any) []Violation {
	var result []Violation
	walk(c, file, nil, root, &result)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Location == result[j].Location {
			return result[i].Message < result[j].Message
		}
		return result[i].Location < result[j].Location
	})
	return result
}

func walk(c *container.Container, file string, path []string, value any, result *[]Violation) {
	switch typed := value.(type) {
	case *schema.Node:
		typed.Range(func(key string, child any) bool {
			if strings.HasPrefix(key, extensionPrefix) {
				if v, ok := checkKeyword(c, file, path, key, child); ok {
					*result = append(*result, v)
				}
			}
			walk(c, file, appendPath(path, key), child, result)
			return true
		})
	case []any:
		for idx, item := range typed {
			walk(c, file, appendPath(path, strconv.Itoa(idx)), item, result)
		}
	}
}

func checkKeyword(c *container.Container, file string, path []string, key string, value any) (Violation, bool) {
	name := strings.TrimPrefix(key, extensionPrefix)
	v := Violation{File: file, Location: formatLocation(appendPath(path, key))}
	switch {
	case name == "":
		v.Message = "extension key is empty"
	case !c.HasKeyword(name):
		v.Message = fmt.Sprintf("unknown generator keyword %q (supported: %s)", name, strings.Join(c.Keywords(), ", "))
	default:
		err := c.Check(name, value)
		if err == nil {
			return Violation{}, false
		}
		v.Message = err.Error()
	}
	return v, true
}

func appendPath(path []string, segment string) []string {
	next := append([]string(nil), path...)
	next = append(next, segment)
	return next
}

func formatLocation(path []string) string {
	if len(path) == 0 {
		return "$"
	}
	return strings.Join(path, " > ")
}
