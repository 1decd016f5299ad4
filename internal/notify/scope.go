package notify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Scope набор коллекций, данные которых изменились
type Scope uint8

const (
	ScopeTeachers Scope = 1 << iota
	ScopeCourses
	ScopeClasses
	ScopeSchedule

	ScopeNone Scope = 0
	ScopeAll        = ScopeTeachers | ScopeCourses | ScopeClasses | ScopeSchedule
)

var scopeNames = []struct {
	scope Scope
	name  string
}{
	{ScopeTeachers, "teachers"},
	{ScopeCourses, "courses"},
	{ScopeClasses, "classes"},
	{ScopeSchedule, "schedule"},
}

// Has проверяет что s включает все коллекции other
func (s Scope) Has(other Scope) bool {
	return other != ScopeNone && s&other == other
}

// Names возвращает имена коллекций в фиксированном порядке
func (s Scope) Names() []string {
	names := make([]string, 0, len(scopeNames))
	for _, sn := range scopeNames {
		if s&sn.scope != 0 {
			names = append(names, sn.name)
		}
	}
	return names
}

func (s Scope) String() string {
	return strings.Join(s.Names(), ",")
}

// ParseScope собирает Scope из имён коллекций
func ParseScope(names ...string) (Scope, error) {
	var scope Scope
	for _, name := range names {
		found := false
		for _, sn := range scopeNames {
			if sn.name == name {
				scope |= sn.scope
				found = true
				break
			}
		}
		if !found {
			return ScopeNone, fmt.Errorf("unknown scope %q", name)
		}
	}
	return scope, nil
}

func (s Scope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *Scope) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	parsed, err := ParseScope(names...)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
