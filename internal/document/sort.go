package document

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/idilsaglam/taskbarn/internal/model"
)

// SortMethod selects the display order of groups.
type SortMethod string

const (
	SortTimeLeft SortMethod = "time_left"
	SortSize     SortMethod = "size"
	SortName     SortMethod = "name"
	SortCreated  SortMethod = "created"
)

// SortMethods lists the methods in cycling order.
var SortMethods = []SortMethod{SortTimeLeft, SortSize, SortName, SortCreated}

// ParseSortMethod accepts the persisted names of the sort methods.
func ParseSortMethod(s string) (SortMethod, error) {
	m := SortMethod(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SortMethods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown sort method %q (want time_left, size, name or created)", s)
}

// Next returns the method after s in SortMethods.
func (s SortMethod) Next() SortMethod {
	for i, m := range SortMethods {
		if m == s {
			return SortMethods[(i+1)%len(SortMethods)]
		}
	}
	return SortMethods[0]
}

// Label is a short human name for status lines.
func (s SortMethod) Label() string {
	switch s {
	case SortTimeLeft:
		return "time left"
	case SortSize:
		return "size"
	case SortName:
		return "name"
	case SortCreated:
		return "created"
	}
	return string(s)
}

// daysLeft is the time_left key; groups without a usable date sort last.
func daysLeft(g *model.TaskGroup, today time.Time) int {
	if strings.TrimSpace(g.DueDate) == "" {
		return math.MaxInt
	}
	t, err := model.ParseDate(g.DueDate)
	if err != nil {
		return math.MaxInt
	}
	return model.DaysUntil(t, today)
}

// sortGroups orders groups in place. seq carries insertion order and is
// the final tie-break, so equal keys keep a deterministic order.
func sortGroups(groups []*model.TaskGroup, method SortMethod, seq map[string]int, today time.Time) {
	title := func(g *model.TaskGroup) string { return strings.ToLower(g.Title) }
	bySeq := func(a, b *model.TaskGroup) bool { return seq[a.ID] < seq[b.ID] }

	var less func(a, b *model.TaskGroup) bool
	switch method {
	case SortTimeLeft:
		less = func(a, b *model.TaskGroup) bool {
			da, db := daysLeft(a, today), daysLeft(b, today)
			if da != db {
				return da < db
			}
			if ta, tb := title(a), title(b); ta != tb {
				return ta < tb
			}
			return bySeq(a, b)
		}
	case SortSize:
		less = func(a, b *model.TaskGroup) bool {
			if la, lb := len(a.Items), len(b.Items); la != lb {
				return la > lb
			}
			if ta, tb := title(a), title(b); ta != tb {
				return ta < tb
			}
			return bySeq(a, b)
		}
	case SortName:
		less = func(a, b *model.TaskGroup) bool {
			if ta, tb := title(a), title(b); ta != tb {
				return ta < tb
			}
			return bySeq(a, b)
		}
	default:
		less = func(a, b *model.TaskGroup) bool {
			if a.Created != b.Created {
				return a.Created < b.Created
			}
			return bySeq(a, b)
		}
	}
	sort.SliceStable(groups, func(i, j int) bool { return less(groups[i], groups[j]) })
}
