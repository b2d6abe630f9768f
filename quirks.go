package vip8

import (
	"fmt"
	"strings"
)

// Quirks select behaviours on which historical interpreters disagree.
// The zero value is the common modern behaviour.
type Quirks uint8

const (
	// QuirkShiftUsesVy makes 8xy6 and 8xyE shift Vy into Vx
	QuirkShiftUsesVy Quirks = 1 << iota
	// QuirkVfReset makes 8xy1, 8xy2 and 8xy3 clear VF
	QuirkVfReset
	// QuirkMemoryMovesIndex makes Fx55 and Fx65 leave I at I+x+1
	QuirkMemoryMovesIndex
	// QuirkJumpUsesVx makes Bxnn jump to xnn+Vx
	QuirkJumpUsesVx
)

var quirkNames = []struct {
	name  string
	quirk Quirks
}{
	{"shift", QuirkShiftUsesVy},
	{"vfreset", QuirkVfReset},
	{"memory", QuirkMemoryMovesIndex},
	{"jump", QuirkJumpUsesVx},
}

func (q Quirks) Has(flag Quirks) bool {
	return q&flag > 0
}

func (q Quirks) String() string {
	names := make([]string, 0, len(quirkNames))
	for _, qn := range quirkNames {
		if q.Has(qn.quirk) {
			names = append(names, qn.name)
		}
	}

	return strings.Join(names, ",")
}

// ParseQuirks parses a comma separated list of quirk names:
// shift, vfreset, memory and jump. "vip" selects all of them.
func ParseQuirks(s string) (Quirks, error) {
	var q Quirks

	for _, name := range strings.Split(s, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if name == "vip" {
			q |= QuirkShiftUsesVy | QuirkVfReset | QuirkMemoryMovesIndex | QuirkJumpUsesVx
			continue
		}

		found := false
		for _, qn := range quirkNames {
			if qn.name == name {
				q |= qn.quirk
				found = true
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown quirk %q", name)
		}
	}

	return q, nil
}
