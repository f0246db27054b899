package engine

import "fmt"

// battleLog collects the user-visible lines of a battle. Identical
// consecutive lines are collapsed.
type battleLog struct {
	last    string
	current []string
	all     []string
}

func (l *battleLog) add(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if line == l.last {
		return
	}
	l.last = line
	l.current = append(l.current, line)
	l.all = append(l.all, line)
}

// take returns the lines added since the previous take.
func (l *battleLog) take() []string {
	lines := l.current
	l.current = nil
	return lines
}
