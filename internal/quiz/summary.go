package quiz

import "github.com/abhisek/parley/internal/content"

// Summary describes a finished (or abandoned) quiz run.
type Summary struct {
	TopicID   string
	TopicName string
	Score     int
	Total     int
	Outcomes  []Outcome
}

// Summary builds a result summary for the current run.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{Score: s.state.Score}
	if s.topic != nil {
		sum.TopicID = s.topic.ID
		sum.TopicName = s.topic.Name
		sum.Total = len(s.topic.Levels)
	}
	sum.Outcomes = make([]Outcome, len(s.outcomes))
	copy(sum.Outcomes, s.outcomes)
	return sum
}

// Percent returns the score as a whole percentage of the level count.
func (s Summary) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return s.Score * 100 / s.Total
}

// Perfect reports whether every level was solved.
func (s Summary) Perfect() bool {
	return s.Total > 0 && s.Score == s.Total
}

// Missed lists the ids of levels that were not solved.
func (s Summary) Missed() []string {
	var ids []string
	for _, o := range s.Outcomes {
		if !o.Success {
			ids = append(ids, o.LevelID)
		}
	}
	return ids
}

// Tally counts solved and attempted levels.
type Tally struct {
	Solved    int
	Attempted int
}

// ByType tallies outcomes per level type.
func (s Summary) ByType() map[content.LevelType]Tally {
	out := make(map[content.LevelType]Tally)
	for _, o := range s.Outcomes {
		t := out[o.Type]
		if o.Success {
			t.Solved++
		}
		t.Attempted++
		out[o.Type] = t
	}
	return out
}
