package content

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateScenario performs all structural checks on a scenario.
// Returns a *ValidationError describing every problem found, or nil.
func ValidateScenario(s *Scenario) error {
	if s == nil {
		return &ValidationError{Subject: "scenario", Problems: []string{"scenario is nil"}}
	}
	var errs []string

	if s.ID == "" {
		errs = append(errs, "scenario has no id")
	}
	if len(s.Nodes) == 0 {
		errs = append(errs, "scenario has no nodes")
	}
	if _, ok := s.Node(s.InitialNodeID); !ok {
		errs = append(errs, fmt.Sprintf("initial node %q does not exist", s.InitialNodeID))
	}

	for _, key := range sortedKeys(s.Nodes) {
		n := s.Nodes[key]
		if n == nil {
			errs = append(errs, fmt.Sprintf("node %q is empty", key))
			continue
		}
		if n.ID != key {
			errs = append(errs, fmt.Sprintf("node key %q does not match node id %q", key, n.ID))
		}
		if strings.TrimSpace(n.Text) == "" {
			errs = append(errs, fmt.Sprintf("node %q has no text", key))
		}

		seen := make(map[string]bool, len(n.Choices))
		hasCorrect := false
		for _, c := range n.Choices {
			if c.ID == "" {
				errs = append(errs, fmt.Sprintf("node %q has a choice without an id", key))
			} else if seen[c.ID] {
				errs = append(errs, fmt.Sprintf("node %q has duplicate choice id %q", key, c.ID))
			}
			seen[c.ID] = true

			if !c.Correct {
				continue
			}
			hasCorrect = true
			if c.NextID != "" {
				if _, ok := s.Node(c.NextID); !ok {
					errs = append(errs, fmt.Sprintf("choice %q in node %q references nonexistent node %q", c.ID, key, c.NextID))
				}
			}
		}
		if len(n.Choices) > 0 && !hasCorrect {
			errs = append(errs, fmt.Sprintf("node %q has no correct choice", key))
		}
	}

	for _, id := range Unreachable(s) {
		errs = append(errs, fmt.Sprintf("node %q is unreachable from %q", id, s.InitialNodeID))
	}

	if len(errs) > 0 {
		return &ValidationError{Subject: fmt.Sprintf("scenario %q", s.ID), Problems: errs}
	}
	return nil
}

// Unreachable returns the ids of nodes that no path of correct choices
// reaches from the initial node, sorted.
func Unreachable(s *Scenario) []string {
	if _, ok := s.Node(s.InitialNodeID); !ok {
		return nil
	}
	visited := map[string]bool{s.InitialNodeID: true}
	queue := []string{s.InitialNodeID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n, _ := s.Node(id)
		for _, c := range n.Choices {
			if !c.Correct || visited[c.NextID] {
				continue
			}
			if _, ok := s.Node(c.NextID); ok {
				visited[c.NextID] = true
				queue = append(queue, c.NextID)
			}
		}
	}

	var out []string
	for _, id := range sortedKeys(s.Nodes) {
		if !visited[id] && s.Nodes[id] != nil {
			out = append(out, id)
		}
	}
	return out
}

// ValidateTopic performs all structural checks on a topic and its levels.
func ValidateTopic(t *Topic) error {
	if t == nil {
		return &ValidationError{Subject: "topic", Problems: []string{"topic is nil"}}
	}
	var errs []string

	if t.ID == "" {
		errs = append(errs, "topic has no id")
	}
	if len(t.Levels) == 0 {
		errs = append(errs, "topic has no levels")
	}

	ids := make(map[string]bool, len(t.Levels))
	for i, l := range t.Levels {
		if IsNil(l) {
			errs = append(errs, fmt.Sprintf("level %d is empty", i))
			continue
		}
		id := l.LevelID()
		if id == "" {
			errs = append(errs, fmt.Sprintf("level %d has no id", i))
		} else if ids[id] {
			errs = append(errs, fmt.Sprintf("duplicate level id %q", id))
		}
		ids[id] = true

		for _, p := range levelProblems(l) {
			errs = append(errs, fmt.Sprintf("level %q: %s", id, p))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Subject: fmt.Sprintf("topic %q", t.ID), Problems: errs}
	}
	return nil
}

func levelProblems(l Level) []string {
	switch l := l.(type) {
	case *MCQ:
		return optionProblems(l.Options, l.CorrectAnswer)
	case *MCQImage:
		p := optionProblems(l.Options, l.CorrectAnswer)
		if l.ImageURL == "" {
			p = append(p, "missing image_url")
		}
		return p
	case *MCQAudio:
		p := optionProblems(l.Options, l.CorrectAnswer)
		if strings.TrimSpace(l.TextToSpeak) == "" {
			p = append(p, "missing text_to_speak")
		}
		return p
	case *YesNo:
		return nil
	case *Matching:
		ids := make([]string, len(l.Pairs))
		for i, p := range l.Pairs {
			ids[i] = p.ID
		}
		return pairProblems(ids)
	case *MatchingImage:
		ids := make([]string, len(l.Pairs))
		for i, p := range l.Pairs {
			ids[i] = p.ID
		}
		return pairProblems(ids)
	case *WordPuzzle:
		if strings.TrimSpace(l.Word) == "" {
			return []string{"missing word"}
		}
		return nil
	default:
		return []string{fmt.Sprintf("%v %T", ErrUnknownLevelType, l)}
	}
}

func optionProblems(options []string, correct string) []string {
	var p []string
	if len(options) < 2 {
		p = append(p, fmt.Sprintf("needs at least 2 options, has %d", len(options)))
	}
	if !slices.Contains(options, correct) {
		p = append(p, fmt.Sprintf("correct answer %q is not one of the options", correct))
	}
	return p
}

func pairProblems(ids []string) []string {
	var p []string
	if len(ids) == 0 {
		p = append(p, "has no pairs")
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			p = append(p, "pair without an id")
			continue
		}
		if seen[id] {
			p = append(p, fmt.Sprintf("duplicate pair id %q", id))
		}
		seen[id] = true
	}
	return p
}

func sortedKeys(m map[string]*Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
