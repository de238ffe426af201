// Package content defines the authored data the engines consume: scenario
// conversation graphs and quiz topics made of typed levels. Values are
// immutable once loaded.
package content

import "fmt"

// Choice is one selectable user reply at a node.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`

	// NextID names the node a correct choice leads to. Empty means the
	// conversation ends after this choice. Ignored for wrong choices.
	NextID string `json:"next,omitempty"`

	Correct bool `json:"correct"`

	// Feedback is the partner's reply to a wrong choice. Empty falls back
	// to a generic retry prompt.
	Feedback string `json:"feedback,omitempty"`
}

// Node is one partner utterance plus the replies available there.
type Node struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Choices []Choice `json:"choices,omitempty"`
}

// Terminal reports whether the node ends the scenario.
func (n *Node) Terminal() bool {
	return len(n.Choices) == 0
}

// Choice returns the choice with the given id.
func (n *Node) Choice(id string) (Choice, bool) {
	for _, c := range n.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// Scenario is an authored conversation graph with one entry node.
type Scenario struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Subtitle      string           `json:"subtitle,omitempty"`
	Description   string           `json:"description,omitempty"`
	Icon          string           `json:"icon,omitempty"`
	InitialNodeID string           `json:"initial_node"`
	Nodes         map[string]*Node `json:"nodes"`
}

// Node looks up a node by id.
func (s *Scenario) Node(id string) (*Node, bool) {
	if s == nil || id == "" {
		return nil, false
	}
	n, ok := s.Nodes[id]
	return n, ok && n != nil
}

// CheckStart verifies the preconditions for starting a dialogue.
func (s *Scenario) CheckStart() error {
	if s == nil {
		return fmt.Errorf("scenario is nil: %w", ErrMissingInitialNode)
	}
	if _, ok := s.Node(s.InitialNodeID); !ok {
		return fmt.Errorf("scenario %q: initial node %q: %w", s.ID, s.InitialNodeID, ErrMissingInitialNode)
	}
	return nil
}
