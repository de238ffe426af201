package content

import (
	"encoding/json"
	"fmt"
)

// DecodeLevel decodes one level object, dispatching on its "type" field.
func DecodeLevel(raw json.RawMessage) (Level, error) {
	var head struct {
		Type LevelType `json:"type"`
		ID   string    `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decode level: %w", err)
	}

	var lvl Level
	switch head.Type {
	case TypeMCQ:
		lvl = &MCQ{}
	case TypeYesNo:
		lvl = &YesNo{}
	case TypeMatching:
		lvl = &Matching{}
	case TypeWordPuzzle:
		lvl = &WordPuzzle{}
	case TypeMCQImage:
		lvl = &MCQImage{}
	case TypeMCQAudio:
		lvl = &MCQAudio{}
	case TypeMatchingImage:
		lvl = &MatchingImage{}
	default:
		return nil, fmt.Errorf("level %q: %w: %q", head.ID, ErrUnknownLevelType, head.Type)
	}

	if err := json.Unmarshal(raw, lvl); err != nil {
		return nil, fmt.Errorf("decode level %q: %w", head.ID, err)
	}
	return lvl, nil
}

// EncodeLevel encodes a level with its "type" discriminant.
func EncodeLevel(l Level) (json.RawMessage, error) {
	body, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	typ, _ := json.Marshal(l.Type())
	fields["type"] = typ
	return json.Marshal(fields)
}

type topicJSON struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Icon        string            `json:"icon,omitempty"`
	Category    string            `json:"category,omitempty"`
	Levels      []json.RawMessage `json:"levels"`
}

func (t *Topic) UnmarshalJSON(data []byte) error {
	var raw topicJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	levels := make([]Level, 0, len(raw.Levels))
	for i, r := range raw.Levels {
		lvl, err := DecodeLevel(r)
		if err != nil {
			return fmt.Errorf("topic %q level %d: %w", raw.ID, i, err)
		}
		levels = append(levels, lvl)
	}
	*t = Topic{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		Icon:        raw.Icon,
		Category:    raw.Category,
		Levels:      levels,
	}
	return nil
}

func (t Topic) MarshalJSON() ([]byte, error) {
	raw := topicJSON{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Icon:        t.Icon,
		Category:    t.Category,
		Levels:      make([]json.RawMessage, 0, len(t.Levels)),
	}
	for _, l := range t.Levels {
		enc, err := EncodeLevel(l)
		if err != nil {
			return nil, fmt.Errorf("encode level %q: %w", l.LevelID(), err)
		}
		raw.Levels = append(raw.Levels, enc)
	}
	return json.Marshal(raw)
}
