package content

import "fmt"

// LevelType is the discriminant of the Level union.
type LevelType string

const (
	TypeMCQ           LevelType = "MCQ"
	TypeYesNo         LevelType = "YES_NO"
	TypeMatching      LevelType = "MATCHING"
	TypeWordPuzzle    LevelType = "WORD_PUZZLE"
	TypeMCQImage      LevelType = "MCQ_IMAGE"
	TypeMCQAudio      LevelType = "MCQ_AUDIO"
	TypeMatchingImage LevelType = "MATCHING_IMAGE"
)

// LevelTypes lists every known level type in display order.
var LevelTypes = []LevelType{
	TypeMCQ, TypeYesNo, TypeMatching, TypeWordPuzzle,
	TypeMCQImage, TypeMCQAudio, TypeMatchingImage,
}

// DisplayName is the human-readable name of the level type.
func (t LevelType) DisplayName() string {
	switch t {
	case TypeMCQ:
		return "Multiple choice"
	case TypeYesNo:
		return "Yes or no"
	case TypeMatching:
		return "Matching"
	case TypeWordPuzzle:
		return "Word puzzle"
	case TypeMCQImage:
		return "Picture choice"
	case TypeMCQAudio:
		return "Listening"
	case TypeMatchingImage:
		return "Picture matching"
	default:
		return string(t)
	}
}

// Level is one self-contained puzzle. The set of implementations is closed:
// only the variant types in this package satisfy it.
type Level interface {
	LevelID() string
	Prompt() string
	Type() LevelType
	isLevel()
}

// IsNil reports whether l is nil or a nil pointer to one of the variants.
func IsNil(l Level) bool {
	switch l := l.(type) {
	case nil:
		return true
	case *MCQ:
		return l == nil
	case *MCQImage:
		return l == nil
	case *MCQAudio:
		return l == nil
	case *YesNo:
		return l == nil
	case *Matching:
		return l == nil
	case *MatchingImage:
		return l == nil
	case *WordPuzzle:
		return l == nil
	}
	return false
}

// Base holds the fields every level variant shares.
type Base struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

func (b Base) LevelID() string { return b.ID }
func (b Base) Prompt() string  { return b.Question }

// MCQ is a text multiple-choice question.
type MCQ struct {
	Base
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

func (*MCQ) Type() LevelType { return TypeMCQ }
func (*MCQ) isLevel()        {}

// MCQImage is a multiple-choice question about a picture.
type MCQImage struct {
	Base
	ImageURL      string   `json:"image_url"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

func (*MCQImage) Type() LevelType { return TypeMCQImage }
func (*MCQImage) isLevel()        {}

// MCQAudio is a multiple-choice question about a spoken phrase.
type MCQAudio struct {
	Base
	TextToSpeak   string   `json:"text_to_speak"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`

	// Language is an optional BCP 47 hint for speech. Empty means infer
	// from the script of TextToSpeak.
	Language string `json:"language,omitempty"`
}

func (*MCQAudio) Type() LevelType { return TypeMCQAudio }
func (*MCQAudio) isLevel()        {}

// YesNo is a true/false question.
type YesNo struct {
	Base
	CorrectAnswer bool `json:"correct_answer"`
}

func (*YesNo) Type() LevelType { return TypeYesNo }
func (*YesNo) isLevel()        {}

// Pair is one left/right couple of a matching level.
type Pair struct {
	ID    string `json:"id"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Matching asks the learner to connect left items to right items.
type Matching struct {
	Base
	Pairs []Pair `json:"pairs"`
}

func (*Matching) Type() LevelType { return TypeMatching }
func (*Matching) isLevel()        {}

// ImagePair couples a picture with its word.
type ImagePair struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
	Word     string `json:"word"`
}

// MatchingImage asks the learner to connect pictures to words.
type MatchingImage struct {
	Base
	Pairs []ImagePair `json:"pairs"`
}

func (*MatchingImage) Type() LevelType { return TypeMatchingImage }
func (*MatchingImage) isLevel()        {}

// WordPuzzle asks the learner to spell Word from a shuffled letter bank.
type WordPuzzle struct {
	Base
	ImageURL string `json:"image_url,omitempty"`
	Word     string `json:"word"`
}

func (*WordPuzzle) Type() LevelType { return TypeWordPuzzle }
func (*WordPuzzle) isLevel()        {}

// Topic is an ordered list of levels played as one quiz session.
type Topic struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Category    string  `json:"category,omitempty"`
	Levels      []Level `json:"-"`
}

// CheckBegin verifies the preconditions for starting a quiz session.
func (t *Topic) CheckBegin() error {
	if t == nil {
		return fmt.Errorf("topic is nil: %w", ErrEmptyTopic)
	}
	if len(t.Levels) == 0 {
		return fmt.Errorf("topic %q: %w", t.ID, ErrEmptyTopic)
	}
	return nil
}
