package stages

import (
	"errors"
	"fmt"
	"strings"
)

// Count is the fixed number of analysis stages.
const Count = 12

// MaxTextLength bounds the input text substituted into any prompt.
const MaxTextLength = 4000

// TruncationMarker is appended to text cut at MaxTextLength.
const TruncationMarker = "..."

// ErrStageOutOfRange is returned for an index outside [0, Count).
var ErrStageOutOfRange = errors.New("stage index out of range")

// Stage is one step of the legal analysis sequence.
type Stage struct {
	Index       int      `json:"index"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	KeyPoints   []string `json:"key_points"`

	instruction string
}

// Prompt renders the stage prompt around the (possibly truncated) text.
func (s Stage) Prompt(text string) string {
	return render(s.Name, s.instruction, s.KeyPoints, Truncate(text))
}

// All returns a copy of the catalog in stage order.
func All() []Stage {
	out := make([]Stage, len(catalog))
	for i, s := range catalog {
		s.KeyPoints = append([]string(nil), s.KeyPoints...)
		out[i] = s
	}
	return out
}

// Names returns the stage names in order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, s := range catalog {
		names[i] = s.Name
	}
	return names
}

// ByIndex looks up a stage by its zero-based index.
func ByIndex(i int) (Stage, error) {
	if i < 0 || i >= len(catalog) {
		return Stage{}, fmt.Errorf("%w: %d (must be between 0 and %d)", ErrStageOutOfRange, i, len(catalog)-1)
	}
	s := catalog[i]
	s.KeyPoints = append([]string(nil), s.KeyPoints...)
	return s, nil
}

// ByName looks up a stage by its exact name.
func ByName(name string) (Stage, bool) {
	for _, s := range catalog {
		if s.Name == name {
			return s, true
		}
	}
	return Stage{}, false
}

// GetPrompt renders the prompt for the named stage. Unknown names fall back
// to a generic instruction built from the name itself.
func GetPrompt(name, text string) string {
	if s, ok := ByName(name); ok {
		return s.Prompt(text)
	}
	return render(name, genericInstruction, nil, Truncate(text))
}

// Truncate cuts text to MaxTextLength runes and appends TruncationMarker.
func Truncate(text string) string {
	r := []rune(text)
	if len(r) <= MaxTextLength {
		return text
	}
	return string(r[:MaxTextLength]) + TruncationMarker
}

func render(name, instruction string, keyPoints []string, text string) string {
	var b strings.Builder
	b.WriteString("أنت خبير قانوني متخصص. قم بتحليل النص القانوني التالي في إطار ")
	b.WriteString(name)
	b.WriteString(".\n\n")
	b.WriteString("النص القانوني:\n")
	b.WriteString(text)
	b.WriteString("\n\n")
	b.WriteString("المطلوب:\n")
	b.WriteString(instruction)
	b.WriteString("\n")
	if len(keyPoints) > 0 {
		b.WriteString("\nركز على النقاط التالية:\n")
		for i, p := range keyPoints {
			fmt.Fprintf(&b, "%d. %s\n", i+1, p)
		}
	}
	b.WriteString("\nقدم تحليلاً منظماً وواضحاً باللغة العربية مع الإشارة إلى المواد والنصوص ذات الصلة كلما أمكن.")
	return b.String()
}
