// ABOUTME: Reflection model: the journal entry attached to a completed day.
// ABOUTME: An empty reflection means "not done" when saved.
package models

import "strings"

// Reflection is the per-day journal entry for a practice.
type Reflection struct {
	Event          string `json:"event,omitempty" yaml:"event,omitempty"`
	Emotion        string `json:"emotion,omitempty" yaml:"emotion,omitempty"`
	Insight        string `json:"insight,omitempty" yaml:"insight,omitempty"`
	LimitingBelief string `json:"limiting_belief,omitempty" yaml:"limiting_belief,omitempty"`
	Reframe        string `json:"reframe,omitempty" yaml:"reframe,omitempty"`

	// Sub-practices performed that day.
	Meditation    bool `json:"meditation,omitempty" yaml:"meditation,omitempty"`
	SelfInquiry   bool `json:"self_inquiry,omitempty" yaml:"self_inquiry,omitempty"`
	Contemplation bool `json:"contemplation,omitempty" yaml:"contemplation,omitempty"`
}

// IsEmpty reports whether no text field has content and no flag is set.
func (r Reflection) IsEmpty() bool {
	for _, f := range r.fields() {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return !r.Meditation && !r.SelfInquiry && !r.Contemplation
}

// Normalize trims surrounding whitespace from every text field.
func (r Reflection) Normalize() Reflection {
	r.Event = strings.TrimSpace(r.Event)
	r.Emotion = strings.TrimSpace(r.Emotion)
	r.Insight = strings.TrimSpace(r.Insight)
	r.LimitingBelief = strings.TrimSpace(r.LimitingBelief)
	r.Reframe = strings.TrimSpace(r.Reframe)
	return r
}

// Flags lists the sub-practices marked as performed.
func (r Reflection) Flags() []PracticeType {
	var flags []PracticeType
	if r.Meditation {
		flags = append(flags, TypeMeditation)
	}
	if r.SelfInquiry {
		flags = append(flags, TypeSelfInquiry)
	}
	if r.Contemplation {
		flags = append(flags, TypeContemplation)
	}
	return flags
}

// SetFlag marks a sub-practice by type. Unknown types are ignored and
// reported as false.
func (r *Reflection) SetFlag(t PracticeType, on bool) bool {
	switch t {
	case TypeMeditation:
		r.Meditation = on
	case TypeSelfInquiry:
		r.SelfInquiry = on
	case TypeContemplation:
		r.Contemplation = on
	default:
		return false
	}
	return true
}

func (r Reflection) fields() []string {
	return []string{r.Event, r.Emotion, r.Insight, r.LimitingBelief, r.Reframe}
}
