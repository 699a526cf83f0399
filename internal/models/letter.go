package models

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/arsip/internal/common"
)

// LetterType is the direction of a piece of correspondence.
type LetterType string

const (
	LetterIncoming LetterType = "MASUK"
	LetterOutgoing LetterType = "KELUAR"
)

func (t LetterType) Valid() bool {
	return t == LetterIncoming || t == LetterOutgoing
}

// DateLayout is the fixed-width date format used in Letter.Date.
const DateLayout = "2006-01-02"

const (
	DefaultCategory       = "Dinas"
	DefaultEducationLevel = "Umum"
	letterIDLen           = 9
)

// Categories lists the values offered for Letter.Category. Storage accepts
// any string.
var Categories = []string{"Dinas", "Pribadi", "Undangan", "Pemberitahuan", "Rahasia", "Niaga", "Lainnya"}

// EducationLevels lists the values offered for Letter.EducationLevel.
var EducationLevels = []string{"Umum", "PAUD", "SD", "SMP", "SMA/SMK", "Pendidikan Non Formal"}

// Letter is one archived piece of correspondence.
type Letter struct {
	ID             string     `json:"id"`
	Number         string     `json:"number"`
	Title          string     `json:"title"`
	Sender         string     `json:"sender"`
	Receiver       string     `json:"receiver"`
	Date           string     `json:"date"`
	Category       string     `json:"category"`
	Type           LetterType `json:"type"`
	Description    string     `json:"description"`
	Content        string     `json:"content"`
	AISummary      string     `json:"aiSummary,omitempty"`
	Tags           []string   `json:"tags"`
	Attachment     string     `json:"attachment,omitempty"`
	EducationLevel string     `json:"educationLevel,omitempty"`
}

// NewLetterID returns a random 9-character base-36 id.
func NewLetterID() string {
	return common.NewBase36ID(letterIDLen)
}

// OtherParty is the correspondent shown in listings: the sender of an
// incoming letter, the receiver of an outgoing one.
func (l Letter) OtherParty() string {
	if l.Type == LetterOutgoing {
		return l.Receiver
	}
	return l.Sender
}

// ApplyDefaults fills the fields a fresh letter form starts with.
func (l *Letter) ApplyDefaults(now time.Time) {
	if l.Type == "" {
		l.Type = LetterIncoming
	}
	if l.Category == "" {
		l.Category = DefaultCategory
	}
	if l.EducationLevel == "" {
		l.EducationLevel = DefaultEducationLevel
	}
	if l.Date == "" {
		l.Date = now.Format(DateLayout)
	}
}

// DeriveTags rebuilds Tags from the category and education level.
func (l *Letter) DeriveTags() {
	l.Tags = []string{strings.ToLower(l.Category), strings.ToLower(l.EducationLevel)}
}

// Validate performs the input-layer checks applied before a letter is saved.
func (l Letter) Validate() error {
	var problems []string

	if strings.TrimSpace(l.Number) == "" {
		problems = append(problems, "number is required")
	}
	if strings.TrimSpace(l.Title) == "" {
		problems = append(problems, "title is required")
	}
	if !l.Type.Valid() {
		problems = append(problems, fmt.Sprintf("type must be %s or %s", LetterIncoming, LetterOutgoing))
	} else if strings.TrimSpace(l.OtherParty()) == "" {
		if l.Type == LetterIncoming {
			problems = append(problems, "sender is required")
		} else {
			problems = append(problems, "receiver is required")
		}
	}
	if _, err := time.Parse(DateLayout, l.Date); err != nil {
		problems = append(problems, "date must be YYYY-MM-DD")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", common.ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// Clone returns a deep copy of l.
func (l Letter) Clone() Letter {
	l.Tags = slices.Clone(l.Tags)
	return l
}
