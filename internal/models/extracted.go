package models

// ExtractedFields holds what AI extraction recognised in a letter. Empty
// strings mean "not extracted".
type ExtractedFields struct {
	Number   string `json:"number,omitempty"`
	Title    string `json:"title,omitempty"`
	Sender   string `json:"sender,omitempty"`
	Receiver string `json:"receiver,omitempty"`
	Date     string `json:"date,omitempty"`
	Category string `json:"category,omitempty"`
	Content  string `json:"content,omitempty"`
}

// IsEmpty reports whether nothing was extracted.
func (e ExtractedFields) IsEmpty() bool {
	return e == ExtractedFields{}
}

// MergeInto copies every non-empty extracted value onto l, leaving the
// remaining fields untouched.
func (e ExtractedFields) MergeInto(l *Letter) {
	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&l.Number, e.Number)
	pick(&l.Title, e.Title)
	pick(&l.Sender, e.Sender)
	pick(&l.Receiver, e.Receiver)
	pick(&l.Date, e.Date)
	pick(&l.Category, e.Category)
	pick(&l.Content, e.Content)
}
