package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/arsip/internal/ai"
	"github.com/dmitrijs2005/arsip/internal/app"
	"github.com/dmitrijs2005/arsip/internal/common"
	"github.com/dmitrijs2005/arsip/internal/logging"
	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/dmitrijs2005/arsip/internal/query"
	"golang.org/x/sync/singleflight"
)

// LetterService records and edits letters, and runs the AI summary and
// extraction helpers. Create and Update pause for the configured submit
// delay before committing.
type LetterService struct {
	state       *app.State
	ai          ai.Client
	submitDelay time.Duration
	now         func() time.Time
	log         logging.Logger

	summaries singleflight.Group
}

// NewLetterService returns a LetterService over state. client may be
// ai.Disabled.
func NewLetterService(state *app.State, client ai.Client, submitDelay time.Duration, log logging.Logger) *LetterService {
	return &LetterService{
		state:       state,
		ai:          client,
		submitDelay: submitDelay,
		now:         time.Now,
		log:         log.With("module", "letters"),
	}
}

// List returns the letters matching c, newest first.
func (s *LetterService) List(c query.Criteria) []models.Letter {
	return query.Filter(s.state.Letters(), c)
}

// Get returns the letter with id or common.ErrNotFound.
func (s *LetterService) Get(id string) (models.Letter, error) {
	return s.state.Letter(id)
}

// Stats summarises the whole collection for the dashboard.
func (s *LetterService) Stats() query.Stats {
	return query.Summarize(s.state.Letters())
}

// Save creates l when it has no id and updates the stored letter otherwise.
// Any signed-in user may create; only administrators may edit.
func (s *LetterService) Save(ctx context.Context, actor models.User, l models.Letter) (models.Letter, error) {
	if l.ID == "" {
		return s.Create(ctx, actor, l)
	}
	return s.Update(ctx, actor, l)
}

// Create assigns a fresh id to l, fills form defaults and derived tags,
// validates it and prepends it to the collection. Any signed-in user may
// create letters.
func (s *LetterService) Create(ctx context.Context, actor models.User, l models.Letter) (models.Letter, error) {
	if err := requireUser(actor); err != nil {
		return models.Letter{}, err
	}

	l.ApplyDefaults(s.now())
	l.DeriveTags()
	if err := l.Validate(); err != nil {
		return models.Letter{}, err
	}
	if err := models.CheckAttachment(l.Attachment); err != nil {
		return models.Letter{}, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	if err := sleep(ctx, s.submitDelay); err != nil {
		return models.Letter{}, err
	}

	for {
		l.ID = models.NewLetterID()
		err := s.state.AddLetter(ctx, l)
		if errors.Is(err, common.ErrDuplicateID) {
			continue
		}
		if err != nil {
			return models.Letter{}, err
		}
		break
	}

	s.log.Info(ctx, "letter created", "id", l.ID, "type", l.Type, "user_id", actor.ID)
	return l, nil
}

// Update replaces the stored letter with l. A summary generated for the
// previous content is dropped when the content changes.
func (s *LetterService) Update(ctx context.Context, actor models.User, l models.Letter) (models.Letter, error) {
	if err := requireAdmin(actor); err != nil {
		return models.Letter{}, err
	}

	prev, err := s.state.Letter(l.ID)
	if err != nil {
		return models.Letter{}, err
	}

	if l.EducationLevel == "" {
		l.EducationLevel = models.DefaultEducationLevel
	}
	if l.Content != prev.Content {
		l.AISummary = ""
	}
	l.DeriveTags()
	if err := l.Validate(); err != nil {
		return models.Letter{}, err
	}
	if err := models.CheckAttachment(l.Attachment); err != nil {
		return models.Letter{}, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	if err := sleep(ctx, s.submitDelay); err != nil {
		return models.Letter{}, err
	}

	if err := s.state.UpdateLetter(ctx, l); err != nil {
		return models.Letter{}, err
	}
	s.log.Info(ctx, "letter updated", "id", l.ID, "user_id", actor.ID)
	return l, nil
}

// Delete removes the letter with id. Admin only.
func (s *LetterService) Delete(ctx context.Context, actor models.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.state.DeleteLetter(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "letter deleted", "id", id, "user_id", actor.ID)
	return nil
}

// Summarize generates and stores an AI summary for the letter. Letters
// without content are returned unchanged. Concurrent requests for the same
// letter share one model call. If the letter is deleted while the call is
// in flight, the result is discarded and ErrNotFound returned. If its
// content was edited meanwhile, the result is discarded and the current
// letter returned as stored.
func (s *LetterService) Summarize(ctx context.Context, id string) (models.Letter, error) {
	l, err := s.state.Letter(id)
	if err != nil {
		return models.Letter{}, err
	}
	if l.Content == "" {
		return l, nil
	}

	v, err, shared := s.summaries.Do(id, func() (any, error) {
		summary := s.ai.Summarize(ctx, l.Content)

		current, err := s.state.Letter(id)
		if err != nil {
			s.log.Info(ctx, "letter gone before summary arrived", "id", id)
			return models.Letter{}, err
		}
		if current.Content != l.Content {
			s.log.Info(ctx, "letter edited before summary arrived, dropping it", "id", id)
			return current, nil
		}
		current.AISummary = summary
		if err := s.state.UpdateLetter(ctx, current); err != nil {
			return models.Letter{}, err
		}
		return current, nil
	})
	if err != nil {
		return models.Letter{}, err
	}
	if shared {
		s.log.Debug(ctx, "summary request collapsed", "id", id)
	}
	return v.(models.Letter), nil
}

// ExtractFromAttachment asks the model to read draft.Attachment and merges
// every non-empty field it finds into draft. draft is not persisted.
func (s *LetterService) ExtractFromAttachment(ctx context.Context, draft models.Letter) (models.Letter, error) {
	mime, payload, err := models.ParseDataURL(draft.Attachment)
	if err != nil {
		return draft, err
	}

	fields, err := s.ai.ExtractFromImage(ctx, payload, mime)
	if err != nil {
		return draft, fmt.Errorf("extract: %w", err)
	}
	if fields.IsEmpty() {
		s.log.Info(ctx, "nothing extracted from attachment", "mime", mime)
	}
	fields.MergeInto(&draft)
	return draft, nil
}

// ExtractFromText merges fields recognised in text into draft.
func (s *LetterService) ExtractFromText(ctx context.Context, draft models.Letter, text string) (models.Letter, error) {
	fields, err := s.ai.ExtractFromText(ctx, text)
	if err != nil {
		return draft, fmt.Errorf("extract: %w", err)
	}
	if fields.IsEmpty() {
		s.log.Info(ctx, "nothing extracted from text", "chars", len(text))
	}
	fields.MergeInto(&draft)
	return draft, nil
}

// AIEnabled reports whether AI features are available.
func (s *LetterService) AIEnabled() bool {
	return s.ai.Enabled()
}
