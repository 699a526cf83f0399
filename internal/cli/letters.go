package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/arsip/internal/filex"
	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/dmitrijs2005/arsip/internal/query"
)

func (a *App) List(_ context.Context, _ []string) error {
	letters := a.svc.Letters.List(a.criteria)
	if len(letters) == 0 {
		a.println("No letters found")
		return nil
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tDATE\tTYPE\tNUMBER\tTITLE\tFROM/TO\tCATEGORY")
	for _, l := range letters {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.Date, l.Type, l.Number, l.Title, l.OtherParty(), l.Category)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	a.println(len(letters), "letter(s)")
	return nil
}

// Filter sets criteria from key=value arguments (q, type, category, from,
// to). Keys not given keep their value; with no arguments the current
// criteria are printed.
func (a *App) Filter(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c := a.criteria
		a.println(fmt.Sprintf("q=%q type=%s category=%s from=%s to=%s", c.Text, c.Type, c.Category, c.DateFrom, c.DateTo))
		return nil
	}

	next := a.criteria
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return errUsage
		}
		switch k {
		case "q":
			next.Text = v
		case "type":
			next.Type = strings.ToUpper(v)
		case "category":
			next.Category = v
		case "from":
			next.DateFrom = v
		case "to":
			next.DateTo = v
		default:
			return fmt.Errorf("unknown filter %q", k)
		}
	}
	a.criteria = next
	return a.List(ctx, nil)
}

func (a *App) Reset(_ context.Context, _ []string) error {
	a.criteria = query.DefaultCriteria()
	a.println("Filters cleared")
	return nil
}

func (a *App) Show(_ context.Context, args []string) error {
	id, err := oneArg(args)
	if err != nil {
		return err
	}
	l, err := a.svc.Letters.Get(id)
	if err != nil {
		return err
	}

	tw := a.table()
	row := func(k, v string) { fmt.Fprintf(tw, "%s:\t%s\n", k, v) }
	row("ID", l.ID)
	row("Number", l.Number)
	row("Title", l.Title)
	row("Type", string(l.Type))
	row("Sender", l.Sender)
	row("Receiver", l.Receiver)
	row("Date", l.Date)
	row("Category", l.Category)
	row("Education level", l.EducationLevel)
	row("Tags", strings.Join(l.Tags, ", "))
	row("Description", l.Description)
	if l.Attachment != "" {
		mime, _, _ := models.ParseDataURL(l.Attachment)
		row("Attachment", mime)
	}
	if l.AISummary != "" {
		row("AI summary", l.AISummary)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if l.Content != "" {
		a.println("\n" + l.Content)
	}
	return nil
}

// Add walks through the letter form. When an attachment is given and AI is
// available, the fields it recognises are offered as defaults.
func (a *App) Add(ctx context.Context, _ []string) error {
	var draft models.Letter

	path, err := a.ask("Attachment file (image or PDF, empty for none)")
	if err != nil {
		return err
	}
	if path != "" {
		if draft.Attachment, err = filex.ReadAttachment(path); err != nil {
			return err
		}
		if a.svc.Letters.AIEnabled() && a.confirm("Fill the form from the attachment with AI?") {
			a.println("Analysing document...")
			if draft, err = a.svc.Letters.ExtractFromAttachment(ctx, draft); err != nil {
				a.println("AI extraction failed:", err)
			}
		}
	}

	return a.saveFromForm(ctx, draft)
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := oneArg(args)
	if err != nil {
		return err
	}
	l, err := a.svc.Letters.Get(id)
	if err != nil {
		return err
	}
	return a.saveFromForm(ctx, l)
}

func (a *App) saveFromForm(ctx context.Context, l models.Letter) error {
	if err := a.letterForm(&l); err != nil {
		return err
	}

	a.println("Saving...")
	saved, err := a.svc.Letters.Save(ctx, a.actor(), l)
	if err != nil {
		return err
	}
	a.println("Saved letter", saved.ID)
	return nil
}

func (a *App) letterForm(l *models.Letter) error {
	if l.Type == "" {
		l.Type = models.LetterIncoming
	}
	if l.Date == "" {
		l.Date = time.Now().Format(models.DateLayout)
	}
	if l.Category == "" {
		l.Category = models.DefaultCategory
	}
	if l.EducationLevel == "" {
		l.EducationLevel = models.DefaultEducationLevel
	}

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Number", &l.Number},
		{"Title", &l.Title},
		{"Sender", &l.Sender},
		{"Receiver", &l.Receiver},
		{"Date (YYYY-MM-DD)", &l.Date},
		{"Category (" + strings.Join(models.Categories, ", ") + ")", &l.Category},
		{"Education level (" + strings.Join(models.EducationLevels, ", ") + ")", &l.EducationLevel},
		{"Description", &l.Description},
	}

	typ, err := a.askDefault("Type (MASUK/KELUAR)", string(l.Type))
	if err != nil {
		return err
	}
	l.Type = models.LetterType(strings.ToUpper(typ))

	for _, f := range fields {
		v, err := a.askDefault(f.prompt, *f.dst)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	prompt := "Content"
	if l.Content != "" {
		prompt += " (empty keeps the current text)"
	}
	content, err := GetMultiline(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if content != "" {
		l.Content = content
	}
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := oneArg(args)
	if err != nil {
		return err
	}
	l, err := a.svc.Letters.Get(id)
	if err != nil {
		return err
	}
	if !a.confirm(fmt.Sprintf("Delete %s %q?", l.Number, l.Title)) {
		a.println("Cancelled")
		return nil
	}
	if err := a.svc.Letters.Delete(ctx, a.actor(), id); err != nil {
		return err
	}
	a.println("Deleted")
	return nil
}

func (a *App) Summarize(ctx context.Context, args []string) error {
	id, err := oneArg(args)
	if err != nil {
		return err
	}
	a.println("Asking AI...")
	l, err := a.svc.Letters.Summarize(ctx, id)
	if err != nil {
		return err
	}
	if l.AISummary == "" {
		a.println("Letter has no content to summarize")
		return nil
	}
	a.println(l.AISummary)
	return nil
}

// Extract reads metadata from a file: plain text goes to text extraction,
// images and PDFs to document analysis. The result can be saved as a new
// letter.
func (a *App) Extract(ctx context.Context, args []string) error {
	path, err := oneArg(args)
	if err != nil {
		return err
	}

	var draft models.Letter
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		text, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		draft, err = a.svc.Letters.ExtractFromText(ctx, draft, string(text))
		if err != nil {
			return err
		}
	} else {
		if draft.Attachment, err = filex.ReadAttachment(path); err != nil {
			return err
		}
		if draft, err = a.svc.Letters.ExtractFromAttachment(ctx, draft); err != nil {
			return err
		}
	}

	tw := a.table()
	for _, kv := range [][2]string{
		{"Number", draft.Number}, {"Title", draft.Title}, {"Sender", draft.Sender},
		{"Receiver", draft.Receiver}, {"Date", draft.Date}, {"Category", draft.Category},
	} {
		fmt.Fprintf(tw, "%s:\t%s\n", kv[0], kv[1])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if !a.confirm("Save as a new letter?") {
		return nil
	}
	return a.saveFromForm(ctx, draft)
}

func (a *App) Stats(_ context.Context, _ []string) error {
	st := a.svc.Letters.Stats()

	tw := a.table()
	fmt.Fprintf(tw, "Total:\t%d\n", st.Total)
	fmt.Fprintf(tw, "Incoming (MASUK):\t%d\n", st.Masuk)
	fmt.Fprintf(tw, "Outgoing (KELUAR):\t%d\n", st.Keluar)
	for _, c := range st.Categories {
		fmt.Fprintf(tw, "  %s\t%d\n", c.Category, c.Count)
	}
	return tw.Flush()
}
