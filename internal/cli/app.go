package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/arsip/internal/logging"
	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/dmitrijs2005/arsip/internal/query"
	"github.com/dmitrijs2005/arsip/internal/services"
)

var errUsage = errors.New("wrong arguments, see help")

// App carries the REPL's dependencies and the current list filter. Its
// exported methods are the REPL commands.
type App struct {
	svc       *services.Services
	exportDir string
	criteria  query.Criteria
	reader    *bufio.Reader
	out       io.Writer
	log       logging.Logger
}

// NewApp returns an App reading commands from in and writing to out.
// Exports are written into exportDir.
func NewApp(svc *services.Services, exportDir string, in io.Reader, out io.Writer, log logging.Logger) *App {
	return &App{
		svc:       svc,
		exportDir: exportDir,
		criteria:  query.DefaultCriteria(),
		reader:    bufio.NewReader(in),
		out:       out,
		log:       log.With("module", "cli"),
	}
}

// Run starts the REPL. A session persisted by an earlier run is resumed.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to", a.svc.Users.AppTitle(), "(type 'help' for commands)")
	if u, ok := a.svc.Auth.Current(); ok {
		a.println("Resumed session of", u.FullName)
	}
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) status() string {
	u, ok := a.svc.Auth.Current()
	if !ok {
		return ""
	}
	s := fmt.Sprintf(" (%s %s)", u.Username, u.Role)
	if !a.criteria.IsDefault() {
		s += " [filtered]"
	}
	return s
}

func (a *App) actor() models.User {
	u, _ := a.svc.Auth.Current()
	return u
}

func (a *App) isLoggedIn() bool {
	_, ok := a.svc.Auth.Current()
	return ok
}

func (a *App) isAdmin() bool {
	u, ok := a.svc.Auth.Current()
	return ok && u.IsAdmin()
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func (a *App) ask(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) askDefault(prompt, def string) (string, error) {
	return GetWithDefault(a.reader, prompt, def, a.out)
}

func (a *App) confirm(prompt string) bool {
	return Confirm(a.reader, prompt, a.out)
}

func oneArg(args []string) (string, error) {
	if len(args) != 1 {
		return "", errUsage
	}
	return args[0], nil
}
