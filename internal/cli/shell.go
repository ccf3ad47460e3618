package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/liftnav/internal/logging"
	"github.com/aretw0/liftnav/internal/presentation/tui"
	"github.com/aretw0/liftnav/pkg/domain"
	"github.com/aretw0/liftnav/pkg/ports"
)

const shellHelp = `Commands:
  open <kind> [id] [lift=ID] [variation=ID] [set=ID]   push a page
  goto <kind> [id] [...]                               jump to an open page
  index <n>                                            show the page at index n
  back [--hard]                                        go back one page (exits at the root)
  home [--hard]                                        return to the root page
  reset <kind> [id] [...]                              replace the history with one page
  pages                                                list open pages
  help                                                 show this help
  quit                                                 leave
Kinds: dashboard, lift_details, edit_lift, variation_details, edit_variation, edit_set, settings`

// Shell is an interactive line-oriented host for a Navigator.
type Shell struct {
	nav     ports.Navigator
	in      io.Reader
	out     io.Writer
	render  tui.Renderer
	profile termenv.Profile
	logger  *slog.Logger
}

// ShellOption configures a Shell.
type ShellOption func(*Shell)

// WithIO sets the shell input and output.
func WithIO(in io.Reader, out io.Writer) ShellOption {
	return func(s *Shell) {
		s.in = in
		s.out = out
	}
}

// WithRenderer sets the page renderer and the tab bar colour profile.
func WithRenderer(r tui.Renderer, p termenv.Profile) ShellOption {
	return func(s *Shell) {
		s.render = r
		s.profile = p
	}
}

// WithShellLogger sets the shell logger.
func WithShellLogger(logger *slog.Logger) ShellOption {
	return func(s *Shell) {
		s.logger = logger
	}
}

// NewShell creates a shell driving nav. Without options it reads nothing,
// writes nowhere and renders plain markdown.
func NewShell(nav ports.Navigator, opts ...ShellOption) *Shell {
	s := &Shell{
		nav:     nav,
		in:      strings.NewReader(""),
		out:     io.Discard,
		render:  func(md string) (string, error) { return md, nil },
		profile: termenv.Ascii,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run shows the current page and executes commands until quit, back at the root,
// end of input or ctx cancellation.
func (s *Shell) Run(ctx context.Context) error {
	s.show()

	scanner := bufio.NewScanner(NewInterruptibleReader(s.in, ctx.Done()))
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			err := scanner.Err()
			if err == nil || isInterrupted(err) {
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("failed to read command: %w", err)
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		exit, err := s.Exec(line)
		if err != nil {
			printSystemMessage(s.out, "%v", err)
			continue
		}
		if exit {
			return nil
		}
	}
}

// Exec runs one command line and reports whether the shell should exit.
func (s *Shell) Exec(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	s.logger.Debug("shell command", "cmd", cmd, "args", args)

	switch cmd {
	case "open":
		d, err := parseDestination(args)
		if err != nil {
			return false, err
		}
		s.nav.Present(d, true)

	case "goto":
		d, err := parseDestination(args)
		if err != nil {
			return false, err
		}
		if !s.nav.NavigateTo(d) {
			return false, fmt.Errorf("%s is not open", d)
		}

	case "index":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: index <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("index must be a number: %q", args[0])
		}
		if err := s.nav.UpdateCurrentIndex(n); err != nil {
			return false, err
		}

	case "back":
		hard, err := hardFlag(args)
		if err != nil {
			return false, err
		}
		if !s.nav.OnBackPressed(!hard) {
			printSystemMessage(s.out, "At the root page, leaving.")
			return true, nil
		}

	case "home":
		hard, err := hardFlag(args)
		if err != nil {
			return false, err
		}
		if !s.nav.PopToRoot(!hard) {
			printSystemMessage(s.out, "Already at the root page.")
			return false, nil
		}

	case "reset":
		d, err := parseDestination(args)
		if err != nil {
			return false, err
		}
		s.nav.SetRoot(d)

	case "pages":
		s.listPages()
		return false, nil

	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
		return false, nil

	case "quit", "exit", "q":
		return true, nil

	default:
		return false, fmt.Errorf("unknown command %q (try help)", cmd)
	}

	s.show()
	return false, nil
}

func (s *Shell) show() {
	state := s.nav.State()
	md := tui.Describe(state)
	out, err := s.render(md)
	if err != nil {
		s.logger.Warn("render failed", "err", err)
		out = md
	}
	fmt.Fprintln(s.out, tui.TabBar(state, s.profile))
	fmt.Fprint(s.out, out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprintln(s.out)
	}
}

func (s *Shell) listPages() {
	state := s.nav.State()
	for i, d := range state.Stack {
		marker := " "
		if i == state.CurrentIndex {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %d %s\n", marker, i, d)
	}
}

func hardFlag(args []string) (bool, error) {
	switch {
	case len(args) == 0:
		return false, nil
	case len(args) == 1 && args[0] == "--hard":
		return true, nil
	default:
		return false, fmt.Errorf("unexpected arguments %v", args)
	}
}

// primaryField names the identifier a bare positional id fills for each kind.
var primaryField = map[domain.Kind]string{
	domain.KindLiftDetails:      "lift_id",
	domain.KindEditLift:         "lift_id",
	domain.KindVariationDetails: "variation_id",
	domain.KindEditVariation:    "variation_id",
	domain.KindEditSet:          "set_id",
}

// parseDestination reads "<kind> [id] [key=value ...]" into a destination.
func parseDestination(args []string) (domain.Destination, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing destination kind")
	}
	kind := domain.Kind(strings.ToLower(args[0]))
	m := map[string]any{"kind": string(kind)}

	for _, arg := range args[1:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			field, known := primaryField[kind]
			if !known {
				return nil, fmt.Errorf("%s takes no identifier", kind)
			}
			m[field] = arg
			continue
		}
		if !strings.HasSuffix(key, "_id") {
			key += "_id"
		}
		m[key] = value
	}
	return domain.DecodeMap(m)
}
