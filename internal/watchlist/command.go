package watchlist

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/seenimoa/marketsnap/pkg/utils"
)

// Action is a watchlist mutation.
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

var (
	// ErrInvalidCommand is returned when the action or symbol is missing or unknown.
	ErrInvalidCommand = errors.New("invalid watchlist command")
	// ErrNotAllowed is returned when the symbol is not on the allow-list.
	ErrNotAllowed = errors.New("symbol not in allow-list")
)

// Command is a parsed request such as "action:add / symbol:TSLA".
type Command struct {
	Action Action
	Symbol string
}

// ParseCommand reads "key:value" lines from free text. Keys are
// case-insensitive, the action is lowercased and the symbol uppercased.
// Lines without a colon are ignored; later keys win.
func ParseCommand(body string) Command {
	fields := make(map[string]string)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		fields[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return Command{
		Action: Action(strings.ToLower(fields["action"])),
		Symbol: utils.NormalizeSymbol(fields["symbol"]),
	}
}

// Validate checks that the command names a known action and a symbol.
func (c Command) Validate() error {
	if c.Action != ActionAdd && c.Action != ActionRemove {
		return fmt.Errorf("%w: action must be add or remove, got %q", ErrInvalidCommand, c.Action)
	}
	if c.Symbol == "" {
		return fmt.Errorf("%w: symbol is required", ErrInvalidCommand)
	}
	return nil
}

// Result describes an applied command.
type Result struct {
	Command Command
	Changed bool     // false when the command was a no-op
	Symbols []string // watchlist after the command, sorted
}

// Processor applies commands to a watchlist file.
type Processor struct {
	watchlist *File
	allowed   *File
	log       zerolog.Logger
}

// NewProcessor returns a Processor mutating watchlist and checking allowed.
func NewProcessor(watchlist, allowed *File, log zerolog.Logger) *Processor {
	return &Processor{watchlist: watchlist, allowed: allowed, log: log}
}

// Apply validates cmd and persists the resulting watchlist. Adding a present
// symbol or removing an absent one leaves the set unchanged.
func (p *Processor) Apply(cmd Command) (*Result, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	allowed, err := p.allowed.Read()
	if err != nil {
		return nil, fmt.Errorf("load allow-list: %w", err)
	}
	if !slices.Contains(allowed, cmd.Symbol) {
		return nil, fmt.Errorf("%w: %s", ErrNotAllowed, cmd.Symbol)
	}

	current, err := p.watchlist.Read()
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	set := make(map[string]struct{}, len(current)+1)
	for _, s := range current {
		set[s] = struct{}{}
	}

	_, present := set[cmd.Symbol]
	changed := false
	switch cmd.Action {
	case ActionAdd:
		if !present {
			set[cmd.Symbol] = struct{}{}
			changed = true
		}
	case ActionRemove:
		if present {
			delete(set, cmd.Symbol)
			changed = true
		}
	}

	next := make([]string, 0, len(set))
	for s := range set {
		next = append(next, s)
	}
	sort.Strings(next)

	if err := p.watchlist.Write(next); err != nil {
		return nil, err
	}
	p.log.Info().
		Str("action", string(cmd.Action)).
		Str("symbol", cmd.Symbol).
		Bool("changed", changed).
		Int("size", len(next)).
		Msg("watchlist updated")

	return &Result{Command: cmd, Changed: changed, Symbols: next}, nil
}
