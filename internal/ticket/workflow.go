package ticket

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/seenimoa/marketsnap/internal/watchlist"
)

const usageMessage = "⚠️ Invalid format.\n\nExample:\n\naction:add\nsymbol:TSLA\n\n(action is add or remove, symbol is an uppercase ticker)"

// HandleIssue reads a watchlist command from the issue, applies it and
// reports the outcome as a comment before closing the issue. Invalid and
// disallowed commands are answered and return nil. Any other failure is
// reported on a best-effort basis and returned.
func HandleIssue(ctx context.Context, r Reporter, p *watchlist.Processor, log zerolog.Logger) error {
	msg, err := process(ctx, r, p)
	if err != nil {
		log.Error().Err(err).Msg("watchlist command failed")
		if cerr := r.Comment(ctx, fmt.Sprintf("❌ Error while processing: %v", err)); cerr != nil {
			log.Warn().Err(cerr).Msg("could not report failure")
		}
		if cerr := r.Close(ctx); cerr != nil {
			log.Warn().Err(cerr).Msg("could not close issue")
		}
		return err
	}

	if err := r.Comment(ctx, msg); err != nil {
		return err
	}
	return r.Close(ctx)
}

// process returns the reply for the issue, or an error that should be
// surfaced to the caller.
func process(ctx context.Context, r Reporter, p *watchlist.Processor) (string, error) {
	body, err := r.Body(ctx)
	if err != nil {
		return "", err
	}
	cmd := watchlist.ParseCommand(body)

	res, err := p.Apply(cmd)
	switch {
	case errors.Is(err, watchlist.ErrInvalidCommand):
		return usageMessage, nil
	case errors.Is(err, watchlist.ErrNotAllowed):
		return fmt.Sprintf("❌ **%s** is not in the allow-list, so it cannot be added or removed.", cmd.Symbol), nil
	case err != nil:
		return "", err
	}
	return formatResult(res), nil
}

func formatResult(res *watchlist.Result) string {
	list := strings.Join(res.Symbols, ", ")
	if list == "" {
		list = "(empty)"
	}
	return fmt.Sprintf("✅ Watchlist updated: **%s %s**\n\nCurrent list: %s", res.Command.Action, res.Command.Symbol, list)
}
