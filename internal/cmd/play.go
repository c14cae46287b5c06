package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/mvg01/liargame/internal/config"
	"github.com/mvg01/liargame/internal/engine"
	"github.com/mvg01/liargame/internal/game"
	"github.com/mvg01/liargame/internal/models"
	"github.com/mvg01/liargame/internal/observability"
	"github.com/mvg01/liargame/internal/prompts"
	"github.com/mvg01/liargame/internal/render"
	"github.com/mvg01/liargame/internal/topics"
)

var (
	playOffline  bool
	playKeyword  string
	playCategory string
)

const playLong = `Play one game in the terminal. Type to speak when it is your turn.

Commands at your prompt:
  /vote ai_N   end the discussion and vote for ai_N
  /history     print the conversation so far
  /quit        leave the game`

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one game in the terminal",
	Long:  playLong,
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playOffline, "offline", false, "use canned agent lines instead of a language model")
	playCmd.Flags().StringVar(&playKeyword, "keyword", "", "secret keyword (random when empty)")
	playCmd.Flags().StringVar(&playCategory, "category", "", "category of the keyword")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(func(c *config.Config) {
		if playOffline {
			c.LLM.Provider = "offline"
		}
		c.Store.Backend = "memory"
		c.Store.SessionTTL = 0
	})
	if err != nil {
		return err
	}

	// Logs would interleave with the game, so only warnings go to stderr.
	logger := observability.NewLogger(os.Stderr, "warn", cfg.Log.Format)

	ctx := cmd.Context()
	completer, err := buildCompleter(ctx, cfg.LLM)
	if err != nil {
		return err
	}
	be, err := buildBackend(cfg.Store, cfg.LLM.CallTimeout, logger)
	if err != nil {
		return err
	}
	defer be.Close()

	catalog, err := topics.Load(cfg.Game.TopicsFile)
	if err != nil {
		return err
	}
	eng := engine.New(be.store, be.locker, completer, catalog, engine.Options{
		HistoryWindow: cfg.Game.MaxHistoryLength,
		CallTimeout:   cfg.LLM.CallTimeout,
		Narrator:      cfg.Game.Narrator,
		Logger:        logger,
	})

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	p := &player{eng: eng, in: line, out: cmd.OutOrStdout(), history: line.AppendHistory}
	return p.play(ctx, uuid.NewString(), playKeyword, playCategory)
}

// lineReader is the part of a line editor the game loop needs
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// player drives one terminal game
type player struct {
	eng     *engine.Engine
	in      lineReader
	out     io.Writer
	history func(string)
}

func (p *player) play(ctx context.Context, id, keyword, category string) error {
	if _, err := p.eng.CreateSession(ctx, id, keyword, category); err != nil {
		return err
	}
	st, err := p.eng.Status(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, render.Briefing(st))
	p.narrate(ctx, id, prompts.EventGameStart)

	for {
		st, err := p.eng.Status(ctx, id)
		if err != nil {
			return err
		}
		if st.Phase != models.PhaseInProgress {
			return nil
		}

		if st.CurrentSpeaker != models.HumanID {
			res, err := p.eng.TakeTurn(ctx, id, "")
			if err != nil {
				return err
			}
			p.printTurn(res)
			continue
		}

		input, err := p.in.Prompt(render.Prompt(st) + " > ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out, "bye")
			return nil
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if p.history != nil {
			p.history(input)
		}

		done, err := p.handle(ctx, id, st, input)
		if err != nil || done {
			return err
		}
	}
}

// handle runs one line of human input; done reports that the game is over
func (p *player) handle(ctx context.Context, id string, st *models.Status, input string) (bool, error) {
	switch {
	case input == "/quit":
		fmt.Fprintln(p.out, "bye")
		return true, nil
	case input == "/history":
		fmt.Fprint(p.out, render.Transcript(st.History))
		return false, nil
	case input == "/help":
		fmt.Fprintln(p.out, playLong)
		return false, nil
	case strings.HasPrefix(input, "/vote"):
		return p.vote(ctx, id, strings.TrimSpace(strings.TrimPrefix(input, "/vote")))
	case strings.HasPrefix(input, "/"):
		fmt.Fprintf(p.out, "unknown command %s (try /help)\n", input)
		return false, nil
	}

	res, err := p.eng.TakeTurn(ctx, id, input)
	if err != nil {
		return false, err
	}
	p.printTurn(res)
	return false, nil
}

func (p *player) vote(ctx context.Context, id, suspect string) (bool, error) {
	res, err := p.eng.ResolveVotes(ctx, id, suspect)
	if errors.Is(err, game.ErrInvalidVote) {
		fmt.Fprintf(p.out, "vote for one of %s\n", strings.Join(models.AgentIDs(), ", "))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	fmt.Fprint(p.out, render.VoteSummary(res))
	if !res.LiarCaught {
		return true, nil
	}

	guess, err := p.eng.ImpostorGuess(ctx, id)
	if err != nil {
		return false, err
	}
	fmt.Fprint(p.out, render.GuessSummary(guess))
	return true, nil
}

func (p *player) printTurn(res *models.TurnResult) {
	if res.Speaker != models.HumanID {
		fmt.Fprintln(p.out, render.Line(models.Message{
			Speaker:  res.Speaker,
			Content:  res.Content,
			Degraded: res.Degraded,
		}))
	}
	if res.Commentary != "" {
		fmt.Fprintf(p.out, "  (host) %s\n", res.Commentary)
	}
}

func (p *player) narrate(ctx context.Context, id string, ev prompts.Event) {
	if !p.eng.NarratorEnabled() {
		return
	}
	text, err := p.eng.Narrate(ctx, id, ev)
	if err == nil && text != "" {
		fmt.Fprintf(p.out, "  (host) %s\n", text)
	}
}
