package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/metrofocus/internal/catalog"
	"github.com/abhisek/metrofocus/internal/game"
	"github.com/abhisek/metrofocus/internal/session"
	"github.com/abhisek/metrofocus/internal/ui/components"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a focus session",
}

var playStandardCmd = &cobra.Command{
	Use:   "standard",
	Short: "Run a citizen session in a region",
	RunE: func(cmd *cobra.Command, args []string) error {
		region, _ := cmd.Flags().GetString("region")
		minutes, _ := cmd.Flags().GetInt("minutes")
		if _, ok := catalog.LookupRegion(game.RegionID(region)); !ok {
			return fmt.Errorf("unknown region %q (see `metrofocus regions`)", region)
		}
		return runPlay(cmd, func(ctx context.Context, e *session.Engine) (session.State, error) {
			return e.StartStandard(ctx, game.RegionID(region), minutes)
		})
	},
}

var playCaseCmd = &cobra.Command{
	Use:   "case",
	Short: "Work a three-stage ZPD case",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, func(ctx context.Context, e *session.Engine) (session.State, error) {
			return e.StartMultiStage(ctx)
		})
	},
}

var playHustleCmd = &cobra.Command{
	Use:   "hustle",
	Short: "Stake bucks on finishing a Sahara Square hustle",
	RunE: func(cmd *cobra.Command, args []string) error {
		stake, _ := cmd.Flags().GetInt("stake")
		minutes, _ := cmd.Flags().GetInt("minutes")
		return runPlay(cmd, func(ctx context.Context, e *session.Engine) (session.State, error) {
			return e.StartWagered(ctx, stake, minutes)
		})
	},
}

func init() {
	playCmd.PersistentFlags().Bool("headless", false, "Print progress lines instead of opening the terminal UI")

	playStandardCmd.Flags().String("region", "bunnyburrow", "Region to focus in")
	playStandardCmd.Flags().Int("minutes", game.DefaultStandardMinutes, "Session length in minutes")

	playHustleCmd.Flags().Int("stake", game.DefaultWagerStake, "Bucks to stake")
	playHustleCmd.Flags().Int("minutes", game.DefaultWagerMinutes, "Session length in minutes")

	playCmd.AddCommand(playStandardCmd)
	playCmd.AddCommand(playCaseCmd)
	playCmd.AddCommand(playHustleCmd)
}

type startFunc func(ctx context.Context, e *session.Engine) (session.State, error)

func runPlay(cmd *cobra.Command, start startFunc) error {
	headless, _ := cmd.Flags().GetBool("headless")

	mode := modeTUI
	if headless {
		mode = modeHeadless
	}
	env, err := openEnv(cmd, mode)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if headless {
		return env.runHeadless(ctx, cmd.OutOrStdout(), start)
	}

	if _, err := start(ctx, env.engine); err != nil && !game.IsPersistence(err) {
		return err
	}
	return env.runTUI(ctx)
}

// runHeadless runs one session to the end, printing a line per minute.
// Case stages advance on their own. An interrupt abandons the session.
func (e *appEnv) runHeadless(ctx context.Context, out io.Writer, start startFunc) error {
	events := e.engine.Subscribe(256)
	driver := session.NewDriver(ctx, e.engine, e.cfg.TickInterval)
	defer driver.Close()

	st, err := start(ctx, e.engine)
	if err != nil {
		if !game.IsPersistence(err) {
			return err
		}
		fmt.Fprintf(out, "warning: %v\n", err)
	}
	fmt.Fprintf(out, "%s started: %s\n", st.Kind().DisplayName(), components.FormatClock(st.RemainingSeconds))

	poll := time.NewTicker(time.Second)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			st, err := e.engine.Abandon(context.Background())
			if err != nil {
				return err
			}
			if stake := st.Stake(); stake > 0 {
				fmt.Fprintf(out, "abandoned: $%d stake forfeited\n", stake)
			} else {
				fmt.Fprintln(out, "abandoned: no reward")
			}
			return nil
		case ev := <-events:
			done, err := e.printEvent(ctx, out, ev)
			if done || err != nil {
				return err
			}
		case <-poll.C:
			done, err := e.completionFallback(ctx, out, events)
			if done || err != nil {
				return err
			}
		}
	}
}

// completionFallback handles a completion whose event was dropped, since
// subscriber sends never block. It waits while events are still buffered so
// a queued completion, which carries the reward, is printed instead.
func (e *appEnv) completionFallback(ctx context.Context, out io.Writer, events <-chan session.Event) (bool, error) {
	if len(events) > 0 {
		return false, nil
	}
	st := e.engine.Snapshot()
	if !st.Completed() {
		return false, nil
	}
	return e.printEvent(ctx, out, session.Event{Type: session.EventCompleted, State: st})
}

func (e *appEnv) printEvent(ctx context.Context, out io.Writer, ev session.Event) (bool, error) {
	st := ev.State
	switch ev.Type {
	case session.EventTick:
		if st.RemainingSeconds%60 == 0 && st.RemainingSeconds > 0 {
			fmt.Fprintf(out, "%s remaining\n", components.FormatClock(st.RemainingSeconds))
		}
	case session.EventStageAdvanced:
		fmt.Fprintf(out, "stage %s started\n", st.Stage().DisplayName())
	case session.EventCompleted:
		if ev.Err != nil {
			fmt.Fprintf(out, "warning: %v\n", ev.Err)
		}
		if st.AwaitingAdvance() {
			if cur := e.engine.Snapshot(); !cur.AwaitingAdvance() || cur.Stage() != st.Stage() {
				return false, nil
			}
			fmt.Fprintf(out, "stage %s complete\n", st.Stage().DisplayName())
			if _, err := e.engine.AdvanceStage(ctx); err != nil && !game.IsPersistence(err) {
				return true, err
			}
			return false, nil
		}
		if !e.engine.Snapshot().Completed() {
			return false, nil
		}
		printReward(out, ev.Reward)
		if _, err := e.engine.Dismiss(); err != nil {
			return true, err
		}
		return true, nil
	case session.EventAbandoned:
		fmt.Fprintln(out, "abandoned")
		return true, nil
	}
	return false, nil
}

func printReward(out io.Writer, r *game.Reward) {
	if r == nil {
		fmt.Fprintln(out, "complete")
		return
	}
	fmt.Fprintf(out, "complete: +%d min", r.FocusMinutes)
	if r.Currency > 0 {
		fmt.Fprintf(out, ", +$%d", r.Currency)
	}
	if r.RankProgress > 0 {
		fmt.Fprintf(out, ", +%d rank progress", r.RankProgress)
	}
	fmt.Fprintln(out)
	if r.Promoted {
		fmt.Fprintf(out, "promoted to %s\n", r.RankAfter.DisplayName())
	}
}
