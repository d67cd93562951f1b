package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/groblegark/syllabus/internal/client"
	"github.com/groblegark/syllabus/internal/events"
	"github.com/groblegark/syllabus/internal/model"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for new and replanned runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")
		source, _ := cmd.Flags().GetString("source")
		limit, _ := cmd.Flags().GetInt("limit")

		req := &client.ListRunsRequest{Source: source, Limit: limit}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		seen := make(map[string]string)

		// Initial query.
		if err := queryAndPrint(ctx, req, seen); err != nil {
			return err
		}
		if once {
			return nil
		}

		// Event-driven when NATS is reachable, polling otherwise.
		if natsURL := os.Getenv("SYLLABUS_NATS_URL"); natsURL != "" {
			return watchNATS(ctx, natsURL, req, seen)
		}
		return watchPoll(ctx, interval, req, seen)
	},
}

// watchNATS subscribes to run events and re-queries on changes with debounce.
func watchNATS(ctx context.Context, natsURL string, req *client.ListRunsRequest, seen map[string]string) error {
	// reconnectCh receives a signal when the NATS client reconnects after
	// a disconnect, so we can immediately re-query for missed events.
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("syllabus.>")
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	// Drain the timer channel in case it fired between NewTimer and Stop.
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0) // immediate re-query
		case <-debounce.C:
			if err := queryAndPrint(ctx, req, seen); err != nil {
				return err
			}
		}
	}
}

// watchPoll polls for changes at the given interval.
func watchPoll(ctx context.Context, interval time.Duration, req *client.ListRunsRequest, seen map[string]string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := queryAndPrint(ctx, req, seen); err != nil {
			return err
		}
	}
}

// queryAndPrint calls ListRuns, diffs against the seen map, and prints any changes.
func queryAndPrint(ctx context.Context, req *client.ListRunsRequest, seen map[string]string) error {
	resp, err := sylClient.ListRuns(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	changed := diffRuns(resp.Runs, seen)
	if len(changed) > 0 {
		if jsonOutput {
			printJSON(changed)
		} else {
			printRunListTable(changed, resp.Total)
		}
	}
	return nil
}

// runFingerprint captures the state a watcher cares about. A replan flips
// Planned without touching CreatedAt, so both are folded in.
func runFingerprint(r *model.Run) string {
	return fmt.Sprintf("%s|%t|%t", r.CreatedAt.Format(time.RFC3339Nano), r.Planned, r.Clean)
}

// diffRuns compares runs against the seen map and returns those that are new
// or have a different fingerprint. It updates seen in place.
func diffRuns(runs []*model.Run, seen map[string]string) []*model.Run {
	var changed []*model.Run
	for _, r := range runs {
		fp := runFingerprint(r)
		if prev, ok := seen[r.ID]; !ok || fp != prev {
			changed = append(changed, r)
		}
		seen[r.ID] = fp
	}
	return changed
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval")
	watchCmd.Flags().Bool("once", false, "exit after first query")
	watchCmd.Flags().String("source", "", "filter by document source")
	watchCmd.Flags().Int("limit", 20, "maximum number of runs to watch")
}
