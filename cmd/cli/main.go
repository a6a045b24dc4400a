package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/datareplica/internal/config"
	"github.com/andresuchdata/datareplica/internal/handler"
	"github.com/andresuchdata/datareplica/pkg/logger"
)

func main() {
	if err := newApp(handler.New()).Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("Command failed")
	}
}

func newApp(h *handler.Handlers) *cli.App {
	return &cli.App{
		Name:  "datareplica",
		Usage: "Run the replication handlers from a shell",
		Before: func(c *cli.Context) error {
			cfg := config.Load()
			logger.Configure(cfg.Log.Level, cfg.Log.Format)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "replicate",
				Usage: "Copy objects from SOURCE_BUCKET to DEST_BUCKET",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "key",
						Usage: "URL-encoded object key (repeatable)",
					},
					&cli.StringFlag{
						Name:  "event",
						Usage: "Path to an S3 event JSON document",
					},
				},
				Action: func(c *cli.Context) error {
					event, err := buildEvent(c.StringSlice("key"), c.String("event"))
					if err != nil {
						return err
					}
					return printResponse(c, func(ctx context.Context) (handler.Response, error) {
						return h.Replicator(ctx, event)
					})
				},
			},
			{
				Name:  "backup",
				Usage: "Mirror the inventory table from the source database to the target",
				Action: func(c *cli.Context) error {
					return printResponse(c, h.Backup)
				},
			},
			{
				Name:  "seed",
				Usage: "Seed the source inventory table when it is empty",
				Action: func(c *cli.Context) error {
					return printResponse(c, h.Seed)
				},
			},
			{
				Name:  "list",
				Usage: "List objects in BUCKET_NAME",
				Action: func(c *cli.Context) error {
					return printResponse(c, h.List)
				},
			},
		},
	}
}

// buildEvent reads an event document when path is set, otherwise wraps keys
// in one record each.
func buildEvent(keys []string, path string) (events.S3Event, error) {
	var event events.S3Event
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return event, fmt.Errorf("failed to read event file: %w", err)
		}
		if err := json.Unmarshal(data, &event); err != nil {
			return event, fmt.Errorf("failed to parse event file: %w", err)
		}
		return event, nil
	}

	for _, key := range keys {
		event.Records = append(event.Records, events.S3EventRecord{
			S3: events.S3Entity{Object: events.S3Object{Key: key}},
		})
	}
	return event, nil
}

func printResponse(c *cli.Context, fn func(context.Context) (handler.Response, error)) error {
	resp, err := fn(c.Context)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, resp.Body)
	return err
}
