// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-sync-store/internal/adapter"
	"github.com/MKhiriev/go-sync-store/internal/client"
	"github.com/MKhiriev/go-sync-store/internal/service"
	"github.com/MKhiriev/go-sync-store/models"
)

var queryFlags = []string{"query", "sort", "fields", "skip", "limit"}

func registerCommands(root *cobra.Command) {
	findCmd := &cobra.Command{
		Use:   "find [collection]",
		Short: "Find documents in the local store",
		Args:  cobra.ExactArgs(1),
		RunE:  runFind,
	}
	addQueryFlags(findCmd)
	findCmd.Flags().Bool("cache", false, "Read through the network and print the freshest result")
	findCmd.Flags().Bool("force", false, "With --cache, always ask the network")

	getCmd := &cobra.Command{
		Use:   "get [collection] [id]",
		Short: "Get one document by id",
		Args:  cobra.ExactArgs(2),
		RunE:  runGet,
	}
	getCmd.Flags().Bool("cache", false, "Ask the network first")

	countCmd := &cobra.Command{
		Use:   "count [collection]",
		Short: "Count documents in the local store",
		Args:  cobra.ExactArgs(1),
		RunE:  runCount,
	}
	addQueryFlags(countCmd)

	saveCmd := &cobra.Command{
		Use:   "save [collection] [json|-]",
		Short: "Create or update a document; '-' reads it from stdin",
		Args:  cobra.ExactArgs(2),
		RunE:  runSave,
	}
	saveCmd.Flags().Bool("cache", false, "Push the change immediately")

	removeCmd := &cobra.Command{
		Use:     "remove [collection] [id]",
		Aliases: []string{"rm"},
		Short:   "Remove a document by id, or every document matching --query",
		Args:    cobra.RangeArgs(1, 2),
		RunE:    runRemove,
	}
	addQueryFlags(removeCmd)

	pushCmd := &cobra.Command{
		Use:   "push [collection]",
		Short: "Send pending changes to the backend",
		Args:  cobra.ExactArgs(1),
		RunE:  runPush,
	}
	addQueryFlags(pushCmd)

	pullCmd := &cobra.Command{
		Use:   "pull [collection]",
		Short: "Fetch documents from the backend into the local store",
		Args:  cobra.ExactArgs(1),
		RunE:  runPull,
	}
	addQueryFlags(pullCmd)
	addPullFlags(pullCmd)

	syncCmd := &cobra.Command{
		Use:   "sync [collection]",
		Short: "Push pending changes, then pull",
		Args:  cobra.ExactArgs(1),
		RunE:  runSync,
	}
	addQueryFlags(syncCmd)
	addPullFlags(syncCmd)

	pendingCmd := &cobra.Command{
		Use:   "pending [collection]",
		Short: "List pending changes",
		Args:  cobra.ExactArgs(1),
		RunE:  runPending,
	}
	addQueryFlags(pendingCmd)
	pendingCmd.Flags().Bool("discard", false, "Drop the listed changes without sending them")

	clearCmd := &cobra.Command{
		Use:   "clear [collection]",
		Short: "Remove local documents and their pending changes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runClear,
	}
	addQueryFlags(clearCmd)
	clearCmd.Flags().Bool("all", false, "Wipe every collection of the app")

	loginCmd := &cobra.Command{
		Use:   "login [username] [password]",
		Short: "Log in and print the session token",
		Args:  cobra.ExactArgs(2),
		RunE:  runLogin,
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the background sync job until interrupted",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}

	root.AddCommand(findCmd, getCmd, countCmd, saveCmd, removeCmd,
		pushCmd, pullCmd, syncCmd, pendingCmd, clearCmd, loginCmd, watchCmd)
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("query", "", `Filter as JSON, e.g. {"genre":"sf"}`)
	cmd.Flags().String("sort", "", `Sort as JSON, e.g. {"year":-1}`)
	cmd.Flags().String("fields", "", "Comma-separated fields to return")
	cmd.Flags().String("skip", "", "Number of documents to skip")
	cmd.Flags().String("limit", "", "Maximum number of documents")
}

func addPullFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("auto-paginate", false, "Fetch the result in pages")
	cmd.Flags().Bool("delta", false, "Ask only for changes since the last pull")
	cmd.Flags().Duration("timeout", 0, "Deadline for the whole operation")
}

// queryFromFlags builds a query from the query flags. Without any of them
// set the query is nil and matches everything.
func queryFromFlags(cmd *cobra.Command) (*models.Query, error) {
	params := make(map[string]string)
	for _, name := range queryFlags {
		if cmd.Flags().Lookup(name) == nil || !cmd.Flags().Changed(name) {
			continue
		}
		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return nil, err
		}
		params[name] = value
	}
	if len(params) == 0 {
		return nil, nil
	}
	return adapter.DecodeQuery(params)
}

func pullOptionsFromFlags(cmd *cobra.Command) models.PullOptions {
	autoPaginate, _ := cmd.Flags().GetBool("auto-paginate")
	delta, _ := cmd.Flags().GetBool("delta")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return models.PullOptions{AutoPagination: autoPaginate, UseDeltaSet: delta, Timeout: timeout}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runFind(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	useCache, _ := cmd.Flags().GetBool("cache")
	force, _ := cmd.Flags().GetBool("force")

	return withClient(cmd, func(ctx context.Context, c *client.Client) error {
		if !useCache {
			s, err := c.SyncStore(args[0])
			if err != nil {
				return err
			}
			docs, err := s.Find(ctx, q)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), docs)
		}

		s, err := c.CacheStore(args[0])
		if err != nil {
			return err
		}
		var last service.FindResult
		for result := range s.Find(ctx, q, models.FindOptions{ForceRefresh: force}) {
			if result.Err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", result.Source, result.Err)
				continue
			}
			last = result
		}
		return printJSON(cmd.OutOrStdout(), last.Docs)
	})
}

func runGet(cmd *cobra.Command, args []string) error {
	useCache, _ := cmd.Flags().GetBool("cache")

	return withClient(cmd, func(ctx context.Context, c *client.Client) error {
		var (
			doc models.Document
			err error
		)
		if useCache {
			s, storeErr := c.CacheStore(args[0])
			if storeErr != nil {
				return storeErr
			}
			doc, err = s.FindByID(ctx, args[1])
		} else {
			s, storeErr := c.SyncStore(args[0])
			if storeErr != nil {
				return storeErr
			}
			doc, err = s.FindByID(ctx, args[1])
		}
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), doc)
	})
}

func runCount(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	return withClient(cmd, func(ctx context.Context, c *client.Client) error {
		s, err := c.SyncStore(args[0])
		if err != nil {
			return err
		}
		count, err := s.Count(ctx, q)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]int{"count": count})
	})
}

func runSave(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(cmd.InOrStdin(), args[1])
	if err != nil {
		return err
	}
	useCache, _ := cmd.Flags().GetBool("cache")

	return withClient(cmd, func(ctx context.Context, c *client.Client) error {
		var saved models.Document
		if useCache {
			s, err := c.CacheStore(args[0])
			if err != nil {
				return err
			}
			saved, err = s.Save(ctx, doc)
			if err != nil {
				// документ сохранён локально и ждёт следующего push
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "push failed: %v\n", err)
			}
		} else {
			s, err := c.SyncStore(args[0])
			if err != nil {
				return err
			}
			if saved, err = s.Save(ctx, doc); err != nil {
				return err
			}
		}
		return printJSON(cmd.OutOrStdout(), saved)
	})
}

func readDocument(stdin io.Reader, arg string) (models.Document, error) {
	raw := []byte(arg)
	if arg == "-" {
		var err error
		if raw, err = io.ReadAll(stdin); err != nil {
			return nil, fmt.Errorf("error reading document: %w", err)
		}
	}

	var doc models.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("document is not a JSON object: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("document is not a JSON object")
	}
	return doc, nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 && q == nil {
		return fmt.Errorf("remove needs an id or --query")
	}

	return withClient(cmd, func(ctx context.Context, c *client.Client) error {
		s, err := c.SyncStore(args[0])
		if err != nil {
			return err
		}

		var removed int
		if len(args) == 2 {
			removed, err = s.RemoveByID(ctx, args[1])
		} else {
			removed, err = s.Remove(ctx, q)
		}
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]int{"count": removed})
	})
}

func runPush(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	return withClient(cmd, func(ctx context.Context, c *client.Client) error {
		result, err := c.SyncManager().Push(ctx, args[0], q)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	})
}

func runPull(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	return withClient(cmd, func(ctx context.Context, c *client.Client) error {
		docs, err := c.SyncManager().Pull(ctx, args[0], q, pullOptionsFromFlags(cmd))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), docs)
	})
}

func runSync(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	return withClient(cmd, func(ctx context.Context, c *client.Client) error {
		result, err := c.SyncManager().Sync(ctx, args[0], q, pullOptionsFromFlags(cmd))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	})
}

func runPending(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	discard, _ := cmd.Flags().GetBool("discard")

	return withClient(cmd, func(ctx context.Context, c *client.Client) error {
		manager := c.SyncManager()
		if discard {
			cleared, err := manager.ClearSync(ctx, args[0], q)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]int{"count": cleared})
		}

		entries, err := manager.PendingEntries(ctx, args[0], q)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), entries)
	})
}

func runClear(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	all, _ := cmd.Flags().GetBool("all")
	if !all && len(args) == 0 {
		return fmt.Errorf("clear needs a collection or --all")
	}

	return withClient(cmd, func(ctx context.Context, c *client.Client) error {
		if all {
			return c.ClearAll(ctx)
		}

		s, err := c.SyncStore(args[0])
		if err != nil {
			return err
		}
		cleared, err := s.Clear(ctx, q)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]int{"count": cleared})
	})
}

func runLogin(cmd *cobra.Command, args []string) error {
	return withClient(cmd, func(ctx context.Context, c *client.Client) error {
		if err := c.Login(ctx, args[0], args[1]); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), c.Session().Token())
		return err
	})
}

func runWatch(cmd *cobra.Command, _ []string) error {
	return withClient(cmd, func(ctx context.Context, c *client.Client) error {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		return c.RunWorkers(ctx)
	})
}
