package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowgridhq/flowgrid/pkg/snapshot"
	"github.com/flowgridhq/flowgrid/pkg/store"
)

// snapshotCommand creates the "snapshot" command tree.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save, load, and delete instance snapshots",
	}

	cmd.AddCommand(c.snapshotSaveCommand())
	cmd.AddCommand(c.snapshotLoadCommand())
	cmd.AddCommand(c.snapshotDeleteCommand())

	return cmd
}

// snapshotFlags are the backend selection flags shared by the snapshot
// subcommands.
type snapshotFlags struct {
	backend   string
	dir       string
	redisAddr string
	mongoURI  string
}

func (f *snapshotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backend, "backend", "file", "snapshot backend: file, redis, or mongo")
	cmd.Flags().StringVar(&f.dir, "dir", "", "snapshot directory for the file backend")
	cmd.Flags().StringVar(&f.redisAddr, "redis-addr", "localhost:6379", "redis address for the redis backend")
	cmd.Flags().StringVar(&f.mongoURI, "mongo-uri", "mongodb://localhost:27017", "connection string for the mongo backend")
}

// open constructs the selected backend.
func (f *snapshotFlags) open(cmd *cobra.Command) (snapshot.Store, error) {
	switch f.backend {
	case "file":
		dir := f.dir
		if dir == "" {
			var err error
			if dir, err = snapshotDir(); err != nil {
				return nil, err
			}
		}
		return snapshot.NewFileStore(dir)
	case "redis":
		return snapshot.NewRedisStore(cmd.Context(), snapshot.RedisConfig{Addr: f.redisAddr})
	case "mongo":
		return snapshot.NewMongoStore(cmd.Context(), snapshot.MongoConfig{URI: f.mongoURI})
	default:
		return nil, fmt.Errorf("unknown backend %q (want file, redis, or mongo)", f.backend)
	}
}

// snapshotSaveCommand creates the "snapshot save" subcommand: load a
// document into an instance and persist its state.
func (c *CLI) snapshotSaveCommand() *cobra.Command {
	var (
		configPath string
		id         string
		flags      snapshotFlags
	)

	cmd := &cobra.Command{
		Use:   "save <document.json>",
		Short: "Load a document and persist its instance state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			if id != "" {
				cfg.ID = id
			}
			if cfg.ID == "" {
				cfg.ID = "flow-1"
			}

			st, err := storeFromDocument(args[0], cfg, logger)
			if err != nil {
				return err
			}
			defer st.Destroy()

			backend, err := flags.open(cmd)
			if err != nil {
				return err
			}

			snap := st.Snapshot()
			if err := backend.Save(cmd.Context(), snap); err != nil {
				return fmt.Errorf("save snapshot: %w", err)
			}

			printSuccess("saved snapshot %q", snap.ID)
			printStats(len(snap.Nodes), len(snap.Edges))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to flowgrid.toml")
	cmd.Flags().StringVar(&id, "id", "", "instance identifier (overrides config)")
	flags.register(cmd)
	return cmd
}

// snapshotLoadCommand creates the "snapshot load" subcommand: restore a
// snapshot into a fresh instance and print what came back.
func (c *CLI) snapshotLoadCommand() *cobra.Command {
	var (
		configPath string
		flags      snapshotFlags
	)

	cmd := &cobra.Command{
		Use:   "load <id>",
		Short: "Restore a snapshot and print its contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			backend, err := flags.open(cmd)
			if err != nil {
				return err
			}

			snap, err := backend.Load(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, snapshot.ErrNotFound) {
					printError("snapshot %q not found", args[0])
				}
				return err
			}

			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}
			opts.ID = snap.ID
			opts.Logger = logger

			st := store.New(opts)
			defer st.Destroy()
			st.Restore(snap)

			fmt.Println(StyleTitle.Render(st.ID()))
			printStats(st.NodeCount(), st.EdgeCount())
			printKeyValue("taken", snap.TakenAt.Format(time.RFC3339))
			t := st.Viewport()
			printKeyValue("viewport", fmt.Sprintf("x=%g y=%g zoom=%g", t.X, t.Y, t.Zoom))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to flowgrid.toml")
	flags.register(cmd)
	return cmd
}

// snapshotDeleteCommand creates the "snapshot delete" subcommand.
func (c *CLI) snapshotDeleteCommand() *cobra.Command {
	var flags snapshotFlags

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a persisted snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := flags.open(cmd)
			if err != nil {
				return err
			}
			if err := backend.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete snapshot: %w", err)
			}
			printSuccess("deleted snapshot %q", args[0])
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
