package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"surana-backend/internal/config"
	"surana-backend/internal/database"
	"surana-backend/internal/kvstore"
	"surana-backend/internal/logging"
	"surana-backend/internal/model"
	"surana-backend/internal/moodboard"
)

// admin holds the store opened for the current command
type admin struct {
	store  kvstore.Store
	keys   func(ctx context.Context) ([]string, error)
	close  func()
	logger *zap.Logger
}

var current *admin

// restartNote follows every write, since a running server only reads its cache
const restartNote = "A running server keeps its cached copy and will write it back on the next save: stop the server first, or restart it right after."

var rootCmd = &cobra.Command{
	Use:   "surana-admin",
	Short: "Inspect and repair Surana AI persisted state",
	Long: `Maintenance tool for the key-value store behind the Surana AI backend.

It reads the same environment as the server (DB_DRIVER, STORE_BACKEND, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openAdmin()
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if current != nil {
			current.close()
		}
	},
}

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "Manage saved moodboards",
}

var boardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved moodboards",
	RunE:  runBoardsList,
}

var boardsDeleteCmd = &cobra.Command{
	Use:   "delete <index>",
	Short: "Delete a saved moodboard by index",
	Long:  "Delete a saved moodboard by index.\n\n" + restartNote,
	Args:  cobra.ExactArgs(1),
	RunE:  runBoardsDelete,
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect raw store keys",
}

var storeKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List stored keys",
	RunE:  runStoreKeys,
}

var storeCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report keys whose JSON value cannot be decoded",
	RunE:  runStoreCheck,
}

var storeResetCmd = &cobra.Command{
	Use:   "reset <key>",
	Short: "Remove one application key",
	Long:  "Remove one application key from the backing store.\n\n" + restartNote,
	Args:  cobra.ExactArgs(1),
	RunE:  runStoreReset,
}

func init() {
	boardsCmd.AddCommand(boardsListCmd, boardsDeleteCmd)
	storeCmd.AddCommand(storeKeysCmd, storeCheckCmd, storeResetCmd)
	rootCmd.AddCommand(boardsCmd, storeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openAdmin() (*admin, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	switch cfg.Store.Backend {
	case "redis":
		rs, err := kvstore.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.KeyPrefix)
		if err != nil {
			return nil, err
		}
		return &admin{
			store:  rs,
			keys:   applicationKeys(rs),
			close:  func() { _ = rs.Close() },
			logger: log,
		}, nil
	case "memory":
		return nil, errors.New("STORE_BACKEND=memory has nothing to inspect")
	default:
		db, err := database.ConnectDB(cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		ds := kvstore.NewDBStore(db)
		return &admin{
			store:  ds,
			keys:   ds.Keys,
			close:  func() { _ = database.Close(db) },
			logger: log,
		}, nil
	}
}

// applicationKeys lists known keys that are present, for backends without a scan
func applicationKeys(s kvstore.Store) func(ctx context.Context) ([]string, error) {
	return func(ctx context.Context) ([]string, error) {
		var out []string
		for _, k := range model.KeyNames() {
			_, ok, err := s.Get(ctx, k)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, k)
			}
		}
		return out, nil
	}
}

func runBoardsList(cmd *cobra.Command, _ []string) error {
	repo := moodboard.NewRepository(current.store, current.logger)
	boards, err := repo.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(boards) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no saved moodboards")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tNAME\tITEMS")
	for i, b := range boards {
		fmt.Fprintf(w, "%d\t%s\t%d\n", i, b.Name, len(b.Items))
	}
	return w.Flush()
}

func runBoardsDelete(cmd *cobra.Command, args []string) error {
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q", args[0])
	}
	repo := moodboard.NewRepository(current.store, current.logger)
	if err := repo.Delete(cmd.Context(), idx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted moodboard %d\n", idx)
	fmt.Fprintln(cmd.OutOrStdout(), restartNote)
	return nil
}

func runStoreKeys(cmd *cobra.Command, _ []string) error {
	keys, err := current.keys(cmd.Context())
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Fprintln(cmd.OutOrStdout(), k)
	}
	return nil
}

func runStoreCheck(cmd *cobra.Command, _ []string) error {
	keys, err := current.keys(cmd.Context())
	if err != nil {
		return err
	}

	bad := 0
	for _, k := range keys {
		raw, ok, err := current.store.Get(cmd.Context(), k)
		if err != nil {
			return err
		}
		if !ok || json.Valid([]byte(raw)) {
			continue
		}
		// vendor keys are stored as bare strings
		if k == model.KeyRunwareAPIKey.String() || k == model.KeyGeminiAPIKey.String() {
			continue
		}
		bad++
		fmt.Fprintf(cmd.OutOrStdout(), "corrupt: %s (%d bytes)\n", k, len(raw))
	}

	if bad > 0 {
		return fmt.Errorf("%d corrupt key(s); remove them with 'surana-admin store reset <key>'", bad)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d key(s) ok\n", len(keys))
	return nil
}

func runStoreReset(cmd *cobra.Command, args []string) error {
	key := args[0]
	known := false
	for _, k := range model.KeyNames() {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown key %q", key)
	}
	if err := current.store.Remove(cmd.Context(), key); err != nil {
		return err
	}
	current.logger.Info("key removed", zap.String("key", key))
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", key)
	fmt.Fprintln(cmd.OutOrStdout(), restartNote)
	return nil
}
