package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"spottheai/internal/oracle"
	"spottheai/internal/store"
)

var blacklistCmd = &cobra.Command{
	Use:   "blacklist",
	Short: "Manage the SQLite blacklist used by the sqlite oracle backend",
}

var blacklistImportCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import blacklist files (text, YAML or JSON) into the database",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBlacklistImport,
}

var blacklistRemoveCmd = &cobra.Command{
	Use:   "remove <artist>...",
	Short: "Remove artists from the database",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBlacklistRemove,
}

var blacklistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every blocked artist key with its rule source",
	Args:  cobra.NoArgs,
	RunE:  runBlacklistList,
}

func init() {
	blacklistCmd.AddCommand(blacklistImportCmd, blacklistRemoveCmd, blacklistListCmd)
}

func openBlacklistDB() (*oracle.SQLiteOracle, error) {
	if config.Oracle.DBPath == "" {
		return nil, fmt.Errorf("blacklist database is required (--blacklist-db)")
	}
	return oracle.OpenSQLite(config.Oracle.DBPath)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runBlacklistImport(cmd *cobra.Command, args []string) error {
	db, err := openBlacklistDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := commandContext(cmd)
	total := 0
	for _, path := range args {
		lists, err := oracle.ReadListFile(path)
		if err != nil {
			return err
		}
		added, err := db.Import(ctx, lists...)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}
		logger.Info("Imported blacklist file", zap.String("file", path), zap.Int("added", added))
		total += added
	}

	count, err := db.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %d artists, %d blocked in total\n", total, count)
	return nil
}

func runBlacklistRemove(cmd *cobra.Command, args []string) error {
	db, err := openBlacklistDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := commandContext(cmd)
	for _, artist := range args {
		if err := db.Remove(ctx, artist); err != nil {
			return fmt.Errorf("failed to remove %q: %w", artist, err)
		}
	}

	count, err := db.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d blocked in total\n", count)
	return nil
}

func runBlacklistList(cmd *cobra.Command, _ []string) error {
	db, err := openBlacklistDB()
	if err != nil {
		return err
	}
	defer db.Close()

	blacklist := store.NewBlacklist(store.DefaultExpectedEntries, store.DefaultFalsePositiveRate)
	if err := db.LoadInto(commandContext(cmd), blacklist); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, entry := range blacklist.Entries() {
		fmt.Fprintf(out, "%s\t%s\n", entry.Key, entry.Source)
	}
	return nil
}
