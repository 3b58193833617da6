package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dlshle/nscache/cache"
)

func NewNSCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "nscache",
		Short:        "Inspect and edit a persistent namespace cache",
		SilenceUsage: true,
	}
	flags := cmd.PersistentFlags()
	flags.String("dir", "./data/nscache", "Badger data directory")
	flags.String("redis", "", "Redis address; overrides --dir when set")
	flags.StringP("namespace", "n", cache.DefaultNamespace, "Cache namespace")
	flags.String("prefix", cache.DefaultPrefix, "Record key prefix")
	flags.Duration("std-ttl", 0, "TTL of writes without --ttl, 0 never expires")
	flags.Int("max", cache.Unlimited, "Maximum entries, -1 for unlimited")
	flags.String("strategy", string(cache.StrategyLimited), "Strategy when full: limited or replaced")
	flags.String("codec", "json", "Record encoding: json or wire")
	flags.Bool("log-json", false, "Write warnings as newline separated JSON")
	cmd.AddCommand(
		newSetCmd(),
		newGetCmd(),
		newDelCmd(),
		newTakeCmd(),
		newKeysCmd(),
		newTTLCmd(),
		newGetTTLCmd(),
		newClearCmd(),
	)
	return cmd
}
