package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dlshle/nscache/cache"
	"github.com/dlshle/nscache/internal/cmd/util"
)

const nilReply = "(nil)"

// withCache opens the cache for the duration of fn.
func withCache(cmd *cobra.Command, fn func(c *cache.Cache[string]) error) (err error) {
	c, closer, err := util.OpenCache(cmd.Flags(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closer(); err == nil {
			err = closeErr
		}
	}()
	return fn(c)
}

func newSetCmd() *cobra.Command {
	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, func(c *cache.Cache[string]) error {
				ok := false
				if cmd.Flags().Changed("ttl") {
					ttl, err := cmd.Flags().GetDuration("ttl")
					if err != nil {
						return err
					}
					ok = c.SetWithTTL(args[0], args[1], ttl)
				} else {
					ok = c.Set(args[0], args[1])
				}
				if !ok {
					return fmt.Errorf("%s was not stored: cache is full", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), "OK")
				return nil
			})
		},
	}
	setCmd.Flags().Duration("ttl", 0, "Time to live, 0 never expires; defaults to --std-ttl")
	return setCmd
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, func(c *cache.Cache[string]) error {
				if v, ok := c.Get(args[0]); ok {
					fmt.Fprintln(cmd.OutOrStdout(), v)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), nilReply)
				}
				return nil
			})
		},
	}
}

func newDelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "del <key>...",
		Short: "Delete keys and print how many existed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, func(c *cache.Cache[string]) error {
				fmt.Fprintln(cmd.OutOrStdout(), c.Del(args...))
				return nil
			})
		},
	}
}

func newTakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "take <key>",
		Short: "Print a value and delete it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, func(c *cache.Cache[string]) error {
				if v, ok := c.Take(args[0]); ok {
					fmt.Fprintln(cmd.OutOrStdout(), v)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), nilReply)
				}
				return nil
			})
		},
	}
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List valid keys in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, func(c *cache.Cache[string]) error {
				for _, k := range c.Keys() {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
				return nil
			})
		},
	}
}

func newTTLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ttl <key> <duration>",
		Short: "Restart the lifetime of a key, 0 never expires",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ttl, err := time.ParseDuration(args[1])
			if err != nil {
				return err
			}
			return withCache(cmd, func(c *cache.Cache[string]) error {
				if c.TTL(args[0], ttl) {
					fmt.Fprintln(cmd.OutOrStdout(), "OK")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), nilReply)
				}
				return nil
			})
		},
	}
}

func newGetTTLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "getttl <key>",
		Short: "Print the expiry instant of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, func(c *cache.Cache[string]) error {
				expiresAt, ok := c.GetTTL(args[0])
				switch {
				case !ok:
					fmt.Fprintln(cmd.OutOrStdout(), nilReply)
				case expiresAt.IsZero():
					fmt.Fprintln(cmd.OutOrStdout(), "never")
				default:
					fmt.Fprintln(cmd.OutOrStdout(), expiresAt.UTC().Format(time.RFC3339Nano))
				}
				return nil
			})
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every entry of the namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, func(c *cache.Cache[string]) error {
				c.Clear()
				fmt.Fprintln(cmd.OutOrStdout(), "OK")
				return nil
			})
		},
	}
}
