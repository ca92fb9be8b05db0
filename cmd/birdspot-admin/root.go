package main

import (
	"context"
	"io"
	"sync"

	"birdspot/internal/modkit"
	"birdspot/internal/modkit/module"
	"birdspot/internal/platform/config"
	"birdspot/internal/platform/logger"
	"birdspot/internal/platform/store"
	quotadom "birdspot/internal/services/quota/domain"
	quotamod "birdspot/internal/services/quota/module"
	cachedom "birdspot/internal/services/resultcache/domain"
	cachemod "birdspot/internal/services/resultcache/module"
	usagedom "birdspot/internal/services/usage/domain"
	usagemod "birdspot/internal/services/usage/module"

	"github.com/spf13/cobra"
)

// services are the operator ports the commands drive
type services struct {
	Quota quotadom.AdminPort
	Usage usagedom.ReaderPort
	Cache cachedom.AdminPort
	Close func()
}

type opener func(ctx context.Context, root config.Conf) (*services, error)

// openServices connects to the configured stores without starting any background work
func openServices(ctx context.Context, root config.Conf) (*services, error) {
	l := logger.Get()
	cacheOpts := cachemod.FromConfig(root)
	quotaOpts := quotamod.FromConfig(root)
	needRedis := cacheOpts.Backend == cachedom.BackendRedis || quotaOpts.Backend == quotadom.BackendRedis

	cfg := store.FromConfig(root, "admin", needRedis)
	// the cli reads Postgres only; the clickhouse mirror is write side
	cfg.CH.Enabled = false
	cfg.PG.AutoMigrate = false
	st, err := store.Open(ctx, cfg, store.WithLogger(*l))
	if err != nil {
		return nil, err
	}

	deps := modkit.FromStore(root, *l, st, nil)
	cache := cachemod.New(deps, cacheOpts)
	quota := quotamod.New(deps, quotaOpts)
	usage := usagemod.New(deps, usagemod.FromConfig(root))

	return &services{
		Quota: module.MustPortsOf[quotamod.Ports](quota).Admin,
		Usage: module.MustPortsOf[usagemod.Ports](usage).Reader,
		Cache: module.MustPortsOf[cachemod.Ports](cache).Admin,
		Close: func() {
			if err := st.Close(context.Background()); err != nil {
				l.Error().Err(err).Msg("failed to close store")
			}
		},
	}, nil
}

type commandContext struct {
	root    config.Conf
	open    opener
	jsonOut bool

	once sync.Once
	svc  *services
	err  error
}

func (c *commandContext) services(ctx context.Context) (*services, error) {
	c.once.Do(func() { c.svc, c.err = c.open(ctx, c.root) })
	return c.svc, c.err
}

func (c *commandContext) close() {
	if c.svc != nil && c.svc.Close != nil {
		c.svc.Close()
	}
}

// execute runs one command line and closes whatever stores it opened, even when it fails
func execute(ctx context.Context, open opener, args []string, out, errOut io.Writer) error {
	cc := &commandContext{root: config.New(), open: open}
	defer cc.close()

	cmd := newRootCommand(cc)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCommand(ctx *commandContext) *cobra.Command {

	rootCmd := &cobra.Command{
		Use:           "birdspot-admin",
		Short:         "Operate birdspot quota, usage and cache state",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().BoolVar(&ctx.jsonOut, "json", false, "Print JSON instead of a table")

	rootCmd.AddCommand(newQuotaCommand(ctx))
	rootCmd.AddCommand(newUsageCommand(ctx))
	rootCmd.AddCommand(newCacheCommand(ctx))
	rootCmd.AddCommand(newCatalogCommand(ctx))
	return rootCmd
}
