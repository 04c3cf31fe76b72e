package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cintyy73/template-todo-list/internal/config"
	"github.com/cintyy73/template-todo-list/internal/logging"
	"github.com/cintyy73/template-todo-list/internal/repository"
	"github.com/cintyy73/template-todo-list/internal/service"
	"github.com/cintyy73/template-todo-list/internal/storage"
)

// app holds what every subcommand shares once the store is open.
type app struct {
	configPath string
	verbose    bool

	cfg   config.Config
	store storage.Storage
	repo  *repository.SlotContactRepository
	svc   service.ContactService
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "contactos",
		Short: "Manage the contact list",
		Long: `Manage the contact list stored by the contactos server.

Available subcommands:
  list    - Show contacts, optionally filtered by name or phone
  add     - Add a contact
  rm      - Remove a contact (asks for confirmation)
  toggle  - Mark a contact as contacted or not
  stats   - Show totals
  reset   - Delete the stored list (asks for confirmation)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (defaults to $CONTACTOS_CONFIG)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at the configured level instead of WARN")

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newRmCmd(a),
		newToggleCmd(a),
		newStatsCmd(a),
		newResetCmd(a),
	)
	return root
}

// open loads config, opens the store and builds the service.
func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logOpts := cfg.LoggingOptions()
	if !a.verbose {
		logOpts.Level = "WARN"
	}
	logger := logging.New(cmd.ErrOrStderr(), logOpts)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	a.store = store

	opts := []service.Option{service.WithLogger(logger)}
	if !cfg.Seed {
		opts = append(opts, service.WithSeed(nil))
	}
	a.repo = repository.NewSlotContactRepository(store, cfg.Store.Key)
	a.svc = service.NewContactService(ctx, a.repo, opts...)
	if a.svc.Degraded() {
		fmt.Fprintln(cmd.ErrOrStderr(), "aviso: no se pudo leer el almacenamiento; los cambios no se guardarán")
	}
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}
