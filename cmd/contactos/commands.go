package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cintyy73/template-todo-list/internal/model"
	"github.com/cintyy73/template-todo-list/internal/service"
	"github.com/cintyy73/template-todo-list/internal/validation"
)

func newListCmd(a *app) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := a.svc.ViewFor(search)
			out := cmd.OutOrStdout()
			if len(view.VisibleContacts) == 0 {
				if view.TotalCount == 0 {
					fmt.Fprintln(out, "No hay contactos.")
				} else {
					fmt.Fprintf(out, "Ningún contacto coincide con %q.\n", search)
				}
				return nil
			}
			if err := writeTable(out, view.VisibleContacts); err != nil {
				return err
			}
			writeStats(out, view)
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by name (case-insensitive) or phone")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var draft model.Draft
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			contact, err := a.svc.Add(cmd.Context(), draft)
			var verr *validation.Error
			switch {
			case err == nil:
			case errors.As(err, &verr):
				return errors.New(formatFieldErrors(verr.Fields))
			case errors.Is(err, service.ErrDuplicateName):
				return errors.New("ya existe un contacto con ese nombre")
			default:
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Contacto agregado: %s (%s) id=%d\n", contact.Name, contact.Phone, contact.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&draft.Name, "name", "", "contact name")
	cmd.Flags().StringVar(&draft.Phone, "phone", "", "contact phone")
	return cmd
}

func newRmCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			target, ok := findContact(a.svc.Contacts(), id)
			if !ok {
				return fmt.Errorf("no existe un contacto con id %d", id)
			}

			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "¿Estás seguro de eliminar a %q? [s/N] ", target.Name)
				if !confirmed(cmd.InOrStdin()) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelado.")
					return nil
				}
			}

			removed, err := a.svc.Remove(cmd.Context(), id)
			if errors.Is(err, service.ErrNotFound) {
				return fmt.Errorf("no existe un contacto con id %d", id)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Contacto eliminado: %s\n", removed.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a contact as contacted or not",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			contact, err := a.svc.ToggleComplete(cmd.Context(), id)
			if errors.Is(err, service.ErrNotFound) {
				return fmt.Errorf("no existe un contacto con id %d", id)
			}
			if err != nil {
				return err
			}
			state := "pendiente"
			if contact.IsCompleted {
				state = "contactado"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", contact.Name, state)
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			writeStats(cmd.OutOrStdout(), a.svc.ViewFor(search))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "count visible contacts for this term")
	return cmd
}

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored list",
		Long: `Delete the stored contact list. The next run starts again from the
sample contacts, or from an empty list when SEED_CONTACTS=false.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "¿Borrar los %d contactos guardados? [s/N] ", len(a.svc.Contacts()))
				if !confirmed(cmd.InOrStdin()) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelado.")
					return nil
				}
			}
			if err := a.repo.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Contactos borrados.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func writeTable(w io.Writer, contacts []model.Contact) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tTELÉFONO\tCONTACTADO")
	for _, c := range contacts {
		done := "no"
		if c.IsCompleted {
			done = "sí"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Phone, done)
	}
	return tw.Flush()
}

func writeStats(w io.Writer, v model.View) {
	fmt.Fprintf(w, "Total: %d contactos | Mostrando: %d | Contactados: %d\n",
		v.TotalCount, v.VisibleCount, v.CompletedCount)
}

func formatFieldErrors(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+fields[name])
	}
	return "datos inválidos: " + strings.Join(parts, ", ")
}

func parseID(s string) (model.ContactID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id inválido %q", s)
	}
	return model.ContactID(n), nil
}

func findContact(contacts []model.Contact, id model.ContactID) (model.Contact, bool) {
	for _, c := range contacts {
		if c.ID == id {
			return c, true
		}
	}
	return model.Contact{}, false
}

// confirmed reads one answer line. Only an explicit yes counts.
func confirmed(r io.Reader) bool {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sí", "y", "yes":
		return true
	}
	return false
}
