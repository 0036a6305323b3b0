package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/nfrund/vrcadmin/internal/backend"
	"github.com/nfrund/vrcadmin/internal/domain"
	"github.com/spf13/cobra"
)

var volunteerCmd = &cobra.Command{
	Use:   "volunteer",
	Short: "Look up volunteers and their assignments",
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <whatsapp>",
	Short: "Show a volunteer's assigned service and coordinator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number := domain.NormalizeWhatsApp(args[0])
		if number == "" {
			return errors.New("please enter a valid WhatsApp number")
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		v, err := client.GetVolunteerByWhatsApp(cmd.Context(), number)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no volunteer registered with %s", number)
		}
		if err != nil {
			return fmt.Errorf("lookup failed: %s", backend.MessageOf(err, err.Error()))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name:        %s\n", v.Name)
		if !v.AssignedService.IsAssigned() {
			fmt.Fprintln(out, "Service:     not assigned yet")
			return nil
		}
		fmt.Fprintf(out, "Service:     %s\n", v.AssignedService.ServiceName)
		fmt.Fprintf(out, "Coordinator: %s (%s)\n", v.AssignedService.CoordinatorName, v.AssignedService.CoordinatorNumber)
		return nil
	},
}

var (
	listName     string
	listWhatsApp string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List volunteers, optionally filtered by name or number",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		page, err := client.ListVolunteers(cmd.Context(), backend.VolunteerQuery{
			Name:     listName,
			WhatsApp: domain.NormalizeWhatsApp(listWhatsApp),
		})
		if err != nil {
			return fmt.Errorf("list failed: %s", backend.MessageOf(err, err.Error()))
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tWHATSAPP\tSERVICE")
		for _, v := range page.Data {
			fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name, v.WhatsAppNumber, v.ServiceName())
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d volunteers\n", len(page.Data), page.TotalCount)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listName, "name", "", "filter by name")
	listCmd.Flags().StringVar(&listWhatsApp, "whatsapp", "", "filter by WhatsApp number")
	volunteerCmd.AddCommand(lookupCmd, listCmd)
	rootCmd.AddCommand(volunteerCmd)
}
