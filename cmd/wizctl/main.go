// Command wizctl inspects and maintains the WIZ HOMES store from a shell.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"wiz-homes/config"
	"wiz-homes/services"
	"wiz-homes/store"
)

type app struct {
	cfg   *config.Config
	kv    store.Store
	close func()
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	config.SetupLogger(cfg)
	kv, closer, err := config.OpenStore(cfg)
	if err != nil {
		return err
	}
	a.cfg, a.kv, a.close = cfg, kv, closer
	return nil
}

func (a *app) shutdown(*cobra.Command, []string) {
	if a.close != nil {
		a.close()
	}
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:               "wizctl",
		Short:             "Operator tooling for the WIZ HOMES store",
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
		PersistentPostRun: a.shutdown,
	}
	root.AddCommand(roomsCmd(a), bookingsCmd(a), usersCmd(a))

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func roomsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "rooms", Short: "Room inventory"}

	var filter, order string
	list := &cobra.Command{
		Use:   "list",
		Short: "Print the room inventory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rooms, err := services.NewRoomService(a.kv, config.DefaultRooms).ListRooms(cmd.Context(), filter, order)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTATUS\tRATING\tLOCATION")
			for _, r := range rooms {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%.1f\t%s\n", r.ID, r.Name, r.Price, r.Status, r.Rating, r.Location)
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&filter, "filter", services.FilterAll, "All, Available or Luxe")
	list.Flags().StringVar(&order, "sort", services.SortRecommended, "Recommended, \"Price: Low to High\", \"Price: High to Low\" or Rating")

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Replace the inventory with the seed rooms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rooms, err := services.NewRoomService(a.kv, config.DefaultRooms).Reset(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inventory reset to %d rooms\n", len(rooms))
			return nil
		},
	}

	cmd.AddCommand(list, reset)
	return cmd
}

func bookingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "bookings", Short: "Booking records"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every stored booking",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bookings, err := services.NewBookingService(a.kv, nil, 0).GetBookings(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tGUEST\tROOM\tCHECK-IN\tCHECK-OUT\tSTATUS\tTOTAL")
			for _, b := range bookings {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%.2f\n", b.ID, b.GuestName, b.RoomName, b.CheckIn, b.CheckOut, b.Status, b.Total)
			}
			return w.Flush()
		},
	})
	return cmd
}

func usersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Registered users"}

	var name, email, password string
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(password) < 6 {
				return fmt.Errorf("password must be at least 6 characters")
			}
			user, err := services.NewUserService(a.kv).Register(cmd.Context(), name, email, password, a.cfg.BcryptCost)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.ID, user.Email)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "full name")
	add.Flags().StringVar(&email, "email", "", "login email")
	add.Flags().StringVar(&password, "password", "", "login password")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("email")
	_ = add.MarkFlagRequired("password")

	cmd.AddCommand(add)
	return cmd
}
