package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"fleet-tyre-manager/internal/api"
	"fleet-tyre-manager/internal/auth"
	"fleet-tyre-manager/internal/db"
	"fleet-tyre-manager/internal/layout"
	"fleet-tyre-manager/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dbPath   string
	database *db.Database
	log      = logrus.New()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fleet-tyre-manager",
		Short: "Fleet Tyre Manager - tyre tracking for vehicle fleets",
		Long: `A backend for managing fleets of vehicles and their tyres: per-axle
position tracking, stock inventory, cost and tread analytics, and
role-based fleet membership, served over a REST API.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "fleet_tyres.db", "Path to SQLite database")

	// Add commands
	rootCmd.AddCommand(serverCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(layoutCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(fleetCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initDB initializes database connection
func initDB() error {
	var err error
	database, err = db.New(dbPath)
	return err
}

func jwtSecret() string {
	if s := os.Getenv("FLEET_JWT_SECRET"); s != "" {
		return s
	}
	log.Warn("FLEET_JWT_SECRET not set, using insecure development secret")
	return "dev-secret-change-me"
}

// serverCmd starts the REST API server
func serverCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initDB(); err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			defer database.Close()

			server := api.NewServer(database, log, jwtSecret())
			addr := fmt.Sprintf(":%d", port)

			log.WithFields(logrus.Fields{"addr": addr, "db": dbPath}).Info("fleet tyre manager API listening")
			return http.ListenAndServe(addr, server.Router())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Server port")
	return cmd
}

// layoutCmd prints the wheel position layout for a vehicle configuration
func layoutCmd() *cobra.Command {
	var axleCount int

	cmd := &cobra.Command{
		Use:   "layout [vehicle_type]",
		Short: "Print the wheel position layout for a vehicle type and axle count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if axleCount < 1 || axleCount > 10 {
				return fmt.Errorf("axles must be between 1 and 10")
			}

			category := layout.CategoryFor(args[0], axleCount)
			slots := layout.GenerateSlots(category, axleCount)

			fmt.Printf("%s (%d axles) -> category %s, %d slots\n\n", args[0], axleCount, category, len(slots))
			fmt.Printf("%-22s %-22s %-14s %s\n", "ID", "Label", "Position", "Dual")
			for _, s := range slots {
				dual := ""
				if s.IsDual {
					dual = "yes"
				}
				fmt.Printf("%-22s %-22s %-14s %s\n", s.ID, s.Label, s.Position, dual)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&axleCount, "axles", "a", 2, "Axle count (1-10)")
	return cmd
}

// statsCmd shows database statistics
func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initDB(); err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			defer database.Close()

			stats, err := database.GetStats()
			if err != nil {
				return fmt.Errorf("error getting stats: %w", err)
			}

			fmt.Println("Fleet Tyre Manager Statistics")
			fmt.Println("=============================")
			for _, key := range []string{"total_users", "total_fleets", "total_vehicles", "total_tyres", "fitted_tyres", "stock_lines"} {
				fmt.Printf("  %-20s %v\n", key, stats[key])
			}
			fmt.Printf("  %-20s %s\n", "database", dbPath)
			return nil
		},
	}
}

// fleetCmd manages fleets
func fleetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fleet",
		Short: "Fleet inspection commands",
	}

	listCmd := &cobra.Command{
		Use:   "vehicles [fleet_id]",
		Short: "List a fleet's vehicles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initDB(); err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			defer database.Close()

			vehicles, err := database.ListVehicles(args[0])
			if err != nil {
				return fmt.Errorf("error listing vehicles: %w", err)
			}
			if len(vehicles) == 0 {
				fmt.Println("No vehicles found. Use 'fleet-tyre-manager seed' to create demo data.")
				return nil
			}

			fmt.Printf("%-38s %-20s %-16s %-6s %s\n", "ID", "Name", "Type", "Axles", "Year")
			for _, v := range vehicles {
				fmt.Printf("%-38s %-20s %-16s %-6d %d\n", v.ID, v.Name, v.Type, v.AxleCount, v.Year)
			}
			return nil
		},
	}

	cmd.AddCommand(listCmd)
	return cmd
}

// seedCmd generates demo data
func seedCmd() *cobra.Command {
	var vehicleCount int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate demo data (user, fleet, vehicles, tyres, stock)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initDB(); err != nil {
				return fmt.Errorf("database error: %w", err)
			}
			defer database.Close()

			hash, err := auth.HashPassword("demo-password")
			if err != nil {
				return err
			}
			user := &models.User{ID: uuid.NewString(), Email: "demo@example.com", Name: "Demo User", PasswordHash: hash}
			if err := database.InsertUser(user); err != nil {
				return fmt.Errorf("seed user: %w", err)
			}

			fleet := &models.Fleet{ID: uuid.NewString(), Name: "Demo Fleet", OwnerID: user.ID}
			if err := database.InsertFleet(fleet); err != nil {
				return fmt.Errorf("seed fleet: %w", err)
			}

			types := []struct {
				vehicleType string
				axles       int
			}{
				{"car", 2}, {"van", 2}, {"truck", 3}, {"dump_truck", 3}, {"trailer", 3}, {"bus", 2},
			}

			tyreCount := 0
			for i := 0; i < vehicleCount; i++ {
				cfg := types[i%len(types)]
				v := &models.Vehicle{
					ID:         uuid.NewString(),
					FleetID:    fleet.ID,
					Name:       fmt.Sprintf("%s %d", cfg.vehicleType, i+1),
					Type:       cfg.vehicleType,
					AxleCount:  cfg.axles,
					Year:       2015 + i%10,
					OdometerKM: float64(20000 * (i + 1)),
				}
				if err := database.InsertVehicle(v); err != nil {
					return fmt.Errorf("seed vehicle: %w", err)
				}

				// One tyre per generated slot, spare included.
				slots := layout.GenerateSlots(layout.CategoryFor(v.Type, v.AxleCount), v.AxleCount)
				for j, slot := range slots {
					t := &models.Tyre{
						ID:           uuid.NewString(),
						FleetID:      fleet.ID,
						VehicleID:    v.ID,
						Position:     slot.Position,
						Brand:        "RoadGrip",
						Model:        "RG-" + strconv.Itoa(100+j),
						Size:         "315/80R22.5",
						TreadDepthMM: 4 + float64((i+j)%10),
						Cost:         decimal.NewFromInt(int64(90 + 15*(j%4))),
						Status:       models.TyreStatusFitted,
					}
					if err := database.InsertTyre(t); err != nil {
						return fmt.Errorf("seed tyre: %w", err)
					}
					tyreCount++
				}
			}

			stock := &models.StockItem{
				ID: uuid.NewString(), FleetID: fleet.ID,
				Brand: "RoadGrip", Model: "RG-200", Size: "315/80R22.5",
				Quantity: 12, UnitCost: decimal.RequireFromString("129.90"),
			}
			if err := database.InsertStockItem(stock); err != nil {
				return fmt.Errorf("seed stock: %w", err)
			}

			fmt.Printf("Seeded 1 user (demo@example.com / demo-password), 1 fleet, %d vehicles, %d tyres, 1 stock line\n",
				vehicleCount, tyreCount)
			fmt.Printf("Fleet ID: %s\n", fleet.ID)
			return nil
		},
	}

	cmd.Flags().IntVarP(&vehicleCount, "vehicles", "n", 6, "Number of vehicles to create")
	return cmd
}
