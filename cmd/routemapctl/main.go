package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/samirrijal/routemap/internal/adapters/dataset"
	"github.com/samirrijal/routemap/internal/adapters/export"
	"github.com/samirrijal/routemap/internal/adapters/spatial"
	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/usecases"
	"github.com/samirrijal/routemap/internal/pkg/config"
	"github.com/samirrijal/routemap/internal/pkg/logging"
)

var (
	routesURL     string
	boundariesURL string
	timeout       time.Duration
	output        string
	airlineID     string
	listTop       int
	pngTop        int
	nearLat       float64
	nearLon       float64
	nearK         int
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "routemapctl",
	Short: "Offline airline route aggregation and rendering",
	Long: `routemapctl loads the routes table and the country boundaries, then prints
the aggregates or writes the chart and map documents without running the API.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logging.Setup(level, "text", logging.FileOptions{})
	},
}

var airlinesCmd = &cobra.Command{
	Use:   "airlines",
	Short: "List airlines ranked by route count",
	RunE:  runAirlines,
}

var airportsCmd = &cobra.Command{
	Use:   "airports",
	Short: "List airports, or the ones nearest to --lat/--lon",
	RunE:  runAirports,
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Write the airline bar chart as SVG",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeDocument(cmd.Context(), func(ctx context.Context, viz *usecases.VisualizationService) ([]byte, error) {
			return viz.ChartSVG(ctx)
		})
	},
}

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Write the world map as SVG, with --airline routes drawn",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeDocument(cmd.Context(), func(ctx context.Context, viz *usecases.VisualizationService) ([]byte, error) {
			if airlineID != "" {
				if _, err := viz.Airline(airlineID); err != nil {
					return nil, err
				}
			}
			return viz.MapSVG(ctx, airlineID)
		})
	},
}

var pngCmd = &cobra.Command{
	Use:   "png",
	Short: "Write the top airlines as a PNG bar chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeDocument(cmd.Context(), func(ctx context.Context, viz *usecases.VisualizationService) ([]byte, error) {
			airlines, err := viz.Airlines()
			if err != nil {
				return nil, err
			}
			return export.ChartPNG(airlines, pngTop, viz.ChartConfig())
		})
	},
}

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Write the world map as PDF, with --airline routes drawn",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeDocument(cmd.Context(), func(ctx context.Context, viz *usecases.VisualizationService) ([]byte, error) {
			state, err := viz.State()
			if err != nil {
				return nil, err
			}
			airports, err := viz.Airports()
			if err != nil {
				return nil, err
			}
			var lines []domain.RouteLine
			if airlineID != "" {
				if _, err := viz.Airline(airlineID); err != nil {
					return nil, err
				}
				if lines, err = viz.RouteLines(ctx, airlineID); err != nil {
					return nil, err
				}
			}
			return export.MapPDF(state, airports, lines, viz.MapConfig())
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&routesURL, "routes", "", "Routes CSV file or URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&boundariesURL, "boundaries", "", "Country boundaries GeoJSON file or URL (default from config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Dataset load timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	airlinesCmd.Flags().IntVarP(&listTop, "top", "n", 0, "Only list the first n airlines")

	airportsCmd.Flags().Float64Var(&nearLat, "lat", 0, "Latitude for a nearest search")
	airportsCmd.Flags().Float64Var(&nearLon, "lon", 0, "Longitude for a nearest search")
	airportsCmd.Flags().IntVarP(&nearK, "k", "k", 10, "Number of nearest airports")

	for _, c := range []*cobra.Command{chartCmd, mapCmd, pngCmd, pdfCmd} {
		c.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	}
	mapCmd.Flags().StringVarP(&airlineID, "airline", "a", "", "Airline whose routes are drawn")
	pdfCmd.Flags().StringVarP(&airlineID, "airline", "a", "", "Airline whose routes are drawn")
	pngCmd.Flags().IntVarP(&pngTop, "top", "n", 20, "Number of airlines to draw")

	rootCmd.AddCommand(airlinesCmd, airportsCmd, chartCmd, mapCmd, pngCmd, pdfCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// load builds a service over the configured datasets and loads them once.
func load(ctx context.Context) (*usecases.VisualizationService, error) {
	cfg, err := config.Load("routemapctl")
	if err != nil {
		return nil, err
	}
	if routesURL == "" {
		routesURL = cfg.Dataset.RoutesURL
	}
	if boundariesURL == "" {
		boundariesURL = cfg.Dataset.BoundariesURL
	}

	client := dataset.NewClient(timeout)
	mapCfg := cfg.Map.Render()
	loader := usecases.NewLoader(
		dataset.NewCSVRouteSource(routesURL, client),
		dataset.NewGeoJSONBoundarySource(boundariesURL, client),
		mapCfg.Projection(),
	)
	viz := usecases.NewVisualizationService(loader, nil, nil, spatial.NewAirportIndex(), cfg.Chart.Render(), mapCfg)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := viz.Reload(ctx); err != nil {
		return nil, err
	}
	return viz, nil
}

func runAirlines(cmd *cobra.Command, args []string) error {
	viz, err := load(cmd.Context())
	if err != nil {
		return err
	}
	airlines, err := viz.Airlines()
	if err != nil {
		return err
	}
	if listTop > 0 && listTop < len(airlines) {
		airlines = airlines[:listTop]
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "RANK\tID\tNAME\tROUTES\t")
	for i, a := range airlines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t\n", i+1, a.AirlineID, a.AirlineName, a.Count)
	}
	return tw.Flush()
}

func runAirports(cmd *cobra.Command, args []string) error {
	viz, err := load(cmd.Context())
	if err != nil {
		return err
	}

	var airports []domain.AirportAggregate
	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
		airports, err = viz.NearbyAirports(domain.GeoPoint{Lat: nearLat, Lon: nearLon}, nearK)
	} else {
		airports, err = viz.Airports()
	}
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tAIRPORT\tCITY\tCOUNTRY\tLAT\tLON\tROUTES")
	for _, a := range airports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.4f\t%.4f\t%d\n",
			a.AirportID, a.Airport, a.City, a.Country, a.Latitude, a.Longitude, a.Count)
	}
	return tw.Flush()
}

func writeDocument(ctx context.Context, produce func(context.Context, *usecases.VisualizationService) ([]byte, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	viz, err := load(ctx)
	if err != nil {
		return err
	}
	data, err := produce(ctx, viz)
	if err != nil {
		return err
	}
	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", output, len(data))
	return nil
}
