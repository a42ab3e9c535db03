// Command hops is a small CLI over the hopsworks SDK for inspecting
// registry models, expectation suites and OpenSearch configuration.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	hopsworks "github.com/logicalclocks/hopsworks-go"
	"github.com/logicalclocks/hopsworks-go/internal/config"
	"github.com/logicalclocks/hopsworks-go/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var env string

	root := &cobra.Command{
		Use:           "hops",
		Short:         "Inspect a Hopsworks cluster from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&env, "env", config.GetEnv(), "connection profile name")

	newClient := func() (*hopsworks.Client, error) {
		return hopsworks.NewFromProfile(env)
	}

	root.AddCommand(
		newModelCmd(newClient),
		newSuiteCmd(newClient),
		newOpenSearchCmd(newClient),
		newVersionCmd(),
	)
	return root
}

func newModelCmd(newClient func() (*hopsworks.Client, error)) *cobra.Command {
	var registryID int

	cmd := &cobra.Command{
		Use:   "model",
		Short: "Model registry operations",
	}
	cmd.PersistentFlags().IntVar(&registryID, "registry", 0, "model registry id")
	_ = cmd.MarkPersistentFlagRequired("registry")

	get := &cobra.Command{
		Use:   "get NAME VERSION",
		Short: "Fetch one model version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			var ver int
			if _, err := fmt.Sscanf(args[1], "%d", &ver); err != nil {
				return fmt.Errorf("version must be numeric: %w", err)
			}
			m, err := client.Models(registryID).Get(cmd.Context(), args[0], ver)
			if err != nil {
				return err
			}
			if m == nil {
				return fmt.Errorf("model %s version %d not found", args[0], ver)
			}
			return printJSON(m)
		},
	}

	list := &cobra.Command{
		Use:   "list NAME",
		Short: "List all versions of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			models, err := client.Models(registryID).List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(models)
		},
	}

	var metric, direction string
	best := &cobra.Command{
		Use:   "best NAME",
		Short: "Fetch the best model version by a training metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			m, err := client.Models(registryID).Best(cmd.Context(), args[0], metric, direction)
			if err != nil {
				return err
			}
			if m == nil {
				return fmt.Errorf("no versions of %s found", args[0])
			}
			return printJSON(m)
		},
	}
	best.Flags().StringVar(&metric, "metric", "", "training metric name")
	best.Flags().StringVar(&direction, "direction", "max", "max or min")
	_ = best.MarkFlagRequired("metric")

	tags := &cobra.Command{
		Use:   "tags NAME VERSION",
		Short: "List the tags of a model version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			var ver int
			if _, err := fmt.Sscanf(args[1], "%d", &ver); err != nil {
				return fmt.Errorf("version must be numeric: %w", err)
			}
			svc := client.Models(registryID)
			m, err := svc.Get(cmd.Context(), args[0], ver)
			if err != nil {
				return err
			}
			if m == nil {
				return fmt.Errorf("model %s version %d not found", args[0], ver)
			}
			t, err := svc.Tags(cmd.Context(), m)
			if err != nil {
				return err
			}
			return printJSON(t)
		},
	}

	del := &cobra.Command{
		Use:   "delete NAME VERSION",
		Short: "Delete a model version and its metadata",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			var ver int
			if _, err := fmt.Sscanf(args[1], "%d", &ver); err != nil {
				return fmt.Errorf("version must be numeric: %w", err)
			}
			if err := client.Models(registryID).Delete(cmd.Context(), &hopsworks.Model{Name: args[0], Version: ver}); err != nil {
				return err
			}
			fmt.Printf("deleted %s version %d\n", args[0], ver)
			return nil
		},
	}

	cmd.AddCommand(get, list, best, tags, del)
	return cmd
}

func newSuiteCmd(newClient func() (*hopsworks.Client, error)) *cobra.Command {
	var featureStoreID, featureGroupID int

	cmd := &cobra.Command{
		Use:   "suite",
		Short: "Expectation suite operations",
	}
	cmd.PersistentFlags().IntVar(&featureStoreID, "featurestore", 0, "feature store id")
	cmd.PersistentFlags().IntVar(&featureGroupID, "featuregroup", 0, "feature group id")
	_ = cmd.MarkPersistentFlagRequired("featurestore")
	_ = cmd.MarkPersistentFlagRequired("featuregroup")

	get := &cobra.Command{
		Use:   "get",
		Short: "Fetch the feature group's expectation suite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			suite, err := client.FeatureGroup(featureStoreID, featureGroupID).
				GetExpectationSuite(cmd.Context())
			if err != nil {
				return err
			}
			if suite == nil {
				return fmt.Errorf("feature group %d has no expectation suite", featureGroupID)
			}
			return printJSON(suite.JSONDict(hopsworks.KeyCamel))
		},
	}

	cmd.AddCommand(get)
	return cmd
}

func newOpenSearchCmd(newClient func() (*hopsworks.Client, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opensearch",
		Short: "OpenSearch helpers",
	}

	cfg := &cobra.Command{
		Use:   "config",
		Short: "Print the project's OpenSearch connection configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			cc, err := client.OpenSearch().ConnectionConfig(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cc)
		},
	}

	cmd.AddCommand(cfg)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(version.String())
		},
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
