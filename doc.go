// Package hopsworks provides a Go client for the Hopsworks feature store
// and model registry REST API.
//
// The SDK wraps three independent surfaces: OpenSearch connection
// configuration, feature group expectation suites, and the model registry.
// Each call is one synchronous request/response against the backend.
//
// # Connecting
//
//	client, _ := hopsworks.New(
//	    hopsworks.WithURL("https://demo.hopsworks.ai:443"),
//	    hopsworks.WithAPIKey(os.Getenv("HOPSWORKS_API_KEY")),
//	    hopsworks.WithProject("myproj", 119),
//	)
//
// # Model registry
//
//	models := client.Models(registryID)
//	best, _ := models.Best(ctx, "fraud", "accuracy", "max")
//	tags, _ := models.Tags(ctx, best)
//
// # Expectation suites
//
//	suite, _ := hopsworks.NewExpectationSuite("nightly", nil, nil)
//	attached, _ := client.FeatureGroup(fsID, fgID).SaveExpectationSuite(ctx, suite)
//	attached.AddExpectation(ctx, map[string]any{
//	    "expectationType": "expect_column_min_to_be_between",
//	    "kwargs":          map[string]any{"column": "amount", "min_value": 0},
//	})
package hopsworks
