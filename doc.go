// Package agentconf assembles the test-reporting agent configuration from ranked providers.
//
// Quick Start:
//
//	chain, err := agentconf.NewChain([]agentconf.Provider{
//	    providerenv.New(providerenv.Options{}),
//	    providerfile.New("agent.yaml", providerfile.Options{}),
//	}, agentconf.WithLogger(logger))
//
//	cfg, err := chain.Load(context.Background())
//
// Providers are consulted highest priority first. The first non-blank value
// for a field wins, except notification channels where the last non-empty
// value wins. Loading stops early once every field is set. When reporting is
// enabled, server hostname and access token are mandatory.
//
// See example_test.go for detailed usage.
package agentconf
