// Package providerenv reads agent configuration from REPORTING_* environment variables
// or from a dotenv file holding the same variables.
//
// Booleans accept "true" or "false" in any case; other values make the provider malformed.
//
// Example:
//
//	env := providerenv.New(providerenv.Options{})
//	dotenv := providerenv.NewDotenv(".env", providerenv.DotenvOptions{})
//	chain, err := agentconf.NewChain([]agentconf.Provider{env, dotenv})
package providerenv
