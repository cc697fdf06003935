// Package providerfile reads agent configuration from YAML, JSON, or TOML files.
//
// Format is auto-detected from extension (.yaml, .yml, .json, .toml). Settings
// live under a "reporting" root:
//
//	reporting:
//	  enabled: true
//	  project-key: WEB
//	  server:
//	    hostname: https://reporting.example.com
//	    access-token: secret
//	  run:
//	    display-name: Nightly
//	    test-case-status:
//	      on-pass: Passed
//	  notification:
//	    slack-channels: [qa, dev]
//	  milestone:
//	    id: 17
//
// Key matching ignores case, hyphens and underscores, so access-token,
// access_token and accessToken are equivalent.
package providerfile
