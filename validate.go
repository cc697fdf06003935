package agentconf

// isFullySet reports whether every leaf of cfg is set.
// The chain stops consulting lower-priority providers once this holds.
func isFullySet(cfg *Config) bool {
	for _, f := range fields {
		if _, ok := f.value(cfg); !ok {
			return false
		}
	}
	return true
}

// mandatoryFieldsPresent reports whether reporting is disabled (or unset),
// or both server hostname and access token are set.
func mandatoryFieldsPresent(cfg *Config) bool {
	return len(validateMandatory(cfg)) == 0
}

// validateMandatory returns one FieldError per missing mandatory field.
// The project key is not mandatory.
func validateMandatory(cfg *Config) []FieldError {
	if !cfg.ReportingEnabled.OrDefault(false) {
		return nil
	}

	var errors []FieldError
	if !cfg.Server.Hostname.Set {
		errors = append(errors, FieldError{
			FieldPath: "Server.Hostname",
			Code:      ErrCodeRequired,
			Message:   "server hostname is required when reporting is enabled",
		})
	}
	if !cfg.Server.AccessToken.Set {
		errors = append(errors, FieldError{
			FieldPath: "Server.AccessToken",
			Code:      ErrCodeRequired,
			Message:   "server access token is required when reporting is enabled",
		})
	}
	return errors
}
