package state

// GlobalOptions contains global config values that apply for all steplog sub-commands.
type GlobalOptions struct {
	Quiet   bool
	NoColor bool
	Verbose bool
}

// GetDefaultGlobalOptions returns the default global flags.
func GetDefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{}
}

func consolidateGlobalFlags(defaultFlags GlobalOptions, env map[string]string) GlobalOptions {
	result := defaultFlags

	if env["STEPLOG_NO_COLOR"] != "" {
		result.NoColor = true
	}
	// Support https://no-color.org/, even an empty value should disable the
	// color output from steplog.
	if _, ok := env["NO_COLOR"]; ok {
		result.NoColor = true
	}
	if env["STEPLOG_VERBOSE"] != "" {
		result.Verbose = true
	}
	return result
}
