package config

import (
	"github.com/spf13/pflag"
	null "gopkg.in/guregu/null.v3"
)

// Flag names understood by FromFlags.
const (
	FlagConfig            = "config"
	FlagChainLocatorNames = "chain-locator-names"
	FlagLogLevel          = "log-level"
	FlagLogFormat         = "log-format"
	FlagLogOutput         = "log-output"
	FlagExpectTimeout     = "expect-timeout"
	FlagTracesOutput      = "traces-output"
	FlagBrowserURL        = "browser-url"
	FlagHeadless          = "headless"
	FlagBrowserBin        = "browser-bin"
	FlagBaseURL           = "base-url"
)

// FlagSet returns the flags that override config options. The defaults
// shown in the help text are the ones of NewConfig.
func FlagSet() *pflag.FlagSet {
	defaults := NewConfig()

	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringP(FlagConfig, "c", "", "rule file in YAML or JSON format")
	flags.Bool(FlagChainLocatorNames, defaults.ChainLocatorNames.Bool,
		"compose the names of derived locators from their parent's name")
	flags.String(FlagLogLevel, defaults.LogLevel.String, "log level")
	flags.String(FlagLogFormat, defaults.LogFormat.String, "log output format: text, json or raw")
	flags.String(FlagLogOutput, "", "additional log output, e.g. `file=./steps.log,level=info`")
	flags.String(FlagExpectTimeout, defaults.ExpectTimeout.String, "how long built-in matchers retry")
	flags.String(FlagTracesOutput, defaults.TracesOutput.String,
		"where steps are exported as spans, `none` or `otel[=endpoint,proto=http|grpc,header.Name=value]`")
	flags.String(FlagBrowserURL, "", "DevTools websocket URL of a running browser")
	flags.Bool(FlagHeadless, defaults.Browser.Headless.Bool, "run a launched browser without a window")
	flags.String(FlagBrowserBin, "", "browser executable to launch")
	flags.String(FlagBaseURL, "", "base URL of the API request context")
	return flags
}

// FromFlags returns the options that were explicitly set on flags. Flags
// missing from the set are left unset.
func FromFlags(flags *pflag.FlagSet) Config {
	return Config{
		ChainLocatorNames: getNullBool(flags, FlagChainLocatorNames),
		LogLevel:          getNullString(flags, FlagLogLevel),
		LogFormat:         getNullString(flags, FlagLogFormat),
		LogOutput:         getNullString(flags, FlagLogOutput),
		ExpectTimeout:     getNullString(flags, FlagExpectTimeout),
		TracesOutput:      getNullString(flags, FlagTracesOutput),
		Browser: Browser{
			WSURL:    getNullString(flags, FlagBrowserURL),
			Headless: getNullBool(flags, FlagHeadless),
			Bin:      getNullString(flags, FlagBrowserBin),
		},
		Request: Request{
			BaseURL: getNullString(flags, FlagBaseURL),
		},
	}
}

func getNullBool(flags *pflag.FlagSet, key string) null.Bool {
	if flags.Lookup(key) == nil {
		return null.Bool{}
	}
	v, err := flags.GetBool(key)
	if err != nil {
		panic(err)
	}
	return null.NewBool(v, flags.Changed(key))
}

func getNullString(flags *pflag.FlagSet, key string) null.String {
	if flags.Lookup(key) == nil {
		return null.String{}
	}
	v, err := flags.GetString(key)
	if err != nil {
		panic(err)
	}
	return null.NewString(v, flags.Changed(key))
}
