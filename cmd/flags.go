package cmd

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func logLevelFlag(v *viper.Viper) string {
	return v.GetString("log.level")
}

func addLogLevelFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-level", "info", "log level")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindEnv("log.level", "LOG_LEVEL")
}

func logFormatFlag(v *viper.Viper) string {
	return v.GetString("log.format")
}

func addLogFormatFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("log-format", "json", "log format")
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindEnv("log.format", "LOG_FORMAT")
}

func bucketFlag(v *viper.Viper) string {
	return v.GetString("bucket")
}

func addBucketFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("bucket", "", "Bucket URL (supported schemes: gs://, s3://, azblob://, file://)")
	_ = v.BindPFlag("bucket", flags.Lookup("bucket"))
	_ = v.BindEnv("bucket", "SNAPSTORE_BUCKET")
}

func prefixFlag(v *viper.Viper) string {
	return v.GetString("prefix")
}

func addPrefixFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("prefix", "snapshots/", "Bucket prefix the snapshots live under, must end with /")
	_ = v.BindPFlag("prefix", flags.Lookup("prefix"))
	_ = v.BindEnv("prefix", "SNAPSTORE_PREFIX")
}

func runtimeVersionFlag(v *viper.Viper) string {
	return v.GetString("runtime_version")
}

func addRuntimeVersionFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.String("runtime-version", "", "Current runtime version (10 digit, zero padded)")
	_ = v.BindPFlag("runtime_version", flags.Lookup("runtime-version"))
	_ = v.BindEnv("runtime_version", "SNAPSTORE_RUNTIME_VERSION")
}

func keepVersionsFlag(v *viper.Viper) uint64 {
	return v.GetUint64("keep_versions")
}

func addKeepVersionsFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Uint64("keep-versions", 2, "Number of versions below the current one to retain")
	_ = v.BindPFlag("keep_versions", flags.Lookup("keep-versions"))
	_ = v.BindEnv("keep_versions", "SNAPSTORE_KEEP_VERSIONS")
}

func minAgeFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("min_age")
}

func addMinAgeFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("min-age", 0, "Only collect snapshots older than this, 0 collects regardless of age")
	_ = v.BindPFlag("min_age", flags.Lookup("min-age"))
	_ = v.BindEnv("min_age", "SNAPSTORE_MIN_AGE")
}

func intervalFlag(v *viper.Viper) time.Duration {
	return v.GetDuration("interval")
}

func addIntervalFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Duration("interval", 0, "Run periodically at this interval instead of once")
	_ = v.BindPFlag("interval", flags.Lookup("interval"))
	_ = v.BindEnv("interval", "SNAPSTORE_INTERVAL")
}

func concurrencyFlag(v *viper.Viper) int {
	return v.GetInt("concurrency")
}

func addConcurrencyFlag(flags *pflag.FlagSet, v *viper.Viper) {
	flags.Int("concurrency", 1, "Maximum number of in-flight deletions")
	_ = v.BindPFlag("concurrency", flags.Lookup("concurrency"))
	_ = v.BindEnv("concurrency", "SNAPSTORE_CONCURRENCY")
}
