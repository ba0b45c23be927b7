package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers command-line overrides for cfg on fs. Flags that are
// not set on the command line leave the file or default values in place.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "Database path")
	fs.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "Timezone used for month buckets and zoneless timestamps")
	fs.IntVar(&cfg.Reliability.TotalCustomers, "total-customers", cfg.Reliability.TotalCustomers, "Customers served by the network")
	fs.Float64Var(&cfg.Reliability.AveragePowerPerCustomerKw, "avg-power-kw", cfg.Reliability.AveragePowerPerCustomerKw, "Average load per customer in kW")
	fs.StringVar(&cfg.Reliability.Estimation.Mode, "estimation", cfg.Reliability.Estimation.Mode, "Missing outage data policy: skip or fixed")
	fs.Float64Var(&cfg.Reliability.Estimation.DurationHours, "estimate-hours", cfg.Reliability.Estimation.DurationHours, "Outage hours assumed by the fixed policy")
	fs.IntVar(&cfg.Reliability.Estimation.AffectedCustomers, "estimate-customers", cfg.Reliability.Estimation.AffectedCustomers, "Affected customers assumed by the fixed policy")
}

// BindServerFlags registers the overrides that only apply to the HTTP service
func BindServerFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.Port, "port", cfg.Port, "Web server port")
	fs.StringVar(&cfg.UploadsDir, "uploads", cfg.UploadsDir, "Directory for uploaded spreadsheets")
	fs.BoolVar(&cfg.Snapshots.Enabled, "snapshots", cfg.Snapshots.Enabled, "Take periodic metrics snapshots")
	fs.DurationVar(&cfg.Snapshots.Interval, "snapshot-interval", cfg.Snapshots.Interval, "Metrics snapshot interval")
}
