// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration. The dipsearch defaults follow
// the original lcps tool: a ten sample window stepped one sample at a time,
// two neighbor windows per side and a half percent detection threshold.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "lcps-go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "lcps.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)

	viper.SetDefault("dipsearch.winsize", 10)
	viper.SetDefault("dipsearch.stepsize", 1)
	viper.SetDefault("dipsearch.nneighb", 2)
	viper.SetDefault("dipsearch.mindur", 2)
	viper.SetDefault("dipsearch.maxdur", 5)
	viper.SetDefault("dipsearch.detectionthresh", 0.995)
	viper.SetDefault("dipsearch.minvalidfraction", 0.5)
	viper.SetDefault("dipsearch.minneighborsamples", 3)
	viper.SetDefault("dipsearch.threads", 0)

	viper.SetDefault("output.log.enabled", true)
	viper.SetDefault("output.log.path", "dips.log")

	viper.SetDefault("output.sqlite.enabled", false)
	viper.SetDefault("output.sqlite.path", "dips.db")

	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "lcps")
	viper.SetDefault("output.mysql.password", "secret")
	viper.SetDefault("output.mysql.database", "lcps")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")

	viper.SetDefault("output.telemetry.enabled", false)
	viper.SetDefault("output.telemetry.listen", "0.0.0.0:8090")
}
