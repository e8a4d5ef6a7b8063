// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "audiofp")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "audiofp.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)
	viper.SetDefault("main.log.rotationday", "Sunday")

	viper.SetDefault("dirs.sourceroot", "")
	viper.SetDefault("dirs.mixroot", "")
	viper.SetDefault("dirs.bgroot", "")
	viper.SetDefault("dirs.irroot", "")
	viper.SetDefault("dirs.speechroot", "")

	viper.SetDefault("datasel.train", "10k_icassp")
	viper.SetDefault("datasel.testdummydb", "10k_full")
	viper.SetDefault("datasel.testquerydb", "unseen_icassp")

	viper.SetDefault("batch.train.batchsize", 120)
	viper.SetDefault("batch.train.nanchor", 60)
	viper.SetDefault("batch.val.batchsize", 120)
	viper.SetDefault("batch.val.nanchor", 60)
	viper.SetDefault("batch.test.batchsize", 125)

	viper.SetDefault("model.duration", 1.0)
	viper.SetDefault("model.hop", 0.5)
	viper.SetDefault("model.samplerate", 8000)

	viper.SetDefault("tdaug.train.background", true)
	viper.SetDefault("tdaug.train.impulseresponse", true)
	viper.SetDefault("tdaug.train.speech", false)
	viper.SetDefault("tdaug.train.snr.min", 0)
	viper.SetDefault("tdaug.train.snr.max", 10)

	viper.SetDefault("tdaug.test.background", true)
	viper.SetDefault("tdaug.test.impulseresponse", true)
	viper.SetDefault("tdaug.test.speech", false)
	viper.SetDefault("tdaug.test.snr.min", 0)
	viper.SetDefault("tdaug.test.snr.max", 10)

	viper.SetDefault("tdaug.val.background", true)
	viper.SetDefault("tdaug.val.impulseresponse", true)
	viper.SetDefault("tdaug.val.speech", false)
	viper.SetDefault("tdaug.val.snr.min", 0)
	viper.SetDefault("tdaug.val.snr.max", 10)
}
