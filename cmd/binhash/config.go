package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Giulio2002/binhash"
)

// loadConfig layers flags over BINHASH_* environment variables over the
// optional config file.
func loadConfig(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.Wrap(err, "binding flags")
	}
	v.SetEnvPrefix("binhash")
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "reading config")
		}
	}
	return v, nil
}

func keyFromConfig(v *viper.Viper) (binhash.Key, error) {
	text := v.GetString("key")
	if text == "" {
		return binhash.Key{}, errors.New("no key configured: use --key, BINHASH_KEY or a config file")
	}
	var key binhash.Key
	if err := key.UnmarshalText([]byte(text)); err != nil {
		return binhash.Key{}, errors.Wrap(err, "parsing key")
	}
	return key, nil
}
