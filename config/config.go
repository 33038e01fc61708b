// Package config registers settings with viper and loads them from defaults, the config file and the environment.
package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/constant"
	"github.com/videocatcher/videocatcher/filesystem"
	"github.com/videocatcher/videocatcher/where"
)

// EnvKeyReplacer maps a viper key to its environment suffix.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// DotEnv is read from the working directory, if present, before anything else.
var DotEnv = ".env"

// Setup loads settings. Precedence, highest first: environment, config file, defaults.
func Setup() error {
	if err := godotenv.Load(DotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	viper.SetFs(filesystem.API())
	viper.SetConfigName(constant.App)
	viper.SetConfigType("toml")
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	viper.SetTypeByDefaultValue(true)

	for name, field := range Default {
		viper.SetDefault(name, field.Value)
		viper.MustBindEnv(name)
	}

	err := viper.ReadInConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return nil
	}
	return err
}
