// Package icon prefixes CLI status lines with a symbol in the user's preferred variant.
package icon

import (
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/key"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

var variants = []string{emoji, nerd, plain, kaomoji, squares}

// AvailableVariants lists the accepted values of the icons setting.
func AvailableVariants() []string {
	return append([]string(nil), variants...)
}

type glyphs [5]string

// Get renders i in the configured variant, or returns an empty string when icons are off.
func Get(i Icon) string {
	column := lo.IndexOf(variants, viper.GetString(key.IconsVariant))
	if column < 0 {
		return ""
	}
	return icons[i][column]
}
