package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/videocatcher/videocatcher/color"
	"github.com/videocatcher/videocatcher/constant"
	"github.com/videocatcher/videocatcher/style"
)

// Field is a registered setting. Value holds the default and fixes the type.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Env is the variable that overrides the field, e.g. VIDEOCATCHER_SERVER_ADDR.
func (f *Field) Env() string {
	return strings.ToUpper(constant.App + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Type names the kind of the default value.
func (f *Field) Type() string {
	if f.Value == nil {
		return "unknown"
	}
	return reflect.TypeOf(f.Value).String()
}

// Pretty describes the field for the terminal, with its current value.
func (f *Field) Pretty() string {
	label := style.Fg(color.Blue)
	rows := [][2]string{
		{"Key", style.Fg(color.Purple)(f.Key)},
		{"Env", f.Env()},
		{"Value", highlight(viper.Get(f.Key))},
		{"Default", highlight(f.Value)},
		{"Type", f.Type()},
	}

	lines := []string{style.Faint(f.Description)}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("%s %s", label(fmt.Sprintf("%-8s", row[0]+":")), row[1]))
	}
	return strings.Join(lines, "\n")
}

func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		return style.Fg(color.Outcome(value))(fmt.Sprint(value))
	case string:
		return style.Fg(color.Yellow)(lo.Ternary(value == "", `""`, value))
	default:
		return fmt.Sprint(value)
	}
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"key":         f.Key,
		"env":         f.Env(),
		"value":       viper.Get(f.Key),
		"default":     f.Value,
		"description": f.Description,
		"type":        f.Type(),
	})
}
