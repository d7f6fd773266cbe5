package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix 是所有环境变量覆盖的前缀，例如 FINGRAPH_APP_HTTP_ADDR。
const EnvPrefix = "FINGRAPH"

// api.base_url 额外接受的旧变量名，优先级低于 FINGRAPH_API_BASE_URL。
const legacyBaseURLEnv = "FINGRAPH_API_URL"

// Load reads the YAML file at path (following include chains), applies
// environment overrides and defaults, then validates. An empty path yields
// the defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if strings.TrimSpace(path) != "" {
		layers, err := readIncludeChain(path)
		if err != nil {
			return nil, err
		}
		for _, layer := range layers {
			if err := v.MergeConfigMap(layer); err != nil {
				return nil, fmt.Errorf("merging config failed: %w", err)
			}
		}
	}
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("binding env failed: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.applyDefaults(explicitKeys(v))
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindEnv 为每个已知配置项绑定 FINGRAPH_<SECTION>_<KEY>。AutomaticEnv 只影响
// Get，Unmarshal 只能看到显式绑定过的 key。
func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range settingKeys(reflect.TypeOf(Config{}), "") {
		args := []string{key}
		if key == "api.base_url" {
			args = append(args, EnvPrefix+"_API_BASE_URL", legacyBaseURLEnv)
		}
		if err := v.BindEnv(args...); err != nil {
			return err
		}
	}
	return nil
}

// settingKeys lists the dotted keys of every leaf field, following toml tags.
func settingKeys(t reflect.Type, prefix string) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.Split(f.Tag.Get("toml"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		if f.Type.Kind() == reflect.Struct {
			keys = append(keys, settingKeys(f.Type, name)...)
			continue
		}
		keys = append(keys, name)
	}
	return keys
}

// explicitKeys 收集文件或环境变量中显式给出的 key；默认值不会覆盖它们。
func explicitKeys(v *viper.Viper) keySet {
	keys := make(keySet)
	for _, k := range v.AllKeys() {
		if v.IsSet(k) {
			keys.mark(k)
		}
	}
	return keys
}

// readIncludeChain returns the settings of path and everything it includes,
// in merge order: includes first, depth first, each file once.
func readIncludeChain(path string) ([]map[string]any, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &includeWalker{seen: make(map[string]bool), active: make(map[string]bool)}
	if err := w.visit(abs); err != nil {
		return nil, err
	}
	return w.layers, nil
}

type includeWalker struct {
	seen   map[string]bool
	active map[string]bool
	layers []map[string]any
}

func (w *includeWalker) visit(path string) error {
	path = filepath.Clean(path)
	if w.active[path] {
		return fmt.Errorf("include cycle detected: %s", path)
	}
	if w.seen[path] {
		return nil
	}
	w.active[path] = true

	file := viper.New()
	file.SetConfigFile(path)
	if err := file.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	for _, inc := range file.GetStringSlice("include") {
		inc = strings.TrimSpace(inc)
		if inc == "" {
			continue
		}
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(filepath.Dir(path), inc)
		}
		if err := w.visit(inc); err != nil {
			return err
		}
	}

	delete(w.active, path)
	w.seen[path] = true
	w.layers = append(w.layers, file.AllSettings())
	return nil
}
