// Package config 负责从 YAML 加载引擎配置，并提供 Pipeline Node 工厂。
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shopstream/prodrec/engine"
)

// File 是引擎配置文件的结构。
//
//	engine:
//	  alpha: 0.7
//	  pool_multiplier: 3
//	  cache_ttl: 1h
//	  default_n: 3
//	  max_n: 10
//	  filter_interacted: false
//	  filter_rules:
//	    - 'label.category == "discontinued"'
type File struct {
	Engine struct {
		Alpha            float64  `yaml:"alpha"`
		PoolMultiplier   int      `yaml:"pool_multiplier"`
		CacheTTL         string   `yaml:"cache_ttl"`
		DefaultN         int      `yaml:"default_n"`
		MaxN             int      `yaml:"max_n"`
		FilterInteracted bool     `yaml:"filter_interacted"`
		FilterRules      []string `yaml:"filter_rules"`
	} `yaml:"engine"`
}

// Load 从 YAML 文件加载引擎配置。未设置的字段由 engine 取默认。
func Load(path string) (engine.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Config{}, fmt.Errorf("read file: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 内容为引擎配置。
func Parse(data []byte) (engine.Config, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return engine.Config{}, fmt.Errorf("parse yaml: %w", err)
	}

	cfg := engine.Config{
		Alpha:            f.Engine.Alpha,
		PoolMultiplier:   f.Engine.PoolMultiplier,
		DefaultN:         f.Engine.DefaultN,
		MaxN:             f.Engine.MaxN,
		FilterInteracted: f.Engine.FilterInteracted,
		FilterRules:      f.Engine.FilterRules,
	}

	if f.Engine.CacheTTL != "" {
		ttl, err := time.ParseDuration(f.Engine.CacheTTL)
		if err != nil {
			return engine.Config{}, fmt.Errorf("parse cache_ttl: %w", err)
		}
		cfg.CacheTTL = ttl
	}

	return cfg, nil
}
