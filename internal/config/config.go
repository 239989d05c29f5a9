package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "TIMESTUDY_"

type Application struct {
	Host     string   `koanf:"host"`
	Http     Http     `koanf:"http"`
	Database Database `koanf:"db"`
	Study    Study    `koanf:"study"`
	Kafka    Kafka    `koanf:"kafka"`
	Metrics  Metrics  `koanf:"metrics"`
}

type Http struct {
	Addr string `koanf:"addr"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Study struct {
	Ticker Ticker `koanf:"ticker"`
}

// Ticker controls the background refresh of live KPI gauges.
type Ticker struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

type Kafka struct {
	Enabled bool     `koanf:"enabled"`
	Brokers []string `koanf:"brokers"`
	Topics  Topics   `koanf:"topics"`
}

type Topics struct {
	Digest      string `koanf:"digest"`
	Transitions string `koanf:"transitions"`
}

type Metrics struct {
	Enabled bool `koanf:"enabled"`
}

func defaults() Application {
	return Application{
		Host: "http://localhost:8181",
		Http: Http{
			Addr: ":8181",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "timestudy",
			Pass:   "",
			Name:   "timestudy",
			Schema: "timestudy",
		},
		Study: Study{
			Ticker: Ticker{
				Enabled:  true,
				Interval: time.Second,
			},
		},
		Kafka: Kafka{
			Enabled: false,
			Brokers: []string{"localhost:9092"},
			Topics: Topics{
				Digest:      "timestudy.digest",
				Transitions: "timestudy.transitions",
			},
		},
		Metrics: Metrics{
			Enabled: true,
		},
	}
}

// Load reads struct defaults, then the optional YAML file at path, then TIMESTUDY_ environment
// variables. Variables from an optional .env file in the working directory are exported first.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Errorf("error loading .env file: %v", err)
			return Application{}, err
		}
	} else {
		log.Info("Loaded environment from .env file")
	}

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			if k == "kafka.brokers" {
				return k, strings.Split(v, ",")
			}
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
