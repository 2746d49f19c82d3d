package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "siapkit/internal/platform/errors"
)

const (
	DefaultConfigPath = "siapkit.yaml"
	DefaultEnvFile    = ".env"
)

type Config struct {
	PortalURL    string         `yaml:"portal_url"`
	Wait         time.Duration  `yaml:"wait"`
	ClickDDLEixo bool           `yaml:"click_ddl_eixo"`
	Browser      BrowserConfig  `yaml:"browser"`
	Tree         TreeConfig     `yaml:"tree"`
	Lesson       LessonConfig   `yaml:"lesson"`
	Journal      JournalConfig  `yaml:"journal"`
	Receipts     ReceiptsConfig `yaml:"receipts"`

	Login    string `yaml:"-"`
	Password string `yaml:"-"`
}

type BrowserConfig struct {
	Headless   bool     `yaml:"headless"`
	Strategies []string `yaml:"strategies"`
}

// TreeConfig holds the curriculum choices applied to the lesson tree widget.
type TreeConfig struct {
	PerGroup           int      `yaml:"per_group"`
	PenultimatePhrases []string `yaml:"penultimate_phrases"`
	LastPhrases        []string `yaml:"last_phrases"`
}

type LessonConfig struct {
	MaxPerClass int `yaml:"max_per_class"`
}

type JournalConfig struct {
	Path string `yaml:"path"`
}

type ReceiptsConfig struct {
	Input     string `yaml:"input"`
	Template  string `yaml:"template"`
	OutputDir string `yaml:"output_dir"`
	Overlay   string `yaml:"overlay"`
	Encoding  string `yaml:"encoding"`
}

// Override returns r with every non-empty field of with applied on top.
func (r ReceiptsConfig) Override(with ReceiptsConfig) (ReceiptsConfig, error) {
	out := with
	if err := mergo.Merge(&out, r); err != nil {
		return r, fmt.Errorf("merge receipts overrides: %w", err)
	}
	return out, nil
}

type Options struct {
	Path string
	// Explicit makes a missing config file an error instead of falling back to defaults.
	Explicit bool
	EnvFile  string
	Getenv   func(string) string
}

func Defaults() Config {
	return Config{
		PortalURL: "https://siap.educacao.go.gov.br/login.aspx?ReturnUrl=%2fdefault.aspx",
		Wait:      25 * time.Second,
		Browser: BrowserConfig{
			Strategies: []string{"system", "managed", "playwright"},
		},
		Tree: TreeConfig{
			PerGroup: 3,
			PenultimatePhrases: []string{
				"Aula expositiva e produção de texto individual sobre o conteúdo proposto",
				"Resolução de situações-problemas de temática trabalhada",
			},
			LastPhrases: []string{
				"Resolução escrita da atividade individualmente e por alguns alunos no quadro",
			},
		},
		Lesson:  LessonConfig{MaxPerClass: 200},
		Journal: JournalConfig{Path: ".siapkit/journal.db"},
		Receipts: ReceiptsConfig{
			Input:     "dados_aluno.csv",
			Template:  "modelo_pdf.pdf",
			OutputDir: "PDFs_Gerados",
			Overlay:   "temp.pdf",
			Encoding:  "utf-8",
		},
	}
}

// New decodes the YAML file over Defaults, so keys present in the file win
// even when they hold zero values.
func New(opts Options) (Config, error) {
	cfg := Defaults()
	if opts.Path != "" {
		raw, err := os.ReadFile(opts.Path)
		switch {
		case err == nil:
			decoder := yaml.NewDecoder(bytes.NewReader(raw))
			decoder.KnownFields(true)
			if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
				return Config{}, fmt.Errorf("decode config %s: %w", opts.Path, err)
			}
		case os.IsNotExist(err) && !opts.Explicit:
		default:
			return Config{}, fmt.Errorf("read config %s: %w", opts.Path, err)
		}
	}

	getenv, err := envLookup(opts)
	if err != nil {
		return Config{}, err
	}
	cfg.Login = strings.TrimSpace(getenv("SIAP_LOGIN"))
	cfg.Password = strings.TrimSpace(getenv("SIAP_SENHA"))
	if raw := getenv("CLICK_DDL_EIXO"); raw != "" {
		cfg.ClickDDLEixo = ParseToggle(raw)
	}
	if cfg.Tree.PerGroup < 0 {
		return Config{}, fmt.Errorf("tree.per_group must be non-negative: %w", apperrors.ErrInvalidInput)
	}
	return cfg, nil
}

// envLookup layers the process environment over the optional dotenv file.
func envLookup(opts Options) (func(string) string, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if opts.EnvFile == "" {
		return getenv, nil
	}
	fileEnv, err := godotenv.Read(opts.EnvFile)
	if err != nil {
		if os.IsNotExist(err) {
			return getenv, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", opts.EnvFile, err)
	}
	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fileEnv[key]
	}, nil
}

func ParseToggle(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

func (c Config) RequireCredentials() error {
	if c.Login == "" || c.Password == "" {
		return fmt.Errorf("SIAP_LOGIN and SIAP_SENHA must be set: %w", apperrors.ErrInvalidInput)
	}
	return nil
}

func (c Config) String() string {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	login := "unset"
	if c.Login != "" {
		login = "set"
	}
	password := "unset"
	if c.Password != "" {
		password = "set"
	}
	return fmt.Sprintf("%ssiap_login: %s\nsiap_senha: %s\n", raw, login, password)
}
