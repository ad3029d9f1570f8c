package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/cvbridge/recruit/internal/ingest/db"
	"github.com/cvbridge/recruit/internal/ingest/dedupe"
	"github.com/cvbridge/recruit/internal/ingest/events"
	"github.com/cvbridge/recruit/internal/ingest/importer"
	"github.com/cvbridge/recruit/internal/ingest/merge"
	"github.com/cvbridge/recruit/internal/ingest/normalize"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config struct for YAML configuration
type Config struct {
	DBHost             string   `yaml:"DB_HOST"`
	DBPort             int      `yaml:"DB_PORT"`
	DBUser             string   `yaml:"DB_USER"`
	DBPassword         string   `yaml:"DB_PASSWORD"`
	DBName             string   `yaml:"DB_NAME"`
	DBSSLMode          string   `yaml:"DB_SSLMODE"`
	KafkaBrokers       []string `yaml:"KAFKA_BROKERS"`
	Topic              string   `yaml:"TOPIC"`
	DictionaryPath     string   `yaml:"DICTIONARY_PATH"`
	DuplicateThreshold float64  `yaml:"DUPLICATE_THRESHOLD"`
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	configPath := flag.String("config", "config/config.yaml", "path to YAML configuration")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := connectDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer repo.Close()

	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	splitter := newSplitter(cfg, logger)

	ctx := context.Background()
	switch flag.Arg(0) {
	case "import":
		runImport(ctx, cfg, repo, producer, splitter, logger, flag.Args()[1:])
	case "duplicates":
		runDuplicates(ctx, cfg, repo, logger, flag.Args()[1:])
	case "merge-candidates", "merge-companies":
		runMerge(ctx, flag.Arg(0), repo, producer, logger, flag.Args()[1:])
	default:
		fmt.Fprintln(os.Stderr, "usage: recruit [-config path] {import|duplicates|merge-candidates|merge-companies} ...")
		os.Exit(2)
	}
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

func loadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}
	if cfg.DuplicateThreshold == 0 {
		cfg.DuplicateThreshold = 0.85
	}
	return &cfg, nil
}

// connectDatabase retries the initial connection so the binary
// survives a database that is still coming up.
func connectDatabase(cfg *Config) (*db.Repository, error) {
	dbConf := &db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}

	var repo *db.Repository
	err := backoff.Retry(func() error {
		var err error
		repo, err = db.NewRepository(dbConf)
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	return repo, err
}

func newSplitter(cfg *Config, logger *zap.Logger) *normalize.Splitter {
	if cfg.DictionaryPath != "" {
		return normalize.NewSplitterFromFile(cfg.DictionaryPath, logger)
	}
	return normalize.NewSplitter(logger)
}

func runImport(ctx context.Context, cfg *Config, repo *db.Repository, producer *events.Producer, splitter *normalize.Splitter, logger *zap.Logger, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	format := fs.String("format", "", "import format: enhanced, simple or prounity")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: recruit import -format {enhanced|simple|prounity} <file>")
		os.Exit(2)
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		logger.Fatal("failed to read import file", zap.Error(err))
	}

	imp := importer.New(repo, producer, splitter, logger)

	var result *importer.Result
	switch *format {
	case "enhanced":
		result, err = imp.ImportEnhancedCSV(ctx, data)
	case "simple":
		result, err = imp.ImportSimpleCSV(ctx, data)
	case "prounity":
		result, err = imp.ImportProUnity(ctx, data)
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q\n", *format)
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	printReport(result)
	if !result.OK() {
		os.Exit(1)
	}
}

func printReport(result *importer.Result) {
	fmt.Printf("imported: %d  skipped: %d  failed: %d\n",
		result.Success, result.Skipped, result.Failed())
	for _, recErr := range result.Errors {
		fmt.Printf("  %s\n", recErr)
	}
}

func runDuplicates(ctx context.Context, cfg *Config, repo *db.Repository, logger *zap.Logger, args []string) {
	fs := flag.NewFlagSet("duplicates", flag.ExitOnError)
	threshold := fs.Float64("threshold", cfg.DuplicateThreshold, "similarity threshold in [0,1]")
	_ = fs.Parse(args)

	detector := dedupe.NewDetector(repo, logger)
	pairs, err := detector.FindDuplicates(ctx, *threshold)
	if err != nil {
		logger.Fatal("duplicate detection failed", zap.Error(err))
	}

	for _, pair := range pairs {
		fmt.Printf("%.0f%%  %-30s  %-30s  %s\n",
			pair.Similarity*100,
			pair.Candidate1.FullName(),
			pair.Candidate2.FullName(),
			pair.Reason,
		)
	}
}

func runMerge(ctx context.Context, command string, repo *db.Repository, producer *events.Producer, logger *zap.Logger, args []string) {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	target := fs.String("target", "", "target entity id")
	sources := fs.String("sources", "", "comma-separated source entity ids")
	notes := fs.String("notes", "", "consolidated notes for the target")
	_ = fs.Parse(args)

	targetID, err := uuid.Parse(*target)
	if err != nil {
		logger.Fatal("invalid target id", zap.Error(err))
	}
	var sourceIDs []uuid.UUID
	for _, raw := range strings.Split(*sources, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			logger.Fatal("invalid source id", zap.String("id", raw), zap.Error(err))
		}
		sourceIDs = append(sourceIDs, id)
	}
	if len(sourceIDs) == 0 {
		fmt.Fprintln(os.Stderr, "at least one source id is required")
		os.Exit(2)
	}

	coordinator := merge.NewCoordinator(repo, producer, logger)
	if command == "merge-candidates" {
		target, err := coordinator.MergeCandidates(ctx, targetID, sourceIDs, *notes)
		if err != nil {
			logger.Fatal("merge failed", zap.Error(err))
		}
		fmt.Printf("merged %d candidates into %s\n", len(sourceIDs), target.FullName())
		return
	}
	target2, err := coordinator.MergeCompanies(ctx, targetID, sourceIDs, *notes)
	if err != nil {
		logger.Fatal("merge failed", zap.Error(err))
	}
	fmt.Printf("merged %d companies into %s\n", len(sourceIDs), target2.Name)
}
