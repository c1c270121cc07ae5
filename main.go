package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/alonu/alonu-client/internal/account"
	"github.com/alonu/alonu-client/internal/api"
	"github.com/alonu/alonu-client/internal/catalog"
	"github.com/alonu/alonu-client/internal/config"
	"github.com/alonu/alonu-client/internal/observe"
	"github.com/alonu/alonu-client/internal/storage"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configureLogging()

	logBuildInfo()

	err := run(context.Background(), os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func run(ctx context.Context, args []string) error {
	// a local .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("configuration load failed: %w", err)
	}

	shutdownTelemetry, err := observe.Configure(ctx, cfg.Observe, cfg.App)
	if err != nil {
		return fmt.Errorf("telemetry bootstrap failed: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(ctx); err != nil {
			log.Warn().Err(err).Msg("telemetry: shutdown failed")
		}
	}()

	httpClient := &http.Client{
		Transport: observe.HTTPTransport(configureHTTPTransport(cfg.API), cfg.Observe),
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("state storage unavailable: %w", err)
	}

	tokens := api.NewTokenSource(cfg.Auth, cfg.API.BaseURL, store, api.WithTokenHTTPClient(httpClient))
	client := api.NewClient(cfg.API, tokens, api.WithHTTPClient(httpClient))

	app := &app{
		cfg:   cfg,
		store: store,
		auth:  account.NewAuthAPI(client, store),
		categories: catalog.NewCategoryService(
			catalog.NewCategoryAPI(client),
			store,
			cfg.Auth.PublicBearerToken,
			time.Duration(cfg.Cache.CategoryTTLMinutes)*time.Minute,
			time.Duration(cfg.Cache.CategoryPersistTTLMinutes)*time.Minute,
		),
		artisans: catalog.NewArtisanService(
			catalog.NewArtisanAPI(client),
			time.Duration(cfg.Cache.ArtisanTTLMinutes)*time.Minute,
		),
		admin: catalog.NewArtisanAdminAPI(client),
	}

	return app.dispatch(ctx, args)
}

type app struct {
	cfg        config.Config
	store      *storage.Store
	auth       *account.AuthAPI
	categories *catalog.CategoryService
	artisans   *catalog.ArtisanService
	admin      *catalog.ArtisanAdminAPI
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage()
	}

	switch args[0] {
	case "categories":
		return a.printJSON(a.categories.GetAllCategories(ctx))

	case "subcategories":
		if len(args) < 2 {
			return fmt.Errorf("usage: subcategories <category-id>")
		}
		return a.printJSON(a.categories.SubcategoriesWithIDsByCategory(ctx, args[1]))

	case "artisans":
		return a.printJSON(catalog.MapArtisans(a.artisans.GetAll(ctx)))

	case "artisan":
		if len(args) < 2 {
			return fmt.Errorf("usage: artisan <id>")
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("artisan id must be numeric: %w", err)
		}
		artisan, ok := a.artisans.ByID(ctx, id)
		if !ok {
			return fmt.Errorf("artisan %d not found", id)
		}
		return a.printJSON(catalog.MapArtisan(artisan))

	case "search":
		if len(args) < 2 {
			return fmt.Errorf("usage: search <query>")
		}
		return a.printJSON(catalog.MapArtisans(a.artisans.Search(ctx, strings.Join(args[1:], " "))))

	case "check-username":
		if len(args) < 2 {
			return fmt.Errorf("usage: check-username <username>")
		}
		fmt.Println(a.auth.CheckUsername(ctx, args[1]))
		return nil

	case "clear-cache":
		a.categories.ClearCache()
		a.artisans.ClearCache()
		log.Info().Msg("caches cleared")
		return nil

	default:
		return a.usage()
	}
}

func (a *app) usage() error {
	return fmt.Errorf("usage: %s categories | subcategories <id> | artisans | artisan <id> | search <query> | check-username <u> | clear-cache", a.cfg.App.Name)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func configureLogging() {
	// The global floor stays wide open; each logger picks its own level.
	zerolog.SetGlobalLevel(zerolog.Level(-128))

	log.Logger = log.Level(zerolog.InfoLevel)
	if os.Getenv("ENV") == "development" {
		// human-readable output plus the request-pipeline debug lines
		log.Logger = log.
			Output(zerolog.ConsoleWriter{Out: os.Stdout}).
			Level(zerolog.DebugLevel)
	}

	zerolog.DefaultContextLogger = &log.Logger
}

func logBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	ev := log.Info().Str("go", info.GoVersion)
	for _, s := range info.Settings {
		if strings.HasPrefix(s.Key, "vcs.") || s.Key == "GOOS" || s.Key == "GOARCH" {
			ev = ev.Str(s.Key, s.Value)
		}
	}
	ev.Msg("build information")
}

// configureHTTPTransport sizes the shared connection pool; every request
// targets the same backend host.
func configureHTTPTransport(cfg config.APIConfig) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = cfg.OutgoingHTTPMaxIdleConns
	t.MaxConnsPerHost = cfg.OutgoingHTTPMaxConnsPerHost
	return t
}
